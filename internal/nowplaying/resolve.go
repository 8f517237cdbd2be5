package nowplaying

// fallbackFactor widens the tail window used when the current title was
// never announced: limit*6 entries is generous enough to survive heavy
// re-announcement churn.
const fallbackFactor = 6

// ResolveUpcoming locates the last NEXT announcement matching the currently
// observed title and returns the deduplicated announcements that follow it.
// The backward scan matters: schedulers re-announce tracks, and anchoring to
// an earlier announcement of the same title would replay history instead of
// predicting the queue.
func ResolveUpcoming(currentTitleRaw string, entries []NextEntry, limit int) UpcomingResult {
	if limit <= 0 {
		limit = 10
	}
	if len(entries) == 0 {
		return UpcomingResult{Error: "no scheduler NEXT entries found", Upcoming: []NextEntry{}}
	}

	currentNorm := Normalize(currentTitleRaw)

	found := false
	start := 0
	if currentNorm != "" {
		for i := len(entries) - 1; i >= 0; i-- {
			if entries[i].TitleNorm == currentNorm {
				found = true
				start = i + 1
				break
			}
		}
	}

	var candidates []NextEntry
	source := SourceAfterCurrent
	if found {
		candidates = entries[start:]
	} else {
		source = SourceFallbackTail
		window := limit * fallbackFactor
		if window > len(entries) {
			window = len(entries)
		}
		candidates = entries[len(entries)-window:]
	}

	// Dedup by normalized title, first occurrence wins (including its
	// playlist tag). Unnormalizable titles are skipped outright.
	seen := make(map[string]bool, len(candidates))
	upcoming := make([]NextEntry, 0, limit)
	for _, e := range candidates {
		if e.TitleNorm == "" || seen[e.TitleNorm] {
			continue
		}
		seen[e.TitleNorm] = true
		upcoming = append(upcoming, e)
		if len(upcoming) >= limit {
			break
		}
	}

	return UpcomingResult{
		OK:                true,
		Source:            source,
		CurrentTitleFound: found,
		Upcoming:          upcoming,
	}
}
