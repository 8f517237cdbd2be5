package nowplaying

// Promotion is the outcome of the effective-now correction.
type Promotion struct {
	Promoted     bool
	EffectiveNow *NextEntry
	Upcoming     []NextEntry
}

// Promote corrects for the observed metadata source lagging the true current
// track by roughly one item: when the freshly-announced head of the upcoming
// queue differs from what Icecast reports, that head is assumed to already be
// playing and is shifted out of the queue.
//
// This is a heuristic, not a guarantee. It assumes the lag is exactly one
// track; a two-track lag, or metadata that is simply wrong rather than stale,
// triggers the same promotion and misfires identically. Preserved as-is.
func Promote(observedTitleRaw string, upcoming []NextEntry) Promotion {
	if len(upcoming) == 0 {
		return Promotion{Upcoming: upcoming}
	}
	observedNorm := Normalize(observedTitleRaw)
	firstNorm := upcoming[0].TitleNorm

	if observedNorm == "" || (firstNorm != "" && firstNorm != observedNorm) {
		head := upcoming[0]
		return Promotion{
			Promoted:     true,
			EffectiveNow: &head,
			Upcoming:     upcoming[1:],
		}
	}
	return Promotion{Upcoming: upcoming}
}
