package nowplaying

import (
	"regexp"
	"strings"
	"time"
)

// The engine and scheduler emit three log-line conventions we care about.
// Each pattern lives here as a named regex with its own extraction function
// so a fourth convention can be added without touching the existing ones.
var (
	preprocessRe = regexp.MustCompile(`(?i)preprocess:\s*(.+)$`)
	nextRe       = regexp.MustCompile(`(?i)NEXT\s*\|\s*title="([^"]*)"\s*\|\s*playlist="([^"]*)"`)
	streamLineRe = regexp.MustCompile(`(?i)BUS STREAM_START`)

	// Scheduler/engine timestamps: "2024-05-01 12:34:56,789".
	logTimestampRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2},\d{3}`)

	leadingIndexRe  = regexp.MustCompile(`^\s*\d+[.)]\s*`)
	trailingParenRe = regexp.MustCompile(`\s*\([^()]*\)\s*$`)
)

const logTimestampLayout = "2006-01-02 15:04:05.000"

// LineKind tags ParseLine results.
type LineKind int

const (
	LineUnmatched LineKind = iota
	LinePreprocessTitle
	LineSchedulerNext
	LineStreamStart
)

// ParsedLine is the tagged result of classifying one log line.
type ParsedLine struct {
	Kind  LineKind
	Title string     // LinePreprocessTitle
	Next  *NextEntry // LineSchedulerNext
	Raw   string     // LineStreamStart: the full matching line
}

// ParseLine classifies a single log line against the known conventions.
// Stream-start wins over the others because engine lines can mention both
// markers; in practice the conventions never collide.
func ParseLine(line string) ParsedLine {
	if streamLineRe.MatchString(line) && strings.Contains(strings.ToLower(line), "src=playbin") {
		return ParsedLine{Kind: LineStreamStart, Raw: line}
	}
	if m := nextRe.FindStringSubmatch(line); m != nil {
		e := NextEntry{
			Title:     m[1],
			TitleNorm: Normalize(m[1]),
			Playlist:  m[2],
		}
		if ts := logTimestampRe.FindString(line); ts != "" {
			e.TimestampRaw = ts
			if t, err := parseLogTimestamp(ts); err == nil {
				e.Timestamp = &t
			}
		}
		return ParsedLine{Kind: LineSchedulerNext, Next: &e}
	}
	if m := preprocessRe.FindStringSubmatch(line); m != nil {
		if title := cleanPreprocessPayload(m[1]); title != "" {
			return ParsedLine{Kind: LinePreprocessTitle, Title: title}
		}
	}
	return ParsedLine{Kind: LineUnmatched}
}

func parseLogTimestamp(raw string) (time.Time, error) {
	// Go layouts have no comma-millis form.
	return time.ParseInLocation(logTimestampLayout, strings.Replace(raw, ",", ".", 1), time.Local)
}

// cleanPreprocessPayload turns a preprocessing-queue payload into a display
// title. Unlike Normalize it preserves case: these titles feed the UI, not
// equality checks.
func cleanPreprocessPayload(payload string) string {
	s := strings.TrimSpace(payload)
	s = leadingIndexRe.ReplaceAllString(s, "")
	// Rename/transform lines ("src -> dst"): the source side names the track.
	if i := strings.Index(s, "->"); i >= 0 {
		s = s[:i]
	}
	s = trailingParenRe.ReplaceAllString(s, "")
	s = lastPathSegment(strings.TrimSpace(s))
	s = stripAudioExt(s)
	s = strings.ReplaceAll(s, "_-_", " - ")
	s = strings.ReplaceAll(s, "_", " ")
	return strings.TrimSpace(wsRun.ReplaceAllString(s, " "))
}

// ExtractPreprocessTitles scans a log tail for preprocessing-queue lines and
// returns the announced titles oldest-first. fetchErr is the error from the
// log fetch itself: when set, the result is a structured failure and the
// text is ignored.
func ExtractPreprocessTitles(logText string, fetchErr error) TitleList {
	if fetchErr != nil {
		return TitleList{Error: fetchErr.Error(), Titles: []string{}}
	}
	out := TitleList{OK: true, Titles: []string{}}
	for _, line := range strings.Split(logText, "\n") {
		if p := ParseLine(line); p.Kind == LinePreprocessTitle {
			out.Titles = append(out.Titles, p.Title)
		}
	}
	return out
}

// ExtractSchedulerNext scans a log tail for scheduler NEXT announcements,
// oldest-first. Entries with unparsable timestamps are kept with a nil
// Timestamp: title and playlist stay useful without a time.
func ExtractSchedulerNext(logText string, fetchErr error) NextList {
	if fetchErr != nil {
		return NextList{Error: fetchErr.Error(), Entries: []NextEntry{}}
	}
	out := NextList{OK: true, Entries: []NextEntry{}}
	for _, line := range strings.Split(logText, "\n") {
		if p := ParseLine(line); p.Kind == LineSchedulerNext {
			out.Entries = append(out.Entries, *p.Next)
		}
	}
	return out
}

// ExtractStreamStart finds the most recent "BUS STREAM_START src=playbin"
// transition in a log tail and reports whether it happened within window of
// now. A timestamp from the future (negative age) is not recent.
func ExtractStreamStart(logText string, fetchErr error, now time.Time, window time.Duration) StreamStartHint {
	if fetchErr != nil {
		return StreamStartHint{Error: fetchErr.Error()}
	}
	hint := StreamStartHint{OK: true}
	for _, line := range strings.Split(logText, "\n") {
		if p := ParseLine(line); p.Kind == LineStreamStart {
			hint.Line = p.Raw // last match wins
		}
	}
	if hint.Line == "" {
		return hint
	}
	raw := logTimestampRe.FindString(hint.Line)
	if raw == "" {
		return hint
	}
	t, err := parseLogTimestamp(raw)
	if err != nil {
		return hint
	}
	hint.Timestamp = &t
	delta := now.Sub(t)
	age := int64(delta / time.Second)
	hint.AgeSeconds = &age
	hint.Recent = delta >= 0 && delta <= window
	return hint
}
