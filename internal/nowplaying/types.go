package nowplaying

import "time"

// NextEntry is one scheduler "NEXT" announcement parsed from the log tail.
// Order of a []NextEntry reflects announcement time (log-append order),
// not necessarily play time.
type NextEntry struct {
	Timestamp    *time.Time `json:"ts,omitempty"`
	TimestampRaw string     `json:"ts_raw"`
	Title        string     `json:"title"`
	TitleNorm    string     `json:"title_norm"`
	Playlist     string     `json:"playlist"`
}

// TitleList is the result of scanning a log tail for preprocessing-queue
// titles. Zero matches is not an error; a failed log fetch is.
type TitleList struct {
	OK     bool     `json:"ok"`
	Error  string   `json:"error,omitempty"`
	Titles []string `json:"titles"`
}

// NextList is the result of scanning a log tail for scheduler NEXT lines.
type NextList struct {
	OK      bool        `json:"ok"`
	Error   string      `json:"error,omitempty"`
	Entries []NextEntry `json:"entries"`
}

// StreamStartHint is the most recent low-level track-transition signal seen
// in the engine log, with its age relative to the request clock.
type StreamStartHint struct {
	OK         bool       `json:"ok"`
	Error      string     `json:"error,omitempty"`
	Line       string     `json:"line,omitempty"`
	Timestamp  *time.Time `json:"ts,omitempty"`
	AgeSeconds *int64     `json:"age_seconds,omitempty"`
	Recent     bool       `json:"is_recent"`
}

// Sources reported by ResolveUpcoming.
const (
	SourceAfterCurrent = "scheduler_logs_after_current"
	SourceFallbackTail = "scheduler_logs_fallback_tail"
)

// UpcomingResult is what ResolveUpcoming returns: the deduplicated play
// queue after the currently playing track, or a fallback tail window when
// the current track was never announced.
type UpcomingResult struct {
	OK                bool        `json:"ok"`
	Error             string      `json:"error,omitempty"`
	Source            string      `json:"source,omitempty"`
	CurrentTitleFound bool        `json:"current_title_found"`
	Upcoming          []NextEntry `json:"upcoming"`
}

// Now-playing modes for Snapshot.NowMode.
const (
	ModeObserved = "observed"
	ModePromoted = "promoted_from_upcoming"
)

// Snapshot is the reconciled "now + upcoming" view built per request.
// Never persisted.
type Snapshot struct {
	OK                bool            `json:"ok"`
	Error             string          `json:"error,omitempty"`
	TitleObserved     string          `json:"title_observed"`
	TitleEffective    string          `json:"title_effective"`
	PlaylistObserved  string          `json:"playlist_observed"`
	PlaylistEffective string          `json:"playlist_effective"`
	NowMode           string          `json:"now_mode"`
	PredictedNext     *NextEntry      `json:"predicted_next,omitempty"`
	Upcoming          []NextEntry     `json:"upcoming"`
	Source            string          `json:"source,omitempty"`
	CurrentTitleFound bool            `json:"current_title_found"`
	StreamStart       StreamStartHint `json:"stream_start_hint"`
}
