package nowplaying

import "time"

// Inputs carries the raw artifacts one reconciliation works on: the observed
// Icecast metadata plus the two log tails with their fetch errors. The core
// holds no clients and no state; callers fetch fresh inputs per request.
type Inputs struct {
	ObservedTitle    string
	ObservedPlaylist string

	SchedulerLog    string
	SchedulerLogErr error

	EngineLog    string
	EngineLogErr error

	Now time.Time
}

// Options bounds the reconciliation.
type Options struct {
	UpcomingLimit int
	RecentWindow  time.Duration
}

// Reconcile cross-references Icecast metadata with the scheduler and engine
// log tails and produces the "now + upcoming" view. It never fails hard: the
// worst outcome is an all-empty snapshot with OK=false on the resolver side.
func Reconcile(in Inputs, opts Options) Snapshot {
	if opts.UpcomingLimit <= 0 {
		opts.UpcomingLimit = 10
	}
	if opts.RecentWindow <= 0 {
		opts.RecentWindow = 10 * time.Second
	}
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}

	nexts := ExtractSchedulerNext(in.SchedulerLog, in.SchedulerLogErr)
	hint := ExtractStreamStart(in.EngineLog, in.EngineLogErr, now, opts.RecentWindow)

	snap := Snapshot{
		TitleObserved:     in.ObservedTitle,
		TitleEffective:    in.ObservedTitle,
		PlaylistObserved:  in.ObservedPlaylist,
		PlaylistEffective: in.ObservedPlaylist,
		NowMode:           ModeObserved,
		Upcoming:          []NextEntry{},
		StreamStart:       hint,
	}

	if !nexts.OK {
		snap.Error = nexts.Error
		return snap
	}

	res := ResolveUpcoming(in.ObservedTitle, nexts.Entries, opts.UpcomingLimit)
	snap.Source = res.Source
	snap.CurrentTitleFound = res.CurrentTitleFound
	if !res.OK {
		snap.Error = res.Error
		return snap
	}
	snap.OK = true

	p := Promote(in.ObservedTitle, res.Upcoming)
	snap.Upcoming = p.Upcoming
	if p.Promoted {
		snap.NowMode = ModePromoted
		snap.TitleEffective = p.EffectiveNow.Title
		snap.PlaylistEffective = p.EffectiveNow.Playlist
	}
	if len(snap.Upcoming) > 0 {
		next := snap.Upcoming[0]
		snap.PredictedNext = &next
	}
	return snap
}
