package nowplaying

import "testing"

func entry(title, playlist string) NextEntry {
	return NextEntry{Title: title, TitleNorm: Normalize(title), Playlist: playlist}
}

func titlesOf(entries []NextEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Title
	}
	return out
}

func TestResolveUpcomingAnchorsToLastMatch(t *testing.T) {
	// A announced twice: the queue after the *second* A is what plays next.
	entries := []NextEntry{
		entry("A", "p"), entry("B", "p"), entry("A", "p"), entry("C", "p"), entry("D", "p"),
	}
	res := ResolveUpcoming("A", entries, 10)
	if !res.OK || !res.CurrentTitleFound {
		t.Fatalf("ok=%v found=%v, want both true", res.OK, res.CurrentTitleFound)
	}
	if res.Source != SourceAfterCurrent {
		t.Errorf("source = %q, want %q", res.Source, SourceAfterCurrent)
	}
	got := titlesOf(res.Upcoming)
	if len(got) != 2 || got[0] != "C" || got[1] != "D" {
		t.Errorf("upcoming = %v, want [C D]", got)
	}
}

func TestResolveUpcomingDedupFirstWins(t *testing.T) {
	entries := []NextEntry{
		entry("X", "P1"), entry("Y", "PY"), entry("X", "P2"),
	}
	res := ResolveUpcoming("not announced", entries, 10)
	if res.Source != SourceFallbackTail {
		t.Errorf("source = %q, want fallback", res.Source)
	}
	if res.CurrentTitleFound {
		t.Error("current_title_found must be false on the fallback path")
	}
	if len(res.Upcoming) != 2 {
		t.Fatalf("upcoming = %v, want 2 unique entries", titlesOf(res.Upcoming))
	}
	if res.Upcoming[0].Playlist != "P1" {
		t.Errorf("X carries playlist %q, want first occurrence's P1", res.Upcoming[0].Playlist)
	}
}

func TestResolveUpcomingEmptyEntries(t *testing.T) {
	res := ResolveUpcoming("anything", nil, 10)
	if res.OK {
		t.Fatal("expected failure on empty entry list")
	}
	if res.Error != "no scheduler NEXT entries found" {
		t.Errorf("error = %q", res.Error)
	}
	if len(res.Upcoming) != 0 {
		t.Errorf("upcoming = %v, want empty", res.Upcoming)
	}
}

func TestResolveUpcomingEmptyCurrentNeverMatches(t *testing.T) {
	entries := []NextEntry{
		{Title: "", TitleNorm: ""},
		entry("A", "p"),
	}
	res := ResolveUpcoming("", entries, 10)
	if res.CurrentTitleFound {
		t.Error("empty normalized title must never match, even another empty")
	}
	if res.Source != SourceFallbackTail {
		t.Errorf("source = %q, want fallback", res.Source)
	}
	// The unnormalizable entry is skipped in the output.
	got := titlesOf(res.Upcoming)
	if len(got) != 1 || got[0] != "A" {
		t.Errorf("upcoming = %v, want [A]", got)
	}
}

func TestResolveUpcomingLimitAndFallbackWindow(t *testing.T) {
	var entries []NextEntry
	for i := 0; i < 30; i++ {
		entries = append(entries, entry(string(rune('a'+i%26))+"-track", "p"))
	}
	res := ResolveUpcoming("unknown", entries, 3)
	if len(res.Upcoming) != 3 {
		t.Errorf("limit not honored: got %d entries", len(res.Upcoming))
	}
	// limit*6 = 18 tail entries: the window starts at index 12.
	if res.Upcoming[0].TitleNorm != entries[12].TitleNorm {
		t.Errorf("fallback window start = %q, want %q", res.Upcoming[0].Title, entries[12].Title)
	}
}

func TestResolveUpcomingEndToEnd(t *testing.T) {
	log := `2024-05-01 20:00:00,000 NEXT | title="vanzo_-_me_and_you" | playlist="evening"
2024-05-01 20:03:10,000 NEXT | title="radio_jingle" | playlist="jingles"
2024-05-01 20:03:40,000 NEXT | title="artist_-_track2" | playlist="evening"`

	parsed := ExtractSchedulerNext(log, nil)
	if !parsed.OK {
		t.Fatalf("extract failed: %s", parsed.Error)
	}
	res := ResolveUpcoming("Vanzo - Me And You", parsed.Entries, 10)
	if !res.OK || !res.CurrentTitleFound {
		t.Fatalf("ok=%v found=%v", res.OK, res.CurrentTitleFound)
	}
	if res.Source != SourceAfterCurrent {
		t.Errorf("source = %q, want %q", res.Source, SourceAfterCurrent)
	}
	got := titlesOf(res.Upcoming)
	if len(got) != 2 || got[0] != "radio_jingle" || got[1] != "artist_-_track2" {
		t.Errorf("upcoming = %v, want [radio_jingle artist_-_track2]", got)
	}
}
