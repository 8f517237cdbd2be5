package nowplaying

import "testing"

func TestPromoteMismatch(t *testing.T) {
	upcoming := []NextEntry{entry("New Song", "p1"), entry("Third", "p2")}
	p := Promote("Old Song", upcoming)
	if !p.Promoted {
		t.Fatal("expected promotion when observed title differs from queue head")
	}
	if p.EffectiveNow == nil || p.EffectiveNow.Title != "New Song" {
		t.Errorf("effective_now = %+v, want New Song", p.EffectiveNow)
	}
	if len(p.Upcoming) != 1 || p.Upcoming[0].Title != "Third" {
		t.Errorf("effective_upcoming = %v, want [Third]", titlesOf(p.Upcoming))
	}
}

func TestPromoteMatchNoTrigger(t *testing.T) {
	upcoming := []NextEntry{entry("new_song", "p1"), entry("Third", "p2")}
	// Display form vs filename form: normalized equality, no promotion.
	p := Promote("New Song", upcoming)
	if p.Promoted || p.EffectiveNow != nil {
		t.Fatalf("unexpected promotion: %+v", p)
	}
	if len(p.Upcoming) != 2 {
		t.Errorf("upcoming must pass through unchanged, got %v", titlesOf(p.Upcoming))
	}
}

func TestPromoteEmptyObservedAlwaysTriggers(t *testing.T) {
	for _, observed := range []string{"", "   "} {
		upcoming := []NextEntry{entry("Anything", "p")}
		p := Promote(observed, upcoming)
		if !p.Promoted {
			t.Errorf("observed %q: expected promotion for empty observed title", observed)
		}
	}
}

func TestPromoteEmptyUpcoming(t *testing.T) {
	p := Promote("Some Song", nil)
	if p.Promoted || p.EffectiveNow != nil {
		t.Errorf("nothing to promote from an empty queue, got %+v", p)
	}
}

func TestPromoteUnnormalizableHead(t *testing.T) {
	// Head with an empty normalized title and a non-empty observed title:
	// neither trigger condition holds.
	upcoming := []NextEntry{{Title: "???", TitleNorm: ""}, entry("Next", "p")}
	p := Promote("Some Song", upcoming)
	if p.Promoted {
		t.Error("promotion must not trigger on an unnormalizable queue head")
	}
}
