package poker

import "testing"

func TestDeckDeterministic(t *testing.T) {
	t.Parallel()

	a := NewDeck("genesis-1")
	b := NewDeck("genesis-1")

	for i := 0; i < 52; i++ {
		ca, cb := a.DealOne(), b.DealOne()
		if ca != cb {
			t.Fatalf("card %d differs: %v vs %v", i, ca, cb)
		}
	}
}

func TestDeckSeedsDiffer(t *testing.T) {
	t.Parallel()

	a := NewDeck("seed-a")
	b := NewDeck("seed-b")

	same := true
	for i := 0; i < 52; i++ {
		if a.DealOne() != b.DealOne() {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical decks")
	}
}

func TestDeckContainsAllCards(t *testing.T) {
	t.Parallel()

	d := NewDeck("full")
	seen := make(map[Card]bool)
	for d.CardsRemaining() > 0 {
		c := d.DealOne()
		if seen[c] {
			t.Fatalf("duplicate card %v", c)
		}
		seen[c] = true
	}
	if len(seen) != 52 {
		t.Fatalf("expected 52 unique cards, got %d", len(seen))
	}
}

func TestDeckDeal(t *testing.T) {
	t.Parallel()

	d := NewDeck("deal")
	hole := d.Deal(2)
	if len(hole) != 2 {
		t.Fatalf("Deal(2) returned %d cards", len(hole))
	}
	if d.CardsRemaining() != 50 {
		t.Errorf("CardsRemaining() = %d, want 50", d.CardsRemaining())
	}

	if cards := d.Deal(51); cards != nil {
		t.Error("expected nil when dealing past deck end")
	}
}

func TestDeckSkip(t *testing.T) {
	t.Parallel()

	a := NewDeck("replay")
	b := NewDeck("replay")

	a.Deal(7)
	b.Skip(7)

	if a.DealOne() != b.DealOne() {
		t.Error("Skip did not align deck position with Deal")
	}
	if a.CardsRemaining() != b.CardsRemaining() {
		t.Error("CardsRemaining mismatch after Skip")
	}
}
