package poker

import (
	"crypto/sha256"
	"encoding/binary"
	"math/rand"
)

// Deck represents a standard 52-card deck shuffled deterministically from a
// string seed. The seed is the only thing that needs to be serialized to
// reproduce the exact card sequence on replay.
type Deck struct {
	cards [52]Card
	next  int
	seed  string
}

// NewDeck creates a deck shuffled by the given seed. The same seed always
// produces the same card order.
func NewDeck(seed string) *Deck {
	d := &Deck{seed: seed}

	i := 0
	for suit := Clubs; suit <= Spades; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards[i] = NewCard(rank, suit)
			i++
		}
	}

	d.shuffle()
	return d
}

// shuffle runs Fisher-Yates over the full deck using a PRNG keyed by the
// SHA-256 of the seed string.
func (d *Deck) shuffle() {
	sum := sha256.Sum256([]byte(d.seed))
	rng := rand.New(rand.NewSource(int64(binary.BigEndian.Uint64(sum[:8]))))

	d.next = 0
	for i := len(d.cards) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Seed returns the seed the deck was shuffled with
func (d *Deck) Seed() string {
	return d.seed
}

// Deal deals n cards from the deck, or nil if not enough remain
func (d *Deck) Deal(n int) []Card {
	if d.next+n > len(d.cards) {
		return nil
	}
	cards := make([]Card, n)
	copy(cards, d.cards[d.next:d.next+n])
	d.next += n
	return cards
}

// DealOne deals a single card from the deck
func (d *Deck) DealOne() Card {
	if d.next >= len(d.cards) {
		return Card{}
	}
	card := d.cards[d.next]
	d.next++
	return card
}

// Dealt returns the number of cards dealt or skipped so far
func (d *Deck) Dealt() int {
	return d.next
}

// Skip advances past n cards without returning them. Used when restoring a
// deck to a mid-hand position from a serialized state.
func (d *Deck) Skip(n int) {
	d.next += n
	if d.next > len(d.cards) {
		d.next = len(d.cards)
	}
}

// CardsRemaining returns the number of cards left in the deck
func (d *Deck) CardsRemaining() int {
	return len(d.cards) - d.next
}
