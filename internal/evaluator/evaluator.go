// Package evaluator adapts the paulhankin/poker hand evaluator to the
// engine's Evaluator interface.
package evaluator

import (
	"fmt"

	ph "github.com/paulhankin/poker"

	"github.com/lox/holdem-engine/internal/engine"
	"github.com/lox/holdem-engine/poker"
)

// Evaluator ranks 7-card hold'em hands. Higher scores beat lower ones.
type Evaluator struct{}

// New creates an evaluator
func New() *Evaluator {
	return &Evaluator{}
}

// toLibrary converts an engine card to a library card. The library numbers
// aces 1 rather than 14.
func toLibrary(c poker.Card) (ph.Card, error) {
	var suit ph.Suit
	switch c.Suit {
	case poker.Clubs:
		suit = ph.Club
	case poker.Diamonds:
		suit = ph.Diamond
	case poker.Hearts:
		suit = ph.Heart
	case poker.Spades:
		suit = ph.Spade
	default:
		return 0, fmt.Errorf("invalid suit %v", c.Suit)
	}

	rank := ph.Rank(c.Rank)
	if c.Rank == poker.Ace {
		rank = 1
	}
	return ph.MakeCard(suit, rank)
}

// Evaluate ranks the best 5-card hand from exactly 7 cards
func (e *Evaluator) Evaluate(cards []poker.Card) (engine.HandValue, error) {
	if len(cards) != 7 {
		return engine.HandValue{}, fmt.Errorf("expected 7 cards, got %d", len(cards))
	}

	var hand [7]ph.Card
	for i, c := range cards {
		card, err := toLibrary(c)
		if err != nil {
			return engine.HandValue{}, fmt.Errorf("card %s: %w", c, err)
		}
		hand[i] = card
	}

	score := ph.Eval7(&hand)
	description, err := ph.Describe(hand[:])
	if err != nil {
		return engine.HandValue{}, fmt.Errorf("describing hand: %w", err)
	}
	return engine.HandValue{Score: int(score), Description: description}, nil
}
