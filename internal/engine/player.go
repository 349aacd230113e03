package engine

import (
	"github.com/lox/holdem-engine/internal/chips"
	"github.com/lox/holdem-engine/poker"
)

// Player is a seated participant. Per-round bet totals live in the BetLedger;
// the player only carries identity, stack and lifecycle state.
type Player struct {
	Address   string
	Seat      int
	Stack     chips.Amount
	Status    PlayerStatus
	HoleCards []poker.Card
}

// canAct reports whether the player may take betting actions
func (p *Player) canAct() bool {
	return p.Status == StatusActive
}

// inHand reports whether the player still has a claim on the pot
func (p *Player) inHand() bool {
	switch p.Status {
	case StatusActive, StatusAllIn, StatusShowing:
		return true
	}
	return false
}

// pay moves up to amount from the player's stack, marking them all-in if the
// stack is exhausted. Returns the amount actually paid.
func (p *Player) pay(amount chips.Amount) chips.Amount {
	paid := chips.Min(amount, p.Stack)
	p.Stack = p.Stack.Sub(paid)
	if p.Stack.IsZero() && p.Status == StatusActive {
		p.Status = StatusAllIn
	}
	return paid
}
