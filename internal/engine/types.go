// Package engine implements a deterministic Texas Hold'em hand state machine.
// A table is mutated only through PerformAction; replaying the same action log
// against the same seed reproduces an identical state.
package engine

import (
	"time"

	"github.com/lox/holdem-engine/internal/chips"
	"github.com/lox/holdem-engine/poker"
)

// Round identifies a stage of the hand
type Round string

const (
	RoundAnte     Round = "ante"
	RoundPreflop  Round = "preflop"
	RoundFlop     Round = "flop"
	RoundTurn     Round = "turn"
	RoundRiver    Round = "river"
	RoundShowdown Round = "showdown"
	RoundEnd      Round = "end"
)

var roundOrder = []Round{
	RoundAnte, RoundPreflop, RoundFlop, RoundTurn, RoundRiver, RoundShowdown, RoundEnd,
}

// ordinal returns the position of the round in the fixed sequence
func (r Round) ordinal() int {
	for i, ro := range roundOrder {
		if ro == r {
			return i
		}
	}
	return -1
}

// next returns the following round; END is terminal
func (r Round) next() Round {
	i := r.ordinal()
	if i < 0 || i >= len(roundOrder)-1 {
		return RoundEnd
	}
	return roundOrder[i+1]
}

// isBetting reports whether the round accepts betting actions
func (r Round) isBetting() bool {
	switch r {
	case RoundPreflop, RoundFlop, RoundTurn, RoundRiver:
		return true
	}
	return false
}

// boardSize returns the number of community cards on the board once the
// round is reached
func (r Round) boardSize() int {
	switch r {
	case RoundFlop:
		return 3
	case RoundTurn:
		return 4
	case RoundRiver, RoundShowdown, RoundEnd:
		return 5
	}
	return 0
}

// PlayerStatus is the lifecycle state of a seated player
type PlayerStatus string

const (
	StatusActive     PlayerStatus = "active"
	StatusFolded     PlayerStatus = "folded"
	StatusAllIn      PlayerStatus = "all-in"
	StatusSittingOut PlayerStatus = "sitting-out"
	StatusShowing    PlayerStatus = "showing"
	StatusBusted     PlayerStatus = "busted"
)

// ActionType is the closed set of actions a table accepts
type ActionType string

const (
	ActionJoin       ActionType = "join"
	ActionLeave      ActionType = "leave"
	ActionSmallBlind ActionType = "small-blind"
	ActionBigBlind   ActionType = "big-blind"
	ActionDeal       ActionType = "deal"
	ActionFold       ActionType = "fold"
	ActionCheck      ActionType = "check"
	ActionBet        ActionType = "bet"
	ActionCall       ActionType = "call"
	ActionRaise      ActionType = "raise"
	ActionAllIn      ActionType = "all-in"
	ActionShow       ActionType = "show"
	ActionMuck       ActionType = "muck"
	ActionNewHand    ActionType = "new-hand"
	ActionSitOut     ActionType = "sit-out"
	ActionSitIn      ActionType = "sit-in"
	ActionTopUp      ActionType = "top-up"
)

// aggressive reports whether the action reopens betting
func (a ActionType) aggressive() bool {
	switch a {
	case ActionBet, ActionRaise:
		return true
	}
	return false
}

// Action is a command submitted to the table
type Action struct {
	Player string
	Type   ActionType
	Index  int
	Amount chips.Amount
	Seat   int       // join only; 0 selects the next empty seat
	At     time.Time // optional; defaults to the table clock
}

// Turn is a committed action in the hand history
type Turn struct {
	Player    string       `json:"playerId"`
	Action    ActionType   `json:"action"`
	Amount    chips.Amount `json:"amount"`
	Index     int          `json:"index"`
	Round     Round        `json:"round"`
	Seat      int          `json:"seat,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// LegalAction is an action currently permitted for a player, with amount
// bounds and the index the committed action must carry
type LegalAction struct {
	Action ActionType   `json:"action"`
	Min    chips.Amount `json:"min"`
	Max    chips.Amount `json:"max"`
	Index  int          `json:"index"`
}

// Pot is a single pot tier. Eligible lists the addresses that can win it.
type Pot struct {
	Amount   chips.Amount `json:"amount"`
	Eligible []string     `json:"eligible"`
}

// Winner records a pot award at the end of a hand
type Winner struct {
	Address     string       `json:"address"`
	Amount      chips.Amount `json:"amount"`
	Cards       []string     `json:"cards,omitempty"`
	Description string       `json:"description,omitempty"`
}

// Result records a tournament finishing place and payout
type Result struct {
	Address string       `json:"address"`
	Place   int          `json:"place"`
	Payout  chips.Amount `json:"payout"`
}

// HandValue is an evaluated hand strength. Higher scores beat lower ones.
type HandValue struct {
	Score       int
	Description string
}

// Evaluator ranks 7-card hands. The engine only compares scores; the
// implementation lives outside this package.
type Evaluator interface {
	Evaluate(cards []poker.Card) (HandValue, error)
}
