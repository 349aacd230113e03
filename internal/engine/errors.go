package engine

import "errors"

var (
	// ErrInvalidIndex means the action's index does not match the next
	// expected history index.
	ErrInvalidIndex = errors.New("invalid action index")

	// ErrNotYourTurn means a player acted out of turn.
	ErrNotYourTurn = errors.New("not your turn")

	// ErrIllegalAction means the action type is not legal for the player in
	// the current round.
	ErrIllegalAction = errors.New("action not legal in current state")

	// ErrInsufficientFunds covers bets, raises and buy-ins outside the
	// permitted bounds.
	ErrInsufficientFunds = errors.New("amount outside permitted bounds")

	// ErrDuplicateJoin means the player is already seated.
	ErrDuplicateJoin = errors.New("player already seated")

	// ErrTableFull means no seat is available.
	ErrTableFull = errors.New("table is full")

	// ErrNotEnoughPlayers means fewer than the minimum players are seated.
	ErrNotEnoughPlayers = errors.New("not enough players")

	// ErrInvalidConfig means the game options fail validation.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrMuckWinningHand means a player tried to muck a hand that currently
	// cannot be beaten.
	ErrMuckWinningHand = errors.New("cannot muck a winning hand")
)
