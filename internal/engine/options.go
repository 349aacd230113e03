package engine

import (
	"fmt"
	"time"

	"github.com/lox/holdem-engine/internal/chips"
)

// RakeConfig controls the fee taken from each pot. Rake is only taken once a
// pot reaches Threshold, at Percentage percent, capped at Cap, and credited
// to Owner's stack if Owner is seated.
type RakeConfig struct {
	Threshold  chips.Amount `json:"rakeFreeThreshold"`
	Percentage int64        `json:"rakePercentage"`
	Cap        chips.Amount `json:"rakeCap"`
}

// Validate checks the rake bounds
func (r *RakeConfig) Validate() error {
	if r.Threshold.Sign() < 0 {
		return fmt.Errorf("%w: rake threshold must not be negative", ErrInvalidConfig)
	}
	if r.Percentage < 0 || r.Percentage > 100 {
		return fmt.Errorf("%w: rake percentage must be between 0 and 100", ErrInvalidConfig)
	}
	if r.Cap.Sign() < 0 {
		return fmt.Errorf("%w: rake cap must not be negative", ErrInvalidConfig)
	}
	return nil
}

// TournamentConfig enables sit-and-go mode: blinds double every level and
// busted players receive tiered payouts from the prize pool.
type TournamentConfig struct {
	LevelDuration time.Duration `json:"levelDuration"`
}

// GameOptions is the immutable table configuration fixed at construction
type GameOptions struct {
	MinBuyIn   chips.Amount      `json:"minBuyIn"`
	MaxBuyIn   chips.Amount      `json:"maxBuyIn"`
	MinPlayers int               `json:"minPlayers"`
	MaxPlayers int               `json:"maxPlayers"`
	SmallBlind chips.Amount      `json:"smallBlind"`
	BigBlind   chips.Amount      `json:"bigBlind"`
	Timeout    time.Duration     `json:"timeout"`
	Rake       *RakeConfig       `json:"rake,omitempty"`
	Owner      string            `json:"owner,omitempty"`
	Tournament *TournamentConfig `json:"tournament,omitempty"`
}

// Validate checks the options for internal consistency
func (o GameOptions) Validate() error {
	if o.MinPlayers < 2 {
		return fmt.Errorf("%w: min players must be at least 2", ErrInvalidConfig)
	}
	if o.MaxPlayers < o.MinPlayers {
		return fmt.Errorf("%w: max players must be at least min players", ErrInvalidConfig)
	}
	if o.SmallBlind.Sign() <= 0 || o.BigBlind.Sign() <= 0 {
		return fmt.Errorf("%w: blinds must be positive", ErrInvalidConfig)
	}
	if o.BigBlind.Less(o.SmallBlind) {
		return fmt.Errorf("%w: big blind must be at least the small blind", ErrInvalidConfig)
	}
	if o.MinBuyIn.Sign() <= 0 || o.MaxBuyIn.Less(o.MinBuyIn) {
		return fmt.Errorf("%w: buy-in range is invalid", ErrInvalidConfig)
	}
	if o.Rake != nil {
		if err := o.Rake.Validate(); err != nil {
			return err
		}
	}
	if o.Tournament != nil && o.Tournament.LevelDuration <= 0 {
		return fmt.Errorf("%w: tournament level duration must be positive", ErrInvalidConfig)
	}
	return nil
}
