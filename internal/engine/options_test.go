package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/lox/holdem-engine/internal/chips"
)

func validOptions() GameOptions {
	return GameOptions{
		MinBuyIn:   chips.New(100),
		MaxBuyIn:   chips.New(1000),
		MinPlayers: 2,
		MaxPlayers: 9,
		SmallBlind: chips.New(1),
		BigBlind:   chips.New(2),
		Timeout:    30 * time.Second,
	}
}

func TestOptionsValid(t *testing.T) {
	t.Parallel()

	if err := validOptions().Validate(); err != nil {
		t.Errorf("valid options rejected: %v", err)
	}
}

func TestOptionsRejected(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*GameOptions)
	}{
		{"min players below 2", func(o *GameOptions) { o.MinPlayers = 1 }},
		{"max below min players", func(o *GameOptions) { o.MaxPlayers = 1 }},
		{"zero small blind", func(o *GameOptions) { o.SmallBlind = chips.Zero() }},
		{"big blind below small", func(o *GameOptions) { o.SmallBlind = chips.New(5) }},
		{"inverted buy-in range", func(o *GameOptions) { o.MaxBuyIn = chips.New(50) }},
		{"negative rake threshold", func(o *GameOptions) {
			o.Rake = &RakeConfig{Threshold: chips.New(-1), Percentage: 5, Cap: chips.New(10)}
		}},
		{"rake percentage over 100", func(o *GameOptions) {
			o.Rake = &RakeConfig{Threshold: chips.New(0), Percentage: 101, Cap: chips.New(10)}
		}},
		{"negative rake cap", func(o *GameOptions) {
			o.Rake = &RakeConfig{Threshold: chips.New(0), Percentage: 5, Cap: chips.New(-1)}
		}},
		{"zero tournament level", func(o *GameOptions) {
			o.Tournament = &TournamentConfig{}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			opts := validOptions()
			tt.mutate(&opts)
			err := opts.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}
