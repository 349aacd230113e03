package engine

import (
	"time"

	"github.com/lox/holdem-engine/internal/chips"
)

// BlindsPolicy determines the blinds in force at a given point in the game.
// Elapsed is the time since the first deal; cash games ignore it.
type BlindsPolicy interface {
	Blinds(elapsed time.Duration) (small, big chips.Amount)
}

// CashBlinds is a fixed-blind policy
type CashBlinds struct {
	Small chips.Amount
	Big   chips.Amount
}

// Blinds returns the configured blinds unconditionally
func (c CashBlinds) Blinds(time.Duration) (chips.Amount, chips.Amount) {
	return c.Small, c.Big
}

// SitAndGoBlinds doubles the base blinds once per completed level
type SitAndGoBlinds struct {
	BaseSmall     chips.Amount
	BaseBig       chips.Amount
	LevelDuration time.Duration
}

// Level returns the zero-based blind level for the elapsed time
func (s SitAndGoBlinds) Level(elapsed time.Duration) uint {
	if elapsed <= 0 || s.LevelDuration <= 0 {
		return 0
	}
	return uint(elapsed / s.LevelDuration)
}

// Blinds returns the blinds for the level reached at elapsed
func (s SitAndGoBlinds) Blinds(elapsed time.Duration) (chips.Amount, chips.Amount) {
	level := s.Level(elapsed)
	return s.BaseSmall.Lsh(level), s.BaseBig.Lsh(level)
}
