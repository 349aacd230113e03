package engine

import (
	"testing"
	"time"

	"github.com/lox/holdem-engine/internal/chips"
)

func TestCashBlindsFixed(t *testing.T) {
	t.Parallel()

	policy := CashBlinds{Small: chips.New(1), Big: chips.New(2)}

	small, big := policy.Blinds(0)
	if small.String() != "1" || big.String() != "2" {
		t.Errorf("blinds = %s/%s", small, big)
	}

	small, big = policy.Blinds(5 * time.Hour)
	if small.String() != "1" || big.String() != "2" {
		t.Errorf("cash blinds escalated to %s/%s", small, big)
	}
}

func TestSitAndGoBlindsDouble(t *testing.T) {
	t.Parallel()

	policy := SitAndGoBlinds{
		BaseSmall:     chips.New(10),
		BaseBig:       chips.New(20),
		LevelDuration: 10 * time.Minute,
	}

	tests := []struct {
		elapsed time.Duration
		small   string
		big     string
	}{
		{0, "10", "20"},
		{9 * time.Minute, "10", "20"},
		{10 * time.Minute, "20", "40"},
		{25 * time.Minute, "40", "80"},
		{30 * time.Minute, "80", "160"},
	}

	for _, tt := range tests {
		small, big := policy.Blinds(tt.elapsed)
		if small.String() != tt.small || big.String() != tt.big {
			t.Errorf("at %s: blinds = %s/%s, want %s/%s",
				tt.elapsed, small, big, tt.small, tt.big)
		}
	}
}

func TestSitAndGoLevel(t *testing.T) {
	t.Parallel()

	policy := SitAndGoBlinds{LevelDuration: 10 * time.Minute}
	if got := policy.Level(-time.Minute); got != 0 {
		t.Errorf("negative elapsed level = %d", got)
	}
	if got := policy.Level(35 * time.Minute); got != 3 {
		t.Errorf("level = %d, want 3", got)
	}
}
