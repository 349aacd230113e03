package engine

import "github.com/lox/holdem-engine/internal/chips"

// PayoutManager computes sit-and-go payouts from the prize pool. The pool is
// buy-in times the number of entrants; percentages depend on field size.
type PayoutManager struct {
	BuyIn    chips.Amount
	Entrants int
}

// percentages returns the place-indexed payout percentages for the field
// size. Six players or more pay three places, smaller fields pay two.
func (pm PayoutManager) percentages() []int64 {
	if pm.Entrants >= 6 {
		return []int64{60, 30, 10}
	}
	return []int64{80, 20}
}

// PrizePool returns the total prize pool
func (pm PayoutManager) PrizePool() chips.Amount {
	return pm.BuyIn.MulInt(int64(pm.Entrants))
}

// Payout returns the amount paid for a finishing place (1 = winner).
// Places outside the paid range return zero.
func (pm PayoutManager) Payout(place int) chips.Amount {
	pcts := pm.percentages()
	if place < 1 || place > len(pcts) {
		return chips.Zero()
	}
	return pm.PrizePool().Percent(pcts[place-1])
}
