package engine

import (
	"sort"

	"github.com/lox/holdem-engine/internal/chips"
)

// BetLedger tracks per-round, per-player contributions for the current hand.
// Blinds are recorded under PREFLOP so that preflop call and raise amounts
// account for them.
type BetLedger struct {
	contributions map[Round]map[string]chips.Amount
	aggressor     string
}

// NewBetLedger creates an empty ledger
func NewBetLedger() *BetLedger {
	return &BetLedger{contributions: make(map[Round]map[string]chips.Amount)}
}

// Reset clears the ledger for a new hand
func (b *BetLedger) Reset() {
	b.contributions = make(map[Round]map[string]chips.Amount)
	b.aggressor = ""
}

// Record adds amount to the player's contribution for the round
func (b *BetLedger) Record(round Round, address string, amount chips.Amount) {
	if amount.Sign() <= 0 {
		return
	}
	m := b.contributions[round]
	if m == nil {
		m = make(map[string]chips.Amount)
		b.contributions[round] = m
	}
	m[address] = m[address].Add(amount)
}

// Contribution returns the player's total for the round
func (b *BetLedger) Contribution(round Round, address string) chips.Amount {
	return b.contributions[round][address]
}

// LargestBet returns the highest per-player contribution in the round
func (b *BetLedger) LargestBet(round Round) chips.Amount {
	var largest chips.Amount
	for _, amount := range b.contributions[round] {
		largest = chips.Max(largest, amount)
	}
	return largest
}

// CallAmount returns what the player owes to match the largest bet
func (b *BetLedger) CallAmount(round Round, address string) chips.Amount {
	owed := b.LargestBet(round).Sub(b.Contribution(round, address))
	if owed.Sign() < 0 {
		return chips.Zero()
	}
	return owed
}

// RaiseIncrement returns the minimum raise step for the round: the delta
// between the two highest contribution levels, floored at the big blind.
func (b *BetLedger) RaiseIncrement(round Round, bigBlind chips.Amount) chips.Amount {
	levels := b.distinctLevels(round)
	if len(levels) < 2 {
		return bigBlind
	}
	delta := levels[len(levels)-1].Sub(levels[len(levels)-2])
	return chips.Max(delta, bigBlind)
}

// distinctLevels returns the distinct contribution levels for the round in
// ascending order
func (b *BetLedger) distinctLevels(round Round) []chips.Amount {
	seen := make(map[string]bool)
	var levels []chips.Amount
	for _, amount := range b.contributions[round] {
		if amount.Sign() <= 0 || seen[amount.String()] {
			continue
		}
		seen[amount.String()] = true
		levels = append(levels, amount)
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i].Less(levels[j]) })
	return levels
}

// PlayerTotal returns the player's contribution across the whole hand
func (b *BetLedger) PlayerTotal(address string) chips.Amount {
	total := chips.Zero()
	for _, m := range b.contributions {
		total = total.Add(m[address])
	}
	return total
}

// Totals returns every player's whole-hand contribution
func (b *BetLedger) Totals() map[string]chips.Amount {
	totals := make(map[string]chips.Amount)
	for _, m := range b.contributions {
		for addr, amount := range m {
			totals[addr] = totals[addr].Add(amount)
		}
	}
	return totals
}

// HandTotal returns the sum of all contributions this hand
func (b *BetLedger) HandTotal() chips.Amount {
	total := chips.Zero()
	for _, m := range b.contributions {
		for _, amount := range m {
			total = total.Add(amount)
		}
	}
	return total
}

// SetAggressor records the last player to bet or raise this hand
func (b *BetLedger) SetAggressor(address string) {
	b.aggressor = address
}

// Aggressor returns the last player to bet or raise, or "" if the hand has
// seen no aggression
func (b *BetLedger) Aggressor() string {
	return b.aggressor
}
