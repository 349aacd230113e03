package engine

import (
	"sort"

	"github.com/lox/holdem-engine/internal/chips"
)

// BuildPots partitions whole-hand contributions into pot tiers. Tiers are
// bounded by the distinct contribution totals of live players; each tier is
// open to every live player whose total reaches it. Folded players'
// contributions spill into the tiers but never earn eligibility.
func BuildPots(totals map[string]chips.Amount, live func(address string) bool) []Pot {
	addresses := make([]string, 0, len(totals))
	for addr := range totals {
		addresses = append(addresses, addr)
	}
	sort.Strings(addresses)

	// tier boundaries come from live players only
	levelSeen := make(map[string]bool)
	var levels []chips.Amount
	for _, addr := range addresses {
		total := totals[addr]
		if !live(addr) || total.Sign() <= 0 || levelSeen[total.String()] {
			continue
		}
		levelSeen[total.String()] = true
		levels = append(levels, total)
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i].Less(levels[j]) })

	if len(levels) == 0 {
		return nil
	}

	var pots []Pot
	prev := chips.Zero()
	for i, level := range levels {
		amount := chips.Zero()
		var eligible []string
		for _, addr := range addresses {
			total := totals[addr]
			amount = amount.Add(chips.Min(total, level).Sub(chips.Min(total, prev)))
			if live(addr) && !total.Less(level) {
				eligible = append(eligible, addr)
			}
		}
		// dead chips above the last live level join the top tier
		if i == len(levels)-1 {
			for _, addr := range addresses {
				if excess := totals[addr].Sub(level); excess.Sign() > 0 {
					amount = amount.Add(excess)
				}
			}
		}
		if amount.Sign() > 0 {
			pots = append(pots, Pot{Amount: amount, Eligible: eligible})
		}
		prev = level
	}
	return pots
}

// CalculateRake returns the fee owed on a pot: zero below the rake-free
// threshold, otherwise percentage of the pot capped at the configured cap.
func CalculateRake(pot chips.Amount, cfg *RakeConfig) chips.Amount {
	if cfg == nil || pot.Less(cfg.Threshold) {
		return chips.Zero()
	}
	return chips.Min(pot.Percent(cfg.Percentage), cfg.Cap)
}
