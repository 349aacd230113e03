package engine

import "github.com/lox/holdem-engine/internal/chips"

// LegalActions returns the actions the player may take right now, with
// amount bounds and the index the committed action must carry. It is a pure
// query and never mutates state.
func (t *Table) LegalActions(address string) []LegalAction {
	p := t.seats.Player(address)
	if p == nil {
		return nil
	}

	index := t.NextIndex()
	var actions []LegalAction
	add := func(typ ActionType, min, max chips.Amount) {
		actions = append(actions, LegalAction{Action: typ, Min: min, Max: max, Index: index})
	}

	switch {
	case t.round == RoundEnd:
		add(ActionNewHand, chips.Zero(), chips.Zero())

	case t.round == RoundAnte:
		if t.expectedActor() == address {
			small, big := t.currentBlinds()
			switch {
			case !t.smallBlindPosted:
				amount := chips.Min(small, p.Stack)
				add(ActionSmallBlind, amount, amount)
			case !t.bigBlindPosted:
				amount := chips.Min(big, p.Stack)
				add(ActionBigBlind, amount, amount)
			case len(t.seats.LivePlayers()) >= t.opts.MinPlayers:
				add(ActionDeal, chips.Zero(), chips.Zero())
			}
		}
		if p.Status == StatusActive && t.ledger.PlayerTotal(address).IsZero() {
			add(ActionSitOut, chips.Zero(), chips.Zero())
		}

	case t.round.isBetting():
		if p.canAct() && t.nextToAct() == p {
			actions = append(actions, t.bettingActions(p, index)...)
		}

	case t.round == RoundShowdown:
		if t.nextToShow() == p {
			add(ActionShow, chips.Zero(), chips.Zero())
			if !t.mustShow(p) {
				add(ActionMuck, chips.Zero(), chips.Zero())
			}
			// the obligated actor must resolve their hand before anything else
			return actions
		}
	}

	betweenHands := t.round == RoundEnd || (t.round == RoundAnte && t.ledger.PlayerTotal(address).IsZero())
	if betweenHands {
		if p.Status == StatusSittingOut && p.Stack.Sign() > 0 {
			add(ActionSitIn, chips.Zero(), chips.Zero())
		}
		if headroom := t.opts.MaxBuyIn.Sub(p.Stack); headroom.Sign() > 0 && p.Status != StatusBusted {
			add(ActionTopUp, chips.New(1), headroom)
		}
	}
	add(ActionLeave, chips.Zero(), p.Stack)

	return actions
}

// bettingActions enumerates the wagering options for the player to act
func (t *Table) bettingActions(p *Player, index int) []LegalAction {
	var actions []LegalAction
	add := func(typ ActionType, min, max chips.Amount) {
		actions = append(actions, LegalAction{Action: typ, Min: min, Max: max, Index: index})
	}

	_, bigBlind := t.currentBlinds()
	largest := t.ledger.LargestBet(t.round)
	owed := t.ledger.CallAmount(t.round, p.Address)
	increment := t.ledger.RaiseIncrement(t.round, bigBlind)

	if owed.IsZero() {
		add(ActionCheck, chips.Zero(), chips.Zero())
		if largest.IsZero() {
			if !p.Stack.Less(bigBlind) {
				add(ActionBet, bigBlind, p.Stack)
			}
		} else if !p.Stack.Less(increment) {
			// big blind option: raise over the matched bet
			add(ActionRaise, increment, p.Stack)
		}
	} else {
		call := chips.Min(owed, p.Stack)
		add(ActionCall, call, call)
		minRaise := owed.Add(increment)
		if !p.Stack.Less(minRaise) {
			add(ActionRaise, minRaise, p.Stack)
		}
	}

	add(ActionFold, chips.Zero(), chips.Zero())
	if p.Stack.Sign() > 0 {
		add(ActionAllIn, p.Stack, p.Stack)
	}
	return actions
}
