package engine

import (
	"sort"

	"github.com/lox/holdem-engine/internal/chips"
	"github.com/lox/holdem-engine/poker"
)

// evaluate ranks a player's best hand from their hole cards and the board
func (t *Table) evaluate(p *Player) (HandValue, error) {
	cards := make([]poker.Card, 0, 7)
	cards = append(cards, p.HoleCards...)
	cards = append(cards, t.community...)
	return t.eval.Evaluate(cards)
}

// undecidedCount returns the number of live players yet to show or muck
func (t *Table) undecidedCount() int {
	count := 0
	for _, p := range t.seats.LivePlayers() {
		if p.Status != StatusShowing {
			count++
		}
	}
	return count
}

// nextToShow returns the player due to show or muck. The last aggressor
// opens the showdown; without aggression the first live seat after the
// button does. Subsequent players follow clockwise.
func (t *Table) nextToShow() *Player {
	undecided := func(p *Player) bool { return p.inHand() && p.Status != StatusShowing }

	var lastSeat int
	for _, turn := range t.handTurns() {
		if turn.Round != RoundShowdown {
			continue
		}
		if turn.Action != ActionShow && turn.Action != ActionMuck {
			continue
		}
		if p := t.seats.Player(turn.Player); p != nil {
			lastSeat = p.Seat
		}
	}

	if lastSeat == 0 {
		if addr := t.ledger.Aggressor(); addr != "" {
			if p := t.seats.Player(addr); p != nil && undecided(p) {
				return p
			}
		}
		lastSeat = t.seats.Dealer()
	}

	seat := t.seats.NextSeat(lastSeat, undecided)
	if seat == 0 {
		return nil
	}
	return t.seats.PlayerAt(seat)
}

// mustShow reports whether the player is barred from mucking: the showdown
// opener always shows, and so does anyone whose hand beats every hand
// already shown.
func (t *Table) mustShow(p *Player) bool {
	if len(t.shown) == 0 {
		return true
	}
	value, err := t.evaluate(p)
	if err != nil {
		t.log.Error("hand evaluation failed", "player", p.Address, "err", err)
		return false
	}
	for _, shown := range t.shown {
		if shown.Score >= value.Score {
			return false
		}
	}
	return true
}

func (t *Table) applyShow(player *Player, a Action) {
	value, err := t.evaluate(player)
	if err != nil {
		t.log.Error("hand evaluation failed", "player", player.Address, "err", err)
	}
	player.Status = StatusShowing
	t.shown[player.Address] = value
	t.commit(a, chips.Zero())
}

// payRake credits the rake to the table owner's stack. If the owner is not
// seated the rake leaves the table.
func (t *Table) payRake(rake chips.Amount) {
	if rake.IsZero() {
		return
	}
	if owner := t.seats.Player(t.opts.Owner); owner != nil {
		owner.Stack = owner.Stack.Add(rake)
		t.log.Debug("rake credited", "owner", owner.Address, "rake", rake)
		return
	}
	t.totalChips = t.totalChips.Sub(rake)
	t.log.Debug("rake collected", "rake", rake)
}

// seatDistance returns the clockwise distance from the dealer to the seat,
// used to order winners by earliest position
func (t *Table) seatDistance(seat int) int {
	max := t.opts.MaxPlayers
	return ((seat - t.seats.Dealer()) + max - 1) % max
}

// resolveUncontested awards the whole pot to the last live player. No cards
// are revealed.
func (t *Table) resolveUncontested(live []*Player) {
	pot := t.ledger.HandTotal()
	if len(live) == 0 {
		t.round = RoundEnd
		t.log.Error("hand ended with no live players", "hand", t.handNumber)
		return
	}

	winner := live[0]
	rake := CalculateRake(pot, t.opts.Rake)
	t.payRake(rake)
	amount := pot.Sub(rake)
	winner.Stack = winner.Stack.Add(amount)
	t.winners = append(t.winners, Winner{Address: winner.Address, Amount: amount})
	t.round = RoundEnd
	t.log.Info("hand won uncontested",
		"hand", t.handNumber, "winner", winner.Address, "amount", amount, "rake", rake)
}

// resolveShowdown ranks the shown hands, deducts rake, and distributes each
// pot tier to its best eligible hand. Ties split evenly with the remainder
// going to the earliest seat clockwise from the dealer.
func (t *Table) resolveShowdown() {
	totals := t.ledger.Totals()
	showing := func(addr string) bool {
		p := t.seats.Player(addr)
		return p != nil && p.Status == StatusShowing
	}
	pots := BuildPots(totals, showing)

	rake := CalculateRake(t.ledger.HandTotal(), t.opts.Rake)
	t.payRake(rake)
	remainingRake := rake

	awards := make(map[string]chips.Amount)
	for _, pot := range pots {
		amount := pot.Amount
		if remainingRake.Sign() > 0 {
			taken := chips.Min(amount, remainingRake)
			amount = amount.Sub(taken)
			remainingRake = remainingRake.Sub(taken)
		}
		if amount.IsZero() || len(pot.Eligible) == 0 {
			continue
		}

		best := t.shown[pot.Eligible[0]].Score
		for _, addr := range pot.Eligible[1:] {
			if score := t.shown[addr].Score; score > best {
				best = score
			}
		}
		var winners []string
		for _, addr := range pot.Eligible {
			if t.shown[addr].Score == best {
				winners = append(winners, addr)
			}
		}
		sort.Slice(winners, func(i, j int) bool {
			return t.seatDistance(t.seats.Player(winners[i]).Seat) <
				t.seatDistance(t.seats.Player(winners[j]).Seat)
		})

		share := amount.DivInt(int64(len(winners)))
		remainder := amount.ModInt(int64(len(winners)))
		for i, addr := range winners {
			won := share
			if i == 0 {
				won = won.Add(remainder)
			}
			awards[addr] = awards[addr].Add(won)
		}
	}

	ordered := make([]string, 0, len(awards))
	for addr := range awards {
		ordered = append(ordered, addr)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return t.seatDistance(t.seats.Player(ordered[i]).Seat) <
			t.seatDistance(t.seats.Player(ordered[j]).Seat)
	})

	for _, addr := range ordered {
		p := t.seats.Player(addr)
		p.Stack = p.Stack.Add(awards[addr])
		t.winners = append(t.winners, Winner{
			Address:     addr,
			Amount:      awards[addr],
			Cards:       poker.Mnemonics(p.HoleCards),
			Description: t.shown[addr].Description,
		})
	}

	t.round = RoundEnd
	t.log.Info("showdown resolved", "hand", t.handNumber, "winners", ordered, "rake", rake)
}
