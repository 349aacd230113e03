package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/holdem-engine/internal/chips"
	"github.com/lox/holdem-engine/poker"
)

// maxRoundAdvances bounds the number of round transitions a single action may
// trigger (ante through end), guarding the auto-runout loop against
// re-entrancy bugs.
const maxRoundAdvances = 6

// Table is the authoritative state of a single poker table. It is mutated
// only through PerformAction; every mutation is validated first and applied
// atomically, so a rejected action leaves the state untouched.
type Table struct {
	address string
	opts    GameOptions
	seed    string

	seats  *SeatTable
	ledger *BetLedger
	blinds BlindsPolicy
	eval   Evaluator
	clock  quartz.Clock
	log    *log.Logger

	round      Round
	deck       *poker.Deck
	community  []poker.Card
	handNumber int

	history        []Turn
	handStart      int // offset into history where the current hand begins
	lastAggression int // index of the last bet/raise in the current round

	smallBlindPosted bool
	bigBlindPosted   bool

	winners []Winner
	results []Result
	shown   map[string]HandValue

	tournamentStart *time.Time
	now             time.Time // timestamp of the action being applied
	totalChips      chips.Amount
}

// TableOption configures optional table collaborators
type TableOption func(*Table)

// WithClock sets the clock used for action timestamps and blind escalation
func WithClock(clock quartz.Clock) TableOption {
	return func(t *Table) { t.clock = clock }
}

// WithLogger sets the table logger
func WithLogger(logger *log.Logger) TableOption {
	return func(t *Table) { t.log = logger }
}

// NewTable creates a table from genesis configuration. The seed drives every
// deck shuffle, so a table constructed from the same seed and fed the same
// action log reproduces an identical state.
func NewTable(address, seed string, opts GameOptions, eval Evaluator, tableOpts ...TableOption) (*Table, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	t := &Table{
		address:    address,
		opts:       opts,
		seed:       seed,
		seats:      NewSeatTable(opts.MaxPlayers),
		ledger:     NewBetLedger(),
		eval:       eval,
		clock:      quartz.NewReal(),
		log:        log.Default(),
		round:      RoundAnte,
		handNumber: 1,
		shown:      make(map[string]HandValue),
	}
	for _, opt := range tableOpts {
		opt(t)
	}

	if opts.Tournament != nil {
		t.blinds = SitAndGoBlinds{
			BaseSmall:     opts.SmallBlind,
			BaseBig:       opts.BigBlind,
			LevelDuration: opts.Tournament.LevelDuration,
		}
	} else {
		t.blinds = CashBlinds{Small: opts.SmallBlind, Big: opts.BigBlind}
	}

	t.deck = poker.NewDeck(t.handSeed())
	return t, nil
}

// Address returns the table identity
func (t *Table) Address() string { return t.address }

// Options returns the table configuration
func (t *Table) Options() GameOptions { return t.opts }

// Round returns the current round
func (t *Table) Round() Round { return t.round }

// HandNumber returns the current hand number, starting at 1
func (t *Table) HandNumber() int { return t.handNumber }

// Players returns the seated players in seat order
func (t *Table) Players() []*Player { return t.seats.Players() }

// Player returns the seated player with the given address, or nil
func (t *Table) Player(address string) *Player { return t.seats.Player(address) }

// CommunityCards returns the board
func (t *Table) CommunityCards() []poker.Card { return t.community }

// History returns the committed action log
func (t *Table) History() []Turn { return t.history }

// Winners returns the awards from the most recently completed hand
func (t *Table) Winners() []Winner { return t.winners }

// Results returns tournament finishing places, if any
func (t *Table) Results() []Result { return t.results }

// NextIndex returns the index the next committed action must carry
func (t *Table) NextIndex() int { return len(t.history) + 1 }

// handSeed derives the deck seed for the current hand
func (t *Table) handSeed() string {
	return fmt.Sprintf("%s:%d", t.seed, t.handNumber)
}

// currentBlinds returns the blinds in force, escalated by elapsed tournament
// time when applicable. Elapsed time is measured to the last action so the
// same history always yields the same blinds.
func (t *Table) currentBlinds() (chips.Amount, chips.Amount) {
	var elapsed time.Duration
	if t.tournamentStart != nil && !t.now.IsZero() {
		elapsed = t.now.Sub(*t.tournamentStart)
	}
	return t.blinds.Blinds(elapsed)
}

// handTurns returns the committed actions of the current hand
func (t *Table) handTurns() []Turn {
	return t.history[t.handStart:]
}

// turnBound reports whether the action type may only be taken by the player
// whose turn it is
func turnBound(a ActionType) bool {
	switch a {
	case ActionSmallBlind, ActionBigBlind, ActionDeal,
		ActionFold, ActionCheck, ActionBet, ActionCall, ActionRaise, ActionAllIn,
		ActionShow, ActionMuck:
		return true
	}
	return false
}

// PerformAction validates and applies a single action. On any validation
// failure the state is unchanged and the action's index must not be reused.
func (t *Table) PerformAction(a Action) error {
	if a.Index != t.NextIndex() {
		return fmt.Errorf("%w: got %d, expected %d", ErrInvalidIndex, a.Index, t.NextIndex())
	}

	// the action timestamp drives anything time-dependent, so replaying a
	// recorded log reproduces the same blinds and tournament clock
	if a.At.IsZero() {
		t.now = t.clock.Now()
	} else {
		t.now = a.At
	}

	if a.Type == ActionJoin {
		return t.applyJoin(a)
	}

	player := t.seats.Player(a.Player)
	if player == nil {
		return fmt.Errorf("%w: player %s not seated", ErrIllegalAction, a.Player)
	}

	if turnBound(a.Type) {
		if expected := t.expectedActor(); expected != a.Player {
			return fmt.Errorf("%w: %s acted, expected %s", ErrNotYourTurn, a.Player, expected)
		}
	}

	if a.Type == ActionDeal {
		if len(t.seats.LivePlayers()) < t.opts.MinPlayers {
			return fmt.Errorf("%w: need %d to deal", ErrNotEnoughPlayers, t.opts.MinPlayers)
		}
	}

	if a.Type == ActionMuck && t.round == RoundShowdown && t.mustShow(player) {
		return ErrMuckWinningHand
	}

	legal := findLegal(t.LegalActions(a.Player), a.Type)
	if legal == nil {
		return fmt.Errorf("%w: %s in round %s", ErrIllegalAction, a.Type, t.round)
	}
	if a.Amount.Less(legal.Min) || legal.Max.Less(a.Amount) {
		return fmt.Errorf("%w: %s %s outside [%s, %s]",
			ErrInsufficientFunds, a.Type, a.Amount, legal.Min, legal.Max)
	}

	switch a.Type {
	case ActionSmallBlind, ActionBigBlind:
		t.applyBlind(player, a)
	case ActionDeal:
		t.applyDeal(a)
	case ActionFold:
		player.Status = StatusFolded
		t.commit(a, chips.Zero())
	case ActionCheck:
		t.commit(a, chips.Zero())
	case ActionCall, ActionBet, ActionRaise, ActionAllIn:
		t.applyWager(player, a)
	case ActionShow:
		t.applyShow(player, a)
	case ActionMuck:
		player.Status = StatusFolded
		t.commit(a, chips.Zero())
	case ActionNewHand:
		t.commit(a, chips.Zero())
		t.startNewHand()
		return nil
	case ActionSitOut:
		t.applySitOut(player, a)
	case ActionSitIn:
		player.Status = StatusActive
		t.commit(a, chips.Zero())
	case ActionTopUp:
		player.Stack = player.Stack.Add(a.Amount)
		t.totalChips = t.totalChips.Add(a.Amount)
		t.commit(a, a.Amount)
	case ActionLeave:
		t.applyLeave(player, a)
		return nil
	default:
		return fmt.Errorf("%w: unknown action %s", ErrIllegalAction, a.Type)
	}

	t.progress()
	t.validateChips()
	return nil
}

// commit appends the action to the history
func (t *Table) commit(a Action, amount chips.Amount) {
	turn := Turn{
		Player:    a.Player,
		Action:    a.Type,
		Amount:    amount,
		Index:     a.Index,
		Round:     t.round,
		Timestamp: t.now,
	}
	if a.Type == ActionJoin {
		turn.Seat = a.Seat
	}
	t.history = append(t.history, turn)
	t.log.Debug("action committed",
		"player", a.Player, "action", a.Type, "amount", amount, "index", a.Index, "round", t.round)
}

func (t *Table) applyJoin(a Action) error {
	if a.Amount.Less(t.opts.MinBuyIn) || t.opts.MaxBuyIn.Less(a.Amount) {
		return fmt.Errorf("%w: buy-in %s outside [%s, %s]",
			ErrInsufficientFunds, a.Amount, t.opts.MinBuyIn, t.opts.MaxBuyIn)
	}

	status := StatusSittingOut
	if t.round == RoundAnte && !t.smallBlindPosted && !t.bigBlindPosted {
		status = StatusActive
	}
	player := &Player{Address: a.Player, Stack: a.Amount, Status: status}
	if err := t.seats.Join(player, a.Seat); err != nil {
		return err
	}
	a.Seat = player.Seat
	t.totalChips = t.totalChips.Add(a.Amount)

	// seat the button as soon as a hand can form; later pre-blind joins
	// shuffle the blind positions but never move the button
	if t.round == RoundAnte && !t.smallBlindPosted {
		if t.seats.Dealer() == 0 {
			if first := t.seats.NextSeat(0, playing); first != 0 {
				t.seats.SetPositions(first)
			}
		} else {
			t.seats.SetPositions(t.seats.Dealer())
		}
	}

	t.commit(a, a.Amount)
	t.validateChips()
	return nil
}

func (t *Table) applyBlind(player *Player, a Action) {
	paid := player.pay(a.Amount)
	t.ledger.Record(RoundPreflop, player.Address, paid)
	if a.Type == ActionSmallBlind {
		t.smallBlindPosted = true
	} else {
		t.bigBlindPosted = true
	}
	t.commit(a, paid)
}

func (t *Table) applyDeal(a Action) {
	if t.opts.Tournament != nil && t.tournamentStart == nil {
		start := t.now
		t.tournamentStart = &start
	}

	// two cards each, in seat order starting left of the dealer
	seat := t.seats.Dealer()
	for range t.seats.LivePlayers() {
		seat = t.seats.NextSeat(seat, func(p *Player) bool { return p.inHand() })
		t.seats.PlayerAt(seat).HoleCards = t.deck.Deal(2)
	}

	t.commit(a, chips.Zero())
	t.round = RoundPreflop
	t.lastAggression = 0
	t.log.Info("hand dealt", "hand", t.handNumber, "players", len(t.seats.LivePlayers()))
}

func (t *Table) applyWager(player *Player, a Action) {
	previousLargest := t.ledger.LargestBet(t.round)
	paid := player.pay(a.Amount)
	t.ledger.Record(t.round, player.Address, paid)

	if t.ledger.Contribution(t.round, player.Address).Cmp(previousLargest) > 0 &&
		(a.Type.aggressive() || a.Type == ActionAllIn) {
		t.ledger.SetAggressor(player.Address)
		t.lastAggression = a.Index
	}
	t.commit(a, paid)
}

func (t *Table) applySitOut(player *Player, a Action) {
	player.Status = StatusSittingOut
	if t.round == RoundAnte && !t.smallBlindPosted && t.seats.Dealer() != 0 {
		t.seats.SetPositions(t.seats.Dealer())
	}
	t.commit(a, chips.Zero())
}

// applyLeave removes a player, folding them first if they hold a live
// interest in the pot. Any pot the departure resolves is settled before the
// refund is taken, so the recorded turn amount is everything the player
// walks away with.
func (t *Table) applyLeave(player *Player, a Action) {
	if player.inHand() && t.round != RoundAnte && t.round != RoundEnd {
		player.Status = StatusFolded
	}
	t.progress()
	refund := player.Stack
	t.totalChips = t.totalChips.Sub(refund)
	t.commit(a, refund)
	t.seats.Remove(player.Address)
	if t.round == RoundAnte && !t.smallBlindPosted && t.seats.Dealer() != 0 {
		t.seats.SetPositions(t.seats.Dealer())
	}
	t.validateChips()
}

// expectedActor returns the address of the player whose turn it is, or ""
// when no player is on the clock
func (t *Table) expectedActor() string {
	switch {
	case t.round == RoundAnte:
		var seat int
		if !t.smallBlindPosted {
			seat = t.seats.SmallBlindSeat()
		} else if !t.bigBlindPosted {
			seat = t.seats.BigBlindSeat()
		} else {
			seat = t.dealAuthoritySeat()
		}
		if p := t.seats.PlayerAt(seat); p != nil {
			return p.Address
		}
		return ""
	case t.round.isBetting():
		if p := t.nextToAct(); p != nil {
			return p.Address
		}
		return ""
	case t.round == RoundShowdown:
		if p := t.nextToShow(); p != nil {
			return p.Address
		}
		return ""
	}
	return ""
}

// dealAuthoritySeat returns the seat allowed to deal: the small blind when
// heads-up, otherwise the dealer
func (t *Table) dealAuthoritySeat() int {
	if len(t.seats.LivePlayers()) == 2 {
		return t.seats.SmallBlindSeat()
	}
	return t.seats.Dealer()
}

// nextToAct returns the active player due to act in the current betting
// round, or nil if betting cannot continue
func (t *Table) nextToAct() *Player {
	active := func(p *Player) bool { return p.canAct() }

	var lastSeat int
	for _, turn := range t.handTurns() {
		if turn.Round != t.round || !bettingAction(turn.Action) {
			continue
		}
		if p := t.seats.Player(turn.Player); p != nil {
			lastSeat = p.Seat
		}
	}

	if lastSeat == 0 {
		// round opens left of the big blind preflop, left of the button after
		if t.round == RoundPreflop {
			lastSeat = t.seats.BigBlindSeat()
		} else {
			lastSeat = t.seats.Dealer()
		}
	}

	seat := t.seats.NextSeat(lastSeat, active)
	if seat == 0 {
		return nil
	}
	return t.seats.PlayerAt(seat)
}

// bettingAction reports whether the action type is part of a betting round
func bettingAction(a ActionType) bool {
	switch a {
	case ActionFold, ActionCheck, ActionBet, ActionCall, ActionRaise, ActionAllIn:
		return true
	}
	return false
}

// bettingComplete reports whether the current betting round has finished
func (t *Table) bettingComplete() bool {
	live := t.seats.LivePlayers()
	if len(live) <= 1 {
		return true
	}

	var active []*Player
	for _, p := range live {
		if p.canAct() {
			active = append(active, p)
		}
	}
	if len(active) == 0 {
		return true
	}

	largest := t.ledger.LargestBet(t.round)

	// a lone player facing only all-ins has no betting left once matched
	if len(active) == 1 && t.ledger.Contribution(t.round, active[0].Address).Equal(largest) {
		if len(active) < len(live) {
			return true
		}
	}

	for _, p := range active {
		if !t.ledger.Contribution(t.round, p.Address).Equal(largest) {
			return false
		}
		if !t.hasActedThisRound(p) {
			return false
		}
	}
	return true
}

// hasActedThisRound reports whether the player has taken a betting action in
// the current round since the last aggression
func (t *Table) hasActedThisRound(p *Player) bool {
	for _, turn := range t.handTurns() {
		if turn.Round != t.round || turn.Player != p.Address || !bettingAction(turn.Action) {
			continue
		}
		if turn.Index >= t.lastAggression {
			return true
		}
	}
	return false
}

// progress drives the state machine after a committed action: resolving
// fold-outs, closing betting rounds, running out the board when no further
// betting is possible, and resolving the showdown.
func (t *Table) progress() {
	for advances := 0; advances <= maxRoundAdvances; advances++ {
		if t.round == RoundEnd {
			return
		}

		live := t.seats.LivePlayers()
		if t.round == RoundAnte {
			// a blind left in the pot by departures goes to the lone
			// remaining player rather than sitting in limbo
			if len(live) == 1 && t.ledger.HandTotal().Sign() > 0 {
				t.resolveUncontested(live)
			}
			return
		}
		if len(live) <= 1 {
			t.resolveUncontested(live)
			return
		}

		if t.round.isBetting() {
			if !t.bettingComplete() {
				return
			}
			t.advanceRound()
			continue
		}

		if t.round == RoundShowdown {
			if t.undecidedCount() == 0 {
				t.resolveShowdown()
			}
			return
		}
		return
	}
	t.log.Error("round advance limit reached", "round", t.round, "hand", t.handNumber)
}

// advanceRound moves to the next round and reveals any community cards it
// requires. Reveals are idempotent: cards already on the board stay.
func (t *Table) advanceRound() {
	t.round = t.round.next()
	t.lastAggression = 0
	if need := t.round.boardSize() - len(t.community); need > 0 {
		t.community = append(t.community, t.deck.Deal(need)...)
	}
	t.log.Debug("round advanced", "round", t.round, "board", poker.Mnemonics(t.community))
}

// startNewHand resets the per-hand state: busted players are retired with a
// finishing place, sitting-out players rejoin, the button rotates and the
// deck reshuffles from the next hand seed.
func (t *Table) startNewHand() {
	var busting []*Player
	for _, p := range t.seats.Players() {
		p.HoleCards = nil
		switch {
		case p.Status == StatusBusted:
		case p.Stack.IsZero():
			busting = append(busting, p)
		case p.Status == StatusSittingOut:
			p.Status = StatusActive
		default:
			p.Status = StatusActive
		}
	}

	// players busting on the same hand are placed by chips at risk: the
	// larger stake outlasts the smaller, equal stakes bust in seat order
	sort.SliceStable(busting, func(i, j int) bool {
		return t.ledger.PlayerTotal(busting[i].Address).Less(t.ledger.PlayerTotal(busting[j].Address))
	})
	for _, p := range busting {
		t.bustPlayer(p)
	}

	t.handNumber++
	t.round = RoundAnte
	t.community = nil
	t.winners = nil
	t.shown = make(map[string]HandValue)
	t.ledger.Reset()
	t.smallBlindPosted = false
	t.bigBlindPosted = false
	t.lastAggression = 0
	t.handStart = len(t.history)
	t.deck = poker.NewDeck(t.handSeed())
	t.seats.RotateButton()

	if t.opts.Tournament != nil && t.seats.NonBustedCount() == 1 {
		t.concludeTournament()
	}

	t.log.Info("new hand", "hand", t.handNumber, "dealer", t.seats.Dealer())
}

// bustPlayer retires a zero-stack player with a finishing place and, in
// tournaments, a payout
func (t *Table) bustPlayer(p *Player) {
	p.Status = StatusBusted
	place := t.seats.NonBustedCount() + 1
	result := Result{Address: p.Address, Place: place}
	if t.opts.Tournament != nil {
		pm := PayoutManager{BuyIn: t.opts.MinBuyIn, Entrants: t.entrants()}
		result.Payout = pm.Payout(place)
		p.Stack = p.Stack.Add(result.Payout)
		t.totalChips = t.totalChips.Add(result.Payout)
	}
	t.results = append(t.results, result)
	t.log.Info("player busted", "player", p.Address, "place", place)
}

// concludeTournament awards first place to the last player standing
func (t *Table) concludeTournament() {
	for _, p := range t.seats.Players() {
		if p.Status == StatusBusted {
			continue
		}
		pm := PayoutManager{BuyIn: t.opts.MinBuyIn, Entrants: t.entrants()}
		payout := pm.Payout(1)
		p.Stack = p.Stack.Add(payout)
		t.totalChips = t.totalChips.Add(payout)
		t.results = append(t.results, Result{Address: p.Address, Place: 1, Payout: payout})
		t.round = RoundEnd
		t.log.Info("tournament complete", "winner", p.Address, "payout", payout)
		return
	}
}

// entrants counts everyone who has played at the table this game
func (t *Table) entrants() int {
	return t.seats.Count()
}

// validateChips checks chip conservation: stacks plus the live pot must
// always equal the chips bought in minus the chips taken off the table.
func (t *Table) validateChips() {
	total := chips.Zero()
	for _, p := range t.seats.Players() {
		total = total.Add(p.Stack)
	}
	if t.round != RoundEnd {
		total = total.Add(t.ledger.HandTotal())
	}
	if !total.Equal(t.totalChips) {
		t.log.Error("chip conservation violated",
			"expected", t.totalChips, "actual", total, "hand", t.handNumber)
	}
}

// findLegal returns the legal action entry for the type, or nil
func findLegal(actions []LegalAction, typ ActionType) *LegalAction {
	for i := range actions {
		if actions[i].Action == typ {
			return &actions[i]
		}
	}
	return nil
}
