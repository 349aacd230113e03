package engine

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/lox/holdem-engine/internal/chips"
	"github.com/lox/holdem-engine/poker"
)

// PlayerState is the serialized view of a seated player
type PlayerState struct {
	Address      string        `json:"address"`
	Seat         int           `json:"seat"`
	Stack        chips.Amount  `json:"stack"`
	HoleCards    []string      `json:"holeCards,omitempty"`
	Status       PlayerStatus  `json:"status"`
	SumOfBets    chips.Amount  `json:"sumOfBets"`
	LegalActions []LegalAction `json:"legalActions"`
}

// State is the canonical JSON view of a table. All monetary fields are
// base-10 decimal strings; the deck serializes as the genesis seed plus the
// count of cards dealt, from which every hand's card sequence is reproduced.
type State struct {
	Address            string        `json:"address"`
	GameOptions        GameOptions   `json:"gameOptions"`
	Dealer             int           `json:"dealer"`
	SmallBlindPosition int           `json:"smallBlindPosition"`
	BigBlindPosition   int           `json:"bigBlindPosition"`
	Players            []PlayerState `json:"players"`
	CommunityCards     []string      `json:"communityCards"`
	Deck               string        `json:"deck"`
	CardsDealt         int           `json:"cardsDealt"`
	HandNumber         int           `json:"handNumber"`
	Pots               []Pot         `json:"pots"`
	PreviousActions    []Turn        `json:"previousActions"`
	Round              Round         `json:"round"`
	Winners            []Winner      `json:"winners"`
	Results            []Result      `json:"results,omitempty"`
	TournamentStart    *time.Time    `json:"tournamentStart,omitempty"`
}

// Pots returns the current pot tiers. Empty once the hand has ended and the
// chips have been distributed.
func (t *Table) Pots() []Pot {
	if t.round == RoundEnd {
		return nil
	}
	return BuildPots(t.ledger.Totals(), func(addr string) bool {
		p := t.seats.Player(addr)
		return p != nil && p.inHand()
	})
}

// Snapshot returns the serializable view of the table
func (t *Table) Snapshot() State {
	players := make([]PlayerState, 0, t.seats.Count())
	for _, p := range t.seats.Players() {
		players = append(players, PlayerState{
			Address:      p.Address,
			Seat:         p.Seat,
			Stack:        p.Stack,
			HoleCards:    poker.Mnemonics(p.HoleCards),
			Status:       p.Status,
			SumOfBets:    t.ledger.PlayerTotal(p.Address),
			LegalActions: t.LegalActions(p.Address),
		})
	}

	return State{
		Address:            t.address,
		GameOptions:        t.opts,
		Dealer:             t.seats.Dealer(),
		SmallBlindPosition: t.seats.SmallBlindSeat(),
		BigBlindPosition:   t.seats.BigBlindSeat(),
		Players:            players,
		CommunityCards:     poker.Mnemonics(t.community),
		Deck:               t.seed,
		CardsDealt:         t.deck.Dealt(),
		HandNumber:         t.handNumber,
		Pots:               t.Pots(),
		PreviousActions:    t.history,
		Round:              t.round,
		Winners:            t.winners,
		Results:            t.results,
		TournamentStart:    t.tournamentStart,
	}
}

// ToJSON serializes the table state
func (t *Table) ToJSON() ([]byte, error) {
	return json.MarshalIndent(t.Snapshot(), "", "  ")
}

// RestoreTable reconstructs a table from a serialized state. The bet ledger,
// deck position and shown hands are rebuilt from the action log, so the
// restored table is value-identical to the one that produced the snapshot.
func RestoreTable(data []byte, eval Evaluator, tableOpts ...TableOption) (*Table, error) {
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing table state: %w", err)
	}
	return restore(s, eval, tableOpts...)
}

func restore(s State, eval Evaluator, tableOpts ...TableOption) (*Table, error) {
	t, err := NewTable(s.Address, s.Deck, s.GameOptions, eval, tableOpts...)
	if err != nil {
		return nil, err
	}

	t.handNumber = s.HandNumber
	t.round = s.Round
	t.history = s.PreviousActions
	t.winners = s.Winners
	t.results = s.Results
	t.tournamentStart = s.TournamentStart

	community, err := poker.ParseCards(s.CommunityCards)
	if err != nil {
		return nil, fmt.Errorf("parsing community cards: %w", err)
	}
	t.community = community

	players := make([]*Player, 0, len(s.Players))
	for _, ps := range s.Players {
		hole, err := poker.ParseCards(ps.HoleCards)
		if err != nil {
			return nil, fmt.Errorf("parsing hole cards for %s: %w", ps.Address, err)
		}
		if len(hole) == 0 {
			hole = nil
		}
		players = append(players, &Player{
			Address:   ps.Address,
			Seat:      ps.Seat,
			Stack:     ps.Stack,
			Status:    ps.Status,
			HoleCards: hole,
		})
	}
	t.seats = RestoreSeatTable(s.GameOptions.MaxPlayers, s.Dealer, s.SmallBlindPosition, s.BigBlindPosition, players)

	t.handStart = 0
	for i, turn := range t.history {
		if turn.Action == ActionNewHand {
			t.handStart = i + 1
		}
	}
	if n := len(t.history); n > 0 {
		t.now = t.history[n-1].Timestamp
	}

	t.replayHand()

	// visible cards undercount the deal when a dealt player has left
	// mid-hand, so the snapshot's own count takes precedence
	dealt := len(t.community)
	for _, p := range players {
		dealt += len(p.HoleCards)
	}
	if s.CardsDealt > dealt {
		dealt = s.CardsDealt
	}
	t.deck = poker.NewDeck(t.handSeed())
	t.deck.Skip(dealt)

	t.totalChips = chips.Zero()
	for _, p := range players {
		t.totalChips = t.totalChips.Add(p.Stack)
	}
	if t.round != RoundEnd {
		t.totalChips = t.totalChips.Add(t.ledger.HandTotal())
	}

	return t, nil
}

// replayHand rebuilds the bet ledger, blind flags, aggression markers and
// shown hands from the current hand's turns
func (t *Table) replayHand() {
	for _, turn := range t.handTurns() {
		switch turn.Action {
		case ActionSmallBlind:
			t.smallBlindPosted = true
			t.ledger.Record(RoundPreflop, turn.Player, turn.Amount)
		case ActionBigBlind:
			t.bigBlindPosted = true
			t.ledger.Record(RoundPreflop, turn.Player, turn.Amount)
		case ActionBet, ActionCall, ActionRaise, ActionAllIn:
			previousLargest := t.ledger.LargestBet(turn.Round)
			t.ledger.Record(turn.Round, turn.Player, turn.Amount)
			raised := t.ledger.Contribution(turn.Round, turn.Player).Cmp(previousLargest) > 0
			if raised && (turn.Action.aggressive() || turn.Action == ActionAllIn) {
				t.ledger.SetAggressor(turn.Player)
				if turn.Round == t.round {
					t.lastAggression = turn.Index
				}
			}
		case ActionShow:
			if p := t.seats.Player(turn.Player); p != nil {
				value, err := t.evaluate(p)
				if err != nil {
					t.log.Error("hand evaluation failed during restore", "player", p.Address, "err", err)
				}
				t.shown[p.Address] = value
			}
		}
	}
}
