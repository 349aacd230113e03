package engine_test

import (
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-engine/internal/chips"
	"github.com/lox/holdem-engine/internal/engine"
	"github.com/lox/holdem-engine/internal/evaluator"
)

// showdownState builds a heads-up table checked down to the river with the
// given hole cards, 2 chips from each player in the pot and p2 first to show
func showdownState(p1Cards, p2Cards []string) engine.State {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	turn := func(index int, player string, action engine.ActionType, amount int64, round engine.Round) engine.Turn {
		return engine.Turn{
			Player: player, Action: action, Amount: chips.New(amount),
			Index: index, Round: round,
			Timestamp: base.Add(time.Duration(index) * time.Second),
		}
	}

	return engine.State{
		Address:            "table-1",
		GameOptions:        cashOptions(),
		Dealer:             1,
		SmallBlindPosition: 1,
		BigBlindPosition:   2,
		Players: []engine.PlayerState{
			{Address: "p1", Seat: 1, Stack: chips.New(998), Status: engine.StatusActive, HoleCards: p1Cards},
			{Address: "p2", Seat: 2, Stack: chips.New(998), Status: engine.StatusActive, HoleCards: p2Cards},
		},
		CommunityCards: []string{"2H", "7D", "9C", "JS", "4D"},
		Deck:           "seed-1",
		HandNumber:     1,
		Round:          engine.RoundShowdown,
		PreviousActions: []engine.Turn{
			turn(1, "p1", engine.ActionSmallBlind, 1, engine.RoundAnte),
			turn(2, "p2", engine.ActionBigBlind, 2, engine.RoundAnte),
			turn(3, "p1", engine.ActionDeal, 0, engine.RoundAnte),
			turn(4, "p1", engine.ActionCall, 1, engine.RoundPreflop),
			turn(5, "p2", engine.ActionCheck, 0, engine.RoundPreflop),
		},
	}
}

func restoreState(t *testing.T, s engine.State) *engine.Table {
	t.Helper()
	data, err := json.Marshal(s)
	require.NoError(t, err)
	table, err := engine.RestoreTable(data, evaluator.New(), engine.WithLogger(log.New(io.Discard)))
	require.NoError(t, err)
	return table
}

// the best hand revealed so far cannot muck
func TestMuckingWinningHandRejected(t *testing.T) {
	t.Parallel()

	table := restoreState(t, showdownState([]string{"AS", "AH"}, []string{"2C", "3D"}))

	// without a final-round aggressor, showing starts left of the dealer
	perform(t, table, "p2", engine.ActionShow, chips.Zero())

	// p1's aces beat the shown pair of twos, so the hand must be shown
	err := table.PerformAction(engine.Action{
		Player: "p1", Type: engine.ActionMuck, Index: table.NextIndex(),
	})
	require.ErrorIs(t, err, engine.ErrMuckWinningHand)

	perform(t, table, "p1", engine.ActionShow, chips.Zero())

	require.Equal(t, engine.RoundEnd, table.Round())
	winners := table.Winners()
	require.Len(t, winners, 1)
	assert.Equal(t, "p1", winners[0].Address)
	assert.Equal(t, "4", winners[0].Amount.String())
	assert.Equal(t, []string{"AS", "AH"}, winners[0].Cards)
	assert.NotEmpty(t, winners[0].Description)
	assert.Equal(t, "1002", table.Player("p1").Stack.String())
	assert.Equal(t, "998", table.Player("p2").Stack.String())
}

// a beaten hand may muck, conceding the pot
func TestBeatenHandMayMuck(t *testing.T) {
	t.Parallel()

	table := restoreState(t, showdownState([]string{"2C", "3D"}, []string{"AS", "AH"}))

	perform(t, table, "p2", engine.ActionShow, chips.Zero())

	actions := table.LegalActions("p1")
	require.NotNil(t, findLegal(actions, engine.ActionShow))
	require.NotNil(t, findLegal(actions, engine.ActionMuck))

	perform(t, table, "p1", engine.ActionMuck, chips.Zero())

	require.Equal(t, engine.RoundEnd, table.Round())
	winners := table.Winners()
	require.Len(t, winners, 1)
	assert.Equal(t, "p2", winners[0].Address)
	assert.Equal(t, "1002", table.Player("p2").Stack.String())
}

func findLegal(actions []engine.LegalAction, typ engine.ActionType) *engine.LegalAction {
	for i := range actions {
		if actions[i].Action == typ {
			return &actions[i]
		}
	}
	return nil
}

// two players busting on the same hand are placed by the chips they had at
// risk: the larger stake finishes higher
func TestSimultaneousBustOrdering(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	opts := engine.GameOptions{
		MinBuyIn:   chips.New(1000),
		MaxBuyIn:   chips.New(1000),
		MinPlayers: 2,
		MaxPlayers: 9,
		SmallBlind: chips.New(10),
		BigBlind:   chips.New(20),
		Timeout:    30 * time.Second,
		Tournament: &engine.TournamentConfig{LevelDuration: 10 * time.Minute},
	}

	s := engine.State{
		Address:            "table-1",
		GameOptions:        opts,
		Dealer:             1,
		SmallBlindPosition: 2,
		BigBlindPosition:   3,
		Players: []engine.PlayerState{
			{Address: "p1", Seat: 1, Stack: chips.New(3000), Status: engine.StatusActive},
			{Address: "p2", Seat: 2, Stack: chips.Zero(), Status: engine.StatusAllIn},
			{Address: "p3", Seat: 3, Stack: chips.Zero(), Status: engine.StatusAllIn},
		},
		CommunityCards: []string{},
		Deck:           "seed-1",
		HandNumber:     2,
		Round:          engine.RoundEnd,
		Winners:        []engine.Winner{{Address: "p1", Amount: chips.New(1500)}},
		PreviousActions: []engine.Turn{
			{Player: "p2", Action: engine.ActionAllIn, Amount: chips.New(500),
				Index: 1, Round: engine.RoundPreflop, Timestamp: start},
			{Player: "p3", Action: engine.ActionAllIn, Amount: chips.New(1000),
				Index: 2, Round: engine.RoundPreflop, Timestamp: start.Add(time.Second)},
		},
		TournamentStart: &start,
	}

	table := restoreState(t, s)
	perform(t, table, "p1", engine.ActionNewHand, chips.Zero())

	results := table.Results()
	require.Len(t, results, 3)

	byAddress := map[string]engine.Result{}
	for _, r := range results {
		byAddress[r.Address] = r
	}

	// p3 risked 1000 against p2's 500, so p3 outlasts p2
	require.Equal(t, 2, byAddress["p3"].Place)
	assert.Equal(t, "600", byAddress["p3"].Payout.String(), "20% of the 3000 pool")
	require.Equal(t, 3, byAddress["p2"].Place)
	assert.True(t, byAddress["p2"].Payout.IsZero(), "third place in a short field is unpaid")
	require.Equal(t, 1, byAddress["p1"].Place)
	assert.Equal(t, "2400", byAddress["p1"].Payout.String())
}

// starting a new hand busts broke players, assigns finishing places and pays
// out the prize pool once a single player remains
func TestTournamentBustAndPayouts(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	opts := engine.GameOptions{
		MinBuyIn:   chips.New(1000),
		MaxBuyIn:   chips.New(1000),
		MinPlayers: 2,
		MaxPlayers: 9,
		SmallBlind: chips.New(10),
		BigBlind:   chips.New(20),
		Timeout:    30 * time.Second,
		Tournament: &engine.TournamentConfig{LevelDuration: 10 * time.Minute},
	}

	s := engine.State{
		Address:            "table-1",
		GameOptions:        opts,
		Dealer:             1,
		SmallBlindPosition: 1,
		BigBlindPosition:   2,
		Players: []engine.PlayerState{
			{Address: "p1", Seat: 1, Stack: chips.New(2000), Status: engine.StatusActive},
			{Address: "p2", Seat: 2, Stack: chips.Zero(), Status: engine.StatusAllIn},
		},
		CommunityCards: []string{},
		Deck:           "seed-1",
		HandNumber:     3,
		Round:          engine.RoundEnd,
		Winners:        []engine.Winner{{Address: "p1", Amount: chips.New(2000)}},
		PreviousActions: []engine.Turn{
			{Player: "p2", Action: engine.ActionFold, Amount: chips.Zero(),
				Index: 1, Round: engine.RoundPreflop, Timestamp: start},
		},
		TournamentStart: &start,
	}

	table := restoreState(t, s)
	perform(t, table, "p1", engine.ActionNewHand, chips.Zero())

	results := table.Results()
	require.Len(t, results, 2)

	byAddress := map[string]engine.Result{}
	for _, r := range results {
		byAddress[r.Address] = r
	}

	// buy-ins total 2000; second place takes 20%, the winner 80%
	require.Equal(t, 2, byAddress["p2"].Place)
	assert.Equal(t, "400", byAddress["p2"].Payout.String())
	require.Equal(t, 1, byAddress["p1"].Place)
	assert.Equal(t, "1600", byAddress["p1"].Payout.String())

	assert.Equal(t, engine.StatusBusted, table.Player("p2").Status)
	assert.Equal(t, engine.RoundEnd, table.Round(), "tournament is over")
	assert.Equal(t, "400", table.Player("p2").Stack.String())
	assert.Equal(t, "3600", table.Player("p1").Stack.String())
}
