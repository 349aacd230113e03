package engine_test

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-engine/internal/chips"
	"github.com/lox/holdem-engine/internal/engine"
	"github.com/lox/holdem-engine/internal/evaluator"
)

func TestSnapshotRoundTrip(t *testing.T) {
	t.Parallel()

	table := newTestTable(t, cashOptions())
	join(t, table, "p1", 1, 100)
	join(t, table, "p2", 2, 100)
	perform(t, table, "p1", engine.ActionSmallBlind, chips.New(1))
	perform(t, table, "p2", engine.ActionBigBlind, chips.New(2))
	perform(t, table, "p1", engine.ActionDeal, chips.Zero())
	perform(t, table, "p1", engine.ActionCall, chips.New(1))
	perform(t, table, "p2", engine.ActionCheck, chips.Zero())
	require.Equal(t, engine.RoundFlop, table.Round())

	first, err := table.ToJSON()
	require.NoError(t, err)

	restored, err := engine.RestoreTable(first, evaluator.New(), engine.WithLogger(log.New(io.Discard)))
	require.NoError(t, err)

	second, err := restored.ToJSON()
	require.NoError(t, err)
	require.Equal(t, string(first), string(second), "restore must be lossless")
}

func TestRestoredTableContinuesPlay(t *testing.T) {
	t.Parallel()

	table := newTestTable(t, cashOptions())
	join(t, table, "p1", 1, 100)
	join(t, table, "p2", 2, 100)
	perform(t, table, "p1", engine.ActionSmallBlind, chips.New(1))
	perform(t, table, "p2", engine.ActionBigBlind, chips.New(2))
	perform(t, table, "p1", engine.ActionDeal, chips.Zero())
	perform(t, table, "p1", engine.ActionCall, chips.New(1))
	perform(t, table, "p2", engine.ActionCheck, chips.Zero())

	data, err := table.ToJSON()
	require.NoError(t, err)
	restored, err := engine.RestoreTable(data, evaluator.New(), engine.WithLogger(log.New(io.Discard)))
	require.NoError(t, err)

	// same flop, same hole cards, same pot
	require.Equal(t, visibleCards(table), visibleCards(restored))
	require.Equal(t, table.Pots(), restored.Pots())

	// betting picks up where it left off: big blind acts first after the flop
	perform(t, restored, "p2", engine.ActionCheck, chips.Zero())
	perform(t, restored, "p1", engine.ActionCheck, chips.Zero())
	require.Equal(t, engine.RoundTurn, restored.Round())
	require.Len(t, restored.CommunityCards(), 4)

	// the fourth street card comes from the same deterministic deck
	perform(t, table, "p2", engine.ActionCheck, chips.Zero())
	perform(t, table, "p1", engine.ActionCheck, chips.Zero())
	require.Equal(t, table.CommunityCards(), restored.CommunityCards())
}

// visibleCards flattens the board and hole cards for comparison
func visibleCards(table *engine.Table) []string {
	cards := []string{}
	for _, c := range table.CommunityCards() {
		cards = append(cards, c.String())
	}
	for _, p := range table.Players() {
		for _, c := range p.HoleCards {
			cards = append(cards, c.String())
		}
	}
	return cards
}

// a mid-hand departure removes the leaver's hole cards from the snapshot,
// but the restored deck must still account for them
func TestRestoreAfterMidHandLeave(t *testing.T) {
	t.Parallel()

	table := newTestTable(t, cashOptions())
	join(t, table, "p1", 1, 100)
	join(t, table, "p2", 2, 100)
	join(t, table, "p3", 3, 100)
	perform(t, table, "p2", engine.ActionSmallBlind, chips.New(1))
	perform(t, table, "p3", engine.ActionBigBlind, chips.New(2))
	perform(t, table, "p1", engine.ActionDeal, chips.Zero())
	perform(t, table, "p1", engine.ActionCall, chips.New(2))
	require.NoError(t, table.PerformAction(engine.Action{
		Player: "p2", Type: engine.ActionLeave, Index: table.NextIndex(),
	}))

	data, err := table.ToJSON()
	require.NoError(t, err)
	restored, err := engine.RestoreTable(data, evaluator.New(), engine.WithLogger(log.New(io.Discard)))
	require.NoError(t, err)

	second, err := restored.ToJSON()
	require.NoError(t, err)
	require.Equal(t, string(data), string(second), "restore must be lossless after a departure")

	// closing the preflop round must reveal the same flop on both tables
	perform(t, table, "p3", engine.ActionCheck, chips.Zero())
	perform(t, restored, "p3", engine.ActionCheck, chips.Zero())
	require.Equal(t, engine.RoundFlop, table.Round())
	require.Equal(t, engine.RoundFlop, restored.Round())
	require.Equal(t, table.CommunityCards(), restored.CommunityCards())
}

func TestSnapshotDeckIsSeed(t *testing.T) {
	t.Parallel()

	table := newTestTable(t, cashOptions())
	assert.Equal(t, "seed-1", table.Snapshot().Deck)
}

func TestRestoreRejectsInvalidJSON(t *testing.T) {
	t.Parallel()

	_, err := engine.RestoreTable([]byte("{"), evaluator.New())
	require.Error(t, err)
}

func TestPotsEmptyAfterHandEnds(t *testing.T) {
	t.Parallel()

	table := newTestTable(t, cashOptions())
	join(t, table, "p1", 1, 100)
	join(t, table, "p2", 2, 100)
	perform(t, table, "p1", engine.ActionSmallBlind, chips.New(1))
	perform(t, table, "p2", engine.ActionBigBlind, chips.New(2))
	perform(t, table, "p1", engine.ActionDeal, chips.Zero())
	require.NotEmpty(t, table.Pots())

	perform(t, table, "p1", engine.ActionFold, chips.Zero())
	require.Equal(t, engine.RoundEnd, table.Round())
	require.Empty(t, table.Pots(), "distributed pots are no longer reported")
}
