package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/lox/holdem-engine/internal/chips"
	"github.com/lox/holdem-engine/internal/config"
	"github.com/lox/holdem-engine/internal/engine"
	"github.com/lox/holdem-engine/internal/evaluator"
)

// loadTable restores a table from a state file
func loadTable(cli *CLI, path string) (*engine.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading state file: %w", err)
	}
	return engine.RestoreTable(data, evaluator.New(), engine.WithLogger(cli.logger()))
}

// saveTable writes a table back to its state file
func saveTable(t *engine.Table, path string) error {
	data, err := t.ToJSON()
	if err != nil {
		return fmt.Errorf("serializing state: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// NewCmd creates a table from a genesis config and writes its initial state
type NewCmd struct {
	Config string `help:"Genesis config file (HCL)" default:"table.hcl"`
	Seed   string `help:"Deterministic deck seed; a random one is generated if empty"`
	Out    string `help:"Output state file" default:"table.json" short:"o"`
}

func (c *NewCmd) Run(cli *CLI) error {
	logger := cli.logger()

	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	opts, err := cfg.GameOptions()
	if err != nil {
		return err
	}

	seed := c.Seed
	if seed == "" {
		seed = uuid.NewString()
	}
	address := uuid.NewString()

	table, err := engine.NewTable(address, seed, opts, evaluator.New(), engine.WithLogger(logger))
	if err != nil {
		return err
	}

	logger.Info("table created", "address", address, "seed", seed, "config", cfg.Table.Name)
	return saveTable(table, c.Out)
}

// ActCmd applies a single action to a state file
type ActCmd struct {
	State  string `help:"Table state file" default:"table.json" short:"s"`
	Player string `arg:"" help:"Acting player address"`
	Action string `arg:"" help:"Action type (join, small-blind, deal, bet, ...)"`
	Amount string `help:"Chip amount, where the action takes one" default:"0"`
	Index  int    `help:"Action index; defaults to the next expected index" default:"0"`
	Seat   int    `help:"Seat to join (join only; 0 picks the next empty seat)"`
}

func (c *ActCmd) Run(cli *CLI) error {
	table, err := loadTable(cli, c.State)
	if err != nil {
		return err
	}

	amount, err := chips.Parse(c.Amount)
	if err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	index := c.Index
	if index == 0 {
		index = table.NextIndex()
	}

	action := engine.Action{
		Player: c.Player,
		Type:   engine.ActionType(c.Action),
		Index:  index,
		Amount: amount,
		Seat:   c.Seat,
	}
	if err := table.PerformAction(action); err != nil {
		return err
	}

	cli.logger().Info("action applied",
		"player", c.Player, "action", c.Action, "index", index, "round", table.Round())
	return saveTable(table, c.State)
}

// ActionsCmd prints the legal actions for a player
type ActionsCmd struct {
	State  string `help:"Table state file" default:"table.json" short:"s"`
	Player string `arg:"" help:"Player address"`
}

func (c *ActionsCmd) Run(cli *CLI) error {
	table, err := loadTable(cli, c.State)
	if err != nil {
		return err
	}

	actions := table.LegalActions(c.Player)
	if len(actions) == 0 {
		fmt.Println("no legal actions")
		return nil
	}
	for _, a := range actions {
		if a.Max.IsZero() {
			fmt.Printf("%-12s index=%d\n", a.Action, a.Index)
			continue
		}
		fmt.Printf("%-12s min=%s max=%s index=%d\n", a.Action, a.Min, a.Max, a.Index)
	}
	return nil
}

// StateCmd summarizes a table state file
type StateCmd struct {
	State string `help:"Table state file" default:"table.json" short:"s"`
	JSON  bool   `help:"Print the raw state JSON"`
}

func (c *StateCmd) Run(cli *CLI) error {
	table, err := loadTable(cli, c.State)
	if err != nil {
		return err
	}

	if c.JSON {
		data, err := table.ToJSON()
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	s := table.Snapshot()
	fmt.Printf("table %s  hand #%d  round %s\n", s.Address, s.HandNumber, s.Round)
	fmt.Printf("board: %v\n", s.CommunityCards)
	for _, p := range s.Players {
		marker := " "
		if p.Seat == s.Dealer {
			marker = "D"
		}
		fmt.Printf("%s seat %d  %-12s stack=%s bets=%s %v\n",
			marker, p.Seat, p.Address, p.Stack, p.SumOfBets, p.HoleCards)
	}
	for i, pot := range s.Pots {
		fmt.Printf("pot %d: %s (eligible: %v)\n", i, pot.Amount, pot.Eligible)
	}
	for _, w := range s.Winners {
		fmt.Printf("winner: %s +%s %s\n", w.Address, w.Amount, w.Description)
	}
	return nil
}

// ReplayCmd replays a state file's action log from genesis and verifies the
// result matches, proving the log and seed reproduce the state
type ReplayCmd struct {
	State string `help:"Table state file" default:"table.json" short:"s"`
}

func (c *ReplayCmd) Run(cli *CLI) error {
	logger := cli.logger()

	table, err := loadTable(cli, c.State)
	if err != nil {
		return err
	}
	s := table.Snapshot()

	replayed, err := engine.NewTable(s.Address, s.Deck, s.GameOptions, evaluator.New(), engine.WithLogger(logger))
	if err != nil {
		return err
	}
	for _, turn := range s.PreviousActions {
		action := engine.Action{
			Player: turn.Player,
			Type:   turn.Action,
			Index:  turn.Index,
			Amount: turn.Amount,
			Seat:   turn.Seat,
			At:     turn.Timestamp,
		}
		if err := replayed.PerformAction(action); err != nil {
			return fmt.Errorf("replaying action %d (%s %s): %w", turn.Index, turn.Player, turn.Action, err)
		}
	}

	original, err := table.ToJSON()
	if err != nil {
		return err
	}
	rebuilt, err := replayed.ToJSON()
	if err != nil {
		return err
	}
	if string(original) != string(rebuilt) {
		return fmt.Errorf("replay diverged from recorded state")
	}

	logger.Info("replay verified", "actions", len(s.PreviousActions), "round", replayed.Round())
	return nil
}
