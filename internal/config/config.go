// Package config loads table genesis configuration from HCL files.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/holdem-engine/internal/chips"
	"github.com/lox/holdem-engine/internal/engine"
)

// Config is the top-level configuration file shape
type Config struct {
	Table    TableConfig `hcl:"table,block"`
	LogLevel string      `hcl:"log_level,optional"`
}

// TableConfig defines a table's genesis parameters. Chip amounts are decimal
// strings so arbitrary-precision values survive the config boundary.
type TableConfig struct {
	Name       string `hcl:"name,label"`
	MinBuyIn   string `hcl:"min_buy_in"`
	MaxBuyIn   string `hcl:"max_buy_in"`
	MinPlayers int    `hcl:"min_players,optional"`
	MaxPlayers int    `hcl:"max_players,optional"`
	SmallBlind string `hcl:"small_blind"`
	BigBlind   string `hcl:"big_blind"`
	TimeoutSec int    `hcl:"timeout_seconds,optional"`

	Rake       *RakeConfig       `hcl:"rake,block"`
	Tournament *TournamentConfig `hcl:"tournament,block"`
}

// RakeConfig defines the pot fee
type RakeConfig struct {
	FreeThreshold string `hcl:"free_threshold"`
	Percentage    int64  `hcl:"percentage"`
	Cap           string `hcl:"cap"`
	Owner         string `hcl:"owner"`
}

// TournamentConfig enables sit-and-go mode
type TournamentConfig struct {
	LevelDurationMinutes int `hcl:"level_duration_minutes"`
}

// Default returns a default cash-game configuration
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Table: TableConfig{
			Name:       "main",
			MinBuyIn:   "100",
			MaxBuyIn:   "1000",
			MinPlayers: 2,
			MaxPlayers: 9,
			SmallBlind: "1",
			BigBlind:   "2",
			TimeoutSec: 30,
		},
	}
}

// Load reads a configuration file, falling back to defaults if the file does
// not exist
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Table.MinPlayers == 0 {
		cfg.Table.MinPlayers = 2
	}
	if cfg.Table.MaxPlayers == 0 {
		cfg.Table.MaxPlayers = 9
	}
	if cfg.Table.TimeoutSec == 0 {
		cfg.Table.TimeoutSec = 30
	}

	return &cfg, nil
}

// GameOptions converts the configuration into validated engine options
func (c *Config) GameOptions() (engine.GameOptions, error) {
	opts := engine.GameOptions{
		MinPlayers: c.Table.MinPlayers,
		MaxPlayers: c.Table.MaxPlayers,
		Timeout:    time.Duration(c.Table.TimeoutSec) * time.Second,
	}

	var err error
	if opts.MinBuyIn, err = chips.Parse(c.Table.MinBuyIn); err != nil {
		return opts, fmt.Errorf("min_buy_in: %w", err)
	}
	if opts.MaxBuyIn, err = chips.Parse(c.Table.MaxBuyIn); err != nil {
		return opts, fmt.Errorf("max_buy_in: %w", err)
	}
	if opts.SmallBlind, err = chips.Parse(c.Table.SmallBlind); err != nil {
		return opts, fmt.Errorf("small_blind: %w", err)
	}
	if opts.BigBlind, err = chips.Parse(c.Table.BigBlind); err != nil {
		return opts, fmt.Errorf("big_blind: %w", err)
	}

	if c.Table.Rake != nil {
		rake := &engine.RakeConfig{Percentage: c.Table.Rake.Percentage}
		if rake.Threshold, err = chips.Parse(c.Table.Rake.FreeThreshold); err != nil {
			return opts, fmt.Errorf("rake free_threshold: %w", err)
		}
		if rake.Cap, err = chips.Parse(c.Table.Rake.Cap); err != nil {
			return opts, fmt.Errorf("rake cap: %w", err)
		}
		opts.Rake = rake
		opts.Owner = c.Table.Rake.Owner
	}

	if c.Table.Tournament != nil {
		opts.Tournament = &engine.TournamentConfig{
			LevelDuration: time.Duration(c.Table.Tournament.LevelDurationMinutes) * time.Minute,
		}
	}

	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}
