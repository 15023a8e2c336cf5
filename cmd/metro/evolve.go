package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/talgya/metropolis/internal/city"
)

// EvolveCmd loads a city record, simulates a number of years, and writes the
// evolved record back.
type EvolveCmd struct {
	Years int    `help:"Number of years to simulate" default:"1"`
	City  string `help:"City record file to evolve" default:"city.json"`
}

func (e *EvolveCmd) Run() error {
	data, err := os.ReadFile(e.City)
	if err != nil {
		return fmt.Errorf("read %s: %w", e.City, err)
	}

	var c city.City
	if err := json.Unmarshal(data, &c); err != nil {
		return fmt.Errorf("parse %s: %w", e.City, err)
	}

	fmt.Printf("Evolving %s by %d years (population %s)\n",
		e.City, e.Years, humanize.Comma(int64(c.Population)))

	if err := city.Evolve(&c, e.Years); err != nil {
		return err
	}

	out, err := json.MarshalIndent(&c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal city: %w", err)
	}
	if err := os.WriteFile(e.City, out, 0644); err != nil {
		return fmt.Errorf("write %s: %w", e.City, err)
	}

	fmt.Printf("City evolved to year %d, population %s\n",
		c.CurrentYear, humanize.Comma(int64(c.Population)))
	return nil
}
