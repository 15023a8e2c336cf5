package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/talgya/metropolis/internal/city"
	"github.com/talgya/metropolis/internal/persistence"
	"github.com/talgya/metropolis/internal/rng"
)

// GenerateCmd creates a new city record and writes it to a JSON file and/or
// the city store.
type GenerateCmd struct {
	Population int     `help:"Target population of the city" default:"100000"`
	Seed       *uint32 `help:"Master seed; random when omitted"`
	Output     string  `help:"Output file for the city record" default:"city.json"`
	DB         string  `help:"Also save the city to this SQLite store"`
}

func (g *GenerateCmd) Run() error {
	var masterSeed uint32
	if g.Seed != nil {
		masterSeed = *g.Seed
	} else {
		masterSeed = rng.NewRandom().Uint32()
	}

	fmt.Printf("Generating a city of %s people with master seed %d\n",
		humanize.Comma(int64(g.Population)), masterSeed)

	c := city.Generate(masterSeed, g.Population)

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal city: %w", err)
	}
	if err := os.WriteFile(g.Output, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", g.Output, err)
	}
	fmt.Printf("City %s saved to %s (workforce %s)\n",
		c.ID(), g.Output, humanize.Comma(int64(c.Workforce.Total)))

	if g.DB != "" {
		db, err := persistence.Open(g.DB)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.SaveCity(c); err != nil {
			return err
		}
		fmt.Printf("City %s saved to store %s\n", c.ID(), g.DB)
	}

	return nil
}
