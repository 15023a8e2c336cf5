// Package city holds the persisted city record and the spatial consumers of
// the seed system: the Roman grid layout and the temporal era simulator.
package city

import (
	"fmt"

	"github.com/talgya/metropolis/internal/population"
	"github.com/talgya/metropolis/internal/rng"
	"github.com/talgya/metropolis/internal/seed"
)

// TimelineEntry records the population at the end of one simulated year.
type TimelineEntry struct {
	Year       int `json:"year"`
	Population int `json:"population"`
}

// City is the persisted city record. Workforce, occupations and zones are
// derived from the histogram; they are stored for consumers but loaders must
// not trust them over a recomputation.
type City struct {
	Population  int                              `json:"population"`
	Seed        uint32                           `json:"seed"`
	Workforce   population.Workforce             `json:"workforce"`
	Zones       map[string]population.Zone       `json:"zones"`
	Occupations map[string]population.Occupation `json:"occupations"`
	Histogram   []population.Bucket              `json:"histogram"`

	FoundingYear int                `json:"founding_year"`
	CurrentYear  int                `json:"current_year"`
	Timeline     []TimelineEntry    `json:"timeline,omitempty"`
	Summary      population.Summary `json:"summary"`
}

// ID returns the reproducible identifier for this city's generation
// parameters.
func (c *City) ID() string {
	return seed.CityID(c.Seed, c.Population)
}

// Validate fails fast on malformed records: wrong histogram length, negative
// counts, or population/histogram disagreement. No partial loads.
func (c *City) Validate() error {
	if c.Histogram == nil {
		return fmt.Errorf("city record missing histogram")
	}
	state := &population.State{Population: c.Population, Histogram: c.Histogram}
	if err := state.Validate(); err != nil {
		return fmt.Errorf("invalid city record: %w", err)
	}
	return nil
}

// Generate builds a complete city from a master seed and target population.
// Deterministic: the same inputs always produce an identical record.
func Generate(masterSeed uint32, target int) *City {
	root := rng.New(masterSeed)
	model := population.GenerateNew(root, target)
	state := model.State()

	return &City{
		Population:  state.Population,
		Seed:        masterSeed,
		Workforce:   state.Workforce(),
		Zones:       model.Zones,
		Occupations: model.Occupations,
		Histogram:   state.Histogram,
		Summary:     population.Summarize(state),
	}
}

// Evolve advances the city by the given number of years and rewrites the
// derived fields. The evolution stream is a child of the master seed, so
// evolving never perturbs the streams that generated the city, and each
// year's stream is spawned in order (time is call order here).
func Evolve(c *City, years int) error {
	if err := c.Validate(); err != nil {
		return err
	}

	// Simulate on a copy so a failed year never half-mutates the record.
	state := (&population.State{Population: c.Population, Histogram: c.Histogram}).Clone()

	evolution := rng.New(c.Seed).Child("evolution")
	model := population.New(evolution, state, population.AgeStructured{}, nil)

	for i := 0; i < years; i++ {
		c.CurrentYear++
		yearRNG := evolution.Child(fmt.Sprintf("year_%d", c.CurrentYear))
		model.RunYearlyUpdate(yearRNG)
		c.Timeline = append(c.Timeline, TimelineEntry{
			Year:       c.CurrentYear,
			Population: state.Population,
		})
	}

	c.Population = state.Population
	c.Histogram = state.Histogram
	c.Workforce = state.Workforce()
	c.Zones = model.Zones
	c.Occupations = model.Occupations
	c.Summary = population.Summarize(state)
	return nil
}
