package population

import (
	"log/slog"

	"github.com/talgya/metropolis/internal/rng"
)

// Model orchestrates the demographic simulation. It is the single owner of
// the State: the yearly update mutates it in a fixed order (age, then deaths,
// then births, then occupation recomputation) and no other collaborator
// touches it directly.
type Model struct {
	random *rng.RNG
	state  *State
	growth GrowthModel
	table  *OccupationTable

	Occupations map[string]Occupation
	Zones       map[string]Zone
}

// New wraps an existing state with a growth model and occupation table.
func New(r *rng.RNG, state *State, growth GrowthModel, table *OccupationTable) *Model {
	if table == nil {
		table = DefaultOccupationTable()
	}
	return &Model{
		random:      r,
		state:       state,
		growth:      growth,
		table:       table,
		Occupations: make(map[string]Occupation),
		Zones:       make(map[string]Zone),
	}
}

// GenerateNew synthesizes an initial population of the target size and
// derives its occupations. The initial age distribution comes from
// sex-specific normal draws over bucket positions; individuals are placed one
// at a time (in blocks of 1000 while more than 500000 remain, to keep large
// cities cheap).
func GenerateNew(r *rng.RNG, target int) *Model {
	hist := emptyHistogram()
	distRNG := r.Child("initial_distribution")

	for i := 0; i < target; {
		male := distRNG.IntRange(0, 1) == 1

		mu, sigma := 3.5, 8.0
		if male {
			mu, sigma = 4.0, 7.0
		}

		pos := int(distRNG.NormFloat(mu, sigma))
		for pos < 1 || pos > NumBuckets {
			pos = int(distRNG.NormFloat(mu, sigma))
		}

		scale := 1
		if target-i > 500000 {
			scale = 1000
		}

		if male {
			hist[pos-1].Male += scale
		} else {
			hist[pos-1].Female += scale
		}
		i += scale
	}

	state := &State{Population: target, Histogram: hist}
	m := New(r, state, AgeStructured{}, nil)
	m.UpdateOccupations()
	return m
}

// State returns the model's demographic state. Callers must treat it as
// read-only; all mutation goes through the yearly update.
func (m *Model) State() *State { return m.state }

// Workforce returns the current working-age population.
func (m *Model) Workforce() Workforce { return m.state.Workforce() }

// RunYearlyUpdate advances the simulation by one year: aging, then the growth
// model's deaths and births, then occupation recomputation. The update is
// atomic from the caller's perspective and the population/histogram
// invariant holds on return. Each phase draws from its own child of the
// year-scoped stream.
func (m *Model) RunYearlyUpdate(year *rng.RNG) {
	m.agePopulation(year)
	m.growth.RunDeaths(m.state, year)
	m.growth.RunBirths(m.state, year)
	m.UpdateOccupations()

	slog.Debug("yearly update complete",
		"population", m.state.Population,
		"workforce", m.state.Workforce().Total,
	)
}

// agePopulation advances every bucket-sex count by one fifth of a 5-year band:
// count/5 individuals age up deterministically, plus one more with probability
// (count%5)/5 so truncation is unbiased in expectation. Buckets are applied
// oldest to youngest so an aged-in count never ages out again in the same
// pass. The oldest bucket's aged-up population leaves the simulation.
func (m *Model) agePopulation(year *rng.RNG) {
	agingRNG := year.Child("aging")

	malesUp := make([]int, NumBuckets)
	femalesUp := make([]int, NumBuckets)

	for i, b := range m.state.Histogram {
		malesUp[i] = b.Male / 5
		if agingRNG.Bernoulli(float64(b.Male%5) / 5.0) {
			malesUp[i]++
		}
		femalesUp[i] = b.Female / 5
		if agingRNG.Bernoulli(float64(b.Female%5) / 5.0) {
			femalesUp[i]++
		}
	}

	agedOut := malesUp[NumBuckets-1] + femalesUp[NumBuckets-1]

	for i := NumBuckets - 1; i > 0; i-- {
		m.state.Histogram[i].Male += malesUp[i-1] - malesUp[i]
		m.state.Histogram[i].Female += femalesUp[i-1] - femalesUp[i]
	}
	m.state.Histogram[0].Male -= malesUp[0]
	m.state.Histogram[0].Female -= femalesUp[0]

	m.state.Population -= agedOut
}

// UpdateOccupations recomputes the occupation and zone maps wholesale from
// the current workforce. Deterministic arithmetic; no randomness.
func (m *Model) UpdateOccupations() {
	m.Occupations, m.Zones = m.table.Allocate(m.state)
}
