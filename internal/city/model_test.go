package city

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/metropolis/internal/population"
)

func TestGenerateByteIdentical(t *testing.T) {
	// Two independent runs from master seed 123 must export identically,
	// byte for byte.
	a, err := json.Marshal(Generate(123, 1000))
	require.NoError(t, err)
	b, err := json.Marshal(Generate(123, 1000))
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestGenerateValid(t *testing.T) {
	c := Generate(123, 1000)

	require.NoError(t, c.Validate())
	assert.Equal(t, 1000, c.Population)
	assert.Equal(t, uint32(123), c.Seed)
	assert.Len(t, c.Histogram, population.NumBuckets)
	assert.NotEmpty(t, c.Occupations)
	assert.NotEmpty(t, c.Zones)
	assert.Regexp(t, `^metro_[0-9a-f]{12}$`, c.ID())
}

func TestWorkforceRoundTrip(t *testing.T) {
	// Workforce is derived from the histogram; a save/load round trip must
	// re-derive the same values.
	c := Generate(321, 5000)

	data, err := json.Marshal(c)
	require.NoError(t, err)

	var loaded City
	require.NoError(t, json.Unmarshal(data, &loaded))
	require.NoError(t, loaded.Validate())

	state := &population.State{Population: loaded.Population, Histogram: loaded.Histogram}
	assert.Equal(t, c.Workforce, state.Workforce())
	assert.Equal(t, loaded.Workforce, state.Workforce())
}

func TestValidateMissingHistogram(t *testing.T) {
	c := &City{Population: 10}
	assert.ErrorContains(t, c.Validate(), "missing histogram")
}

func TestValidateBadHistogram(t *testing.T) {
	c := Generate(1, 100)
	c.Histogram = c.Histogram[:10]
	assert.Error(t, c.Validate())

	c = Generate(1, 100)
	c.Histogram[3].Male = -5
	assert.Error(t, c.Validate())

	c = Generate(1, 100)
	c.Population++
	assert.Error(t, c.Validate())
}

func TestEvolveConservation(t *testing.T) {
	c := Generate(42, 2000)

	require.NoError(t, Evolve(c, 5))

	require.NoError(t, c.Validate())
	assert.Equal(t, 5, c.CurrentYear)
	require.Len(t, c.Timeline, 5)
	assert.Equal(t, c.Population, c.Timeline[4].Population)
	for i, entry := range c.Timeline {
		assert.Equal(t, i+1, entry.Year)
	}
}

func TestEvolveDeterministic(t *testing.T) {
	run := func() []byte {
		c := Generate(42, 2000)
		require.NoError(t, Evolve(c, 10))
		data, err := json.Marshal(c)
		require.NoError(t, err)
		return data
	}

	assert.Equal(t, run(), run())
}

func TestEvolveDoesNotMutateInputHistogram(t *testing.T) {
	c := Generate(3, 1000)
	before := c.Histogram
	orig := make([]population.Bucket, len(before))
	copy(orig, before)

	require.NoError(t, Evolve(c, 1))

	// The record's histogram is replaced, never mutated in place.
	assert.Equal(t, orig, before)
}

func TestEvolveRejectsMalformed(t *testing.T) {
	c := &City{Population: 5, Histogram: nil}
	assert.Error(t, Evolve(c, 1))
}

func TestEvolveRederivesWorkforce(t *testing.T) {
	c := Generate(7, 3000)
	require.NoError(t, Evolve(c, 3))

	state := &population.State{Population: c.Population, Histogram: c.Histogram}
	assert.Equal(t, state.Workforce(), c.Workforce)
}
