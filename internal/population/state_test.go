package population

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeState builds a valid state with the given count in one bucket-sex.
func makeState(t *testing.T, bucket int, male, female int) *State {
	t.Helper()
	hist := emptyHistogram()
	hist[bucket].Male = male
	hist[bucket].Female = female
	s, err := NewState(male+female, hist)
	require.NoError(t, err)
	return s
}

func TestValidateHistogramLength(t *testing.T) {
	s := &State{Population: 0, Histogram: make([]Bucket, 19)}
	assert.ErrorContains(t, s.Validate(), "19 buckets")
}

func TestValidateNegativeCounts(t *testing.T) {
	hist := emptyHistogram()
	hist[4].Male = -1
	s := &State{Population: -1, Histogram: hist}
	assert.ErrorContains(t, s.Validate(), "negative")
}

func TestValidatePopulationMismatch(t *testing.T) {
	hist := emptyHistogram()
	hist[0].Male = 10
	s := &State{Population: 11, Histogram: hist}
	assert.ErrorContains(t, s.Validate(), "does not match")
}

func TestWorkforceRange(t *testing.T) {
	hist := emptyHistogram()
	// Outside the working range: too young and too old.
	hist[0].Male = 100
	hist[2].Female = 100
	hist[12].Male = 100
	// Inside: buckets 3 and 11 are the boundaries.
	hist[3].Male = 10
	hist[3].Female = 20
	hist[11].Male = 30
	hist[11].Female = 40
	hist[7].Female = 5

	s := &State{Population: 405, Histogram: hist}
	require.NoError(t, s.Validate())

	wf := s.Workforce()
	assert.Equal(t, 40, wf.Male)
	assert.Equal(t, 65, wf.Female)
	assert.Equal(t, 105, wf.Total)
}

func TestChildren(t *testing.T) {
	hist := emptyHistogram()
	hist[0].Male = 50 // under 5, not counted
	hist[1].Male = 10
	hist[1].Female = 20
	hist[2].Female = 30
	hist[3].Male = 40 // working age, not counted

	s := &State{Population: 150, Histogram: hist}
	assert.Equal(t, 60, s.Children())
}

func TestCloneIndependent(t *testing.T) {
	s := makeState(t, 5, 10, 10)
	c := s.Clone()
	c.Histogram[5].Male = 99

	assert.Equal(t, 10, s.Histogram[5].Male)
}

func TestSummarize(t *testing.T) {
	s := makeState(t, 6, 500, 500) // everyone aged 30-34
	sum := Summarize(s)

	assert.InDelta(t, 32.5, sum.MeanAge, 0.001)
	assert.InDelta(t, 32.5, sum.MedianAge, 0.001)
	assert.InDelta(t, 100.0, sum.SexRatio, 0.001)
	// Bucket 6 is working age, so nobody is a dependent.
	assert.Zero(t, sum.DependencyRatio)

	assert.Equal(t, Summary{}, Summarize(&State{Histogram: emptyHistogram()}))
}
