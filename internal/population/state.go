// Package population implements the demographic core: the age/sex histogram
// state, pluggable growth models (births and deaths), yearly aging, and the
// occupation and zone allocation derived from the workforce.
package population

import "fmt"

// NumBuckets is the number of 5-year age bands in the histogram. Bucket i
// covers ages [5i, 5i+4]; the last bucket is open-ended ("95+").
const NumBuckets = 20

// Workforce is the working-age sub-range of the histogram, ages 15-59
// (buckets 3 through 11 inclusive). A policy constant, not derived.
const (
	workforceStart = 3
	workforceEnd   = 11
)

// Bucket holds the male and female counts of one 5-year age band.
type Bucket struct {
	Male   int `json:"m" db:"male"`
	Female int `json:"f" db:"female"`
}

// Workforce is the working-age population by sex.
type Workforce struct {
	Male   int `json:"m"`
	Female int `json:"f"`
	Total  int `json:"t"`
}

// Occupation is the expected worker count for one occupation. Counts are
// fractional expectations, not headcounts, and are recomputed wholesale
// whenever the workforce changes.
type Occupation struct {
	Male   float64 `json:"m"`
	Female float64 `json:"f"`
}

// Zone is the population allocated to one zone type across density tiers.
type Zone struct {
	Low    float64 `json:"L"`
	Medium float64 `json:"M"`
	High   float64 `json:"H"`
}

// State is the mutable demographic record: total population plus the 20-band
// age/sex histogram. Population == sum of all bucket counts holds after every
// mutation; a year's update (age, die, be born) is atomic from the caller's
// perspective.
type State struct {
	Population int
	Histogram  []Bucket
}

// NewState builds a State and validates it.
func NewState(population int, histogram []Bucket) (*State, error) {
	s := &State{Population: population, Histogram: histogram}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// emptyHistogram returns a zeroed 20-bucket histogram.
func emptyHistogram() []Bucket {
	return make([]Bucket, NumBuckets)
}

// Validate fails fast on malformed state: wrong histogram length, negative
// counts, or a population that disagrees with the histogram sum.
func (s *State) Validate() error {
	if len(s.Histogram) != NumBuckets {
		return fmt.Errorf("histogram has %d buckets, want %d", len(s.Histogram), NumBuckets)
	}
	total := 0
	for i, b := range s.Histogram {
		if b.Male < 0 || b.Female < 0 {
			return fmt.Errorf("bucket %d has negative count (m=%d f=%d)", i, b.Male, b.Female)
		}
		total += b.Male + b.Female
	}
	if s.Population < 0 {
		return fmt.Errorf("population is negative (%d)", s.Population)
	}
	if total != s.Population {
		return fmt.Errorf("population %d does not match histogram sum %d", s.Population, total)
	}
	return nil
}

// Total recomputes the population from the histogram.
func (s *State) Total() int {
	total := 0
	for _, b := range s.Histogram {
		total += b.Male + b.Female
	}
	return total
}

// Workforce returns the working-age population (buckets 3-11, ages 15-59).
func (s *State) Workforce() Workforce {
	var w Workforce
	for i := workforceStart; i <= workforceEnd; i++ {
		w.Male += s.Histogram[i].Male
		w.Female += s.Histogram[i].Female
	}
	w.Total = w.Male + w.Female
	return w
}

// Children returns the school-age population (buckets 1-2, ages 5-14), used
// by child-ratio occupation allocations.
func (s *State) Children() int {
	return s.Histogram[1].Male + s.Histogram[1].Female +
		s.Histogram[2].Male + s.Histogram[2].Female
}

// Clone returns a deep copy of the state.
func (s *State) Clone() *State {
	hist := make([]Bucket, len(s.Histogram))
	copy(hist, s.Histogram)
	return &State{Population: s.Population, Histogram: hist}
}
