package population

import "github.com/montanaflynn/stats"

// Summary is a descriptive snapshot of the age structure, for exports and the
// API. Ages are bucket midpoints, so values are approximations at 5-year
// resolution.
type Summary struct {
	MeanAge         float64 `json:"mean_age"`
	MedianAge       float64 `json:"median_age"`
	P90Age          float64 `json:"p90_age"`
	SexRatio        float64 `json:"sex_ratio"` // males per 100 females
	DependencyRatio float64 `json:"dependency_ratio"`
}

// summarySamples is the resolution of the age sample used for the order
// statistics. The histogram is resampled down to roughly this many points so
// summaries stay cheap for million-person cities.
const summarySamples = 1000

// Summarize computes descriptive statistics for the current histogram.
// Returns a zero Summary for an empty population.
func Summarize(s *State) Summary {
	total := s.Total()
	if total == 0 {
		return Summary{}
	}

	// Weighted mean age over bucket midpoints.
	var weighted float64
	var males, females int
	for i, b := range s.Histogram {
		mid := float64(i*5) + 2.5
		weighted += mid * float64(b.Male+b.Female)
		males += b.Male
		females += b.Female
	}
	mean := weighted / float64(total)

	// Resample bucket midpoints proportionally for median and percentile.
	var sample []float64
	for i, b := range s.Histogram {
		n := (b.Male + b.Female) * summarySamples / total
		mid := float64(i*5) + 2.5
		for j := 0; j < n; j++ {
			sample = append(sample, mid)
		}
	}

	// The largest bucket holds at least total/20 people, so the resample is
	// never empty and these cannot error.
	median, _ := stats.Median(sample)
	p90, _ := stats.Percentile(sample, 90)

	sexRatio := 0.0
	if females > 0 {
		sexRatio = float64(males) / float64(females) * 100
	}

	wf := s.Workforce()
	dependency := 0.0
	if wf.Total > 0 {
		dependency = float64(total-wf.Total) / float64(wf.Total)
	}

	return Summary{
		MeanAge:         mean,
		MedianAge:       median,
		P90Age:          p90,
		SexRatio:        sexRatio,
		DependencyRatio: dependency,
	}
}
