package population

import "github.com/talgya/metropolis/internal/rng"

// maleBirthProb is the probability a newborn is male. A common approximation
// for the sex ratio at birth is 105 males to 100 females.
const maleBirthProb = 105.0 / 205.0

// GrowthModel is the yearly birth/death policy applied to a population state.
// Each phase spawns its own child stream ("deaths", "births") from the
// year-scoped RNG so the phases stay independent of each other and of aging.
// Both methods must leave state.Population equal to the histogram sum.
type GrowthModel interface {
	RunDeaths(state *State, year *rng.RNG)
	RunBirths(state *State, year *rng.RNG)
}

// AgeStructured is a growth model with age-specific fertility and mortality
// rates. Rates are per 1000 per year; the fractional remainder of each
// expected count is resolved with a single Bernoulli draw so outputs stay
// integral while the expectation is preserved.
type AgeStructured struct{}

// mortalityRates is the per-bucket death rate per 1000 per year. Synthetic
// values shaped like a real mortality curve: elevated infant mortality, a
// long flat middle, steep old-age rise.
var mortalityRates = [NumBuckets]float64{
	5.0, 0.5, 0.5, 0.7, 1.0, 1.5, 2.0, 3.0, 4.0, 6.0,
	9.0, 15.0, 25.0, 40.0, 60.0, 100.0, 150.0, 220.0, 300.0, 500.0,
}

// fertilityRates is the births per 1000 females per year for buckets
// fertilityStart..fertilityEnd (ages 15-49).
var fertilityRates = []float64{50.0, 90.0, 120.0, 100.0, 60.0, 20.0, 5.0}

const (
	fertilityStart = 3 // 15-19
	fertilityEnd   = 9 // 45-49
)

// RunDeaths applies the mortality table to every bucket. One Bernoulli draw
// per bucket-sex resolves the fractional remainder, so the stream advances
// by a fixed amount regardless of the counts.
func (AgeStructured) RunDeaths(state *State, year *rng.RNG) {
	deathRNG := year.Child("deaths")
	for i := range state.Histogram {
		rate := mortalityRates[i] / 1000.0
		b := &state.Histogram[i]

		expectedM := float64(b.Male) * rate
		deathsM := int(expectedM)
		if deathRNG.Bernoulli(expectedM - float64(deathsM)) {
			deathsM++
		}

		expectedF := float64(b.Female) * rate
		deathsF := int(expectedF)
		if deathRNG.Bernoulli(expectedF - float64(deathsF)) {
			deathsF++
		}

		if deathsM > b.Male {
			deathsM = b.Male
		}
		if deathsF > b.Female {
			deathsF = b.Female
		}
		b.Male -= deathsM
		b.Female -= deathsF
		state.Population -= deathsM + deathsF
	}
}

// RunBirths applies the fertility table to the female buckets in the fertile
// range, splits the total male/female per birth, and adds all newborns to
// bucket 0.
func (AgeStructured) RunBirths(state *State, year *rng.RNG) {
	birthRNG := year.Child("births")

	totalBirths := 0
	for i := fertilityStart; i <= fertilityEnd; i++ {
		rate := fertilityRates[i-fertilityStart] / 1000.0
		expected := float64(state.Histogram[i].Female) * rate
		births := int(expected)
		if birthRNG.Bernoulli(expected - float64(births)) {
			births++
		}
		totalBirths += births
	}

	addBirths(state, totalBirths, birthRNG)
}

// ConstantRate is a simplified growth model driven by flat population-wide
// rates instead of per-bucket tables. Deaths remove uniformly-random
// individuals across the whole histogram rather than targeting older buckets;
// this is intentionally less realistic than the age-structured model.
type ConstantRate struct {
	BirthRate float64 // births per 1000 people per year
	DeathRate float64 // deaths per 1000 people per year
}

// NewConstantRate returns a ConstantRate model with typical defaults.
func NewConstantRate() ConstantRate {
	return ConstantRate{BirthRate: 20.0, DeathRate: 8.0}
}

// RunBirths computes the expected births from the whole population and the
// flat birth rate, then splits and adds them like the age-structured model.
func (m ConstantRate) RunBirths(state *State, year *rng.RNG) {
	birthRNG := year.Child("births")

	expected := float64(state.Population) * (m.BirthRate / 1000.0)
	totalBirths := int(expected)
	if birthRNG.Bernoulli(expected - float64(totalBirths)) {
		totalBirths++
	}

	addBirths(state, totalBirths, birthRNG)
}

// RunDeaths removes each death by picking a uniform index into the virtual
// concatenation of all bucket male/female counts and walking the histogram to
// find it.
func (m ConstantRate) RunDeaths(state *State, year *rng.RNG) {
	deathRNG := year.Child("deaths")

	expected := float64(state.Population) * (m.DeathRate / 1000.0)
	totalDeaths := int(expected)
	if deathRNG.Bernoulli(expected - float64(totalDeaths)) {
		totalDeaths++
	}

	for n := 0; n < totalDeaths; n++ {
		if state.Population <= 0 {
			break
		}
		idx := deathRNG.IntRange(0, state.Population-1)

		for i := range state.Histogram {
			b := &state.Histogram[i]
			if idx < b.Male {
				b.Male--
				state.Population--
				break
			}
			idx -= b.Male
			if idx < b.Female {
				b.Female--
				state.Population--
				break
			}
			idx -= b.Female
		}
	}
}

// addBirths splits total newborns male/female with one Bernoulli draw per
// birth and adds them to bucket 0.
func addBirths(state *State, total int, birthRNG *rng.RNG) {
	newMales, newFemales := 0, 0
	for i := 0; i < total; i++ {
		if birthRNG.Bernoulli(maleBirthProb) {
			newMales++
		} else {
			newFemales++
		}
	}
	state.Histogram[0].Male += newMales
	state.Histogram[0].Female += newFemales
	state.Population += total
}
