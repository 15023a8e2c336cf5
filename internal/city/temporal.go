package city

import (
	"fmt"

	"github.com/talgya/metropolis/internal/rng"
	"github.com/talgya/metropolis/internal/seed"
)

// The temporal simulator evolves the city's spatial form through development
// eras, from a Roman founding grid to a modern road network. Each era draws
// from its own "temporal.<stage>" path, so the whole evolution replays
// identically from the master seed.

// Era is a named development window with its expected population range.
type Era struct {
	Name            string   `json:"name"`
	StartYear       int      `json:"start_year"`
	EndYear         int      `json:"end_year"`
	PopulationRange [2]int   `json:"population_range"`
	Stage           string   `json:"development_stage"`
	KeyFeatures     []string `json:"key_features"`
}

// DefaultEras is the standard development sequence.
func DefaultEras() []Era {
	return []Era{
		{"Founding", 0, 50, [2]int{100, 1000}, "founding",
			[]string{"Roman grid", "Mixed-use core", "Basic infrastructure"}},
		{"Growth", 50, 200, [2]int{1000, 10000}, "growth",
			[]string{"Zone differentiation", "Secondary roads", "First monuments"}},
		{"Expansion", 200, 500, [2]int{10000, 50000}, "expansion",
			[]string{"Diagonal roads", "Key monuments", "Specialized zones"}},
		{"Modernization", 500, 2000, [2]int{50000, 1000000}, "modern",
			[]string{"Complex infrastructure", "Modern zones", "Transportation hubs"}},
	}
}

// KeyPoint is a landmark: monument, government building, market, and so on.
type KeyPoint struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Type        string  `json:"type"`
	Importance  int     `json:"importance"` // 1-5
	BuiltYear   int     `json:"built_year"`
	Description string  `json:"description"`
}

// TemporalState is a snapshot of the city at one point in time.
type TemporalState struct {
	Year       int                  `json:"year"`
	Population int                  `json:"population"`
	Area       float64              `json:"area"`
	Blocks     []Block              `json:"blocks"`
	KeyPoints  []KeyPoint           `json:"key_points"`
	Roads      Roads                `json:"roads"`
	Zones      map[string]ZoneStats `json:"zones"`
	Stage      string               `json:"development_stage"`
}

// ZoneStats aggregates the blocks of one zone type.
type ZoneStats struct {
	Count      int     `json:"count"`
	Area       float64 `json:"area"`
	Population int     `json:"population"`
}

// TemporalSimulator evolves city geometry across eras.
type TemporalSimulator struct {
	seeds    *seed.Manager
	citySize float64
	eras     []Era
	grid     *RomanGrid

	keyPoints []KeyPoint
	states    []TemporalState
}

// NewTemporalSimulator creates a simulator for a city of the given size.
func NewTemporalSimulator(masterSeed uint32, citySize float64) *TemporalSimulator {
	seeds := seed.NewManager(masterSeed)
	return &TemporalSimulator{
		seeds:    seeds,
		citySize: citySize,
		eras:     DefaultEras(),
		grid:     NewRomanGrid(citySize, seeds),
	}
}

// SimulateEvolution runs the full evolution until the target population is
// reached. endYear <= 0 derives the end year from the target.
func (s *TemporalSimulator) SimulateEvolution(targetPopulation, endYear int) []TemporalState {
	if endYear <= 0 {
		endYear = evolutionEndYear(targetPopulation)
	}

	s.simulateFounding()

	currentYear := 0
	currentPopulation := 100 // founding population

	for _, era := range s.eras {
		if currentYear >= endYear {
			break
		}
		eraEnd := era.EndYear
		if eraEnd > endYear {
			eraEnd = endYear
		}
		s.simulateEra(era, currentYear, eraEnd, currentPopulation, targetPopulation)
		currentYear = eraEnd
		currentPopulation = eraPopulation(era, currentYear, targetPopulation)
	}

	return s.states
}

// evolutionEndYear estimates how long a city takes to reach a population.
func evolutionEndYear(target int) int {
	switch {
	case target <= 1000:
		return 100
	case target <= 10000:
		return 300
	case target <= 100000:
		return 800
	default:
		return 1500
	}
}

func (s *TemporalSimulator) simulateFounding() {
	r := s.seeds.Generator().Stream("temporal.founding")

	s.grid.CreateFoundingGrid()

	centerX := s.citySize / 2
	centerY := s.citySize / 2

	s.keyPoints = append(s.keyPoints, KeyPoint{
		ID: "central_forum", Name: "Central Forum",
		X: centerX, Y: centerY,
		Type: "market", Importance: 5, BuiltYear: 0,
		Description: "The heart of the city, where all major roads meet",
	})

	s.keyPoints = append(s.keyPoints, KeyPoint{
		ID:   "first_temple",
		Name: "Temple of the City Gods",
		X:    centerX + r.Range(-200, 200), Y: centerY + r.Range(-200, 200),
		Type: "religious", Importance: 4, BuiltYear: 5,
		Description: "The first major religious structure",
	})

	s.snapshot(0, 100, "founding")
}

func (s *TemporalSimulator) simulateEra(era Era, startYear, endYear, startPopulation, targetPopulation int) {
	r := s.seeds.Generator().Stream("temporal." + era.Stage)

	growth := eraPopulation(era, endYear, targetPopulation) - startPopulation
	years := timelinePoints(startYear, endYear, 5)

	for i, year := range years {
		progress := 0.0
		if len(years) > 1 {
			progress = float64(i) / float64(len(years)-1)
		}
		pop := startPopulation + int(float64(growth)*progress)

		s.expandForPopulation(pop, era.Stage, r)
		s.addEraKeyPoints(era, year, r)
		s.snapshot(year, pop, era.Stage)
	}
}

// timelinePoints spreads n sample years evenly across an era.
func timelinePoints(startYear, endYear, n int) []int {
	if n <= 1 {
		return []int{startYear}
	}
	points := make([]int, n)
	for i := 0; i < n; i++ {
		points[i] = startYear + (endYear-startYear)*i/(n-1)
	}
	return points
}

// eraPopulation interpolates population within an era, quadratic so growth
// accelerates toward the era's end. Capped at the target.
func eraPopulation(era Era, year, target int) int {
	progress := float64(year-era.StartYear) / float64(era.EndYear-era.StartYear)
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	lo, hi := era.PopulationRange[0], era.PopulationRange[1]
	pop := lo + int(float64(hi-lo)*progress*progress)
	if pop > target {
		return target
	}
	return pop
}

// expandForPopulation grows the grid and adds blocks until the block
// inventory roughly matches one block per thousand people.
func (s *TemporalSimulator) expandForPopulation(population int, stage string, r *rng.RNG) {
	s.grid.ExpandGrid(stage, population)

	target := population / 1000
	if target < 4 {
		target = 4
	}
	for len(s.grid.Blocks) < target {
		if !s.grid.AddBlock(stage, r) {
			break
		}
	}
}

// Landmark catalogs per era. The chance a landmark appears at each timeline
// point rises as the city matures.
var (
	growthLandmarks = []KeyPoint{
		{Name: "Victory Column", Type: "monument", Description: "A column celebrating military victories"},
		{Name: "Market Square", Type: "market", Description: "A bustling marketplace for goods"},
		{Name: "City Hall", Type: "government", Description: "The seat of local government"},
	}
	expansionLandmarks = []KeyPoint{
		{Name: "Grand Cathedral", Type: "religious", Description: "A magnificent religious structure"},
		{Name: "Royal Palace", Type: "government", Description: "The residence of the ruling family"},
		{Name: "Great Library", Type: "government", Description: "A center of learning and knowledge"},
		{Name: "Central Station", Type: "transport", Description: "The main transportation hub"},
		{Name: "Victory Arch", Type: "monument", Description: "A triumphal arch celebrating achievements"},
	}
	modernLandmarks = []KeyPoint{
		{Name: "Skyscraper District", Type: "commercial", Description: "Modern high-rise buildings"},
		{Name: "University Campus", Type: "government", Description: "A major educational institution"},
		{Name: "Sports Stadium", Type: "monument", Description: "A large sports and entertainment venue"},
		{Name: "Airport", Type: "transport", Description: "The main airport for the city"},
		{Name: "Shopping Mall", Type: "market", Description: "A modern shopping complex"},
		{Name: "Tech Hub", Type: "commercial", Description: "A center for technology companies"},
	}
)

func (s *TemporalSimulator) addEraKeyPoints(era Era, year int, r *rng.RNG) {
	var catalog []KeyPoint
	var chance float64
	var margin float64
	var minImp, maxImp int

	switch era.Stage {
	case "growth":
		catalog, chance, margin = growthLandmarks, 0.3, 0.2
		minImp, maxImp = 2, 4
	case "expansion":
		catalog, chance, margin = expansionLandmarks, 0.4, 0.1
		minImp, maxImp = 3, 5
	case "modern":
		catalog, chance, margin = modernLandmarks, 0.5, 0.0
		minImp, maxImp = 2, 4
	default:
		return
	}

	if !r.Bernoulli(chance) {
		return
	}

	pick := catalog[r.IntN(len(catalog))]
	pick.ID = fmt.Sprintf("%s_%d", era.Stage, len(s.keyPoints))
	pick.X = r.Range(s.citySize*margin, s.citySize*(1-margin))
	pick.Y = r.Range(s.citySize*margin, s.citySize*(1-margin))
	pick.Importance = r.IntRange(minImp, maxImp)
	pick.BuiltYear = year
	s.keyPoints = append(s.keyPoints, pick)
}

// snapshot records the current city state.
func (s *TemporalSimulator) snapshot(year, population int, stage string) {
	blocks := make([]Block, len(s.grid.Blocks))
	copy(blocks, s.grid.Blocks)
	points := make([]KeyPoint, len(s.keyPoints))
	copy(points, s.keyPoints)

	s.states = append(s.states, TemporalState{
		Year:       year,
		Population: population,
		Area:       cityArea(population),
		Blocks:     blocks,
		KeyPoints:  points,
		Roads:      s.grid.Roads(),
		Zones:      zoneStats(blocks),
		Stage:      stage,
	})
}

// cityArea estimates built area from population at a base density of 5000
// people per square kilometer.
func cityArea(population int) float64 {
	return float64(population) / 5000.0
}

// zoneStats aggregates block counts, area and population by zone type.
func zoneStats(blocks []Block) map[string]ZoneStats {
	zones := map[string]ZoneStats{
		"residential": {}, "commercial": {}, "industrial": {}, "mixed_use": {}, "park": {},
	}
	for _, b := range blocks {
		z, ok := zones[b.ZoneType]
		if !ok {
			continue
		}
		z.Count++
		z.Area += b.Width * b.Height
		z.Population += b.Population
		zones[b.ZoneType] = z
	}
	return zones
}

// StateAtYear returns the snapshot closest to the requested year, or nil if
// the simulation has not run.
func (s *TemporalSimulator) StateAtYear(year int) *TemporalState {
	var closest *TemporalState
	best := -1
	for i := range s.states {
		d := s.states[i].Year - year
		if d < 0 {
			d = -d
		}
		if best < 0 || d < best {
			best = d
			closest = &s.states[i]
		}
	}
	return closest
}

// TemporalExport is the complete spatial evolution export for the web layer.
type TemporalExport struct {
	Eras      []Era           `json:"eras"`
	Timeline  []TemporalState `json:"timeline"`
	KeyPoints []KeyPoint      `json:"key_points"`
	Grid      Roads           `json:"grid"`
	Blocks    []Block         `json:"blocks"`
	Metadata  struct {
		CitySize   float64 `json:"city_size"`
		MasterSeed uint32  `json:"master_seed"`
		TotalYears int     `json:"total_years"`
	} `json:"metadata"`
}

// Export packages the full temporal evolution.
func (s *TemporalSimulator) Export() TemporalExport {
	out := TemporalExport{
		Eras:      s.eras,
		Timeline:  s.states,
		KeyPoints: s.keyPoints,
		Grid:      s.grid.Roads(),
		Blocks:    s.grid.Blocks,
	}
	out.Metadata.CitySize = s.citySize
	out.Metadata.MasterSeed = s.seeds.Generator().Master()
	for _, st := range s.states {
		if st.Year > out.Metadata.TotalYears {
			out.Metadata.TotalYears = st.Year
		}
	}
	return out
}
