package city

import (
	"fmt"
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/metropolis/internal/rng"
	"github.com/talgya/metropolis/internal/seed"
)

// The Roman grid lays out cardo (north-south) and decumanus (east-west)
// roads intersecting at right angles, the foundation all later development
// builds on. Every feature draws from its own seed path, so any part of the
// layout can be regenerated independently.

// Road is a road segment. Cardos run north-south, decumani east-west;
// diagonal and ring segments are stored with the cardos.
type Road struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// GridPoint is a notable point in the grid (intersections, block corners).
type GridPoint struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Type       string  `json:"type"`
	Importance int     `json:"importance"` // 1-5
}

// Block is one city block.
type Block struct {
	ID         string  `json:"id"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	ZoneType   string  `json:"zone_type"`
	Stage      string  `json:"development_stage"`
	Population int     `json:"population"`
	Density    float64 `json:"density"`
}

// Roads is the spatial export of the road network by type.
type Roads struct {
	Cardos   []Road `json:"cardos"`
	Decumani []Road `json:"decumani"`
}

// RomanGrid generates and holds the road network and blocks. All randomness
// comes from path-addressed streams under "roman_grid.*", plus a simplex
// noise field for block density texture.
type RomanGrid struct {
	citySize float64
	seeds    *seed.Manager
	noise    opensimplex.Noise

	Cardos   []Road
	Decumani []Road
	Blocks   []Block
	Points   []GridPoint
}

// NewRomanGrid creates a grid for a square city of the given size in meters.
func NewRomanGrid(citySize float64, seeds *seed.Manager) *RomanGrid {
	noiseSeed := seeds.Generator().Derive("roman_grid.noise")
	return &RomanGrid{
		citySize: citySize,
		seeds:    seeds,
		noise:    opensimplex.NewNormalized(int64(noiseSeed)),
	}
}

// CreateFoundingGrid lays the initial cardo, decumanus, central intersection
// and the first blocks around it.
func (g *RomanGrid) CreateFoundingGrid() {
	r := g.seeds.Generator().Stream("roman_grid.founding")

	centerX := g.citySize / 2
	centerY := g.citySize / 2

	// Main cardo and decumanus cross the full city, 15-25m wide.
	cardoWidth := r.Range(15, 25)
	g.Cardos = append(g.Cardos, Road{
		X1: centerX - cardoWidth/2, Y1: 0,
		X2: centerX + cardoWidth/2, Y2: g.citySize,
	})

	decumanusWidth := r.Range(15, 25)
	g.Decumani = append(g.Decumani, Road{
		X1: 0, Y1: centerY - decumanusWidth/2,
		X2: g.citySize, Y2: centerY + decumanusWidth/2,
	})

	g.Points = append(g.Points, GridPoint{
		X: centerX, Y: centerY, Type: "intersection", Importance: 5,
	})

	g.createFoundingBlocks(centerX, centerY, r)
}

// createFoundingBlocks places a 2x2 cluster of mixed-use blocks in each
// quadrant around the intersection.
func (g *RomanGrid) createFoundingBlocks(centerX, centerY float64, r *rng.RNG) {
	blockSize := r.Range(80, 120)

	quadrants := [][2]float64{{1, 1}, {-1, 1}, {-1, -1}, {1, -1}}
	for _, q := range quadrants {
		for i := 0; i < 2; i++ {
			for j := 0; j < 2; j++ {
				blockX := centerX + (float64(i)+0.5)*q[0]*blockSize
				blockY := centerY + (float64(j)+0.5)*q[1]*blockSize

				if blockX <= 0 || blockX >= g.citySize || blockY <= 0 || blockY >= g.citySize {
					continue
				}

				g.addBlock(Block{
					X:        blockX - blockSize/2,
					Y:        blockY - blockSize/2,
					Width:    blockSize,
					Height:   blockSize,
					ZoneType: "mixed_use",
					Stage:    "founding",
				}, r.IntRange(50, 150), r.Range(0.5, 1.0), r)
			}
		}
	}
}

// ExpandGrid grows the road network and block inventory for a development
// stage. Each stage draws from its own "roman_grid.<stage>" path.
func (g *RomanGrid) ExpandGrid(stage string, population int) {
	r := g.seeds.Generator().Stream("roman_grid." + stage)

	switch stage {
	case "growth":
		g.addSecondaryRoads(r)
	case "expansion":
		g.addDiagonalRoads(r)
	case "modern":
		g.addModernRoadNetwork(r)
	}

	g.createStageBlocks(stage, r)
}

func (g *RomanGrid) addSecondaryRoads(r *rng.RNG) {
	for i, n := 0, r.IntRange(2, 3); i < n; i++ {
		x := r.Range(g.citySize*0.2, g.citySize*0.8)
		width := r.Range(8, 15)
		g.Cardos = append(g.Cardos, Road{X1: x - width/2, Y1: 0, X2: x + width/2, Y2: g.citySize})
	}
	for i, n := 0, r.IntRange(2, 3); i < n; i++ {
		y := r.Range(g.citySize*0.2, g.citySize*0.8)
		width := r.Range(8, 15)
		g.Decumani = append(g.Decumani, Road{X1: 0, Y1: y - width/2, X2: g.citySize, Y2: y + width/2})
	}
}

func (g *RomanGrid) addDiagonalRoads(r *rng.RNG) {
	for i, n := 0, r.IntRange(1, 2); i < n; i++ {
		if r.Bernoulli(0.5) {
			g.Cardos = append(g.Cardos, Road{
				X1: g.citySize * 0.1, Y1: g.citySize * 0.9,
				X2: g.citySize * 0.9, Y2: g.citySize * 0.1,
			})
		} else {
			g.Cardos = append(g.Cardos, Road{
				X1: g.citySize * 0.1, Y1: g.citySize * 0.1,
				X2: g.citySize * 0.9, Y2: g.citySize * 0.9,
			})
		}
	}
}

func (g *RomanGrid) addModernRoadNetwork(r *rng.RNG) {
	centerX := g.citySize / 2
	centerY := g.citySize / 2
	g.addRingRoad(centerX, centerY, g.citySize*0.3, r)
	g.addRingRoad(centerX, centerY, g.citySize*0.7, r)
}

func (g *RomanGrid) addRingRoad(centerX, centerY, radius float64, r *rng.RNG) {
	segments := r.IntRange(8, 12)
	for i := 0; i < segments; i++ {
		a1 := float64(i) * 2 * math.Pi / float64(segments)
		a2 := float64(i+1) * 2 * math.Pi / float64(segments)
		g.Cardos = append(g.Cardos, Road{
			X1: centerX + radius*math.Cos(a1), Y1: centerY + radius*math.Sin(a1),
			X2: centerX + radius*math.Cos(a2), Y2: centerY + radius*math.Sin(a2),
		})
	}
}

// stageBlockCounts is how many new blocks each stage adds.
var stageBlockCounts = map[string]int{
	"growth":    8,
	"expansion": 16,
	"modern":    32,
}

func (g *RomanGrid) createStageBlocks(stage string, r *rng.RNG) {
	count, ok := stageBlockCounts[stage]
	if !ok {
		count = 8
	}
	blockSize := r.Range(60, 100)

	for i := 0; i < count; i++ {
		for attempts := 0; attempts < 50; attempts++ {
			x := r.Range(0, g.citySize-blockSize)
			y := r.Range(0, g.citySize-blockSize)
			if !g.spaceAvailable(x, y, blockSize, blockSize) {
				continue
			}
			g.addBlock(Block{
				X:        x,
				Y:        y,
				Width:    blockSize,
				Height:   blockSize,
				ZoneType: g.zoneTypeAt(x, y, stage, r),
				Stage:    stage,
			}, r.IntRange(20, 200), r.Range(0.3, 1.5), r)
			break
		}
	}
}

// AddBlock places an externally sized block if space allows, returning
// whether it fit. Used by the temporal simulator when population outgrows
// the stage inventory.
func (g *RomanGrid) AddBlock(stage string, r *rng.RNG) bool {
	for attempts := 0; attempts < 100; attempts++ {
		x := r.Range(0, g.citySize-100)
		y := r.Range(0, g.citySize-100)
		w := r.Range(60, 120)
		h := r.Range(60, 120)
		if !g.spaceAvailable(x, y, w, h) {
			continue
		}
		g.addBlock(Block{
			X: x, Y: y, Width: w, Height: h,
			ZoneType: g.zoneTypeAt(x, y, stage, r),
			Stage:    stage,
		}, r.IntRange(20, 300), r.Range(0.2, 2.0), r)
		return true
	}
	return false
}

// addBlock assigns the block its ID, population and noise-textured density,
// then appends it.
func (g *RomanGrid) addBlock(b Block, pop int, baseDensity float64, r *rng.RNG) {
	b.ID = fmt.Sprintf("%s_block_%d", b.Stage, len(g.Blocks))
	b.Population = pop
	// Texture the density with the noise field so neighborhoods cluster.
	cx := b.X + b.Width/2
	cy := b.Y + b.Height/2
	b.Density = baseDensity * (0.5 + g.noise.Eval2(cx/1000, cy/1000))
	g.Blocks = append(g.Blocks, b)
}

func (g *RomanGrid) spaceAvailable(x, y, width, height float64) bool {
	for _, b := range g.Blocks {
		if x < b.X+b.Width && x+width > b.X && y < b.Y+b.Height && y+height > b.Y {
			return false
		}
	}
	return true
}

// zoneTypeAt picks a zone type from distance to center and stage. Inner city
// skews commercial, mid city residential, outer city residential/industrial.
func (g *RomanGrid) zoneTypeAt(x, y float64, stage string, r *rng.RNG) string {
	centerX := g.citySize / 2
	centerY := g.citySize / 2
	distance := math.Hypot(x-centerX, y-centerY)
	maxDistance := g.citySize / 2

	switch {
	case distance < maxDistance*0.3:
		if stage == "founding" {
			return "mixed_use"
		}
		return weightedZone(r, []string{"commercial", "residential", "mixed_use"}, []float64{0.4, 0.3, 0.3})
	case distance < maxDistance*0.6:
		return weightedZone(r, []string{"residential", "commercial", "mixed_use"}, []float64{0.5, 0.3, 0.2})
	default:
		return weightedZone(r, []string{"residential", "industrial", "park"}, []float64{0.6, 0.3, 0.1})
	}
}

func weightedZone(r *rng.RNG, types []string, weights []float64) string {
	return types[r.WeightedChoice(weights)]
}

// Roads returns the road network organized by type.
func (g *RomanGrid) Roads() Roads {
	return Roads{Cardos: g.Cardos, Decumani: g.Decumani}
}

// Intersections returns the intersection points.
func (g *RomanGrid) Intersections() []GridPoint {
	var out []GridPoint
	for _, p := range g.Points {
		if p.Type == "intersection" {
			out = append(out, p)
		}
	}
	return out
}
