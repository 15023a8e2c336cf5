// Package seed provides the path-addressed hierarchical seed system for
// reproducible city generation.
//
// The system works like a tree: the master seed determines the overall city,
// branch seeds determine major sections (districts, zones, infrastructure),
// and leaf seeds determine specific features within those sections. A seed for
// any dot-separated path is a pure function of (master seed, path), so
// derivations are order-independent and safe to cache or parallelize —
// consuming values from one branch's stream never perturbs a sibling branch.
package seed

import (
	"crypto/md5"
	"encoding/binary"
	"fmt"
	"sort"
	"sync"

	"github.com/talgya/metropolis/internal/rng"
)

// Generator derives deterministic seeds and streams for dot-separated paths.
// Safe for concurrent use; the caches are guarded and derivation itself is
// pure, so memoization is an optimization only.
type Generator struct {
	mu      sync.Mutex
	master  uint32
	seeds   map[string]uint32
	streams map[string]*rng.RNG
}

// NewGenerator creates a Generator rooted at the given master seed.
func NewGenerator(master uint32) *Generator {
	return &Generator{
		master:  master,
		seeds:   make(map[string]uint32),
		streams: make(map[string]*rng.RNG),
	}
}

// Master returns the master seed.
func (g *Generator) Master() uint32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.master
}

// SetMaster replaces the master seed and clears all caches.
func (g *Generator) SetMaster(master uint32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.master = master
	g.seeds = make(map[string]uint32)
	g.streams = make(map[string]*rng.RNG)
}

// Derive returns the deterministic seed for a dot-separated path, e.g.
// "districts.north.zones.residential". Any string is a valid path.
func (g *Generator) Derive(path string) uint32 {
	g.mu.Lock()
	defer g.mu.Unlock()

	if s, ok := g.seeds[path]; ok {
		return s
	}
	s := deriveSeed(g.master, path)
	g.seeds[path] = s
	return s
}

// Stream returns the seeded stream for a path. Repeated calls with the same
// path return the same stream instance, so sequential consumers of one branch
// share its position; callers that need a fresh replay should derive the seed
// and construct their own RNG.
func (g *Generator) Stream(path string) *rng.RNG {
	g.mu.Lock()
	defer g.mu.Unlock()

	if r, ok := g.streams[path]; ok {
		return r
	}
	s, ok := g.seeds[path]
	if !ok {
		s = deriveSeed(g.master, path)
		g.seeds[path] = s
	}
	r := rng.New(s)
	g.streams[path] = r
	return r
}

// deriveSeed hashes "{master}:{path}" with MD5 and reduces the first 8 bytes
// (big-endian) mod 2^32. The hash choice is part of the persisted-city
// compatibility contract; do not change it without migrating fixtures.
func deriveSeed(master uint32, path string) uint32 {
	sum := md5.Sum([]byte(fmt.Sprintf("%d:%s", master, path)))
	return uint32(binary.BigEndian.Uint64(sum[:8]) % (1 << 32))
}

// Variation combines a base path's seed with a named variation's seed,
// yielding a new master-seed candidate for "what if" regeneration.
func (g *Generator) Variation(basePath, name string) uint32 {
	base := g.Derive(basePath)
	variation := g.Derive(fmt.Sprintf("%s.variations.%s", basePath, name))
	return uint32((uint64(base) + uint64(variation)) % (1 << 32))
}

// commonBranches is the fixed set of well-known child branches per parent,
// used by BranchSeeds for debugging and bulk pre-derivation.
var commonBranches = map[string][]string{
	"districts":      {"north", "south", "east", "west", "central"},
	"zones":          {"commercial", "residential", "industrial", "mixed"},
	"infrastructure": {"roads", "utilities", "parks", "services"},
	"demographics":   {"age_groups", "occupations", "income_levels"},
}

// BranchSeeds returns the seeds of the direct children of a parent path.
// Unknown parents get a default primary/secondary/tertiary fan-out.
func (g *Generator) BranchSeeds(parent string) map[string]uint32 {
	branches, ok := commonBranches[parent]
	if !ok {
		branches = []string{"primary", "secondary", "tertiary"}
	}
	out := make(map[string]uint32, len(branches))
	for _, b := range branches {
		out[b] = g.Derive(fmt.Sprintf("%s.%s", parent, b))
	}
	return out
}

// Metadata describes the generator's state for debugging and display.
type Metadata struct {
	MasterSeed    uint32   `json:"master_seed"`
	CachedSeeds   int      `json:"cached_seeds"`
	CachedStreams int      `json:"cached_streams"`
	KnownPaths    []string `json:"known_paths"`
}

// Metadata returns a snapshot of the cache state. Paths are sorted so the
// export is stable.
func (g *Generator) Metadata() Metadata {
	g.mu.Lock()
	defer g.mu.Unlock()

	paths := make([]string, 0, len(g.seeds))
	for p := range g.seeds {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	return Metadata{
		MasterSeed:    g.master,
		CachedSeeds:   len(g.seeds),
		CachedStreams: len(g.streams),
		KnownPaths:    paths,
	}
}
