package seed

import (
	"crypto/md5"
	"fmt"
	"sort"
)

// Manager is the high-level seed surface for city generation: it names the
// branch paths the generators use so that districts, zones, infrastructure and
// demographics each draw from their own stable subtree.
type Manager struct {
	gen *Generator
}

// NewManager creates a Manager rooted at the given master seed.
func NewManager(master uint32) *Manager {
	return &Manager{gen: NewGenerator(master)}
}

// Generator exposes the underlying path generator.
func (m *Manager) Generator() *Generator { return m.gen }

// DistrictSeed returns the seed for a named district.
func (m *Manager) DistrictSeed(district string) uint32 {
	return m.gen.Derive("districts." + district)
}

// ZoneSeed returns the seed for a zone type, optionally scoped to a district.
func (m *Manager) ZoneSeed(zoneType, district string) uint32 {
	if district != "" {
		return m.gen.Derive(fmt.Sprintf("districts.%s.zones.%s", district, zoneType))
	}
	return m.gen.Derive("zones." + zoneType)
}

// InfrastructureSeed returns the seed for an infrastructure type, optionally
// scoped to a location.
func (m *Manager) InfrastructureSeed(infraType, location string) uint32 {
	if location != "" {
		return m.gen.Derive(fmt.Sprintf("infrastructure.%s.%s", infraType, location))
	}
	return m.gen.Derive("infrastructure." + infraType)
}

// DemographicSeed returns the seed for a demographic aspect, optionally
// scoped to an area.
func (m *Manager) DemographicSeed(demoType, area string) uint32 {
	if area != "" {
		return m.gen.Derive(fmt.Sprintf("demographics.%s.%s", demoType, area))
	}
	return m.gen.Derive("demographics." + demoType)
}

// PopulationSeed returns the seed for population synthesis, keyed by the
// target population's size tier so different city scales draw from different
// branches.
func (m *Manager) PopulationSeed(target int) uint32 {
	return m.gen.Derive("population.tier_" + populationTier(target))
}

func populationTier(population int) string {
	switch {
	case population < 10000:
		return "small"
	case population < 100000:
		return "medium"
	case population < 500000:
		return "large"
	case population < 1000000:
		return "metropolitan"
	default:
		return "megalopolis"
	}
}

// Variation returns a new Manager whose master seed is a named variation of
// this city's master, for generating "same city, different X" alternatives.
func (m *Manager) Variation(variationType, variationValue string) *Manager {
	varied := m.gen.Variation("master", fmt.Sprintf("%s.%s", variationType, variationValue))
	return NewManager(varied)
}

// TreeExport is the debug/persistence export of the seed tree.
type TreeExport struct {
	MasterSeed uint32            `json:"master_seed"`
	Seeds      map[string]uint32 `json:"seeds"`
	Metadata   Metadata          `json:"metadata"`
}

// ExportTree snapshots every seed derived so far.
func (m *Manager) ExportTree() TreeExport {
	meta := m.gen.Metadata()
	seeds := make(map[string]uint32, len(meta.KnownPaths))
	for _, p := range meta.KnownPaths {
		seeds[p] = m.gen.Derive(p)
	}
	return TreeExport{
		MasterSeed: meta.MasterSeed,
		Seeds:      seeds,
		Metadata:   meta,
	}
}

// CityID derives a reproducible city identifier from the generation
// parameters that define a city's identity. Equal parameters always produce
// the same ID.
func CityID(masterSeed uint32, population int) string {
	params := []string{
		fmt.Sprintf("population=%d", population),
		fmt.Sprintf("seed=%d", masterSeed),
	}
	sort.Strings(params)
	sum := md5.Sum([]byte(fmt.Sprintf("%v", params)))
	return fmt.Sprintf("metro_%x", sum[:6])
}
