package population

import (
	"bufio"
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// The occupation reference table is tab-separated, one row per occupation:
//
//	name <TAB> method <TAB> male <TAB> female <TAB> zone-codes <TAB> density-codes
//
// Allocation methods:
//
//	P          male/female are percentages of the workforce by sex ("12%")
//	D_CHILD:n  child population divided by n, split by male/female proportions
//	D_POP:n    total population divided by n, split by male/female proportions
//
// Zone and density codes are single characters; each row fans out across
// every (zone, density) combination it names.

//go:embed occupations.txt
var defaultOccupations []byte

type allocMethod int

const (
	allocPercent allocMethod = iota
	allocChildRatio
	allocPopRatio
	allocUnknown
)

type occupationRow struct {
	Name      string
	Method    allocMethod
	MethodRaw string
	Ratio     int
	Male      float64 // percent for P, proportion for D_*
	Female    float64
	Zones     string
	Densities string
}

// OccupationTable is a parsed occupation reference table.
type OccupationTable struct {
	rows []occupationRow
}

// DefaultOccupationTable parses the embedded occupation table. The embedded
// data is compile-time fixed, so a parse failure is a programming error.
func DefaultOccupationTable() *OccupationTable {
	t, err := ParseOccupationTable(bytes.NewReader(defaultOccupations))
	if err != nil {
		panic(fmt.Sprintf("embedded occupation table: %v", err))
	}
	return t
}

// LoadOccupationTable parses an occupation table from a file.
func LoadOccupationTable(path string) (*OccupationTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open occupation table: %w", err)
	}
	defer f.Close()
	t, err := ParseOccupationTable(f)
	if err != nil {
		return nil, fmt.Errorf("parse occupation table %s: %w", path, err)
	}
	return t, nil
}

// ParseOccupationTable reads tab-separated occupation rows. Rows with fewer
// than six fields are skipped (trailing blank lines and comments are
// expected in hand-edited tables); an unparsable number skips the row with a
// warning. Only a read failure is fatal.
func ParseOccupationTable(r io.Reader) (*OccupationTable, error) {
	table := &OccupationTable{}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, "\t")
		if len(parts) < 6 {
			slog.Debug("skipping short occupation row", "line", lineNo, "fields", len(parts))
			continue
		}

		row := occupationRow{
			Name:      parts[0],
			Zones:     parts[4],
			Densities: parts[5],
		}

		methodStr := parts[1]
		method, ratioStr, hasRatio := strings.Cut(methodStr, ":")
		row.MethodRaw = method
		if hasRatio {
			n, err := strconv.Atoi(ratioStr)
			if err != nil {
				slog.Warn("occupation row has bad ratio, skipping", "line", lineNo, "name", row.Name, "ratio", ratioStr)
				continue
			}
			row.Ratio = n
		}

		switch method {
		case "P":
			row.Method = allocPercent
		case "D_CHILD":
			row.Method = allocChildRatio
		case "D_POP":
			row.Method = allocPopRatio
		default:
			row.Method = allocUnknown
		}

		male, errM := parseRate(parts[2])
		female, errF := parseRate(parts[3])
		if errM != nil || errF != nil {
			slog.Warn("occupation row has bad rate, skipping", "line", lineNo, "name", row.Name)
			continue
		}
		row.Male = male
		row.Female = female

		table.rows = append(table.rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read occupation table: %w", err)
	}
	return table, nil
}

// parseRate parses "12%" or "12" as 12.0. Percent conversion happens at
// allocation time, depending on the method.
func parseRate(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(s), "%"), 64)
}

// Len returns the number of usable rows.
func (t *OccupationTable) Len() int { return len(t.rows) }

// Allocate recomputes the occupation and zone maps wholesale from the current
// state. Pure arithmetic, no randomness; callers replace their maps with the
// result.
func (t *OccupationTable) Allocate(state *State) (map[string]Occupation, map[string]Zone) {
	wf := state.Workforce()
	children := state.Children()

	occupations := make(map[string]Occupation, len(t.rows))
	zones := make(map[string]Zone)

	for _, row := range t.rows {
		var males, females float64

		switch row.Method {
		case allocPercent:
			males = row.Male * 0.01 * float64(wf.Male)
			females = row.Female * 0.01 * float64(wf.Female)

		case allocChildRatio, allocPopRatio:
			var totalReq float64
			if row.Ratio > 0 {
				base := float64(children)
				if row.Method == allocPopRatio {
					base = float64(state.Population)
				}
				totalReq = base / float64(row.Ratio)
			}
			totalProp := row.Male + row.Female
			if totalProp > 0 {
				males = totalReq * (row.Male / totalProp)
				females = totalReq * (row.Female / totalProp)
			}

		default:
			// Unknown methods contribute zero. Loud on purpose: a typo in the
			// table would otherwise silently erase an occupation.
			slog.Warn("unknown occupation allocation method", "name", row.Name, "method", row.MethodRaw)
		}

		occupations[row.Name] = Occupation{Male: males, Female: females}

		humans := males + females
		for _, zoneCode := range row.Zones {
			key := string(zoneCode)
			z := zones[key]
			for _, density := range row.Densities {
				switch density {
				case 'L':
					z.Low += humans
				case 'M':
					z.Medium += humans
				case 'H':
					z.High += humans
				}
			}
			zones[key] = z
		}
	}

	return occupations, zones
}
