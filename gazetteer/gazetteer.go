package gazetteer

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	log "github.com/golang/glog"
)

// coordinates closer to (0, 0) than this are treated as missing
const coordEpsilon = 1e-6

// Location is one gazetteer entry: a place name with a representative
// coordinate
type Location struct {
	Id         int
	Name       string
	Lat        float64
	Lon        float64
	Population int
	Type       string
}

// Gazetteer maps lowercased place names to their candidate locations
type Gazetteer struct {
	names map[string][]Location
	size  int
}

func New() *Gazetteer {
	return &Gazetteer{names: make(map[string][]Location)}
}

// Add registers a location under its lowercased name. Locations at
// null island are dropped, matching the coordinate filter applied to
// every gazetteer source.
func (this *Gazetteer) Add(loc Location) bool {
	if math.Abs(loc.Lat) < coordEpsilon && math.Abs(loc.Lon) < coordEpsilon {
		return false
	}
	name := strings.ToLower(loc.Name)
	if loc.Id == 0 {
		loc.Id = this.size + 1
	}
	this.names[name] = append(this.names[name], loc)
	this.size += 1
	return true
}

func (this *Gazetteer) Contains(name string) bool {
	_, ok := this.names[strings.ToLower(name)]
	return ok
}

// Lookup returns all candidate locations for the place name
func (this *Gazetteer) Lookup(name string) []Location {
	return this.names[strings.ToLower(name)]
}

// Len reports the number of locations held
func (this *Gazetteer) Len() int {
	return this.size
}

// LoadTSV reads a gazetteer from a tab-separated file with lines of
// the form: name, latitude, longitude, population, type. Population
// and type may be omitted. Lines starting with # are skipped.
func LoadTSV(fn string) (*Gazetteer, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	g := New()
	lineIdx := 0
	dropped := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lineIdx += 1
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 3 {
			return nil, fmt.Errorf("gazetteer: line %d: expected at least 3 fields, got %d",
				lineIdx, len(fields))
		}
		lat, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("gazetteer: line %d: bad latitude %q", lineIdx, fields[1])
		}
		lon, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("gazetteer: line %d: bad longitude %q", lineIdx, fields[2])
		}
		loc := Location{Name: fields[0], Lat: lat, Lon: lon}
		if len(fields) > 3 && fields[3] != "" {
			pop, err := strconv.Atoi(fields[3])
			if err != nil {
				return nil, fmt.Errorf("gazetteer: line %d: bad population %q", lineIdx, fields[3])
			}
			loc.Population = pop
		}
		if len(fields) > 4 {
			loc.Type = fields[4]
		}
		if !g.Add(loc) {
			dropped += 1
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	log.Infof("gazetteer: loaded %d locations from %s (%d dropped for missing coordinates)",
		g.Len(), fn, dropped)
	return g, nil
}
