package region

import (
	"fmt"

	log "github.com/golang/glog"

	"github.com/utcompling/geotopics/gazetteer"
)

// Region is one cell of the world grid. The model treats regions as
// opaque categorical outcomes; the bounds and centroid are only used
// when reporting results.
type Region struct {
	MinLon  float64
	MaxLon  float64
	MinLat  float64
	MaxLat  float64
	CentLon float64
	CentLat float64
}

func (r Region) contains(lon, lat float64) bool {
	return lon >= r.MinLon && lon <= r.MaxLon &&
		lat >= r.MinLat && lat <= r.MaxLat
}

// Grid tiles the world into degreesPerRegion x degreesPerRegion cells.
// A cell becomes a region, with a dense id assigned in creation order,
// the first time a gazetteer location falls inside it; cells no
// location ever hits never get ids, keeping R small.
type Grid struct {
	degrees float64
	width   int
	height  int
	cells   []int // region id per cell, -1 when inactive
	regions []Region
}

func NewGrid(degreesPerRegion float64) (*Grid, error) {
	if degreesPerRegion <= 0 || degreesPerRegion > 180 {
		return nil, fmt.Errorf("region: degrees per region %f out of range (0, 180]",
			degreesPerRegion)
	}
	w := int(360 / degreesPerRegion)
	h := int(180 / degreesPerRegion)
	g := &Grid{
		degrees: degreesPerRegion,
		width:   w,
		height:  h,
		cells:   make([]int, w*h),
	}
	for i := range g.cells {
		g.cells[i] = -1
	}
	return g, nil
}

// AddLocation returns the region id of the cell containing the
// location, creating the region on first use
func (this *Grid) AddLocation(loc gazetteer.Location) uint32 {
	x := int((loc.Lon + 180) / this.degrees)
	y := int((loc.Lat + 90) / this.degrees)
	// the inclusive upper edges of the world belong to the last cell
	if x == this.width && loc.Lon <= 180 {
		x -= 1
	}
	if y == this.height && loc.Lat <= 90 {
		y -= 1
	}
	if x < 0 || y < 0 || x >= this.width || y >= this.height {
		log.Warningf("region: %s has out-of-range coordinates (%f, %f); clamping",
			loc.Name, loc.Lat, loc.Lon)
		x = clamp(x, 0, this.width-1)
		y = clamp(y, 0, this.height-1)
	}

	cell := x*this.height + y
	if this.cells[cell] < 0 {
		minLon := -180 + float64(x)*this.degrees
		minLat := -90 + float64(y)*this.degrees
		r := Region{
			MinLon: minLon,
			MaxLon: minLon + this.degrees,
			MinLat: minLat,
			MaxLat: minLat + this.degrees,
		}
		r.CentLon = (r.MinLon + r.MaxLon) / 2
		r.CentLat = (r.MinLat + r.MaxLat) / 2
		this.cells[cell] = len(this.regions)
		this.regions = append(this.regions, r)
	}
	return uint32(this.cells[cell])
}

// Region returns the region with the given dense id
func (this *Grid) Region(id uint32) Region {
	return this.regions[id]
}

// RegionCount reports the number of active regions R
func (this *Grid) RegionCount() uint32 {
	return uint32(len(this.regions))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
