package gazetteer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGazetteerAddLookup(t *testing.T) {
	g := New()

	assert.True(t, g.Add(Location{Name: "Austin", Lat: 30.27, Lon: -97.74}))
	assert.True(t, g.Add(Location{Name: "Paris", Lat: 48.86, Lon: 2.35}))
	assert.True(t, g.Add(Location{Name: "Paris", Lat: 33.66, Lon: -95.56}))

	assert.Equal(t, 3, g.Len())
	assert.True(t, g.Contains("paris"))
	assert.True(t, g.Contains("Paris"))
	assert.False(t, g.Contains("london"))
	assert.Len(t, g.Lookup("paris"), 2)
	assert.Len(t, g.Lookup("austin"), 1)
}

func TestGazetteerDropsNullIsland(t *testing.T) {
	g := New()

	assert.False(t, g.Add(Location{Name: "nowhere", Lat: 0, Lon: 0}))
	assert.Equal(t, 0, g.Len())
	assert.False(t, g.Contains("nowhere"))
}

func TestLoadTSV(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "places.tsv")
	content := "# name\tlat\tlon\tpop\ttype\n" +
		"Austin\t30.27\t-97.74\t964000\tcity\n" +
		"Paris\t48.86\t2.35\t2140000\tcity\n" +
		"Nowhere\t0\t0\t0\tlocality\n" +
		"Unpopulated\t10.5\t-3.25\n"
	assert.NoError(t, os.WriteFile(fn, []byte(content), 0644))

	g, err := LoadTSV(fn)
	assert.NoError(t, err)

	assert.Equal(t, 3, g.Len())
	assert.False(t, g.Contains("nowhere"))

	austin := g.Lookup("austin")
	assert.Len(t, austin, 1)
	assert.Equal(t, 964000, austin[0].Population)
	assert.Equal(t, "city", austin[0].Type)
	assert.InDelta(t, 30.27, austin[0].Lat, 1e-9)
	assert.InDelta(t, -97.74, austin[0].Lon, 1e-9)

	assert.True(t, g.Contains("unpopulated"))
}

func TestLoadTSVBadRow(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "places.tsv")
	assert.NoError(t, os.WriteFile(fn, []byte("Austin\tnorth\t-97.74\n"), 0644))

	_, err := LoadTSV(fn)
	assert.Error(t, err)
}
