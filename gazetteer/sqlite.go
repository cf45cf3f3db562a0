package gazetteer

import (
	"database/sql"

	log "github.com/golang/glog"
	_ "modernc.org/sqlite"
)

// LoadSQLite reads a gazetteer from a SQLite database with a `places`
// table of (name, lat, lon, pop, type) rows, the layout used by the
// world-gazetteer dumps the trainer is normally run against.
func LoadSQLite(fn string) (*Gazetteer, error) {
	db, err := sql.Open("sqlite", fn)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(`select name, lat, lon, pop, type from places`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	g := New()
	dropped := 0
	for rows.Next() {
		var loc Location
		var pop sql.NullInt64
		var typ sql.NullString
		if err := rows.Scan(&loc.Name, &loc.Lat, &loc.Lon, &pop, &typ); err != nil {
			return nil, err
		}
		loc.Population = int(pop.Int64)
		loc.Type = typ.String
		if !g.Add(loc) {
			dropped += 1
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	log.Infof("gazetteer: loaded %d locations from %s (%d dropped for missing coordinates)",
		g.Len(), fn, dropped)
	return g, nil
}
