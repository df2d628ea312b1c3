// Package dataset loads world-map outlines from SVG, GeoJSON, KML and WKT
// files and reads and writes metrics tables.
package dataset

import (
	"fmt"
	"path/filepath"
	"strings"

	"worldmap/internal/geom"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindSVG
	KindGeoJSON
	KindKML
	KindWKT
)

func (k Kind) String() string {
	switch k {
	case KindSVG:
		return "svg"
	case KindGeoJSON:
		return "geojson"
	case KindKML:
		return "kml"
	case KindWKT:
		return "wkt"
	}
	return "unknown"
}

// Dataset is a loaded set of outlines. Names maps feature ids to display
// names where the source carried one.
type Dataset struct {
	Kind    Kind
	Records []geom.PathRecord
	Names   map[string]string
}

// Name returns the display name for id, falling back to the id itself.
func (d Dataset) Name(id string) string {
	if n, ok := d.Names[id]; ok && n != "" {
		return n
	}
	return id
}

// KindOf picks a loader from the file extension.
func KindOf(path string) Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		return KindSVG
	case ".geojson", ".json":
		return KindGeoJSON
	case ".kml":
		return KindKML
	case ".wkt":
		return KindWKT
	}
	return KindUnknown
}

// Supported reports whether Load can read path.
func Supported(path string) bool { return KindOf(path) != KindUnknown }

// Load reads any supported dataset. opts only applies to GeoJSON.
func Load(path string, opts ProjectOptions) (Dataset, error) {
	switch KindOf(path) {
	case KindSVG:
		return LoadSVG(path)
	case KindGeoJSON:
		return LoadGeoJSON(path, opts)
	case KindKML:
		return LoadKML(path)
	case KindWKT:
		return LoadWKT(path)
	}
	return Dataset{}, fmt.Errorf("unsupported file type: %s", filepath.Ext(path))
}
