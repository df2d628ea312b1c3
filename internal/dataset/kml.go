package dataset

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"worldmap/internal/geom"
)

type kmlRing struct {
	Coordinates string `xml:"LinearRing>coordinates"`
}

type kmlPolygon struct {
	Outer kmlRing   `xml:"outerBoundaryIs"`
	Inner []kmlRing `xml:"innerBoundaryIs"`
}

type kmlPlacemark struct {
	ID       string       `xml:"id,attr"`
	Name     string       `xml:"name"`
	Polygons []kmlPolygon `xml:"Polygon"`
	Multi    []kmlPolygon `xml:"MultiGeometry>Polygon"`
}

// kmlPath turns KML "lon,lat[,alt]" tuples into one closed subpath. Latitude
// is negated so north is up in screen space. Bad tuples are skipped.
func kmlPath(sb *strings.Builder, coords string) {
	n := 0
	for _, tuple := range strings.Fields(coords) {
		vals := strings.Split(tuple, ",")
		if len(vals) < 2 {
			continue
		}
		lon, err1 := strconv.ParseFloat(strings.TrimSpace(vals[0]), 64)
		lat, err2 := strconv.ParseFloat(strings.TrimSpace(vals[1]), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		switch {
		case n == 0 && sb.Len() > 0:
			sb.WriteString(" M")
		case n == 0:
			sb.WriteByte('M')
		default:
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.FormatFloat(lon, 'f', -1, 64))
		sb.WriteByte(',')
		sb.WriteString(strconv.FormatFloat(0-lat, 'f', -1, 64)) // 0-lat never yields "-0"
		n++
	}
	if n > 0 {
		sb.WriteString(" Z")
	}
}

// ParseKML reads Placemark polygons (outer and inner rings) at any depth.
// The feature id is the placemark id attribute, then its name.
func ParseKML(r io.Reader) (Dataset, error) {
	ds := Dataset{Kind: KindKML, Names: map[string]string{}}
	dec := xml.NewDecoder(r)
	n := 0
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Dataset{}, fmt.Errorf("kml: %w", err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "Placemark" {
			continue
		}
		var pm kmlPlacemark
		if err := dec.DecodeElement(&pm, &se); err != nil {
			return Dataset{}, fmt.Errorf("kml: %w", err)
		}
		n++
		var sb strings.Builder
		for _, poly := range append(pm.Polygons, pm.Multi...) {
			kmlPath(&sb, poly.Outer.Coordinates)
			for _, in := range poly.Inner {
				kmlPath(&sb, in.Coordinates)
			}
		}
		if sb.Len() == 0 {
			continue
		}
		id := strings.TrimSpace(pm.ID)
		name := strings.TrimSpace(pm.Name)
		if id == "" {
			id = name
		}
		if id == "" {
			id = fmt.Sprintf("placemark-%d", n)
		}
		ds.Records = append(ds.Records, geom.PathRecord{ID: id, Commands: sb.String()})
		if name != "" {
			ds.Names[id] = name
		}
	}
	if len(ds.Records) == 0 {
		return Dataset{}, errors.New("kml: no polygons found")
	}
	return ds, nil
}

func LoadKML(path string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return Dataset{}, err
	}
	defer f.Close()
	return ParseKML(f)
}
