package dataset

import (
	"bufio"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"worldmap/internal/geom"
)

// ProjectOptions sizes the canvas GeoJSON coordinates are projected onto.
// Zero values select the 1000x482 world canvas.
type ProjectOptions struct {
	Width  float64
	Height float64
}

const (
	DefaultWidth  = 1000
	DefaultHeight = 482
)

func (o ProjectOptions) size() (float64, float64) {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}
	return w, h
}

// equirect maps lon/lat inside bound linearly onto a w x h canvas, north up.
type equirect struct {
	bound orb.Bound
	w, h  float64
}

func (p equirect) project(pt orb.Point) (float64, float64) {
	dx := p.bound.Max.X() - p.bound.Min.X()
	dy := p.bound.Max.Y() - p.bound.Min.Y()
	var x, y float64
	if dx > 0 {
		x = (pt.X() - p.bound.Min.X()) / dx * p.w
	}
	if dy > 0 {
		y = (p.bound.Max.Y() - pt.Y()) / dy * p.h
	}
	return x, y
}

func fixed2(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

func (p equirect) ring(sb *strings.Builder, r orb.Ring) {
	if len(r) == 0 {
		return
	}
	if sb.Len() > 0 {
		sb.WriteByte(' ')
	}
	for i, pt := range r {
		x, y := p.project(pt)
		if i == 0 {
			sb.WriteByte('M')
		} else {
			sb.WriteByte(' ')
		}
		sb.WriteString(fixed2(x))
		sb.WriteByte(',')
		sb.WriteString(fixed2(y))
	}
	sb.WriteString(" Z")
}

// pathData renders Polygon and MultiPolygon geometries; other types yield "".
func (p equirect) pathData(g orb.Geometry) string {
	var sb strings.Builder
	switch g := g.(type) {
	case orb.Polygon:
		for _, r := range g {
			p.ring(&sb, r)
		}
	case orb.MultiPolygon:
		for _, poly := range g {
			for _, r := range poly {
				p.ring(&sb, r)
			}
		}
	}
	return sb.String()
}

func stringProp(props geojson.Properties, key string) string {
	s, _ := props[key].(string)
	return s
}

func featureID(f *geojson.Feature) string {
	for _, key := range []string{"ISO_A2", "ADM0_A3"} {
		if s := stringProp(f.Properties, key); s != "" {
			return s
		}
	}
	if f.ID != nil {
		if s := fmt.Sprint(f.ID); s != "" {
			return s
		}
	}
	return "unknown"
}

// ParseGeoJSON projects every Polygon and MultiPolygon feature of a
// FeatureCollection onto the canvas using the collection's own bounds.
func ParseGeoJSON(data []byte, opts ProjectOptions) (Dataset, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return Dataset{}, fmt.Errorf("geojson: %w", err)
	}
	var (
		bound orb.Bound
		seen  bool
	)
	for _, f := range fc.Features {
		if f.Geometry == nil {
			continue
		}
		b := f.Geometry.Bound()
		if !seen {
			bound, seen = b, true
			continue
		}
		bound = bound.Union(b)
	}
	if !seen {
		return Dataset{}, errors.New("geojson: no geometries found")
	}
	w, h := opts.size()
	proj := equirect{bound: bound, w: w, h: h}

	ds := Dataset{Kind: KindGeoJSON, Names: map[string]string{}}
	for _, f := range fc.Features {
		if f.Geometry == nil {
			continue
		}
		d := proj.pathData(f.Geometry)
		if d == "" {
			continue
		}
		id := featureID(f)
		ds.Records = append(ds.Records, geom.PathRecord{ID: id, Commands: d})
		if name := stringProp(f.Properties, "NAME"); name != "" {
			ds.Names[id] = name
		}
	}
	if len(ds.Records) == 0 {
		return Dataset{}, errors.New("geojson: no polygon features found")
	}
	return ds, nil
}

func LoadGeoJSON(path string, opts ProjectOptions) (Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Dataset{}, err
	}
	return ParseGeoJSON(data, opts)
}

// WriteSVG writes records as a standalone SVG document, one <path> per
// record with an optional data-name taken from names.
func WriteSVG(w io.Writer, records []geom.PathRecord, names map[string]string, width, height float64) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "<svg xmlns=\"http://www.w3.org/2000/svg\" x=\"0px\" y=\"0px\" width=\"%g\" height=\"%g\" viewBox=\"0 0 %g %g\">\n",
		width, height, width, height)
	for _, r := range records {
		bw.WriteString(`<path d="`)
		if err := xml.EscapeText(bw, []byte(r.Commands)); err != nil {
			return err
		}
		bw.WriteString(`" id="`)
		if err := xml.EscapeText(bw, []byte(r.ID)); err != nil {
			return err
		}
		bw.WriteByte('"')
		if n := names[r.ID]; n != "" {
			bw.WriteString(` data-name="`)
			if err := xml.EscapeText(bw, []byte(n)); err != nil {
				return err
			}
			bw.WriteByte('"')
		}
		bw.WriteString("/>\n")
	}
	bw.WriteString("</svg>\n")
	return bw.Flush()
}
