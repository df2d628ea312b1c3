package dataset

import (
	"bytes"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"worldmap/internal/geom"
)

func recordIDs(rs []geom.PathRecord) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.ID)
	}
	return out
}

func TestLoadSVG(t *testing.T) {
	ds, err := LoadSVG(filepath.Join("testdata", "world.svg"))
	if err != nil {
		t.Fatal(err)
	}
	if got := recordIDs(ds.Records); !reflect.DeepEqual(got, []string{"AA", "BB", "CC", "DD"}) {
		t.Errorf("ids = %v", got)
	}
	if ds.Name("AA") != "Alpha" || ds.Name("CC") != "Gamma" || ds.Name("BB") != "BB" {
		t.Errorf("names = %v", ds.Names)
	}
	if ds.Kind != KindSVG {
		t.Errorf("kind = %v", ds.Kind)
	}
}

func TestParseSVG_Errors(t *testing.T) {
	tests := []struct {
		name, doc, want string
	}{
		{"wrong root", `<html><path id="a" d="M0,0"/></html>`, "root element"},
		{"no paths", `<svg><rect id="a"/></svg>`, "no paths"},
		{"empty", ``, "empty document"},
		{"broken xml", `<svg><path id="a" d="M0,0"</svg>`, "svg:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSVG(strings.NewReader(tt.doc))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestLoadGeoJSON(t *testing.T) {
	ds, err := LoadGeoJSON(filepath.Join("testdata", "countries.geojson"), ProjectOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if got := recordIDs(ds.Records); !reflect.DeepEqual(got, []string{"AA", "BBB", "unknown"}) {
		t.Fatalf("ids = %v", got)
	}
	want := "M0.00,0.00 500.00,0.00 500.00,241.00 0.00,241.00 0.00,0.00 Z"
	if ds.Records[0].Commands != want {
		t.Errorf("AA path = %q, want %q", ds.Records[0].Commands, want)
	}
	if n := strings.Count(ds.Records[1].Commands, "M"); n != 2 {
		t.Errorf("multipolygon has %d subpaths, want 2", n)
	}
	if ds.Name("AA") != "Alpha" || ds.Name("BBB") != "Beta" {
		t.Errorf("names = %v", ds.Names)
	}

	areas := map[string]float64{}
	for _, fm := range geom.MetricsFromPaths(ds.Records) {
		areas[fm.ID] = fm.Area
	}
	// each hemisphere quadrant projects to 500 x 241
	if areas["AA"] != 500*241 || areas["BBB"] != 500*241 {
		t.Errorf("areas = %v", areas)
	}
}

func TestParseGeoJSON_CustomCanvas(t *testing.T) {
	doc := `{"type":"FeatureCollection","features":[
	  {"type":"Feature","properties":{"ISO_A2":"SQ"},"geometry":{"type":"Polygon","coordinates":[[[0,0],[10,0],[10,10],[0,10],[0,0]]]}}]}`
	ds, err := ParseGeoJSON([]byte(doc), ProjectOptions{Width: 100, Height: 50})
	if err != nil {
		t.Fatal(err)
	}
	b, ok := geom.ExtractBoundingBox(ds.Records[0].Commands)
	if !ok || b != (geom.BBox{MinX: 0, MinY: 0, MaxX: 100, MaxY: 50}) {
		t.Errorf("projected box = %+v", b)
	}
}

func TestParseGeoJSON_Errors(t *testing.T) {
	for _, doc := range []string{
		`not json`,
		`{"type":"FeatureCollection","features":[]}`,
		`{"type":"FeatureCollection","features":[{"type":"Feature","properties":{},"geometry":{"type":"Point","coordinates":[1,2]}}]}`,
	} {
		if _, err := ParseGeoJSON([]byte(doc), ProjectOptions{}); err == nil || !strings.HasPrefix(err.Error(), "geojson:") {
			t.Errorf("ParseGeoJSON(%.30q) err = %v", doc, err)
		}
	}
}

func TestWriteSVG_RoundTrip(t *testing.T) {
	recs := []geom.PathRecord{
		{ID: "AA", Commands: "M0,0 10,0 10,10 Z"},
		{ID: `Q"<`, Commands: "M1,1 2,2"},
	}
	var buf bytes.Buffer
	if err := WriteSVG(&buf, recs, map[string]string{"AA": "Alpha & Co"}, 1000, 482); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `viewBox="0 0 1000 482"`) {
		t.Errorf("missing viewBox in %s", buf.String())
	}
	ds, err := ParseSVG(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(ds.Records, recs) {
		t.Errorf("records = %+v, want %+v", ds.Records, recs)
	}
	if ds.Name("AA") != "Alpha & Co" {
		t.Errorf("name = %q", ds.Name("AA"))
	}
}

func TestLoadKML(t *testing.T) {
	ds, err := LoadKML(filepath.Join("testdata", "regions.kml"))
	if err != nil {
		t.Fatal(err)
	}
	want := []geom.PathRecord{
		{ID: "north", Commands: "M10,-50 20,-50 20,-60 10,-60 10,-50 Z"},
		{ID: "Twin", Commands: "M0,0 1,0 1,-1 0,0 Z M5,-5 6,-5 6,-6 Z"},
	}
	if !reflect.DeepEqual(ds.Records, want) {
		t.Errorf("records = %+v, want %+v", ds.Records, want)
	}
	if ds.Name("north") != "North Region" {
		t.Errorf("name = %q", ds.Name("north"))
	}
}

func TestWKTToPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
		err  bool
	}{
		{"POLYGON((0 0, 4 0, 4 3, 0 0))", "M0,0 4,0 4,3 0,0 Z", false},
		{"polygon ((0 0, 4 0, 4 3), (1 1, 2 1, 2 2))", "M0,0 4,0 4,3 Z M1,1 2,1 2,2 Z", false},
		{"MULTIPOLYGON(((0 0, 1 0, 1 1)), ((5 5, 6 5, 6 6)))", "M0,0 1,0 1,1 Z M5,5 6,5 6,6 Z", false},
		{"LINESTRING(0 0, 3 4)", "M0,0 3,4", false},
		{"MULTILINESTRING((0 0, 1 1), (2 2, 3 3))", "M0,0 1,1 M2,2 3,3", false},
		{"POINT (1.5 -2)", "M1.5,-2", false},
		{"MULTIPOINT((1 2), (3 4))", "M1,2 3,4", false},
		{"LINESTRING(0 0, x y, 1 1)", "M0,0 1,1", false},
		{"", "", true},
		{"POLYGON EMPTY", "", true},
		{"CIRCLE(0 0, 5)", "", true},
		{"POLYGON", "", true},
	}
	for _, tt := range tests {
		got, err := WKTToPath(tt.in)
		if (err != nil) != tt.err {
			t.Errorf("WKTToPath(%q) err = %v, want err %v", tt.in, err, tt.err)
			continue
		}
		if got != tt.want {
			t.Errorf("WKTToPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadWKT(t *testing.T) {
	ds, err := LoadWKT(filepath.Join("testdata", "shapes.wkt"))
	if err != nil {
		t.Fatal(err)
	}
	if got := recordIDs(ds.Records); !reflect.DeepEqual(got, []string{"sq", "multi", "road"}) {
		t.Errorf("ids = %v", got)
	}
}

func TestLoad_Dispatch(t *testing.T) {
	tests := []struct {
		file string
		kind Kind
	}{
		{"world.svg", KindSVG},
		{"countries.geojson", KindGeoJSON},
		{"regions.kml", KindKML},
		{"shapes.wkt", KindWKT},
	}
	for _, tt := range tests {
		ds, err := Load(filepath.Join("testdata", tt.file), ProjectOptions{})
		if err != nil {
			t.Errorf("Load(%s): %v", tt.file, err)
			continue
		}
		if ds.Kind != tt.kind {
			t.Errorf("Load(%s) kind = %v, want %v", tt.file, ds.Kind, tt.kind)
		}
	}
	if _, err := Load("map.png", ProjectOptions{}); err == nil {
		t.Error("Load(.png) should fail")
	}
	if !Supported("X.GeoJSON") || Supported("notes.txt") {
		t.Error("Supported extension check")
	}
}
