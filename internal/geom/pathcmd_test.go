package geom

import (
	"reflect"
	"testing"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		name string
		d    string
		want []Subpath
	}{
		{
			"closed triangle",
			"M0,0 L10,0 L10,10 Z",
			[]Subpath{{Points: []Point{{0, 0}, {10, 0}, {10, 10}}, Closed: true}},
		},
		{
			"relative with implicit lineto",
			"m1,1 l2,0 0,2 z m5,5 h1 v1",
			[]Subpath{
				{Points: []Point{{1, 1}, {3, 1}, {3, 3}}, Closed: true},
				{Points: []Point{{6, 6}, {7, 6}, {7, 7}}},
			},
		},
		{
			"moveto pairs become lines",
			"M0,0 5,5 10,0",
			[]Subpath{{Points: []Point{{0, 0}, {5, 5}, {10, 0}}}},
		},
		{
			"draw after close restarts at subpath start",
			"M0,0 L1,0 Z L2,2",
			[]Subpath{
				{Points: []Point{{0, 0}, {1, 0}}, Closed: true},
				{Points: []Point{{0, 0}, {2, 2}}},
			},
		},
		{
			"arc becomes a line",
			"M0,0 A5,5 0 0 1 10,0",
			[]Subpath{{Points: []Point{{0, 0}, {10, 0}}}},
		},
		{"empty", "", nil},
		{"close only", "Z", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePath(tt.d)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParsePath(%q) = %+v, want %+v", tt.d, got, tt.want)
			}
		})
	}
}

func TestParsePath_Curves(t *testing.T) {
	got := ParsePath("M0,0 C0,10 10,10 10,0")
	if len(got) != 1 {
		t.Fatalf("subpaths = %d, want 1", len(got))
	}
	pts := got[0].Points
	if len(pts) != curveSegments+1 {
		t.Fatalf("points = %d, want %d", len(pts), curveSegments+1)
	}
	if last := pts[len(pts)-1]; last != (Point{10, 0}) {
		t.Errorf("curve ends at %+v, want (10, 0)", last)
	}
	for _, p := range pts {
		if p.Y < 0 || p.Y > 10 {
			t.Errorf("flattened point %+v leaves the control hull", p)
		}
	}

	q := ParsePath("M0,0 Q5,10 10,0 T20,0")
	if n := len(q[0].Points); n != 2*curveSegments+1 {
		t.Errorf("quad with smooth continuation has %d points, want %d", n, 2*curveSegments+1)
	}
	if last := q[0].Points[len(q[0].Points)-1]; last != (Point{20, 0}) {
		t.Errorf("smooth quad ends at %+v", last)
	}
}

func TestParsePath_BoundsAgree(t *testing.T) {
	d := "M10,20 L30,5 L15,40 Z"
	b, _ := ExtractBoundingBox(d)
	pb, _ := pointsBox(ParsePath(d))
	if pb != b {
		t.Errorf("polyline bounds %+v differ from extracted %+v", pb, b)
	}
}

func TestOutlines(t *testing.T) {
	out := Outlines([]PathRecord{
		{ID: "sq", Commands: "M0,0 L10,0 L10,10 L0,10 Z"},
		{ID: "none", Commands: "Z"},
	})
	if len(out) != 1 || out[0].ID != "sq" {
		t.Fatalf("Outlines = %+v", out)
	}
	if out[0].Box != (BBox{0, 0, 10, 10}) || len(out[0].Subpaths) != 1 || !out[0].Subpaths[0].Closed {
		t.Errorf("outline = %+v", out[0])
	}
	boxes := BoxRecords(out)
	if id, ok := HitTest(boxes, 5, 5); !ok || id != "sq" {
		t.Errorf("HitTest on outline boxes = %q, %v", id, ok)
	}
}

func TestOutlines_RelativeBoxFollowsDrawing(t *testing.T) {
	rec := PathRecord{ID: "rel", Commands: "m50,50 l10,0 0,5 z"}
	out := Outlines([]PathRecord{rec})
	if len(out) != 1 {
		t.Fatalf("Outlines = %+v", out)
	}
	if want := (BBox{50, 50, 60, 55}); out[0].Box != want {
		t.Errorf("outline box = %+v, want %+v", out[0].Box, want)
	}
	if id, ok := HitTest(BoxRecords(out), 55, 52); !ok || id != "rel" {
		t.Errorf("HitTest inside drawn shape = %q, %v", id, ok)
	}
	view := BBox{MinX: 51, MinY: 0, MaxX: 61, MaxY: 100}
	if !view.Intersects(out[0].Box) {
		t.Errorf("view %+v misses outline box %+v", view, out[0].Box)
	}

	// the metrics table keeps the raw pair scan
	m := MetricsFromPaths([]PathRecord{rec})
	if len(m) != 1 || m[0].Area != 2500 {
		t.Errorf("metrics = %+v", m)
	}
}
