package render

import (
	"errors"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"worldmap/internal/geom"
)

func near(c color.Color, r, g, b uint8) bool {
	cr, cg, cb, _ := c.RGBA()
	d := func(a uint32, b uint8) bool {
		x := int(a>>8) - int(b)
		return x >= -2 && x <= 2
	}
	return d(cr, r) && d(cg, g) && d(cb, b)
}

func square() []geom.Outline {
	return geom.Outlines([]geom.PathRecord{
		{ID: "SQ", Commands: "M20,20 L80,20 L80,80 L20,80 Z"},
		{ID: "FAR", Commands: "M5000,5000 L5010,5000 L5010,5010 Z"},
	})
}

func TestSnapshot_FillsOutlines(t *testing.T) {
	dc, err := Snapshot(square(), nil, geom.Transform{Scale: 1}, Options{Width: 100, Height: 100, Outlines: true})
	if err != nil {
		t.Fatal(err)
	}
	defer dc.Close()
	img := dc.Image()
	if c := img.At(50, 50); !near(c, 0xf4, 0xef, 0xe1) {
		t.Errorf("inside pixel = %v, want land", c)
	}
	if c := img.At(5, 5); !near(c, 0xdb, 0xe9, 0xf6) {
		t.Errorf("outside pixel = %v, want ocean", c)
	}
}

func TestSnapshot_HighlightAndTransform(t *testing.T) {
	opts := Options{Width: 100, Height: 100, Outlines: true, Highlight: "SQ"}
	// At scale 0.5 the square covers 10..40.
	dc, err := Snapshot(square(), nil, geom.Transform{Scale: 0.5}, opts)
	if err != nil {
		t.Fatal(err)
	}
	defer dc.Close()
	if c := dc.Image().At(25, 25); !near(c, 0xf2, 0xb1, 0x34) {
		t.Errorf("highlighted pixel = %v", c)
	}
	if c := dc.Image().At(60, 60); !near(c, 0xdb, 0xe9, 0xf6) {
		t.Errorf("pixel outside scaled square = %v", c)
	}
}

func TestSnapshot_LabelsAndCentroids(t *testing.T) {
	vis := []geom.Visible{{FeatureMetric: geom.FeatureMetric{ID: "SQ", X: 50, Y: 50, Area: 3600}, ScreenX: 50, ScreenY: 50}}
	opts := Options{Width: 100, Height: 100, Labels: true, Centroids: true, Names: map[string]string{"SQ": "Square"}}
	dc, err := Snapshot(nil, vis, geom.Transform{Scale: 1}, opts)
	if err != nil {
		t.Fatal(err)
	}
	defer dc.Close()
	if c := dc.Image().At(50, 50); near(c, 0xdb, 0xe9, 0xf6) {
		t.Error("centroid dot not drawn")
	}
}

func TestSnapshot_InvalidInput(t *testing.T) {
	if _, err := Snapshot(nil, nil, geom.Transform{Scale: 1}, Options{}); err == nil {
		t.Error("zero size should fail")
	}
	_, err := Snapshot(nil, nil, geom.Transform{}, Options{Width: 10, Height: 10})
	if !errors.Is(err, geom.ErrInvalidTransform) {
		t.Errorf("err = %v, want ErrInvalidTransform", err)
	}
}

func TestSavePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.png")
	if err := SavePNG(path, square(), nil, geom.Transform{Scale: 1}, Options{Width: 64, Height: 32, Outlines: true}); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 32 {
		t.Errorf("png size = %v", b)
	}
}
