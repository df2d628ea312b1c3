// Package render draws a view of the map to a raster image with gogpu/gg.
package render

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"

	"worldmap/internal/geom"
)

// Options controls a snapshot. Zero colors fall back to the defaults below.
type Options struct {
	Width, Height int

	Outlines  bool
	Labels    bool
	Centroids bool

	// Names maps feature ids to label text; ids are used when absent.
	Names map[string]string
	// Highlight is the id of a feature drawn in the highlight color.
	Highlight string
	FontSize  float64

	Ocean, Land, Border, Accent, Ink string
}

const (
	defaultOcean  = "#dbe9f6"
	defaultLand   = "#f4efe1"
	defaultBorder = "#6b6b6b"
	defaultAccent = "#f2b134"
	defaultInk    = "#222222"
)

func or(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

var (
	fontOnce   sync.Once
	fontSource *text.FontSource
	fontErr    error
)

// labelFont loads the embedded Go Regular font once per process.
func labelFont() (*text.FontSource, error) {
	fontOnce.Do(func() {
		fontSource, fontErr = text.NewFontSource(goregular.TTF)
	})
	return fontSource, fontErr
}

func tracePath(dc *gg.Context, o geom.Outline, t geom.Transform) {
	for _, sp := range o.Subpaths {
		for i, p := range sp.Points {
			x, y := t.Apply(p.X, p.Y)
			if i == 0 {
				dc.MoveTo(x, y)
			} else {
				dc.LineTo(x, y)
			}
		}
		if sp.Closed {
			dc.ClosePath()
		}
	}
}

// Snapshot renders outlines whose box meets the viewport, then centroid dots
// and labels for the visible set at their screen positions. The caller owns
// the returned context and should Close it.
func Snapshot(outlines []geom.Outline, visible []geom.Visible, t geom.Transform, opts Options) (*gg.Context, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("render: invalid size %dx%d", opts.Width, opts.Height)
	}
	if !t.Valid() {
		return nil, fmt.Errorf("render: %w", geom.ErrInvalidTransform)
	}
	dc := gg.NewContext(opts.Width, opts.Height)
	dc.ClearWithColor(gg.Hex(or(opts.Ocean, defaultOcean)))
	var errs []error

	if opts.Outlines {
		vp := geom.Viewport{Width: float64(opts.Width), Height: float64(opts.Height)}
		bounds := geom.ViewBounds(t, vp, 0)
		dc.SetFillRule(gg.FillRuleEvenOdd)
		dc.SetLineWidth(1)
		drawn := 0
		for _, o := range outlines {
			if !bounds.Intersects(o.Box) {
				continue
			}
			tracePath(dc, o, t)
			if o.ID == opts.Highlight {
				dc.SetHexColor(or(opts.Accent, defaultAccent))
			} else {
				dc.SetHexColor(or(opts.Land, defaultLand))
			}
			errs = append(errs, dc.FillPreserve())
			dc.SetHexColor(or(opts.Border, defaultBorder))
			errs = append(errs, dc.Stroke())
			drawn++
		}
		geom.Logger().Debug("snapshot_outlines", "drawn", drawn, "total", len(outlines))
	}

	if opts.Centroids {
		dc.SetHexColor(or(opts.Accent, defaultAccent))
		for _, v := range visible {
			dc.DrawCircle(v.ScreenX, v.ScreenY, 3)
			errs = append(errs, dc.Fill())
		}
	}

	if opts.Labels && len(visible) > 0 {
		src, err := labelFont()
		if err != nil {
			dc.Close()
			return nil, fmt.Errorf("render: load font: %w", err)
		}
		size := opts.FontSize
		if size <= 0 {
			size = 12
		}
		dc.SetFont(src.Face(size))
		dc.SetHexColor(or(opts.Ink, defaultInk))
		for _, v := range visible {
			label := v.ID
			if n := opts.Names[v.ID]; n != "" {
				label = n
			}
			dc.DrawStringAnchored(label, v.ScreenX, v.ScreenY, 0.5, 0.5)
		}
	}

	if err := errors.Join(errs...); err != nil {
		dc.Close()
		return nil, fmt.Errorf("render: %w", err)
	}
	return dc, nil
}

// SavePNG renders a snapshot straight to a PNG file.
func SavePNG(path string, outlines []geom.Outline, visible []geom.Visible, t geom.Transform, opts Options) error {
	dc, err := Snapshot(outlines, visible, t, opts)
	if err != nil {
		return err
	}
	defer dc.Close()
	return dc.SavePNG(path)
}
