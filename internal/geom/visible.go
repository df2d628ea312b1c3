package geom

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidTransform = errors.New("geom: invalid transform")
	ErrInvalidViewport  = errors.New("geom: invalid viewport")
)

// Transform maps feature space to screen space: screen = feature*Scale + Translate.
// It is a value snapshot; callers pass a copy taken at one instant.
type Transform struct {
	Scale      float64
	TranslateX float64
	TranslateY float64
}

func (t Transform) Valid() bool {
	return finite(t.Scale) && t.Scale > 0 && finite(t.TranslateX) && finite(t.TranslateY)
}

// Apply maps a feature-space point to the screen.
func (t Transform) Apply(x, y float64) (float64, float64) {
	return x*t.Scale + t.TranslateX, y*t.Scale + t.TranslateY
}

// Invert maps a screen point back to feature space.
func (t Transform) Invert(sx, sy float64) (float64, float64) {
	return (sx - t.TranslateX) / t.Scale, (sy - t.TranslateY) / t.Scale
}

// ZoomAbout scales by factor while keeping screen point (sx, sy) fixed.
func (t Transform) ZoomAbout(factor, sx, sy float64) Transform {
	fx, fy := t.Invert(sx, sy)
	s := t.Scale * factor
	return Transform{Scale: s, TranslateX: sx - fx*s, TranslateY: sy - fy*s}
}

// Pan shifts the transform by a screen-space delta.
func (t Transform) Pan(dx, dy float64) Transform {
	t.TranslateX += dx
	t.TranslateY += dy
	return t
}

// FitTransform returns the transform that fits extent into vp, centered.
func FitTransform(extent BBox, vp Viewport) Transform {
	w, h := extent.Width(), extent.Height()
	s := 1.0
	switch {
	case w > 0 && h > 0:
		s = math.Min(vp.Width/w, vp.Height/h)
	case w > 0:
		s = vp.Width / w
	case h > 0:
		s = vp.Height / h
	}
	return Transform{
		Scale:      s,
		TranslateX: (vp.Width-w*s)/2 - extent.MinX*s,
		TranslateY: (vp.Height-h*s)/2 - extent.MinY*s,
	}
}

// ViewBounds is the feature-space rectangle visible through vp, padded by margin.
func ViewBounds(t Transform, vp Viewport, margin float64) BBox {
	minX, minY := t.Invert(0, 0)
	maxX, maxY := t.Invert(vp.Width, vp.Height)
	return BBox{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}.Expand(margin)
}

// Culler selects the metrics worth drawing for a transform. It holds only
// configuration and is safe to share between goroutines.
type Culler struct {
	initialScale float64
	tiers        TierTable
	margin       float64
}

// NewCuller validates its inputs. initialScale is the scale at which the map
// fills the viewport; zoom ratios are measured against it.
func NewCuller(initialScale float64, tiers TierTable, margin float64) (Culler, error) {
	if !finite(initialScale) || initialScale <= 0 {
		return Culler{}, fmt.Errorf("%w: initial scale must be positive, got %g", ErrInvalidConfig, initialScale)
	}
	if !finite(margin) || margin < 0 {
		return Culler{}, fmt.Errorf("%w: margin must be finite and >= 0, got %g", ErrInvalidConfig, margin)
	}
	if tiers == nil {
		tiers = DefaultTiers
	}
	if err := tiers.Validate(); err != nil {
		return Culler{}, err
	}
	tt := make(TierTable, len(tiers))
	copy(tt, tiers)
	return Culler{initialScale: initialScale, tiers: tt, margin: margin}, nil
}

func (c Culler) InitialScale() float64 { return c.initialScale }
func (c Culler) Margin() float64       { return c.margin }
func (c Culler) Tiers() TierTable      { return c.tiers }

// WithInitialScale returns a copy measuring zoom against s.
func (c Culler) WithInitialScale(s float64) (Culler, error) {
	return NewCuller(s, c.tiers, c.margin)
}

func (c Culler) ZoomRatio(t Transform) float64 { return t.Scale / c.initialScale }

// Threshold is the minimum area shown at t.
func (c Culler) Threshold(t Transform) float64 { return c.tiers.MinArea(c.ZoomRatio(t)) }

// Select returns the metrics that clear the zoom tier threshold and whose
// centroid lies in the margin-padded view, in input order.
func (c Culler) Select(metrics []FeatureMetric, t Transform, vp Viewport) ([]Visible, error) {
	return c.AppendVisible(nil, metrics, t, vp)
}

// AppendVisible is Select appending to dst, for callers that recycle a buffer
// across frames.
func (c Culler) AppendVisible(dst []Visible, metrics []FeatureMetric, t Transform, vp Viewport) ([]Visible, error) {
	if !t.Valid() {
		return dst, fmt.Errorf("%w: %+v", ErrInvalidTransform, t)
	}
	if !vp.valid() {
		return dst, fmt.Errorf("%w: %+v", ErrInvalidViewport, vp)
	}
	if c.initialScale <= 0 {
		return dst, fmt.Errorf("%w: zero culler", ErrInvalidConfig)
	}
	threshold := c.Threshold(t)
	bounds := ViewBounds(t, vp, c.margin)
	for _, m := range metrics {
		if m.Area < threshold || !bounds.Contains(m.X, m.Y) {
			continue
		}
		sx, sy := t.Apply(m.X, m.Y)
		dst = append(dst, Visible{FeatureMetric: m, ScreenX: sx, ScreenY: sy})
	}
	return dst, nil
}
