package geom

import "math"

type BBox struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

func (b BBox) Width() float64  { return b.MaxX - b.MinX }
func (b BBox) Height() float64 { return b.MaxY - b.MinY }

// Extend grows b to include (x, y).
func (b BBox) Extend(x, y float64) BBox {
	if x < b.MinX {
		b.MinX = x
	}
	if y < b.MinY {
		b.MinY = y
	}
	if x > b.MaxX {
		b.MaxX = x
	}
	if y > b.MaxY {
		b.MaxY = y
	}
	return b
}

// Expand pads every side by d.
func (b BBox) Expand(d float64) BBox {
	return BBox{MinX: b.MinX - d, MinY: b.MinY - d, MaxX: b.MaxX + d, MaxY: b.MaxY + d}
}

// Contains reports whether (x, y) lies inside b, edges included.
func (b BBox) Contains(x, y float64) bool {
	return x >= b.MinX && x <= b.MaxX && y >= b.MinY && y <= b.MaxY
}

func (b BBox) Intersects(o BBox) bool {
	return !(o.MaxX < b.MinX || o.MinX > b.MaxX || o.MaxY < b.MinY || o.MinY > b.MaxY)
}

// Extent returns the union of boxes, or false when there are none.
func Extent(boxes []BBox) (BBox, bool) {
	if len(boxes) == 0 {
		return BBox{}, false
	}
	out := boxes[0]
	for _, b := range boxes[1:] {
		out = out.Extend(b.MinX, b.MinY).Extend(b.MaxX, b.MaxY)
	}
	return out, true
}

// PathRecord is one named outline as raw path commands.
type PathRecord struct {
	ID       string
	Commands string
}

// BoxRecord pairs a feature id with its extracted box; Box is nil when extraction failed.
type BoxRecord struct {
	ID  string
	Box *BBox
}

// FeatureMetric is one row of the metrics table.
type FeatureMetric struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Area   float64 `json:"area"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Visible is a metric that passed culling, with its screen position.
type Visible struct {
	FeatureMetric
	ScreenX float64 `json:"screenX"`
	ScreenY float64 `json:"screenY"`
}

// Viewport is the screen size in the same units as Transform translation.
type Viewport struct {
	Width  float64
	Height float64
}

func (v Viewport) valid() bool {
	return finite(v.Width) && finite(v.Height) && v.Width > 0 && v.Height > 0
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
