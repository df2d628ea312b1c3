package geom

import "math"

// Gate throttles visible-set recomputation during gestures. A transform
// passes when its scale moved by at least ScaleStep (relative) or its
// translation moved by more than TranslateStep (screen units) since the last
// transform that passed. With zero steps any change passes.
//
// A Gate is owned by one caller and is not safe for concurrent use.
type Gate struct {
	ScaleStep     float64
	TranslateStep float64

	last   Transform
	primed bool
}

func (g *Gate) Allow(t Transform) bool {
	if !g.primed {
		g.last, g.primed = t, true
		return true
	}
	if t == g.last {
		return false
	}
	ds := math.Abs(t.Scale/g.last.Scale - 1)
	scaled := ds > 0 && ds >= g.ScaleStep
	moved := math.Abs(t.TranslateX-g.last.TranslateX) > g.TranslateStep ||
		math.Abs(t.TranslateY-g.last.TranslateY) > g.TranslateStep
	if !scaled && !moved {
		return false
	}
	g.last = t
	return true
}

// Reset makes the next Allow pass unconditionally.
func (g *Gate) Reset() { g.primed = false }
