package geom

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidConfig = errors.New("geom: invalid config")

// Tier applies MinArea while the zoom ratio is below MaxZoom.
type Tier struct {
	MaxZoom float64
	MinArea float64
}

// TierTable is ordered by MaxZoom ascending. Validate enforces that thresholds
// never rise as zoom grows, so zooming in only ever reveals features.
type TierTable []Tier

// DefaultTiers is the area threshold table used when none is configured.
// Areas are in squared feature units (1000x482 world SVG).
var DefaultTiers = TierTable{
	{MaxZoom: 1.2, MinArea: 2000},
	{MaxZoom: 2.0, MinArea: 700},
	{MaxZoom: 3.5, MinArea: 150},
	{MaxZoom: 6.0, MinArea: 100},
	{MaxZoom: math.Inf(1), MinArea: 1},
}

func (tt TierTable) Validate() error {
	if len(tt) == 0 {
		return fmt.Errorf("%w: empty tier table", ErrInvalidConfig)
	}
	for i, t := range tt {
		if math.IsNaN(t.MaxZoom) || t.MaxZoom <= 0 {
			return fmt.Errorf("%w: tier %d: max zoom must be positive", ErrInvalidConfig, i)
		}
		if !finite(t.MinArea) || t.MinArea < 0 {
			return fmt.Errorf("%w: tier %d: min area must be finite and >= 0", ErrInvalidConfig, i)
		}
		if i == 0 {
			continue
		}
		prev := tt[i-1]
		if t.MaxZoom <= prev.MaxZoom {
			return fmt.Errorf("%w: tier %d: max zoom %g not above %g", ErrInvalidConfig, i, t.MaxZoom, prev.MaxZoom)
		}
		if t.MinArea > prev.MinArea {
			return fmt.Errorf("%w: tier %d: min area %g above previous %g", ErrInvalidConfig, i, t.MinArea, prev.MinArea)
		}
	}
	return nil
}

// MinArea returns the threshold for zoomRatio: the first tier whose MaxZoom
// exceeds it, or the last tier past every ceiling.
func (tt TierTable) MinArea(zoomRatio float64) float64 {
	for _, t := range tt {
		if zoomRatio < t.MaxZoom {
			return t.MinArea
		}
	}
	return tt[len(tt)-1].MinArea
}

// Index returns the position of the tier MinArea would use.
func (tt TierTable) Index(zoomRatio float64) int {
	for i, t := range tt {
		if zoomRatio < t.MaxZoom {
			return i
		}
	}
	return len(tt) - 1
}
