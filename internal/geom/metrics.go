package geom

import (
	"math"
	"sort"
)

// Round2 rounds half-up to two decimals. Table values go through it so that
// persisted tables compare equal across platforms.
func Round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

// BuildMetrics derives centroid and area for each record with a box and
// returns them largest-first. Equal areas keep their input order. Records
// without a box are dropped with a warning.
func BuildMetrics(records []BoxRecord) []FeatureMetric {
	out := make([]FeatureMetric, 0, len(records))
	for _, r := range records {
		if r.Box == nil {
			Logger().Warn("feature_without_bbox", "id", r.ID)
			continue
		}
		out = append(out, metricFor(r.ID, *r.Box))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Area > out[j].Area })
	return out
}

func metricFor(id string, b BBox) FeatureMetric {
	w, h := b.Width(), b.Height()
	return FeatureMetric{
		ID:     id,
		X:      Round2(b.MinX + w/2),
		Y:      Round2(b.MinY + h/2),
		Area:   Round2(w * h),
		Width:  Round2(w),
		Height: Round2(h),
	}
}

// ExtractBoxes runs ExtractBoundingBox over every record.
func ExtractBoxes(paths []PathRecord) []BoxRecord {
	out := make([]BoxRecord, len(paths))
	for i, p := range paths {
		out[i].ID = p.ID
		if b, ok := ExtractBoundingBox(p.Commands); ok {
			out[i].Box = &b
		}
	}
	return out
}

// MetricsFromPaths extracts boxes and builds the metrics table in one step.
func MetricsFromPaths(paths []PathRecord) []FeatureMetric {
	return BuildMetrics(ExtractBoxes(paths))
}

// HitTest returns the smallest box containing (x, y).
func HitTest(boxes []BoxRecord, x, y float64) (string, bool) {
	best := ""
	bestArea := math.Inf(1)
	for _, r := range boxes {
		if r.Box == nil || !r.Box.Contains(x, y) {
			continue
		}
		if a := r.Box.Width() * r.Box.Height(); a < bestArea {
			best, bestArea = r.ID, a
		}
	}
	return best, bestArea < math.Inf(1)
}
