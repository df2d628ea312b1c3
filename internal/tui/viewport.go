package tui

import (
	"fmt"
	"math"
	"path/filepath"
	"time"

	"worldmap/internal/geom"
	"worldmap/internal/render"
)

const (
	sidebarWidth = 28
	headerHeight = 1
	footerHeight = 2
)

// mapLayout returns the map canvas origin and size in terminal cells. It
// must agree with View.
func (m Model) mapLayout() (ox, oy, w, h int) {
	contentWidth := max(10, m.width)
	h = max(4, m.height-headerHeight-footerHeight)
	w = contentWidth
	if m.showSidebar {
		w -= sidebarWidth + 1
		ox = sidebarWidth + 1
	}
	return ox, headerHeight, max(10, w), h
}

// viewport is the canvas measured in braille micro-pixels (2x4 per cell).
func (m Model) viewport() geom.Viewport {
	_, _, w, h := m.mapLayout()
	return geom.Viewport{Width: float64(w * 2), Height: float64(h * 4)}
}

// cellCenter maps a terminal cell to the micro-pixel at its center.
func cellCenter(cx, cy int) (float64, float64) {
	return float64(cx*2) + 1, float64(cy*4) + 2
}

// resetView fits the dataset to the canvas and rebuilds the culler so that
// the fitted scale is zoom 1.
func (m *Model) resetView() {
	if !m.loaded {
		return
	}
	m.tr = geom.FitTransform(m.extent, m.viewport())
	c, err := m.cfg.Culler(m.tr.Scale)
	if err != nil {
		m.status = "culler: " + err.Error()
		m.log.Error("culler_failed", "err", err)
		return
	}
	m.culler = c
	m.recompute(true)
}

// recompute refreshes the visible set. Without force the gate may keep the
// previous set while a gesture is in progress.
func (m *Model) recompute(force bool) {
	if !m.loaded {
		return
	}
	if force {
		m.gate.Reset()
	}
	if !m.gate.Allow(m.tr) {
		return
	}
	vis, err := m.culler.AppendVisible(m.visible[:0], m.metrics, m.tr, m.viewport())
	if err != nil {
		m.status = "visible: " + err.Error()
		m.log.Warn("select_failed", "err", err, "scale", m.tr.Scale)
		return
	}
	m.visible = vis
	m.log.Debug("visible_set",
		"count", len(vis),
		"zoom", m.culler.ZoomRatio(m.tr),
		"threshold", m.culler.Threshold(m.tr))
}

func (m Model) zoomRatio() float64 {
	if !m.loaded {
		return 1
	}
	return m.culler.ZoomRatio(m.tr)
}

// zoomAt scales about micro-pixel (sx, sy), clamped to the configured zoom range.
func (m *Model) zoomAt(factor, sx, sy float64) {
	if !m.loaded {
		return
	}
	base := m.culler.InitialScale()
	target := m.tr.Scale * factor
	target = math.Max(base*m.cfg.Map.MinZoom, math.Min(base*m.cfg.Map.MaxZoom, target))
	if target == m.tr.Scale {
		m.status = fmt.Sprintf("zoom limit: %.2fx", m.zoomRatio())
		return
	}
	m.tr = m.tr.ZoomAbout(target/m.tr.Scale, sx, sy)
	m.recompute(false)
	m.status = fmt.Sprintf("zoom: %.2fx", m.zoomRatio())
}

func (m *Model) zoomCenter(factor float64) {
	vp := m.viewport()
	m.zoomAt(factor, vp.Width/2, vp.Height/2)
}

// pan shifts the map by a micro-pixel delta.
func (m *Model) pan(dx, dy float64) {
	if !m.loaded {
		return
	}
	m.tr = m.tr.Pan(dx, dy)
	m.recompute(false)
}

// selectAt picks the smallest outline box under a map cell.
func (m *Model) selectAt(cx, cy int) {
	if !m.loaded {
		return
	}
	fx, fy := m.tr.Invert(cellCenter(cx, cy))
	id, ok := geom.HitTest(m.boxes, fx, fy)
	if !ok {
		m.selected = ""
		m.status = fmt.Sprintf("nothing at x=%.1f y=%.1f", fx, fy)
		return
	}
	m.selected = id
	m.status = "selected: " + m.describe(id)
	m.focus(id)
}

// focus fits the view to a feature's outline box, within the zoom range.
func (m *Model) focus(id string) {
	if !m.loaded {
		return
	}
	for _, b := range m.boxes {
		if b.ID != id || b.Box == nil {
			continue
		}
		vp := m.viewport()
		base := m.culler.InitialScale()
		s := geom.FitTransform(*b.Box, vp).Scale
		s = math.Max(base*m.cfg.Map.MinZoom, math.Min(base*m.cfg.Map.MaxZoom, s))
		cx, cy := (b.Box.MinX+b.Box.MaxX)/2, (b.Box.MinY+b.Box.MaxY)/2
		m.tr = geom.Transform{Scale: s, TranslateX: vp.Width/2 - cx*s, TranslateY: vp.Height/2 - cy*s}
		m.recompute(true)
		return
	}
}

func (m Model) describe(id string) string {
	if n := m.ds.Name(id); n != id {
		return fmt.Sprintf("%s (%s)", n, id)
	}
	return id
}

// nearestVisible returns the visible feature closest to the canvas center.
func (m Model) nearestVisible() (geom.Visible, bool) {
	vp := m.viewport()
	cx, cy := vp.Width/2, vp.Height/2
	best := -1
	bestD := math.Inf(1)
	for i, v := range m.visible {
		sx, sy := m.tr.Apply(v.X, v.Y)
		if d := (sx-cx)*(sx-cx) + (sy-cy)*(sy-cy); d < bestD {
			best, bestD = i, d
		}
	}
	if best < 0 {
		return geom.Visible{}, false
	}
	return m.visible[best], true
}

// snapshot renders the current view to a PNG in the working directory. The
// transform is scaled from micro-pixels to the snapshot size, and the culler
// with it, so the PNG shows the same zoom tier as the terminal.
func (m *Model) snapshot() (string, error) {
	if !m.loaded {
		return "", fmt.Errorf("snapshot: no dataset loaded")
	}
	sw, sh := m.cfg.Snapshot.Width, m.cfg.Snapshot.Height
	vp := m.viewport()
	k := math.Min(float64(sw)/vp.Width, float64(sh)/vp.Height)
	tr := geom.Transform{Scale: m.tr.Scale * k, TranslateX: m.tr.TranslateX * k, TranslateY: m.tr.TranslateY * k}
	c, err := m.culler.WithInitialScale(m.culler.InitialScale() * k)
	if err != nil {
		return "", err
	}
	vis, err := c.Select(m.metrics, tr, geom.Viewport{Width: float64(sw), Height: float64(sh)})
	if err != nil {
		return "", err
	}
	name := filepath.Join(m.cwd, "worldmap-"+time.Now().Format("20060102-150405")+".png")
	err = render.SavePNG(name, m.outlines, vis, tr, render.Options{
		Width:     sw,
		Height:    sh,
		Outlines:  m.showOutlines,
		Labels:    m.showLabels,
		Centroids: m.showCentroids,
		Names:     m.ds.Names,
		Highlight: m.selected,
	})
	if err != nil {
		return "", err
	}
	m.log.Info("snapshot_saved", "path", name, "visible", len(vis), "width", sw, "height", sh)
	return name, nil
}
