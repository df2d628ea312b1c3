package tui

import (
	"fmt"
	"os"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"worldmap/internal/dataset"
	"worldmap/internal/geom"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.sizeList()
		m.resetView()
	case tea.KeyMsg:
		// If list is visible and filtering, send keys to list and ignore global commands
		if m.showSidebar && m.l.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		if m.pasteMode {
			return m.updatePaste(msg)
		}
		if m.showAttrs {
			switch msg.String() {
			case "esc", "a":
				m.showAttrs = false
				return m, nil
			case "enter":
				if id, ok := m.selectedRowID(); ok {
					m.selected = id
					m.status = "selected: " + m.describe(id)
					m.focus(id)
				}
				m.showAttrs = false
				return m, nil
			case "ctrl+c", "q":
				return m, tea.Quit
			}
			var cmd tea.Cmd
			m.tbl, cmd = m.tbl.Update(msg)
			return m, cmd
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			m.inspectPopup = ""
			m.selected = ""
		case "1":
			m.showOutlines = !m.showOutlines
			m.status = fmt.Sprintf("outlines: %v", m.showOutlines)
		case "2":
			m.showLabels = !m.showLabels
			m.status = fmt.Sprintf("labels: %v", m.showLabels)
		case "3":
			m.showCentroids = !m.showCentroids
			m.status = fmt.Sprintf("centroids: %v", m.showCentroids)
		case "+", "=":
			m.zoomCenter(m.cfg.Map.ZoomStep)
		case "-", "_":
			m.zoomCenter(1 / m.cfg.Map.ZoomStep)
		case "r":
			m.resetView()
			m.status = "view reset"
		case "tab":
			m.showSidebar = !m.showSidebar
			if m.showSidebar {
				m.refreshDir()
			}
			m.sizeList()
			m.resetView()
		case "p":
			m.pasteMode = true
			m.ta.SetValue("")
			m.status = "paste mode"
			return m, m.ta.Focus()
		case "h":
			m.helpVisible = !m.helpVisible
		case "a":
			m.showAttrs = true
			m.refreshAttrs()
		case "i":
			if v, ok := m.nearestVisible(); ok {
				m.selected = v.ID
				m.inspectPopup = m.featurePopup(v)
				m.status = "inspect: " + m.describe(v.ID)
			} else {
				m.inspectPopup = "no visible feature"
				m.status = m.inspectPopup
			}
		case "s":
			name, err := m.snapshot()
			if err != nil {
				m.status = "snapshot error: " + err.Error()
			} else {
				m.status = "saved " + name
			}
		case "enter":
			if m.showSidebar {
				if it, ok := m.l.SelectedItem().(fileItem); ok {
					m.loadPath(it.path)
				}
			}
		case "up":
			m.pan(0, -m.cfg.Map.PanStep)
		case "down":
			m.pan(0, m.cfg.Map.PanStep)
		case "left":
			m.pan(-m.cfg.Map.PanStep, 0)
		case "right":
			m.pan(m.cfg.Map.PanStep, 0)
		}
	case tea.MouseMsg:
		m.updateMouse(msg)
		return m, nil
	}
	// Pass messages to list when visible
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) sizeList() {
	_, _, _, h := m.mapLayout()
	m.l.SetSize(sidebarWidth-2, h-2)
}

func (m Model) updatePaste(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.pasteMode = false
		m.ta.Blur()
		m.status = "view mode"
		return m, nil
	case "enter":
		in := strings.TrimSpace(m.ta.Value())
		m.pasteMode = false
		m.ta.Blur()
		m.measurePasted(in)
		return m, nil
	}
	var cmd tea.Cmd
	m.ta, cmd = m.ta.Update(msg)
	return m, cmd
}

// measurePasted accepts a dataset path, WKT, or raw path commands. Paths are
// loaded; geometry is measured into the popup.
func (m *Model) measurePasted(in string) {
	if in == "" {
		m.status = "paste: empty"
		return
	}
	if dataset.Supported(in) {
		if _, err := os.Stat(in); err == nil {
			m.loadPath(in)
			return
		}
	}
	cmds := in
	if isWKT(in) {
		d, err := dataset.WKTToPath(in)
		if err != nil {
			m.status = "wkt error: " + err.Error()
			return
		}
		cmds = d
	}
	b, ok := geom.ExtractBoundingBox(cmds)
	if !ok {
		m.status = "paste: no coordinates found"
		return
	}
	fm := geom.BuildMetrics([]geom.BoxRecord{{ID: "pasted", Box: &b}})[0]
	m.inspectPopup = strings.Join([]string{
		"pasted geometry",
		fmt.Sprintf("box: [%.2f, %.2f, %.2f, %.2f]", b.MinX, b.MinY, b.MaxX, b.MaxY),
		fmt.Sprintf("centroid: x=%.2f y=%.2f", fm.X, fm.Y),
		fmt.Sprintf("size: %.2f x %.2f", fm.Width, fm.Height),
		fmt.Sprintf("area: %.2f", fm.Area),
	}, "\n")
	m.status = "measured pasted geometry"
}

func isWKT(s string) bool {
	u := strings.ToUpper(s)
	for _, kw := range []string{"POINT", "LINESTRING", "POLYGON", "MULTI"} {
		if strings.HasPrefix(u, kw) {
			return true
		}
	}
	return false
}

func (m Model) featurePopup(v geom.Visible) string {
	sx, sy := m.tr.Apply(v.X, v.Y)
	return strings.Join([]string{
		fmt.Sprintf("name: %s", m.ds.Name(v.ID)),
		fmt.Sprintf("id: %s", v.ID),
		fmt.Sprintf("centroid: x=%.2f y=%.2f", v.X, v.Y),
		fmt.Sprintf("size: %.2f x %.2f", v.Width, v.Height),
		fmt.Sprintf("area: %.2f", v.Area),
		fmt.Sprintf("screen: %.0f, %.0f", sx, sy),
		fmt.Sprintf("zoom: %.2fx  min area: %g", m.zoomRatio(), m.culler.Threshold(m.tr)),
	}, "\n")
}

// updateMouse handles wheel zoom, drag panning, click selection and hover.
func (m *Model) updateMouse(msg tea.MouseMsg) {
	ox, oy, w, h := m.mapLayout()
	cx, cy := msg.X-ox, msg.Y-oy
	inside := cx >= 0 && cx < w && cy >= 0 && cy < h
	m.hovering = inside
	if inside {
		m.hoverCellX, m.hoverCellY = cx, cy
		if m.loaded {
			m.hoverX, m.hoverY = m.tr.Invert(cellCenter(cx, cy))
		}
	}

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if inside {
				sx, sy := cellCenter(cx, cy)
				m.zoomAt(m.cfg.Map.ZoomStep, sx, sy)
			}
		case tea.MouseButtonWheelDown:
			if inside {
				sx, sy := cellCenter(cx, cy)
				m.zoomAt(1/m.cfg.Map.ZoomStep, sx, sy)
			}
		case tea.MouseButtonLeft:
			if inside {
				m.dragging, m.dragMoved = true, false
				m.dragX, m.dragY = msg.X, msg.Y
			}
		}
	case tea.MouseActionMotion:
		if m.dragging && (msg.X != m.dragX || msg.Y != m.dragY) {
			m.pan(float64((msg.X-m.dragX)*2), float64((msg.Y-m.dragY)*4))
			m.dragX, m.dragY = msg.X, msg.Y
			m.dragMoved = true
		}
	case tea.MouseActionRelease:
		if !m.dragging {
			return
		}
		m.dragging = false
		if m.dragMoved {
			// the gate may have held back the last frames of the drag
			m.recompute(true)
		} else if inside {
			m.selectAt(cx, cy)
		}
	}
}
