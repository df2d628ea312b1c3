package tui

import (
	"sort"
	"strconv"

	table "github.com/charmbracelet/bubbles/table"

	"worldmap/internal/geom"
)

func num(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

// refreshAttrs fills the metrics table: visible features first by area,
// then everything else by id.
func (m *Model) refreshAttrs() {
	if len(m.metrics) == 0 {
		m.showAttrs = false
		m.status = "no metrics for current dataset"
		return
	}
	shown := make(map[string]bool, len(m.visible))
	vis := make([]geom.FeatureMetric, 0, len(m.visible))
	for _, v := range m.visible {
		shown[v.ID] = true
		vis = append(vis, v.FeatureMetric)
	}
	sort.SliceStable(vis, func(i, j int) bool { return vis[i].Area > vis[j].Area })
	rest := make([]geom.FeatureMetric, 0, len(m.metrics)-len(vis))
	for _, fm := range m.metrics {
		if !shown[fm.ID] {
			rest = append(rest, fm)
		}
	}
	sort.SliceStable(rest, func(i, j int) bool { return rest[i].ID < rest[j].ID })

	rows := make([]table.Row, 0, len(m.metrics))
	add := func(fm geom.FeatureMetric, mark string) {
		rows = append(rows, table.Row{mark, fm.ID, m.ds.Name(fm.ID), num(fm.X), num(fm.Y), num(fm.Area), num(fm.Width), num(fm.Height)})
	}
	for _, fm := range vis {
		add(fm, "●")
	}
	for _, fm := range rest {
		add(fm, "")
	}

	nameW := 6
	for _, r := range rows {
		nameW = max(nameW, min(24, len([]rune(r[2]))+1))
	}
	cols := []table.Column{
		{Title: "", Width: 1},
		{Title: "id", Width: 8},
		{Title: "name", Width: nameW},
		{Title: "x", Width: 9},
		{Title: "y", Width: 9},
		{Title: "area", Width: 11},
		{Title: "width", Width: 8},
		{Title: "height", Width: 8},
	}
	// clear rows before switching columns so no row outgrows them mid-update
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(cols)
	m.tbl.SetRows(rows)
	m.tbl.SetCursor(0)
}

// selectedRowID is the feature id under the table cursor.
func (m Model) selectedRowID() (string, bool) {
	r := m.tbl.SelectedRow()
	if len(r) < 2 {
		return "", false
	}
	return r[1], true
}
