package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	list "github.com/charmbracelet/bubbles/list"

	"worldmap/internal/dataset"
	"worldmap/internal/geom"
)

type fileItem struct {
	title, desc string
	path        string
}

func (f fileItem) Title() string       { return f.title }
func (f fileItem) Description() string { return f.desc }
func (f fileItem) FilterValue() string { return f.title }

func (m *Model) refreshDir() {
	entries, err := os.ReadDir(m.cwd)
	if err != nil {
		m.status = "read dir error: " + err.Error()
		return
	}
	var items []list.Item
	for _, e := range entries {
		if e.IsDir() || !dataset.Supported(e.Name()) {
			continue
		}
		p := filepath.Join(m.cwd, e.Name())
		items = append(items, fileItem{title: e.Name(), desc: dataset.KindOf(p).String(), path: p})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].(fileItem).Title() < items[j].(fileItem).Title() })
	m.l.SetItems(items)
	if len(items) == 0 {
		m.status = "no supported files in current directory"
	}
}

// loadPath loads any supported dataset and fits it to the canvas.
func (m *Model) loadPath(p string) {
	ds, err := dataset.Load(p, dataset.ProjectOptions{})
	if err != nil {
		m.status = "load error: " + err.Error()
		m.log.Error("load_failed", "path", p, "err", err)
		return
	}
	metrics, source := m.metricsFor(ds.Records)
	if !m.setData(ds, metrics) {
		m.status = "no drawable outlines in " + filepath.Base(p)
		return
	}
	m.selPath = p
	m.status = fmt.Sprintf("loaded: %s  %s  features=%d (%s)", filepath.Base(p), ds.Kind, len(m.metrics), source)
	m.log.Info("dataset_loaded", "path", p, "kind", ds.Kind.String(), "records", len(ds.Records), "metrics", len(metrics), "source", source)
	if m.showAttrs {
		m.refreshAttrs()
	}
}

// metricsFor builds the metrics table, going through the cache when one is
// configured. Cache failures fall back to computing in memory.
func (m *Model) metricsFor(records []geom.PathRecord) ([]geom.FeatureMetric, string) {
	if m.cache == nil {
		return geom.MetricsFromPaths(records), "computed"
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	table, hit, err := m.cache.Metrics(ctx, records)
	if err != nil {
		m.log.Warn("metrics_cache_failed", "err", err)
		return geom.MetricsFromPaths(records), "computed"
	}
	if hit {
		return table, "cached"
	}
	return table, "computed"
}

// setData swaps in a new dataset. It reports false, leaving the model
// untouched, when nothing in ds can be drawn.
func (m *Model) setData(ds dataset.Dataset, metrics []geom.FeatureMetric) bool {
	outlines := geom.Outlines(ds.Records)
	boxes := make([]geom.BBox, len(outlines))
	for i, o := range outlines {
		boxes[i] = o.Box
	}
	extent, ok := geom.Extent(boxes)
	if !ok {
		return false
	}
	m.ds = ds
	m.outlines = outlines
	m.boxes = geom.BoxRecords(outlines)
	m.metrics = metrics
	m.extent = extent
	m.loaded = true
	m.selected = ""
	m.inspectPopup = ""
	m.resetView()
	return true
}
