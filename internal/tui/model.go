package tui

import (
	"io"
	"log/slog"
	"os"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"worldmap/internal/config"
	"worldmap/internal/dataset"
	"worldmap/internal/geom"
	"worldmap/internal/store"
)

// Options wires the viewer to its configuration. Cache and Logger are optional.
type Options struct {
	Config *config.Config
	Cache  *store.Store
	Logger *slog.Logger
	// Path is loaded at startup when set.
	Path string
}

type Model struct {
	width  int
	height int

	showSidebar bool
	helpVisible bool

	status string

	cfg   *config.Config
	cache *store.Store
	log   *slog.Logger

	// File explorer
	cwd     string
	l       list.Model
	selPath string

	// Data
	ds       dataset.Dataset
	outlines []geom.Outline
	boxes    []geom.BoxRecord
	metrics  []geom.FeatureMetric
	extent   geom.BBox
	loaded   bool

	// View state. Screen space is the braille micro-grid of the map canvas.
	tr      geom.Transform
	culler  geom.Culler
	gate    geom.Gate
	visible []geom.Visible

	// paste mode
	pasteMode bool
	ta        textarea.Model

	// layer visibility
	showOutlines  bool
	showLabels    bool
	showCentroids bool

	selected     string
	inspectPopup string

	// hover state
	hovering   bool
	hoverCellX int
	hoverCellY int
	hoverX     float64
	hoverY     float64

	// mouse drag
	dragging  bool
	dragMoved bool
	dragX     int
	dragY     int

	// metrics table
	showAttrs bool
	tbl       table.Model
}

func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	lg := opts.Logger
	if lg == nil {
		lg = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	m := Model{
		helpVisible:  true,
		status:       "worldmap ready",
		cfg:          cfg,
		cache:        opts.Cache,
		log:          lg,
		gate:         cfg.RecomputeGate(),
		showOutlines: true,
		showLabels:   true,
	}
	m.cwd, _ = os.Getwd()
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Datasets"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)

	m.ta = textarea.New()
	m.ta.Placeholder = "Paste path commands (M10,20 L30,5 ...) or WKT. Enter to measure; Esc to cancel."
	m.ta.CharLimit = 0
	m.ta.SetWidth(50)
	m.ta.SetHeight(6)

	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)
	m.refreshDir()
	if opts.Path != "" {
		m.loadPath(opts.Path)
	}
	return m
}

func (m Model) Init() tea.Cmd { return nil }
