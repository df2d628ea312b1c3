// Command mapdata builds and inspects world-map metrics tables.
//
// Usage:
//
//	mapdata centroids -in world.svg [-out table.json] [-cache metrics.db] [-top 10]
//	mapdata svg -in countries.geojson -out world.svg [-width 1000 -height 482]
//	mapdata visible -table table.json -scale 2 [-tx 0 -ty 0 -vw 1000 -vh 482]
//	mapdata snapshot -in world.svg -out map.png [-zoom 1 -cx x -cy y]
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/joho/godotenv"

	"worldmap/internal/config"
	"worldmap/internal/dataset"
	"worldmap/internal/geom"
	"worldmap/internal/logger"
	"worldmap/internal/render"
	"worldmap/internal/store"
)

var errUsage = errors.New("usage: mapdata <centroids|svg|visible|snapshot> [flags]")

func main() {
	// .env is optional
	_ = godotenv.Load()
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "mapdata:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	log := logger.Setup(stderr)
	geom.SetLogger(log)

	switch args[0] {
	case "centroids":
		return runCentroids(ctx, args[1:], stdout, stderr, log)
	case "svg":
		return runSVG(args[1:], stdout, stderr, log)
	case "visible":
		return runVisible(args[1:], stdout, stderr, log)
	case "snapshot":
		return runSnapshot(ctx, args[1:], stderr, log)
	}
	return fmt.Errorf("unknown command %q: %w", args[0], errUsage)
}

func newFlagSet(name string, stderr io.Writer) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfgPath := fs.String("config", "", "config file (default: worldmap.yaml in . or ./configs)")
	return fs, cfgPath
}

// tableFor builds the metrics table for records, through the cache when
// cachePath is set. Records without coordinates are dropped with a warning
// from geom.
func tableFor(ctx context.Context, records []geom.PathRecord, cachePath string, log *slog.Logger) ([]geom.FeatureMetric, error) {
	if cachePath == "" {
		return geom.MetricsFromPaths(records), nil
	}
	st, err := store.Open(ctx, cachePath)
	if err != nil {
		return nil, err
	}
	defer st.Close()
	table, hit, err := st.Metrics(ctx, records)
	if err != nil {
		return nil, err
	}
	log.Info("metrics_cache", "path", cachePath, "hit", hit, "rows", len(table))
	return table, nil
}

func runCentroids(ctx context.Context, args []string, stdout, stderr io.Writer, log *slog.Logger) error {
	fs, cfgPath := newFlagSet("centroids", stderr)
	in := fs.String("in", "", "dataset to measure (.svg, .geojson, .kml, .wkt)")
	out := fs.String("out", "", "output table (.json or .csv); stdout JSON when empty")
	cache := fs.String("cache", "", "SQLite metrics cache (default: data.cache)")
	top := fs.Int("top", 10, "number of largest features to log")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return err
	}
	if *in == "" {
		*in = cfg.Data.Path
	}
	if *in == "" {
		return errors.New("centroids: -in is required")
	}
	if *cache == "" {
		*cache = cfg.Data.Cache
	}

	log.Info("reading_dataset", "path", *in)
	ds, err := dataset.Load(*in, dataset.ProjectOptions{})
	if err != nil {
		return err
	}
	table, err := tableFor(ctx, ds.Records, *cache, log)
	if err != nil {
		return err
	}
	if len(table) == 0 {
		return errors.New("centroids: no features with coordinates")
	}

	// the table is largest-first
	log.Info("centroids_built", "count", len(table))
	for i, m := range table[:min(*top, len(table))] {
		log.Info("largest", "rank", i+1, "id", m.ID, "area", m.Area)
	}
	total := 0.0
	for _, m := range table {
		total += m.Area
	}
	largest, smallest := table[0], table[len(table)-1]
	log.Info("statistics",
		"total", len(table),
		"average_area", geom.Round2(total/float64(len(table))),
		"largest", largest.ID, "largest_area", largest.Area,
		"smallest", smallest.ID, "smallest_area", smallest.Area)

	if *out == "" {
		return dataset.WriteTableJSON(stdout, table)
	}
	if err := dataset.WriteTable(*out, table); err != nil {
		return err
	}
	log.Info("table_written", "path", *out)
	return nil
}

func runSVG(args []string, stdout, stderr io.Writer, log *slog.Logger) error {
	fs, _ := newFlagSet("svg", stderr)
	in := fs.String("in", "", "GeoJSON FeatureCollection")
	out := fs.String("out", "", "output SVG; stdout when empty")
	width := fs.Float64("width", dataset.DefaultWidth, "canvas width")
	height := fs.Float64("height", dataset.DefaultHeight, "canvas height")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return errors.New("svg: -in is required")
	}
	ds, err := dataset.LoadGeoJSON(*in, dataset.ProjectOptions{Width: *width, Height: *height})
	if err != nil {
		return err
	}
	w := stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	if err := dataset.WriteSVG(w, ds.Records, ds.Names, *width, *height); err != nil {
		return err
	}
	log.Info("svg_written", "features", len(ds.Records), "out", *out)
	return nil
}

func runVisible(args []string, stdout, stderr io.Writer, log *slog.Logger) error {
	fs, cfgPath := newFlagSet("visible", stderr)
	tablePath := fs.String("table", "", "metrics table (.json or .csv)")
	scale := fs.Float64("scale", 1, "transform scale")
	tx := fs.Float64("tx", 0, "transform translate x")
	ty := fs.Float64("ty", 0, "transform translate y")
	vw := fs.Float64("vw", dataset.DefaultWidth, "viewport width")
	vh := fs.Float64("vh", dataset.DefaultHeight, "viewport height")
	initial := fs.Float64("initial", 0, "initial scale (default: map.initial_scale, or 1)")
	margin := fs.Float64("margin", -1, "culling margin (default: map.margin)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *tablePath == "" {
		return errors.New("visible: -table is required")
	}
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return err
	}
	table, err := dataset.ReadTable(*tablePath)
	if err != nil {
		return err
	}
	if *initial == 0 {
		*initial = cfg.Map.InitialScale
	}
	if *initial == 0 {
		*initial = 1
	}
	if *margin < 0 {
		*margin = cfg.Map.Margin
	}
	c, err := geom.NewCuller(*initial, cfg.TierTable(), *margin)
	if err != nil {
		return err
	}
	t := geom.Transform{Scale: *scale, TranslateX: *tx, TranslateY: *ty}
	vis, err := c.Select(table, t, geom.Viewport{Width: *vw, Height: *vh})
	if err != nil {
		return err
	}
	log.Info("visible_set", "count", len(vis), "of", len(table), "zoom", c.ZoomRatio(t), "threshold", c.Threshold(t))
	if vis == nil {
		vis = []geom.Visible{}
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(vis)
}

func runSnapshot(ctx context.Context, args []string, stderr io.Writer, log *slog.Logger) error {
	fs, cfgPath := newFlagSet("snapshot", stderr)
	in := fs.String("in", "", "dataset to render")
	out := fs.String("out", "map.png", "output PNG")
	width := fs.Int("width", 0, "image width (default: snapshot.width)")
	height := fs.Int("height", 0, "image height (default: snapshot.height)")
	zoom := fs.Float64("zoom", 1, "zoom ratio over the fitted view")
	cx := fs.Float64("cx", math.NaN(), "feature-space x to center on")
	cy := fs.Float64("cy", math.NaN(), "feature-space y to center on")
	labels := fs.Bool("labels", true, "draw labels")
	centroids := fs.Bool("centroids", false, "draw centroid dots")
	highlight := fs.String("highlight", "", "feature id to highlight")
	cache := fs.String("cache", "", "SQLite metrics cache (default: data.cache)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return err
	}
	if *in == "" {
		*in = cfg.Data.Path
	}
	if *in == "" {
		return errors.New("snapshot: -in is required")
	}
	if *width <= 0 {
		*width = cfg.Snapshot.Width
	}
	if *height <= 0 {
		*height = cfg.Snapshot.Height
	}
	if !(*zoom > 0) {
		return fmt.Errorf("snapshot: zoom must be positive, got %g", *zoom)
	}
	if *cache == "" {
		*cache = cfg.Data.Cache
	}

	ds, err := dataset.Load(*in, dataset.ProjectOptions{})
	if err != nil {
		return err
	}
	outlines := geom.Outlines(ds.Records)
	boxes := make([]geom.BBox, len(outlines))
	for i, o := range outlines {
		boxes[i] = o.Box
	}
	extent, ok := geom.Extent(boxes)
	if !ok {
		return errors.New("snapshot: no drawable outlines")
	}
	table, err := tableFor(ctx, ds.Records, *cache, log)
	if err != nil {
		return err
	}

	vp := geom.Viewport{Width: float64(*width), Height: float64(*height)}
	fit := geom.FitTransform(extent, vp)
	c, err := cfg.Culler(fit.Scale)
	if err != nil {
		return err
	}
	fx, fy := *cx, *cy
	if math.IsNaN(fx) {
		fx = (extent.MinX + extent.MaxX) / 2
	}
	if math.IsNaN(fy) {
		fy = (extent.MinY + extent.MaxY) / 2
	}
	s := fit.Scale * *zoom
	t := geom.Transform{Scale: s, TranslateX: vp.Width/2 - fx*s, TranslateY: vp.Height/2 - fy*s}

	vis, err := c.Select(table, t, vp)
	if err != nil {
		return err
	}
	err = render.SavePNG(*out, outlines, vis, t, render.Options{
		Width:     *width,
		Height:    *height,
		Outlines:  true,
		Labels:    *labels,
		Centroids: *centroids,
		Names:     ds.Names,
		Highlight: *highlight,
	})
	if err != nil {
		return err
	}
	log.Info("snapshot_saved", "path", *out, "visible", len(vis), "zoom", c.ZoomRatio(t), "threshold", c.Threshold(t))
	return nil
}
