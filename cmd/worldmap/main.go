// Command worldmap is a terminal world map viewer.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"worldmap/internal/config"
	"worldmap/internal/geom"
	"worldmap/internal/logger"
	"worldmap/internal/store"
	"worldmap/internal/tui"
)

func main() {
	cfgPath := flag.String("config", "", "config file (default: worldmap.yaml in . or ./configs)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: worldmap [-config file] [dataset]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	// .env is optional
	_ = godotenv.Load()
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal(err)
	}

	// the terminal belongs to the UI, so logs go to log.file or nowhere
	w, closeLog, err := logger.OpenFile(cfg.Log.File)
	if err != nil {
		log.Fatal(err)
	}
	defer closeLog()
	lg := logger.Setup(w)
	geom.SetLogger(lg)

	var cache *store.Store
	if cfg.Data.Cache != "" {
		cache, err = store.Open(context.Background(), cfg.Data.Cache)
		if err != nil {
			log.Fatal(err)
		}
		defer cache.Close()
	}

	path := cfg.Data.Path
	if flag.NArg() > 0 {
		path = flag.Arg(0)
	}
	lg.Info("worldmap_start", "path", path, "cache", cfg.Data.Cache)

	m := tui.New(tui.Options{Config: cfg, Cache: cache, Logger: lg, Path: path})
	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run(); err != nil {
		lg.Error("program_failed", "err", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
