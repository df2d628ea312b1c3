package config

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/spf13/viper"

	"worldmap/internal/geom"
)

// Config holds viewer and data tool configuration.
type Config struct {
	Map      MapConfig      `mapstructure:"map"`
	Gate     GateConfig     `mapstructure:"gate"`
	Data     DataConfig     `mapstructure:"data"`
	Log      LogConfig      `mapstructure:"log"`
	Snapshot SnapshotConfig `mapstructure:"snapshot"`
}

type MapConfig struct {
	// InitialScale of 0 means the scale that fits the dataset to the viewport.
	InitialScale float64      `mapstructure:"initial_scale"`
	Margin       float64      `mapstructure:"margin"`
	MinZoom      float64      `mapstructure:"min_zoom"`
	MaxZoom      float64      `mapstructure:"max_zoom"`
	ZoomStep     float64      `mapstructure:"zoom_step"`
	PanStep      float64      `mapstructure:"pan_step"`
	Tiers        []TierConfig `mapstructure:"tiers"`
}

// TierConfig is one LOD tier. MaxZoom 0 stands for no ceiling and is only
// allowed on the last entry.
type TierConfig struct {
	MaxZoom float64 `mapstructure:"max_zoom"`
	MinArea float64 `mapstructure:"min_area"`
}

type GateConfig struct {
	ScaleStep     float64 `mapstructure:"scale_step"`
	TranslateStep float64 `mapstructure:"translate_step"`
}

type DataConfig struct {
	Path  string `mapstructure:"path"`
	Cache string `mapstructure:"cache"`
}

type LogConfig struct {
	File string `mapstructure:"file"`
}

type SnapshotConfig struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

func defaultTiers() []map[string]any {
	out := make([]map[string]any, 0, len(geom.DefaultTiers))
	for _, t := range geom.DefaultTiers {
		mz := t.MaxZoom
		if math.IsInf(mz, 1) {
			mz = 0
		}
		out = append(out, map[string]any{"max_zoom": mz, "min_area": t.MinArea})
	}
	return out
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("map.initial_scale", 0)
	v.SetDefault("map.margin", 0)
	v.SetDefault("map.min_zoom", 1)
	v.SetDefault("map.max_zoom", 64)
	v.SetDefault("map.zoom_step", 1.2)
	v.SetDefault("map.pan_step", 8)
	v.SetDefault("map.tiers", defaultTiers())
	v.SetDefault("gate.scale_step", 0)
	v.SetDefault("gate.translate_step", 0)
	v.SetDefault("data.path", "")
	v.SetDefault("data.cache", "")
	v.SetDefault("log.file", "")
	v.SetDefault("snapshot.width", 1600)
	v.SetDefault("snapshot.height", 800)
}

// Default returns the built-in configuration without reading files or the
// environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("config: bad defaults: %v", err))
	}
	return &cfg
}

// Load reads defaults, then the config file, then WORLDMAP_* environment
// variables. An empty file searches worldmap.yaml in . and ./configs and
// tolerates its absence; an explicit file must exist.
func Load(file string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("worldmap")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if err := v.ReadInConfig(); err != nil {
			var nf viper.ConfigFileNotFoundError
			if !errors.As(err, &nf) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	// WORLDMAP_MAP_MARGIN -> map.margin
	v.SetEnvPrefix("WORLDMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// TierTable converts the configured tiers, mapping a zero ceiling to +Inf.
func (c *Config) TierTable() geom.TierTable {
	if len(c.Map.Tiers) == 0 {
		return geom.DefaultTiers
	}
	tt := make(geom.TierTable, len(c.Map.Tiers))
	for i, t := range c.Map.Tiers {
		mz := t.MaxZoom
		if mz == 0 {
			mz = math.Inf(1)
		}
		tt[i] = geom.Tier{MaxZoom: mz, MinArea: t.MinArea}
	}
	return tt
}

// Culler builds the engine culler. fitScale is used when map.initial_scale
// is 0.
func (c *Config) Culler(fitScale float64) (geom.Culler, error) {
	s := c.Map.InitialScale
	if s == 0 {
		s = fitScale
	}
	return geom.NewCuller(s, c.TierTable(), c.Map.Margin)
}

// RecomputeGate builds the throttle for visible-set recomputation.
func (c *Config) RecomputeGate() geom.Gate {
	return geom.Gate{ScaleStep: c.Gate.ScaleStep, TranslateStep: c.Gate.TranslateStep}
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []string

	if !finite(c.Map.InitialScale) || c.Map.InitialScale < 0 {
		errs = append(errs, fmt.Sprintf("map.initial_scale must be >= 0, got %g", c.Map.InitialScale))
	}
	if !finite(c.Map.Margin) || c.Map.Margin < 0 {
		errs = append(errs, fmt.Sprintf("map.margin must be >= 0, got %g", c.Map.Margin))
	}
	if !(c.Map.MinZoom > 0) {
		errs = append(errs, fmt.Sprintf("map.min_zoom must be positive, got %g", c.Map.MinZoom))
	}
	if !finite(c.Map.MaxZoom) || !(c.Map.MaxZoom >= c.Map.MinZoom) {
		errs = append(errs, fmt.Sprintf("map.max_zoom must be >= map.min_zoom, got %g", c.Map.MaxZoom))
	}
	if !finite(c.Map.ZoomStep) || !(c.Map.ZoomStep > 1) {
		errs = append(errs, fmt.Sprintf("map.zoom_step must be above 1, got %g", c.Map.ZoomStep))
	}
	if !finite(c.Map.PanStep) || !(c.Map.PanStep > 0) {
		errs = append(errs, fmt.Sprintf("map.pan_step must be positive, got %g", c.Map.PanStep))
	}
	for i, t := range c.Map.Tiers {
		if t.MaxZoom == 0 && i != len(c.Map.Tiers)-1 {
			errs = append(errs, fmt.Sprintf("map.tiers[%d]: max_zoom 0 is only allowed on the last tier", i))
		}
	}
	if err := c.TierTable().Validate(); err != nil {
		errs = append(errs, "map.tiers: "+err.Error())
	}
	if !finite(c.Gate.ScaleStep) || c.Gate.ScaleStep < 0 {
		errs = append(errs, fmt.Sprintf("gate.scale_step must be >= 0, got %g", c.Gate.ScaleStep))
	}
	if !finite(c.Gate.TranslateStep) || c.Gate.TranslateStep < 0 {
		errs = append(errs, fmt.Sprintf("gate.translate_step must be >= 0, got %g", c.Gate.TranslateStep))
	}
	if c.Snapshot.Width <= 0 || c.Snapshot.Height <= 0 {
		errs = append(errs, fmt.Sprintf("snapshot size must be positive, got %dx%d", c.Snapshot.Width, c.Snapshot.Height))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
