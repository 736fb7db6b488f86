package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "TRACEROAD_"

type GraphConfig struct {
	RadiusBaseM       float64   `koanf:"radius_base_m"`
	RadiusExpansionsM []float64 `koanf:"radius_expansions_m"`
	NetworkTypes      []string  `koanf:"network_types"`
	BBoxPadM          float64   `koanf:"bbox_pad_m"`
}

type StitchConfig struct {
	GapBreakM     float64 `koanf:"gap_break_m"`
	MaxBridgeTryM float64 `koanf:"max_bridge_try_m"`
	MaxEndToEndM  float64 `koanf:"max_end_to_end_m"`
	EpsConnectM   float64 `koanf:"eps_connect_m"`
}

type ResampleConfig struct {
	StepM float64 `koanf:"step_m"`
}

type GroupConfig struct {
	ToleranceM float64 `koanf:"tolerance_m"`
}

type FilterConfig struct {
	MaxGroundSpeedKmh    float64 `koanf:"max_ground_speed_kmh"`
	MinNonLocalDistanceM float64 `koanf:"min_non_local_distance_m"`
}

type ProviderConfig struct {
	Kind               string `koanf:"kind"` // overpass | pbf
	OverpassURL        string `koanf:"overpass_url"`
	OverpassTimeoutSec int    `koanf:"overpass_timeout_sec"`
	MapFile            string `koanf:"map_file"`
}

type ServerConfig struct {
	ListenAddr string `koanf:"listen_addr"`
}

type CacheConfig struct {
	Dir string `koanf:"dir"` // empty disables the persistent graph store
}

type Config struct {
	Graph    GraphConfig    `koanf:"graph"`
	Stitch   StitchConfig   `koanf:"stitch"`
	Resample ResampleConfig `koanf:"resample"`
	Group    GroupConfig    `koanf:"group"`
	Filter   FilterConfig   `koanf:"filter"`
	Provider ProviderConfig `koanf:"provider"`
	Server   ServerConfig   `koanf:"server"`
	Cache    CacheConfig    `koanf:"cache"`
}

func Default() *Config {
	return &Config{
		Graph: GraphConfig{
			RadiusBaseM:       5000,
			RadiusExpansionsM: []float64{0, 3000, 6000},
			NetworkTypes:      []string{"walk", "drive"},
			BBoxPadM:          800,
		},
		Stitch: StitchConfig{
			GapBreakM:     300,
			MaxBridgeTryM: 2000,
			MaxEndToEndM:  5000,
			EpsConnectM:   50.0,
		},
		Resample: ResampleConfig{StepM: 20},
		Group:    GroupConfig{ToleranceM: 0.1},
		Filter: FilterConfig{
			MaxGroundSpeedKmh:    150,
			MinNonLocalDistanceM: 30000,
		},
		Provider: ProviderConfig{
			Kind:               "overpass",
			OverpassURL:        "https://overpass-api.de/api/interpreter",
			OverpassTimeoutSec: 90,
		},
		Server: ServerConfig{ListenAddr: ":5000"},
		Cache:  CacheConfig{Dir: "./traceroad_db"},
	}
}

// Load layers defaults, an optional yaml file and TRACEROAD_* environment
// variables (double underscore separates nesting: TRACEROAD_STITCH__GAP_BREAK_M).
func Load(path string) (*Config, error) {
	cfg := Default()

	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load env config: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}
