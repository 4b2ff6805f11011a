// Package config loads a run's knobs from a YAML file in a
// viper-then-strict-yaml two-pass style: viper reads the file, then its
// contents are re-marshaled and strictly unmarshaled into a concrete struct
// so callers get a typed value instead of a map.
package config

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// RunConfig holds everything a host needs to build a solver.Config and
// optionally stand up a monitor, without wiring either by hand.
type RunConfig struct {
	Nthread int    `yaml:"nthread"`
	Seed    uint64 `yaml:"seed"`

	Tspan []float64 `yaml:"tspan"`

	Output struct {
		Mode string `yaml:"mode"` // "dense" or "sparse"
	} `yaml:"output"`

	Monitor struct {
		Enabled bool   `yaml:"enabled"`
		Addr    string `yaml:"addr"`
	} `yaml:"monitor"`
}

// Default returns the baseline configuration used when no file is given:
// single-threaded, a fixed seed, dense output, monitor off.
func Default() *RunConfig {
	return &RunConfig{
		Nthread: 1,
		Seed:    1,
		Tspan:   []float64{0, 1},
	}
}

// FromYaml reads path with viper and strictly decodes it into a RunConfig.
// Mirrors the project's established "viper locates, yaml decodes" split
// rather than relying on viper's own loose Unmarshal.
func FromYaml(path string) (*RunConfig, error) {
	vp := viper.New()
	vp.SetConfigFile(path)
	vp.SetConfigType("yaml")
	vp.AddConfigPath(filepath.Dir(path))
	if err := vp.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	raw := map[string]interface{}{}
	if err := vp.Unmarshal(&raw); err != nil {
		return nil, fmt.Errorf("config: unmarshal via viper: %w", err)
	}

	spec, err := yaml.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("config: re-marshal: %w", err)
	}

	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(spec))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: strict decode: %w", err)
	}
	return cfg, nil
}
