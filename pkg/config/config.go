// Package config loads meshsmith settings from TOML files. Values absent
// from a file keep their defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/chazu/meshsmith/pkg/export"
	"github.com/chazu/meshsmith/pkg/primitive"
)

// Kernel backend names.
const (
	KernelPoly = "poly"
	KernelSDFX = "sdfx"
)

// EngineConfig controls script evaluation.
type EngineConfig struct {
	TimeoutMS int `toml:"timeout_ms"`
}

// SDFXConfig controls the signed distance field backend.
type SDFXConfig struct {
	Cells int `toml:"cells"` // marching cubes cells along the longest axis
}

// ExportConfig controls mesh output.
type ExportConfig struct {
	Format string `toml:"format"` // used when the output path has no extension
	Merge  bool   `toml:"merge"`  // union all parts into one mesh
}

// Config is the full application configuration.
type Config struct {
	LogLevel string       `toml:"log_level"`
	Kernel   string       `toml:"kernel"`
	Engine   EngineConfig `toml:"engine"`
	SDFX     SDFXConfig   `toml:"sdfx"`
	Export   ExportConfig `toml:"export"`

	Capsule primitive.CapsuleParams `toml:"capsule"`
	Sphere  primitive.SphereParams  `toml:"sphere"`
	Box     primitive.BoxParams     `toml:"box"`
}

// Default returns the built-in configuration.
func Default() Config {
	d := primitive.DefaultParams()
	return Config{
		LogLevel: "info",
		Kernel:   KernelPoly,
		Engine:   EngineConfig{TimeoutMS: 5000},
		SDFX:     SDFXConfig{Cells: 200},
		Export:   ExportConfig{Format: "obj"},
		Capsule:  d.Capsule,
		Sphere:   d.Sphere,
		Box:      d.Box,
	}
}

// Load reads a TOML file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML bytes over the defaults.
func Parse(data []byte) (Config, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads TOML from r over the defaults and validates the result.
// Unknown keys are rejected.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Config{}, fmt.Errorf("unknown keys:\n%s", strict.String())
		}
		var de *toml.DecodeError
		if errors.As(err, &de) {
			row, col := de.Position()
			return Config{}, fmt.Errorf("line %d column %d: %w", row, col, err)
		}
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Encode writes cfg as TOML.
func (c Config) Encode(w io.Writer) error {
	enc := toml.NewEncoder(w)
	enc.SetIndentTables(true)
	return enc.Encode(c)
}

// Validate checks every section.
func (c Config) Validate() error {
	var errs []error
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	switch c.Kernel {
	case KernelPoly, KernelSDFX:
	default:
		errs = append(errs, fmt.Errorf("kernel %q: expected %s or %s", c.Kernel, KernelPoly, KernelSDFX))
	}
	if c.Engine.TimeoutMS <= 0 {
		errs = append(errs, fmt.Errorf("engine.timeout_ms must be positive, got %d", c.Engine.TimeoutMS))
	}
	if c.SDFX.Cells <= 0 {
		errs = append(errs, fmt.Errorf("sdfx.cells must be positive, got %d", c.SDFX.Cells))
	}
	if _, err := c.ExportFormat(); err != nil {
		errs = append(errs, err)
	}
	for _, err := range []error{c.Capsule.Validate(), c.Sphere.Validate(), c.Box.Validate()} {
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Defaults returns the primitive parameters scripts and commands fall back
// to.
func (c Config) Defaults() primitive.Defaults {
	return primitive.Defaults{Capsule: c.Capsule, Sphere: c.Sphere, Box: c.Box}
}

// Timeout returns the evaluation timeout.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.Engine.TimeoutMS) * time.Millisecond
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("log_level %q: expected debug, info, warn or error", c.LogLevel)
	}
	return lvl, nil
}

// ExportFormat parses Export.Format.
func (c Config) ExportFormat() (export.Format, error) {
	return export.ParseFormat(c.Export.Format)
}
