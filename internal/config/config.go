package config

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/dshills/ropetree/internal/logging"
	"github.com/dshills/ropetree/internal/rope"
)

// Measurement modes for wrapping.
const (
	// MeasureCells measures text in terminal cells.
	MeasureCells = "cells"
	// MeasureFace measures text in pixels using a bitmap font face.
	MeasureFace = "face"
)

// Config holds all ropetree settings.
type Config struct {
	Rope    RopeConfig    `toml:"rope"`
	Wrap    WrapConfig    `toml:"wrap"`
	Logging LoggingConfig `toml:"logging"`
}

// RopeConfig holds the tree shape settings.
type RopeConfig struct {
	MaxChildren     int `toml:"max_children"`
	MaxFragments    int `toml:"max_fragments"`
	MaxFragmentSize int `toml:"max_fragment_size"`
	DepthSlack      int `toml:"depth_slack"`
}

// WrapConfig holds the line wrapping settings.
type WrapConfig struct {
	// Width is the maximum line width. Zero disables wrapping.
	Width int `toml:"width"`
	// TabWidth is the width of a tab in cells.
	TabWidth int `toml:"tab_width"`
	// Measure selects the measurer: "cells" or "face".
	Measure string `toml:"measure"`
}

// LoggingConfig holds the logger settings.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Prefix string `toml:"prefix"`
}

// Default returns the built-in configuration.
func Default() *Config {
	p := rope.DefaultPolicy()
	return &Config{
		Rope: RopeConfig{
			MaxChildren:     p.MaxChildren,
			MaxFragments:    p.MaxFragments,
			MaxFragmentSize: p.MaxFragmentSize,
			DepthSlack:      p.DepthSlack,
		},
		Wrap: WrapConfig{
			Width:    80,
			TabWidth: 4,
			Measure:  MeasureCells,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Prefix: logging.DefaultConfig().Prefix,
		},
	}
}

var logLevels = []string{"debug", "info", "warn", "warning", "error"}

// Validate checks every setting and returns all failures joined.
func (c *Config) Validate() error {
	var errs []error

	atLeast := func(path string, v, min int) {
		if v < min {
			errs = append(errs, &ValidationError{
				Path:    path,
				Message: fmt.Sprintf("must be at least %d", min),
				Value:   v,
				Code:    ErrCodeOutOfRange,
			})
		}
	}

	atLeast("rope.max_children", c.Rope.MaxChildren, 3)
	atLeast("rope.max_fragments", c.Rope.MaxFragments, 2)
	atLeast("rope.max_fragment_size", c.Rope.MaxFragmentSize, 1)
	atLeast("rope.depth_slack", c.Rope.DepthSlack, 1)
	atLeast("wrap.width", c.Wrap.Width, 0)
	atLeast("wrap.tab_width", c.Wrap.TabWidth, 1)

	if c.Wrap.Measure != MeasureCells && c.Wrap.Measure != MeasureFace {
		errs = append(errs, &ValidationError{
			Path:    "wrap.measure",
			Message: fmt.Sprintf("must be %q or %q", MeasureCells, MeasureFace),
			Value:   c.Wrap.Measure,
			Code:    ErrCodeInvalidEnum,
		})
	}
	if !slices.Contains(logLevels, c.Logging.Level) {
		errs = append(errs, &ValidationError{
			Path:    "logging.level",
			Message: "unknown log level",
			Value:   c.Logging.Level,
			Code:    ErrCodeInvalidEnum,
		})
	}

	return errors.Join(errs...)
}

// Policy converts the rope settings to a tree shape policy.
func (c RopeConfig) Policy() rope.Policy {
	return rope.Policy{
		MaxChildren:     c.MaxChildren,
		MaxFragments:    c.MaxFragments,
		MaxFragmentSize: c.MaxFragmentSize,
		DepthSlack:      c.DepthSlack,
	}
}

// Logger creates a logger writing to w.
func (c LoggingConfig) Logger(w io.Writer) *logging.Logger {
	return logging.New(logging.Config{
		Level:  logging.ParseLogLevel(c.Level),
		Output: w,
		Prefix: c.Prefix,
	})
}

// RopeOptions returns the options that apply this configuration to new ropes.
func (c *Config) RopeOptions(log *logging.Logger) []rope.Option {
	return []rope.Option{
		rope.WithPolicy(c.Rope.Policy()),
		rope.WithLogger(log),
	}
}
