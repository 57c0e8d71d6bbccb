package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix is the prefix shared by all environment overrides.
const EnvPrefix = "ROPETREE_"

// Load builds a configuration from defaults, the TOML file at path, and the
// environment, then validates it. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	default:
		if err := decode(path, data, cfg); err != nil {
			return nil, err
		}
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFS reads the named TOML file from fsys over the defaults and validates
// the result. The environment is not consulted.
func LoadFS(fsys fs.FS, name string) (*Config, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", name, err)
	}
	cfg := Default()
	if err := decode(name, data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromReader reads TOML from r over the defaults and validates the
// result. The environment is not consulted.
func LoadFromReader(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := decode("<reader>", data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decode parses data into cfg, rejecting keys cfg has no field for.
func decode(source string, data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	err := dec.Decode(cfg)
	if err == nil {
		return nil
	}

	pe := &ParseError{Path: source, Message: err.Error(), Err: err}

	var strict *toml.StrictMissingError
	var de *toml.DecodeError
	switch {
	case errors.As(err, &strict) && len(strict.Errors) > 0:
		first := strict.Errors[0]
		pe.Line, pe.Column = first.Position()
		pe.Message = "unknown setting " + strings.Join(first.Key(), ".")
	case errors.As(err, &de):
		pe.Line, pe.Column = de.Position()
	}
	return pe
}

type envBinding struct {
	name string
	path string
	set  func(c *Config, v string) error
}

func intSetter(field func(c *Config) *int) func(*Config, string) error {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return err
		}
		*field(c) = n
		return nil
	}
}

var envBindings = []envBinding{
	{"MAX_CHILDREN", "rope.max_children", intSetter(func(c *Config) *int { return &c.Rope.MaxChildren })},
	{"MAX_FRAGMENTS", "rope.max_fragments", intSetter(func(c *Config) *int { return &c.Rope.MaxFragments })},
	{"MAX_FRAGMENT_SIZE", "rope.max_fragment_size", intSetter(func(c *Config) *int { return &c.Rope.MaxFragmentSize })},
	{"DEPTH_SLACK", "rope.depth_slack", intSetter(func(c *Config) *int { return &c.Rope.DepthSlack })},
	{"WRAP_WIDTH", "wrap.width", intSetter(func(c *Config) *int { return &c.Wrap.Width })},
	{"TAB_WIDTH", "wrap.tab_width", intSetter(func(c *Config) *int { return &c.Wrap.TabWidth })},
	{"WRAP_MEASURE", "wrap.measure", func(c *Config, v string) error {
		c.Wrap.Measure = strings.ToLower(strings.TrimSpace(v))
		return nil
	}},
	{"LOG_LEVEL", "logging.level", func(c *Config, v string) error {
		c.Logging.Level = strings.ToLower(strings.TrimSpace(v))
		return nil
	}},
}

// ApplyEnv overrides cfg with any ROPETREE_* environment variables that are
// set. Empty values are treated as unset.
func ApplyEnv(cfg *Config) error {
	return applyEnv(cfg, os.LookupEnv)
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	var errs []error
	for _, b := range envBindings {
		v, ok := lookup(EnvPrefix + b.name)
		if !ok || v == "" {
			continue
		}
		if err := b.set(cfg, v); err != nil {
			errs = append(errs, &ValidationError{
				Path:    b.path,
				Message: fmt.Sprintf("%s%s is not an integer", EnvPrefix, b.name),
				Value:   v,
				Code:    ErrCodeTypeMismatch,
			})
		}
	}
	return errors.Join(errs...)
}
