// Package config loads optional editor settings from a YAML file.
//
// Every field is optional. Zero values in the resolved Settings mean
// "use the built-in default": the coordinator supplies its own interval
// and placeholder defaults, and the CLI resolves an empty storage dir.
// A missing config file is therefore not an error; a malformed one is.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the raw shape of the YAML config file.
type Config struct {
	// StorageDir is the root directory for the durable store.
	StorageDir string `yaml:"storage_dir,omitempty"`

	// SnapshotInterval is the autosave snapshot period as a Go
	// duration string, e.g. "30s".
	SnapshotInterval string `yaml:"snapshot_interval,omitempty"`

	// FlushInterval is the delta flush period, e.g. "5s".
	FlushInterval string `yaml:"flush_interval,omitempty"`

	// Placeholder is the body seeded into fresh documents.
	Placeholder string `yaml:"placeholder,omitempty"`
}

// Settings holds validated configuration ready for wiring.
type Settings struct {
	StorageDir       string
	SnapshotInterval time.Duration
	FlushInterval    time.Duration
	Placeholder      string
}

// Load reads and parses the config file at path.
// A missing file yields default (zero) settings with no error.
func Load(path string) (*Settings, error) {
	var raw Config

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// No file: defaults apply.
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		// Parse YAML with strict field validation (catches typos like
		// "snapsot_interval:").
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true) // Reject unknown fields
		if err := decoder.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	return resolveConfig(&raw)
}

// resolveConfig validates raw values and converts duration strings.
func resolveConfig(c *Config) (*Settings, error) {
	s := &Settings{
		StorageDir:  c.StorageDir,
		Placeholder: c.Placeholder,
	}

	if c.SnapshotInterval != "" {
		d, err := parseInterval("snapshot_interval", c.SnapshotInterval)
		if err != nil {
			return nil, err
		}
		s.SnapshotInterval = d
	}

	if c.FlushInterval != "" {
		d, err := parseInterval("flush_interval", c.FlushInterval)
		if err != nil {
			return nil, err
		}
		s.FlushInterval = d
	}

	return s, nil
}

// parseInterval parses a duration field and requires it to be positive.
func parseInterval(field, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %q", field, value)
	}
	return d, nil
}
