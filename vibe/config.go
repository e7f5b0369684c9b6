package vibe

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Mode tunes how strictly coercion accepts near-matches. It never changes
// the attempt count; that is NumTries alone.
type Mode string

const (
	// ModeChill accepts only values whose parsed JSON type already matches.
	ModeChill Mode = "chill"
	// ModeEager additionally converts numeric strings to numbers and
	// boolean-token strings to booleans.
	ModeEager Mode = "eager"
	// ModeAggressive additionally converts 0/1 numbers to booleans and
	// renders numbers as strings where a string is expected.
	ModeAggressive Mode = "aggressive"
)

func (m Mode) valid() bool {
	switch m {
	case ModeChill, ModeEager, ModeAggressive:
		return true
	}
	return false
}

// Config carries the runtime knobs shared by every call made through one
// Vibe instance. It is read-only after New.
type Config struct {
	// NumTries is the total attempt budget per call, including the first
	// attempt. Zero means 1.
	NumTries int `yaml:"num_tries"`

	// Mode selects the coercion leniency policy. Empty means ModeChill.
	Mode Mode `yaml:"mode"`

	// Timeout bounds each individual backend round trip. Zero means 10s.
	Timeout time.Duration `yaml:"timeout"`

	// SystemInstruction is an optional extra system prompt passed to the
	// backend alongside every rendered prompt.
	SystemInstruction string `yaml:"system_instruction"`

	// Sink receives per-attempt diagnostics. Nil means DefaultSink().
	Sink Sink `yaml:"-"`
}

const (
	defaultNumTries = 1
	defaultTimeout  = 10 * time.Second
)

func (c Config) withDefaults() (Config, error) {
	if c.NumTries < 0 {
		return c, fmt.Errorf("vibe: NumTries must be >= 1, got %d", c.NumTries)
	}
	if c.NumTries == 0 {
		c.NumTries = defaultNumTries
	}
	if c.Mode == "" {
		c.Mode = ModeChill
	}
	if !c.Mode.valid() {
		return c, fmt.Errorf("vibe: unknown mode %q", c.Mode)
	}
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
	if c.Sink == nil {
		c.Sink = DefaultSink()
	}
	return c, nil
}

// UnmarshalYAML decodes a Config, parsing the timeout from Go duration
// syntax ("30s", "1m").
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	var aux struct {
		NumTries          int    `yaml:"num_tries"`
		Mode              Mode   `yaml:"mode"`
		Timeout           string `yaml:"timeout"`
		SystemInstruction string `yaml:"system_instruction"`
	}
	if err := value.Decode(&aux); err != nil {
		return err
	}
	c.NumTries = aux.NumTries
	c.Mode = aux.Mode
	c.SystemInstruction = aux.SystemInstruction
	if aux.Timeout != "" {
		d, err := time.ParseDuration(aux.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout %q: %w", aux.Timeout, err)
		}
		c.Timeout = d
	}
	return nil
}

// LoadConfig reads a Config from a YAML file. Durations use Go syntax
// ("30s", "1m"); the diagnostic sink cannot be configured from a file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("vibe: read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("vibe: parse config: %w", err)
	}
	if cfg.Mode != "" && !cfg.Mode.valid() {
		return Config{}, fmt.Errorf("vibe: unknown mode %q in %s", cfg.Mode, path)
	}
	return cfg, nil
}
