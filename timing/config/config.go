// Package config holds the settings of a simulated board: clock, memory,
// run limits and core compatibility switches.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sarchlab/akita/v4/sim"
	"gopkg.in/yaml.v3"

	"github.com/sarchlab/rvcore/emu"
)

// Config holds the settings of a board run.
type Config struct {
	// ClockFrequencyMHz is the core clock. The board ticks twice per period.
	// Default: 1 MHz.
	ClockFrequencyMHz uint64 `json:"clock_frequency_mhz" yaml:"clock_frequency_mhz"`

	// MaxCycles stops the run after this many clock periods. 0 means no
	// limit. Default: 1,000,000.
	MaxCycles uint64 `json:"max_cycles" yaml:"max_cycles"`

	// ResetTicks is the number of leading ticks with reset held.
	// Default: 2 (one full clock period).
	ResetTicks uint64 `json:"reset_ticks" yaml:"reset_ticks"`

	// MemorySize is the size of the memory behind the bus in bytes.
	// Default: 16 MiB.
	MemorySize uint64 `json:"memory_size" yaml:"memory_size"`

	// ResetClearsRegisters makes reset zero x1-x31. Default: false.
	ResetClearsRegisters bool `json:"reset_clears_registers" yaml:"reset_clears_registers"`

	// Quirks selects behaviors of the original component. Default: none.
	Quirks emu.Quirks `json:"quirks" yaml:"quirks"`
}

// DefaultConfig returns a Config with the default values.
func DefaultConfig() *Config {
	return &Config{
		ClockFrequencyMHz: 1,
		MaxCycles:         1_000_000,
		ResetTicks:        2,
		MemorySize:        emu.DefaultMemorySize,
	}
}

// Load reads a Config from a JSON or YAML file, chosen by extension (.yaml
// and .yml are YAML, anything else JSON). Fields missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if isYAML(path) {
		err = yaml.Unmarshal(data, config)
	} else {
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// Save writes the Config to a JSON or YAML file, chosen by extension.
func (c *Config) Save(path string) error {
	var (
		data []byte
		err  error
	)

	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Validate checks that the values can drive a board.
func (c *Config) Validate() error {
	if c.ClockFrequencyMHz == 0 {
		return fmt.Errorf("clock_frequency_mhz must be > 0")
	}
	if c.ResetTicks == 0 {
		return fmt.Errorf("reset_ticks must be > 0")
	}
	if c.MemorySize == 0 {
		return fmt.Errorf("memory_size must be > 0")
	}
	if c.MemorySize > 1<<32 {
		return fmt.Errorf("memory_size must fit a 32-bit address space")
	}
	return nil
}

// Frequency returns the clock as an Akita frequency.
func (c *Config) Frequency() sim.Freq {
	return sim.Freq(c.ClockFrequencyMHz) * sim.MHz
}

// Clone returns a deep copy of the Config.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
