// Package config holds the tunable parameters of the pipeline model.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config holds pipeline sizing and run limits.
type Config struct {
	// BaseAddress is the byte address of the first instruction.
	// Default: 256.
	BaseAddress uint32 `json:"base_address"`

	// FetchWidth is the maximum number of non-branch instructions fetched
	// per cycle. Default: 2.
	FetchWidth int `json:"fetch_width"`

	// PreIssueSize is the capacity of the issue queue. Default: 4.
	PreIssueSize int `json:"pre_issue_size"`

	// PreMemUnitSize is the capacity of the memory-address unit's input
	// queue. Default: 2.
	PreMemUnitSize int `json:"pre_mem_unit_size"`

	// UnitBufferSize is the capacity of every other staging buffer
	// (arithmetic/logical unit input and output, memory stage input and
	// output). Default: 1.
	UnitBufferSize int `json:"unit_buffer_size"`

	// MaxCycles aborts a run that has not halted after this many cycles.
	// 0 disables the limit. Default: 100000.
	MaxCycles uint64 `json:"max_cycles"`
}

// DefaultConfig returns the reference machine configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseAddress:    256,
		FetchWidth:     2,
		PreIssueSize:   4,
		PreMemUnitSize: 2,
		UnitBufferSize: 1,
		MaxCycles:      100000,
	}
}

// LoadConfig loads a Config from a JSON file. Fields absent from the file
// keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pipeline config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse pipeline config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a Config to a JSON file.
func (c *Config) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize pipeline config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write pipeline config file: %w", err)
	}

	return nil
}

// Validate checks that the configuration describes a usable pipeline.
func (c *Config) Validate() error {
	if c.BaseAddress%4 != 0 {
		return fmt.Errorf("base_address must be word aligned")
	}
	if c.FetchWidth < 1 {
		return fmt.Errorf("fetch_width must be > 0")
	}
	if c.PreIssueSize < c.FetchWidth {
		return fmt.Errorf("pre_issue_size must be >= fetch_width")
	}
	if c.PreMemUnitSize < 1 {
		return fmt.Errorf("pre_mem_unit_size must be > 0")
	}
	if c.UnitBufferSize < 1 {
		return fmt.Errorf("unit_buffer_size must be > 0")
	}
	return nil
}

// Clone returns a copy of the Config.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
