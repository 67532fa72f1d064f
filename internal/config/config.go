// Package config loads the assembler's optional configuration file. The fictional
// machine's spec has no environment variables or persisted state, but a real CLI tool
// still wants a config file for the handful of run-wide knobs an invocation shouldn't
// have to repeat as flags every time; this mirrors that ambient need without adding any
// new machine semantics.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds the assembler's run-wide settings, loaded from quad4asm.toml.
type Config struct {
	Assembler struct {
		// OutputDir is where .am/.ob/.ent/.ext artifacts are written. Empty means
		// alongside each source file.
		OutputDir string `toml:"output_dir"`

		// MaxLineLength overrides the 80-character source line limit.
		MaxLineLength int `toml:"max_line_length"`
	} `toml:"assembler"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Assembler.OutputDir = ""
	cfg.Assembler.MaxLineLength = 80

	return cfg
}

// Load reads "quad4asm.toml" from the current directory, falling back to DefaultConfig
// if it does not exist.
func Load() (*Config, error) {
	return LoadFrom("quad4asm.toml")
}

// LoadFrom reads configuration from path, falling back to DefaultConfig if path does not
// exist.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// OutputPath joins the configured output directory (if any) with base.
func (c *Config) OutputPath(base string) string {
	if c.Assembler.OutputDir == "" {
		return base
	}

	return filepath.Join(c.Assembler.OutputDir, filepath.Base(base))
}
