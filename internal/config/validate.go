package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	c.Simulator.Binary = strings.TrimSpace(c.Simulator.Binary)
	c.Simulator.MPIRun = strings.TrimSpace(c.Simulator.MPIRun)
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))

	for _, field := range []*string{&c.Paths.WorkDir, &c.Paths.LogDir} {
		expanded, err := expandPath(strings.TrimSpace(*field))
		if err != nil {
			return err
		}
		*field = expanded
	}
	return nil
}

// Validate checks configuration invariants after normalization.
func (c *Config) Validate() error {
	if c.Paths.WorkDir == "" {
		return fmt.Errorf("config: work_dir is required")
	}
	if c.Simulator.Binary == "" {
		return fmt.Errorf("config: simulator binary is required")
	}
	if c.Simulator.MaxCores < 1 {
		return fmt.Errorf("config: max_cores must be at least 1, got %d", c.Simulator.MaxCores)
	}
	if c.Model.PadMultiple < 1 {
		return fmt.Errorf("config: pad_multiple must be at least 1, got %d", c.Model.PadMultiple)
	}
	switch c.Logging.Format {
	case "", "auto", "console", "json":
	default:
		return fmt.Errorf("config: unsupported log format %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unsupported log level %q", c.Logging.Level)
	}
	return nil
}
