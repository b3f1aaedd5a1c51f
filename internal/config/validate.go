package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

var validLogLevels = map[string]bool{
	"debug":   true,
	"info":    true,
	"warn":    true,
	"warning": true,
	"error":   true,
}

var validOutputs = map[string]bool{
	"text": true,
	"json": true,
	"yaml": true,
}

const (
	minProbeTimeout = 500 * time.Millisecond
	maxProbeTimeout = 2 * time.Minute
	maxRestartDelay = 30 * time.Second
)

// Validate checks the config and returns all problems found. Out-of-range
// durations and unknown enum values are reset to safe values, so the returned
// errors are warnings: the config is always usable afterwards.
func (c *Config) Validate() []error {
	var errs []error
	def := Default()

	if c.ProbeTimeout < minProbeTimeout {
		errs = append(errs, fmt.Errorf("probe_timeout %s is below minimum %s, clamping", c.ProbeTimeout, minProbeTimeout))
		c.ProbeTimeout = minProbeTimeout
	} else if c.ProbeTimeout > maxProbeTimeout {
		errs = append(errs, fmt.Errorf("probe_timeout %s exceeds maximum %s, clamping", c.ProbeTimeout, maxProbeTimeout))
		c.ProbeTimeout = maxProbeTimeout
	}

	if c.RestartDelay < 0 {
		errs = append(errs, fmt.Errorf("restart_delay %s is negative, using 0", c.RestartDelay))
		c.RestartDelay = 0
	} else if c.RestartDelay > maxRestartDelay {
		errs = append(errs, fmt.Errorf("restart_delay %s exceeds maximum %s, clamping", c.RestartDelay, maxRestartDelay))
		c.RestartDelay = maxRestartDelay
	}

	if strings.TrimSpace(c.BackupFile) == "" {
		errs = append(errs, fmt.Errorf("backup_file is empty, using %q", def.BackupFile))
		c.BackupFile = def.BackupFile
	}

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Errorf("log_level %q is not valid (use debug, info, warn, error)", c.LogLevel))
		c.LogLevel = def.LogLevel
	}

	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("log_format %q is not valid (use text or json)", c.LogFormat))
		c.LogFormat = def.LogFormat
	}

	if !validOutputs[strings.ToLower(c.Output)] {
		errs = append(errs, fmt.Errorf("output %q is not valid (use text, json or yaml)", c.Output))
		c.Output = def.Output
	}
	c.Output = strings.ToLower(c.Output)

	if c.LogMaxSizeMB < 1 {
		c.LogMaxSizeMB = def.LogMaxSizeMB
	}
	if c.LogMaxBackups < 1 {
		c.LogMaxBackups = def.LogMaxBackups
	}

	for _, err := range errs {
		slog.Warn("config validation", "error", err)
	}

	return errs
}
