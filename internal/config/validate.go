package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateMPD(); err != nil {
		return err
	}
	if err := c.validateLibrary(); err != nil {
		return err
	}
	if err := c.validateSync(); err != nil {
		return err
	}
	if err := c.validateMenu(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateMPD() error {
	if c.MPD.Host == "" {
		return errors.New("mpd.host must be set")
	}
	if !strings.HasPrefix(c.MPD.Host, "/") {
		if c.MPD.Port < 1 || c.MPD.Port > 65535 {
			return fmt.Errorf("mpd.port must be between 1 and 65535, got %d", c.MPD.Port)
		}
	}
	return ensurePositiveMap(map[string]int{
		"mpd.timeout_seconds": c.MPD.TimeoutSeconds,
	})
}

func (c *Config) validateLibrary() error {
	if strings.TrimSpace(c.Library.DataDir) == "" {
		return errors.New("library.data_dir must be set")
	}
	return ensurePositiveMap(map[string]int{
		"library.batch_size":         c.Library.BatchSize,
		"library.random_track_count": c.Library.RandomTrackCount,
	})
}

func (c *Config) validateSync() error {
	if c.Sync.Enabled && len(c.Sync.Command) == 0 {
		return errors.New("sync.command must be set when sync.enabled is true")
	}
	return nil
}

func (c *Config) validateMenu() error {
	if len(c.Menu.Command) == 0 {
		return errors.New("menu.command must be set")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
