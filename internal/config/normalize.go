package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeMPD(); err != nil {
		return err
	}
	if err := c.normalizeLibrary(); err != nil {
		return err
	}
	c.normalizeSync()
	if err := c.normalizeDaemon(); err != nil {
		return err
	}
	c.normalizeMenu()
	return c.normalizeLogging()
}

func (c *Config) normalizeMPD() error {
	// MPD_HOST and MPD_PORT take precedence over the file, matching the
	// daemon's own client conventions.
	if value, ok := os.LookupEnv("MPD_HOST"); ok && strings.TrimSpace(value) != "" {
		c.MPD.Host = value
	}
	if value, ok := os.LookupEnv("MPD_PORT"); ok && strings.TrimSpace(value) != "" {
		port, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("mpd.port: invalid MPD_PORT %q", value)
		}
		c.MPD.Port = port
	}

	c.MPD.Host = strings.TrimSpace(c.MPD.Host)
	if c.MPD.Host == "" {
		c.MPD.Host = defaultMPDHost
	}
	// The "password@host" form carries the password in the host value.
	if at := strings.LastIndex(c.MPD.Host, "@"); at >= 0 {
		if password := c.MPD.Host[:at]; password != "" {
			c.MPD.Password = password
		}
		c.MPD.Host = c.MPD.Host[at+1:]
	}
	if c.MPD.Port == 0 {
		c.MPD.Port = defaultMPDPort
	}
	if c.MPD.TimeoutSeconds == 0 {
		c.MPD.TimeoutSeconds = defaultMPDTimeout
	}
	return nil
}

func (c *Config) normalizeLibrary() error {
	if strings.TrimSpace(c.Library.DataDir) == "" {
		c.Library.DataDir = defaultDataDir()
	}
	var err error
	if c.Library.DataDir, err = expandPath(c.Library.DataDir); err != nil {
		return fmt.Errorf("library.data_dir: %w", err)
	}
	if c.Library.BatchSize == 0 {
		c.Library.BatchSize = defaultBatchSize
	}
	c.Library.RandomArtistTag = strings.ToLower(strings.TrimSpace(c.Library.RandomArtistTag))
	if c.Library.RandomArtistTag == "" {
		c.Library.RandomArtistTag = defaultRandomArtistTag
	}
	if c.Library.RandomTrackCount == 0 {
		c.Library.RandomTrackCount = defaultRandomTrackCount
	}
	return nil
}

func (c *Config) normalizeSync() {
	cleaned := make([]string, 0, len(c.Sync.Command))
	for _, arg := range c.Sync.Command {
		if trimmed := strings.TrimSpace(arg); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	c.Sync.Command = cleaned
}

func (c *Config) normalizeDaemon() error {
	c.Daemon.APIBind = strings.TrimSpace(c.Daemon.APIBind)
	if c.Daemon.APIBind == "" {
		c.Daemon.APIBind = defaultAPIBind
	}
	c.Daemon.APIToken = strings.TrimSpace(c.Daemon.APIToken)
	if strings.TrimSpace(c.Daemon.PublicDir) == "" {
		c.Daemon.PublicDir = defaultPublicDir
	}
	var err error
	if c.Daemon.PublicDir, err = expandPath(c.Daemon.PublicDir); err != nil {
		return fmt.Errorf("daemon.public_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeMenu() {
	cleaned := make([]string, 0, len(c.Menu.Command))
	for _, arg := range c.Menu.Command {
		if trimmed := strings.TrimSpace(arg); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	c.Menu.Command = cleaned
	if strings.TrimSpace(c.Menu.Prompt) == "" {
		c.Menu.Prompt = defaultMenuPrompt
	}
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if strings.TrimSpace(c.Logging.File) == "" {
		c.Logging.File = ""
		return nil
	}
	var err error
	if c.Logging.File, err = expandPath(c.Logging.File); err != nil {
		return fmt.Errorf("logging.file: %w", err)
	}
	return nil
}
