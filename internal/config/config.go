package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/sys/unix"
)

//go:embed sample_config.toml
var sampleConfig string

// MPD contains connection settings for the music player daemon.
type MPD struct {
	// Host is a hostname, an IP address, or an absolute unix socket path.
	// The MPD_HOST convention "password@host" is accepted.
	Host           string `toml:"host"`
	Port           int    `toml:"port"`
	Password       string `toml:"password"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Library contains settings for the local metadata cache.
type Library struct {
	DataDir          string `toml:"data_dir"`
	BatchSize        int    `toml:"batch_size"`
	RandomArtistTag  string `toml:"random_artist_tag"`
	RandomTrackCount int    `toml:"random_track_count"`
}

// Sync contains the external rating-list synchronization hook.
type Sync struct {
	Enabled bool     `toml:"enabled"`
	Command []string `toml:"command"`
}

// Daemon contains clerkd settings.
type Daemon struct {
	APIBind       string `toml:"api_bind"`
	APIToken      string `toml:"api_token"`
	PublicDir     string `toml:"public_dir"`
	WatchDatabase bool   `toml:"watch_database"`
}

// Menu contains the external selection tool invocation. Every literal PROMPT
// argument is replaced with the prompt text at run time.
type Menu struct {
	Command []string `toml:"command"`
	Prompt  string   `toml:"prompt"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	File   string `toml:"file"`
}

// Config encapsulates all configuration values for clerk.
//
// Configuration sections by subsystem:
//   - MPD: daemon connection (host, port, password, timeout)
//   - Library: cache directory, scan batch size, random playback knobs
//   - Sync: external rating-list sync hook
//   - Daemon: clerkd bind address, token, web root, database watcher
//   - Menu: external menu tool argv and prompt
//   - Logging: log format, level, and optional file
type Config struct {
	MPD     MPD     `toml:"mpd"`
	Library Library `toml:"library"`
	Sync    Sync    `toml:"sync"`
	Daemon  Daemon  `toml:"daemon"`
	Menu    Menu    `toml:"menu"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(filepath.Join(configHome(), "clerk", "config.toml"))
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. A missing file yields
// defaults with exists == false, never an error.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		path = os.Getenv("CLERK_CONFIG")
	}
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("clerk.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the cache data directory.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Library.DataDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Library.DataDir, err)
	}
	return nil
}

// DataDirWritable reports whether the cache directory can be entered and
// written by the current user.
func (c *Config) DataDirWritable() error {
	if err := unix.Access(c.Library.DataDir, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return fmt.Errorf("data directory %q not writable: %w", c.Library.DataDir, err)
	}
	return nil
}

// MPDAddress returns the dial network and address for the configured daemon.
// Absolute host paths select unix sockets.
func (c *Config) MPDAddress() (network, addr string) {
	if strings.HasPrefix(c.MPD.Host, "/") {
		return "unix", c.MPD.Host
	}
	return "tcp", fmt.Sprintf("%s:%d", c.MPD.Host, c.MPD.Port)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func configHome() string {
	if base, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok && strings.TrimSpace(base) != "" {
		return base
	}
	return "~/.config"
}

func defaultDataDir() string {
	if base, ok := os.LookupEnv("XDG_DATA_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "clerk")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.local/share/clerk"
	}
	return filepath.Join(home, ".local", "share", "clerk")
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
