// Package testsupport provides shared fixtures for clerk tests: canned
// configurations backed by per-test temp directories and a seeded cache
// corpus.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/carnager/clerk-modular/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with a unique temp data directory per
// test. The MPD address points at a closed local port so connection attempts
// fail immediately, and the default menu command declines every selection.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.MPD.Host = "127.0.0.1"
	cfgVal.MPD.Port = 1
	cfgVal.MPD.TimeoutSeconds = 1
	cfgVal.Library.DataDir = filepath.Join(base, "data")
	cfgVal.Menu.Command = []string{"/bin/sh", "-c", "exit 1"}
	cfgVal.Logging.Level = "error"

	if err := os.MkdirAll(cfgVal.Library.DataDir, 0o755); err != nil {
		t.Fatalf("mkdir data dir: %v", err)
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithMenuScript installs a shell script as the menu command. The script
// receives the menu lines on stdin and prints the chosen lines on stdout.
func WithMenuScript(body string) ConfigOption {
	return func(b *configBuilder) {
		path := filepath.Join(b.baseDir, "menu.sh")
		if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
			b.t.Fatalf("write menu script: %v", err)
		}
		b.cfg.Menu.Command = []string{"/bin/sh", path}
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Library.DataDir)
}
