package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"github.com/carnager/clerk-modular/internal/testsupport"
)

type cliTestEnv struct {
	base       string
	configPath string
	dataDir    string
	menuPath   string
}

// setupCLIEnv builds a config file pointing at freshly seeded cache files
// and an unreachable daemon address, so commands that only read caches run
// without MPD. The default menu script declines every selection.
func setupCLIEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	// The file settings only win when the daemon env vars are unset.
	t.Setenv("MPD_HOST", "")
	t.Setenv("MPD_PORT", "")
	t.Setenv("CLERK_CONFIG", "")

	cfg := testsupport.NewConfig(t, testsupport.WithMenuScript("exit 1\n"))
	cfg.MPD.Password = "hunter2"
	testsupport.SeedViews(t, cfg.Library.DataDir)

	base := testsupport.BaseDir(cfg)
	env := &cliTestEnv{
		base:       base,
		configPath: filepath.Join(base, "config.toml"),
		dataDir:    cfg.Library.DataDir,
		menuPath:   filepath.Join(base, "menu.sh"),
	}

	content, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	if err := os.WriteFile(env.configPath, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return env
}

// writeMenu replaces the menu command body. The script reads the options on
// stdin and prints the chosen lines.
func (env *cliTestEnv) writeMenu(t *testing.T, script string) {
	t.Helper()
	if err := os.WriteFile(env.menuPath, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatalf("write menu script: %v", err)
	}
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
