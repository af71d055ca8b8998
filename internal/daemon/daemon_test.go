package daemon

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"github.com/carnager/clerk-modular/internal/config"
	"github.com/carnager/clerk-modular/internal/logging"
	"github.com/carnager/clerk-modular/internal/testsupport"
)

func TestNewRequiresConfigAndLogger(t *testing.T) {
	if _, err := New(nil, logging.NewNop()); err == nil {
		t.Fatal("expected an error for nil config")
	}
	cfg := config.Default()
	if _, err := New(&cfg, nil); err == nil {
		t.Fatal("expected an error for nil logger")
	}
}

func TestRunRefusesSecondInstance(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	holder := flock.New(filepath.Join(cfg.Library.DataDir, "clerkd.lock"))
	ok, err := holder.TryLock()
	if err != nil || !ok {
		t.Fatalf("acquire lock: ok=%v err=%v", ok, err)
	}
	defer holder.Unlock()

	d, err := New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = d.Run(ctx)
	if err == nil || !strings.Contains(err.Error(), "already running") {
		t.Fatalf("Run returned %v, want already-running error", err)
	}
}

func TestReleaseLockRemovesFile(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	d, err := New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ok, err := d.lock.TryLock()
	if err != nil || !ok {
		t.Fatalf("acquire lock: ok=%v err=%v", ok, err)
	}

	d.releaseLock()

	if _, err := os.Stat(d.lockPath); !os.IsNotExist(err) {
		t.Fatalf("lock file still present, stat err = %v", err)
	}
}
