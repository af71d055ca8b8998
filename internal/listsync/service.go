package listsync

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/carnager/clerk-modular/internal/config"
	"github.com/carnager/clerk-modular/internal/logging"
)

// Service pushes the rating list to an external target.
type Service interface {
	Sync(ctx context.Context) error
}

// commandTimeout bounds a single sync run when the caller's context carries
// no deadline.
const commandTimeout = 60 * time.Second

// NewService builds a sync service running the configured command. When sync
// is disabled or no command is configured, a noop implementation is returned.
func NewService(cfg *config.Config, logger *slog.Logger) Service {
	if cfg == nil || !cfg.Sync.Enabled || len(cfg.Sync.Command) == 0 {
		return noopService{}
	}
	return &execService{
		argv:   cfg.Sync.Command,
		logger: logging.NewComponentLogger(logger, "listsync"),
	}
}

type execService struct {
	argv   []string
	logger *slog.Logger
}

func (s *execService) Sync(ctx context.Context) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, commandTimeout)
		defer cancel()
	}

	started := time.Now()
	cmd := exec.CommandContext(ctx, s.argv[0], s.argv[1:]...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		detail := strings.TrimSpace(string(output))
		if detail != "" {
			return fmt.Errorf("sync command %q: %w: %s", s.argv[0], err, detail)
		}
		return fmt.Errorf("sync command %q: %w", s.argv[0], err)
	}

	s.logger.Debug("rating list synced",
		logging.String("command", s.argv[0]),
		logging.Duration("elapsed", time.Since(started)))
	return nil
}

type noopService struct{}

func (noopService) Sync(context.Context) error { return nil }
