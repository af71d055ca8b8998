package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/carnager/clerk-modular/internal/api"
	"github.com/carnager/clerk-modular/internal/cachefile"
	"github.com/carnager/clerk-modular/internal/config"
	"github.com/carnager/clerk-modular/internal/library"
	"github.com/carnager/clerk-modular/internal/listsync"
	"github.com/carnager/clerk-modular/internal/logging"
	"github.com/carnager/clerk-modular/internal/menu"
	"github.com/carnager/clerk-modular/internal/mpdclient"
	"github.com/carnager/clerk-modular/internal/playlist"
	"github.com/carnager/clerk-modular/internal/ratings"
)

// cliDeps is the shared component graph behind every subcommand. The MPD
// client dials lazily, so commands that only read cache files work with the
// daemon down.
type cliDeps struct {
	cfg      *config.Config
	logger   *slog.Logger
	mpd      *mpdclient.Client
	files    *cachefile.Store
	ratings  *ratings.Store
	builder  *library.Builder
	library  *api.LibraryService
	queuer   *playlist.Queuer
	selector menu.Selector
}

type commandContext struct {
	configFlag *string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error

	depsOnce sync.Once
	deps     *cliDeps
	depsErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolvedPath, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolvedPath
		c.configExists = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureDeps() (*cliDeps, error) {
	c.depsOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.depsErr = err
			return
		}
		logger, err := logging.NewFromValues(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.File)
		if err != nil {
			c.depsErr = err
			return
		}

		mpd := mpdclient.New(cfg, logger)
		files := cachefile.NewStore(cfg.Library.DataDir, logger)
		ratingStore := ratings.NewStore(files, listsync.NewService(cfg, logger), logger)
		builder := library.NewBuilder(mpd, files, cfg.Library.BatchSize, logger)

		c.deps = &cliDeps{
			cfg:      cfg,
			logger:   logger,
			mpd:      mpd,
			files:    files,
			ratings:  ratingStore,
			builder:  builder,
			library:  api.NewLibraryService(files, builder, ratingStore, logger),
			queuer:   playlist.NewQueuer(mpd, cfg, logger),
			selector: menu.NewCommand(cfg, logger),
		}
	})
	return c.deps, c.depsErr
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
