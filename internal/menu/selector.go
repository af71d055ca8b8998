package menu

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/carnager/clerk-modular/internal/config"
	"github.com/carnager/clerk-modular/internal/logging"
)

// promptToken is the argv placeholder replaced by the menu prompt.
const promptToken = "PROMPT"

// Selector presents options and returns what the user chose. An empty
// selection with a nil error means the user declined.
type Selector interface {
	Pick(ctx context.Context, prompt string, options []string) (string, error)
	PickMany(ctx context.Context, prompt string, options []string) ([]string, error)
}

// Func adapts a plain function to the Selector interface.
type Func func(ctx context.Context, prompt string, options []string) ([]string, error)

// Pick returns the first chosen line, or "" when the selection was declined.
func (f Func) Pick(ctx context.Context, prompt string, options []string) (string, error) {
	lines, err := f(ctx, prompt, options)
	if err != nil || len(lines) == 0 {
		return "", err
	}
	return lines[0], nil
}

// PickMany returns every chosen line.
func (f Func) PickMany(ctx context.Context, prompt string, options []string) ([]string, error) {
	return f(ctx, prompt, options)
}

// Command is a Selector running the configured menu argv.
type Command struct {
	argv          []string
	defaultPrompt string
	logger        *slog.Logger
}

// NewCommand creates a Selector from the configured menu command.
func NewCommand(cfg *config.Config, logger *slog.Logger) *Command {
	return &Command{
		argv:          cfg.Menu.Command,
		defaultPrompt: cfg.Menu.Prompt,
		logger:        logging.NewComponentLogger(logger, "menu"),
	}
}

// Pick presents options and returns the single chosen line.
func (c *Command) Pick(ctx context.Context, prompt string, options []string) (string, error) {
	lines, err := c.run(ctx, prompt, options)
	if err != nil || len(lines) == 0 {
		return "", err
	}
	return lines[0], nil
}

// PickMany presents options and returns every chosen line.
func (c *Command) PickMany(ctx context.Context, prompt string, options []string) ([]string, error) {
	return c.run(ctx, prompt, options)
}

func (c *Command) run(ctx context.Context, prompt string, options []string) ([]string, error) {
	if len(options) == 0 {
		return nil, errors.New("no options to present")
	}
	if prompt == "" {
		prompt = c.defaultPrompt
	}

	argv := make([]string, len(c.argv))
	for i, arg := range c.argv {
		if arg == promptToken {
			argv[i] = prompt
		} else {
			argv[i] = arg
		}
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = strings.NewReader(strings.Join(options, "\n") + "\n")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// Pickers exit non-zero when the user escapes out.
			c.logger.Debug("menu declined",
				logging.String("command", argv[0]),
				logging.String("stderr", strings.TrimSpace(stderr.String())))
			return nil, nil
		}
		return nil, fmt.Errorf("run menu command %s: %w", argv[0], err)
	}

	var chosen []string
	for _, line := range strings.Split(stdout.String(), "\n") {
		if line = strings.TrimRight(line, "\r"); line != "" {
			chosen = append(chosen, line)
		}
	}
	return chosen, nil
}
