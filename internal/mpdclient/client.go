package mpdclient

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fhs/gompd/v2/mpd"

	"github.com/carnager/clerk-modular/internal/config"
	"github.com/carnager/clerk-modular/internal/logging"
)

// Client is a long-lived MPD connection. All methods are safe for concurrent
// use; commands are serialized over the one underlying connection.
type Client struct {
	network  string
	addr     string
	password string
	timeout  time.Duration
	logger   *slog.Logger

	mu   sync.Mutex
	conn *mpd.Client
}

// New creates a client for the configured daemon. No connection is made
// until the first call.
func New(cfg *config.Config, logger *slog.Logger) *Client {
	network, addr := cfg.MPDAddress()
	return &Client{
		network:  network,
		addr:     addr,
		password: cfg.MPD.Password,
		timeout:  time.Duration(cfg.MPD.TimeoutSeconds) * time.Second,
		logger:   logging.NewComponentLogger(logger, "mpd"),
	}
}

// Connect establishes the connection eagerly so startup can fail fast when
// the daemon is unreachable.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	conn, err := c.ensureLocked(ctx)
	if err != nil {
		return err
	}
	c.logger.Info("connected to daemon",
		logging.String("address", c.addr),
		logging.String("protocol", conn.Version()))
	return nil
}

// Close tears down the connection if one is open.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// Ping verifies that the daemon is reachable, dialing if necessary.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, "ping", func(conn *mpd.Client) error {
		return conn.Ping()
	})
}

// Version returns the daemon's protocol version.
func (c *Client) Version(ctx context.Context) (string, error) {
	var version string
	err := c.do(ctx, "version", func(conn *mpd.Client) error {
		version = conn.Version()
		return nil
	})
	return version, err
}

// do runs one protocol operation over the shared connection. A connection
// that fails its ping is closed and redialed before fn runs.
func (c *Client) do(ctx context.Context, op string, fn func(conn *mpd.Client) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	conn, err := c.ensureLocked(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := fn(conn); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ensureLocked returns a live connection. Callers hold c.mu.
func (c *Client) ensureLocked(ctx context.Context) (*mpd.Client, error) {
	if c.conn != nil {
		if err := c.conn.Ping(); err == nil {
			return c.conn, nil
		}
		c.logger.Debug("connection stale, redialing", logging.String("address", c.addr))
		_ = c.conn.Close()
		c.conn = nil
	}

	conn, err := c.dial(ctx)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", c.addr, err)
	}
	c.conn = conn
	return conn, nil
}

type dialResult struct {
	conn *mpd.Client
	err  error
}

// dial connects with the configured timeout. gompd dials without a deadline,
// so the dial runs in a goroutine and a late connection is closed.
func (c *Client) dial(ctx context.Context) (*mpd.Client, error) {
	results := make(chan dialResult, 1)
	go func() {
		conn, err := mpd.DialAuthenticated(c.network, c.addr, c.password)
		results <- dialResult{conn: conn, err: err}
	}()

	timer := time.NewTimer(c.timeout)
	defer timer.Stop()

	select {
	case result := <-results:
		return result.conn, result.err
	case <-ctx.Done():
		go discardDial(results)
		return nil, ctx.Err()
	case <-timer.C:
		go discardDial(results)
		return nil, fmt.Errorf("timeout after %s", c.timeout)
	}
}

func discardDial(results <-chan dialResult) {
	if result := <-results; result.conn != nil {
		_ = result.conn.Close()
	}
}
