package remote

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/vk/reelgraph/internal/ctxlog"
	"github.com/vk/reelgraph/internal/playback"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

const (
	// StateEvent is emitted by Publish.
	StateEvent = "state"

	DefaultConnectTimeout = 15 * time.Second
	DefaultBuffer         = 16
)

// Config describes the control server to connect to.
type Config struct {
	URL                string
	Namespace          string
	InsecureSkipVerify bool
	// ConnectTimeout defaults to DefaultConnectTimeout.
	ConnectTimeout time.Duration
	// Buffer is the command queue capacity. Commands arriving while the
	// queue is full are dropped. Defaults to DefaultBuffer.
	Buffer int
}

// Client is a connected socket.io control channel.
type Client struct {
	logger   *slog.Logger
	io       *socket.Socket
	commands chan Command
}

func newClient(logger *slog.Logger, buffer int) *Client {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Client{
		logger:   logger,
		commands: make(chan Command, buffer),
	}
}

// Dial connects to the control server over WebSocket and blocks until the
// connection is established, ctx is cancelled or the timeout passes.
func Dial(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("remote control URL is required")
	}
	logger := ctxlog.Component(ctx, "remote").With("url", cfg.URL, "namespace", cfg.Namespace)
	logger.Info("Connecting to control server...")

	parsedURL, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}

	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	if cfg.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	c := newClient(logger, cfg.Buffer)
	connectChan := make(chan error, 1)

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(cfg.Namespace, opts)
	c.io = io

	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Connected to control server.", "sid", io.Id())
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		logger.Debug("Control server connect_error fired.", "error", err)
		connectChan <- err
	})
	io.On(types.EventName("disconnect"), func(reason ...any) {
		logger.Warn("Disconnected from control server.", "reason", reason)
	})
	for _, kind := range Kinds {
		io.On(types.EventName(kind), func(args ...any) {
			c.handle(kind, args)
		})
	}

	io.Connect()
	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		return c, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection")
	case <-time.After(timeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", timeout)
	}
}

// handle runs on socket.io goroutines.
func (c *Client) handle(kind Kind, args []any) {
	cmd, err := parseCommand(kind, args)
	if err != nil {
		c.logger.Warn("Ignoring malformed remote command.", "command", kind, "error", err)
		return
	}
	select {
	case c.commands <- cmd:
		c.logger.Debug("Remote command queued.", "command", cmd.String())
	default:
		c.logger.Warn("Remote command queue full, dropping command.", "command", cmd.String())
	}
}

// Commands is the queue of received commands.
func (c *Client) Commands() <-chan Command {
	return c.commands
}

// Publish emits the driver status as a "state" event.
func (c *Client) Publish(s playback.Status) {
	if c.io == nil || !c.io.Connected() {
		c.logger.Debug("Skipping state publish, not connected.", "state", s.State)
		return
	}
	c.io.Emit(StateEvent, statusPayload(s))
}

// Close disconnects from the control server.
func (c *Client) Close() {
	if c.io == nil {
		return
	}
	c.logger.Info("Closing control server connection.", "sid", c.io.Id())
	c.io.Disconnect()
}
