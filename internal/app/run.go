package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vk/reelgraph/internal/ctxlog"
	"github.com/vk/reelgraph/internal/playback"
	"github.com/vk/reelgraph/internal/remote"
)

// Run plays the composition until the timeline ends, ctx is cancelled, the
// process is interrupted or MaxDuration elapses.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if a.config.MaxDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.config.MaxDuration)
		defer cancel()
	}

	a.startHealthcheckServer()
	defer a.closeHealthCheckServer()

	var client *remote.Client
	var commands <-chan remote.Command
	if a.config.RemoteURL != "" {
		c, err := remote.Dial(ctx, remote.Config{
			URL:       a.config.RemoteURL,
			Namespace: a.config.RemoteNamespace,
		})
		if err != nil {
			return fmt.Errorf("failed to connect to control server: %w", err)
		}
		defer c.Close()
		client = c
		commands = c.Commands()
	}
	publish := func() {
		if client != nil {
			client.Publish(a.driver.Status())
		}
	}

	interval := a.config.tickInterval()
	dt := interval.Seconds()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	a.driver.Play()
	last := a.driver.State()
	a.lastState.Store(int32(last))
	a.logger.Info("🚀 Starting playback...", "fps", a.config.FPS, "duration", a.driver.Duration())
	publish()

	for {
		changed := false
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				a.logger.Info("⏱️ Maximum run duration reached.", "time", a.driver.CurrentTime())
			} else {
				a.logger.Info("🛑 Playback interrupted.", "time", a.driver.CurrentTime())
			}
			return nil
		case cmd := <-commands:
			if err := cmd.Apply(a.driver); err != nil {
				a.logger.Warn("Remote command rejected.", "command", cmd.String(), "error", err)
				continue
			}
			a.logger.Info("📡 Remote command applied.", "command", cmd.String())
			changed = true
		case <-ticker.C:
			a.Step(dt)
		}

		state := a.driver.State()
		if state != last {
			a.logger.Debug("Driver state changed.", "from", last, "to", state, "time", a.driver.CurrentTime())
			a.lastState.Store(int32(state))
			last = state
			changed = true
		}
		if changed {
			publish()
		}

		switch state {
		case playback.Ended:
			a.logger.Info("🏁 Playback finished.", "time", a.driver.CurrentTime(), "frames", a.backend.TotalFrames())
			return nil
		case playback.Broken:
			return fmt.Errorf("playback failed: %w", a.driver.Err())
		}
	}
}
