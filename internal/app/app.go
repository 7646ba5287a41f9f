package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/vk/reelgraph/internal/builder"
	"github.com/vk/reelgraph/internal/config"
	"github.com/vk/reelgraph/internal/ctxlog"
	"github.com/vk/reelgraph/internal/media"
	"github.com/vk/reelgraph/internal/media/sim"
	"github.com/vk/reelgraph/internal/mediapool"
	"github.com/vk/reelgraph/internal/playback"
	"github.com/vk/reelgraph/internal/render/recorder"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config

	model       *config.Model
	library     *sim.Library
	pool        *mediapool.Pool
	backend     *recorder.Recorder
	driver      *playback.Driver
	composition *builder.Composition

	httpServer *http.Server
	lastState  atomic.Int32
}

// NewApp loads the composition and builds it on a fresh playback driver.
// Any startup failure panics; the entrypoint recovers it.
func NewApp(ctx context.Context, outW io.Writer, cfg *Config, loader config.Loader) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Logger configured successfully.")

	model, err := loadComposition(ctx, cfg, loader)
	if err != nil {
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}
	logger.Debug("Configuration loaded and translated into unified model.")

	timeline := model.Timeline
	if timeline == nil {
		timeline = config.DefaultTimeline()
	}
	poolSize := mediapool.DefaultSize
	switch {
	case cfg.PoolSize > 0:
		poolSize = cfg.PoolSize
	case timeline.PoolSize > 0:
		poolSize = timeline.PoolSize
	}

	lib := sim.NewLibrary()
	pool := mediapool.New(ctx, poolSize, lib.NewHandle)
	backend := recorder.New(ctx)
	driver, err := playback.New(ctx, playback.Config{
		Backend:            backend,
		Pool:               pool,
		Opener:             lib,
		EndOnLastSourceEnd: timeline.EndOnLastSourceEnd,
	})
	if err != nil {
		panic(fmt.Errorf("failed to create playback driver: %w", err))
	}

	canvases := func(string) media.Handle { return lib.NewCanvas() }
	comp, err := builder.Build(ctx, model, driver, canvases)
	if err != nil {
		panic(fmt.Errorf("failed to build composition: %w", err))
	}
	logger.Info("🎬 Composition ready.",
		"sources", len(comp.Sources),
		"processors", len(comp.Processors),
		"cues", len(comp.Cues),
		"pool_size", poolSize,
		"duration", driver.Duration(),
	)

	a := &App{
		outW:        outW,
		logger:      logger,
		config:      cfg,
		model:       model,
		library:     lib,
		pool:        pool,
		backend:     backend,
		driver:      driver,
		composition: comp,
	}
	a.lastState.Store(int32(driver.State()))
	return a
}

// Driver returns the application's playback driver. This is primarily for testing.
func (a *App) Driver() *playback.Driver {
	return a.driver
}

// Composition returns the nodes built from the loaded model.
func (a *App) Composition() *builder.Composition {
	return a.composition
}

// Backend returns the recording backend the driver renders into.
func (a *App) Backend() *recorder.Recorder {
	return a.backend
}

// Model returns the loaded composition model.
func (a *App) Model() *config.Model {
	return a.model
}

// Step advances media and the driver by dt seconds. Media notifications are
// delivered first so the driver sees them on the same tick.
func (a *App) Step(dt float64) {
	a.library.Tick(dt)
	a.driver.Advance(dt)
}
