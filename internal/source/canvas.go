package source

import (
	"context"

	"github.com/vk/reelgraph/internal/graph"
	"github.com/vk/reelgraph/internal/media"
	"github.com/vk/reelgraph/internal/node"
	"github.com/vk/reelgraph/internal/nodeid"
	"github.com/vk/reelgraph/internal/render"
)

// CanvasConfig describes a canvas source.
type CanvasConfig struct {
	Handle  media.Handle
	Preload float64
}

// Canvas samples a surface the caller draws into. The caller owns the handle
// and the canvas is ready as soon as it loads.
type Canvas struct {
	*Source
}

// NewCanvas creates a canvas source registered in g.
func NewCanvas(ctx context.Context, g *graph.Graph, id nodeid.ID, texture render.SourceTexture, currentTime float64, cfg CanvasConfig) *Canvas {
	base := node.NewBase(ctx, g, id, "CanvasNode", nil, false)
	c := &Canvas{Source: newSource(base, texture, currentTime, cfg.Preload, nil)}
	c.handle = cfg.Handle
	c.responsible = false
	c.kind = c
	return c
}

func (c *Canvas) load() {
	if c.handle == nil {
		c.fail(ErrNoMedia)
		return
	}
	c.markLoadStarted()
	if !c.ready {
		c.ready = true
		c.trigger(EventLoaded, c.currentTime)
	}
}

func (c *Canvas) unload() {
	c.markUnloaded()
	c.ready = false
}

func (c *Canvas) afterSeek() {
	if (c.state == Playing || c.state == Paused) && !c.ready {
		c.load()
	}
	if (c.state == Sequenced || c.state == Ended) && c.loadCalled {
		c.unload()
	}
}

func (c *Canvas) afterAdvance() {
	if c.inPreloadWindow() {
		c.load()
	}
	if c.state == Ended && c.loadCalled {
		c.unload()
	}
}

func (c *Canvas) shouldUpload() bool { return true }

func (c *Canvas) uploaded() {}

func (c *Canvas) stretchChanged() {}
