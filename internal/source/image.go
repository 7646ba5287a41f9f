package source

import (
	"context"
	"fmt"

	"github.com/vk/reelgraph/internal/graph"
	"github.com/vk/reelgraph/internal/media"
	"github.com/vk/reelgraph/internal/node"
	"github.com/vk/reelgraph/internal/nodeid"
	"github.com/vk/reelgraph/internal/render"
)

// ImageConfig describes a still image source.
type ImageConfig struct {
	URL string
	// Handle is an already loaded image managed by the caller.
	Handle     media.Handle
	Opener     media.Opener
	Preload    float64
	Attributes map[string]string
}

// Image shows a still picture. Images are not pooled; each one opens its own
// handle and uploads it to the texture once per load.
type Image struct {
	*Source
	ctx             context.Context
	url             string
	opener          media.Opener
	attached        bool
	textureUploaded bool
}

// NewImage creates an image source registered in g.
func NewImage(ctx context.Context, g *graph.Graph, id nodeid.ID, texture render.SourceTexture, currentTime float64, cfg ImageConfig) *Image {
	base := node.NewBase(ctx, g, id, "ImageNode", nil, false)
	im := &Image{
		Source: newSource(base, texture, currentTime, cfg.Preload, cfg.Attributes),
		ctx:    ctx,
		url:    cfg.URL,
		opener: cfg.Opener,
	}
	if cfg.Handle != nil {
		im.handle = cfg.Handle
		im.responsible = false
	}
	im.kind = im
	return im
}

// URL is the image address.
func (im *Image) URL() string { return im.url }

func (im *Image) load() {
	if im.attached {
		im.applyAttributes(im.handle)
		im.markReadyIfLoaded()
		return
	}
	im.markLoadStarted()

	if im.responsible {
		if im.opener == nil {
			im.fail(fmt.Errorf("image %s: %w", im.url, ErrNoMedia))
			return
		}
		h, err := im.opener.Open(im.ctx, im.url)
		if err != nil {
			im.fail(fmt.Errorf("open image %s: %w", im.url, err))
			return
		}
		h.OnLoaded(func() {
			if im.handle != h {
				return
			}
			im.ready = true
			im.trigger(EventLoaded, im.currentTime)
		})
		im.applyAttributes(h)
		im.handle = h
	}
	if im.handle == nil {
		im.fail(ErrNoMedia)
		return
	}

	h := im.handle
	h.OnError(func(err error) {
		if im.handle != h {
			return
		}
		im.fail(err)
	})
	im.attached = true
	im.markReadyIfLoaded()
}

// markReadyIfLoaded covers caller-managed images that finished loading
// before the source attached to them.
func (im *Image) markReadyIfLoaded() {
	if im.ready || im.responsible || im.state == Error {
		return
	}
	if media.IsPlayable(im.handle) {
		im.ready = true
		im.trigger(EventLoaded, im.currentTime)
	}
}

func (im *Image) unload() {
	im.markUnloaded()
	if im.responsible && im.handle != nil {
		h := im.handle
		h.OnError(nil)
		h.OnLoaded(nil)
		h.Assign("")
		im.handle = nil
	}
	im.attached = false
	im.ready = false
	im.textureUploaded = false
}

func (im *Image) afterSeek() {
	if (im.state == Playing || im.state == Paused) && !im.attached {
		im.load()
	}
	if (im.state == Sequenced || im.state == Ended) && im.attached {
		im.unload()
	}
}

func (im *Image) afterAdvance() {
	if im.inPreloadWindow() {
		im.load()
	}
	if im.state == Ended && im.attached {
		im.unload()
	}
}

func (im *Image) shouldUpload() bool { return !im.textureUploaded }

func (im *Image) uploaded() { im.textureUploaded = true }

func (im *Image) stretchChanged() {}
