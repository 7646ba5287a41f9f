package playback

import (
	"context"
	"fmt"
	"maps"

	"github.com/vk/reelgraph/internal/graph"
	"github.com/vk/reelgraph/internal/media"
	"github.com/vk/reelgraph/internal/nodeid"
	"github.com/vk/reelgraph/internal/processing"
	"github.com/vk/reelgraph/internal/render"
	"github.com/vk/reelgraph/internal/source"
)

type sourceOptions struct {
	offset     float64
	preload    float64
	rate       float64
	loop       bool
	attributes map[string]string
}

// SourceOption customises a source created by one of the driver factories.
type SourceOption func(*sourceOptions)

// WithSourceOffset starts video playback offset seconds into the media.
func WithSourceOffset(offset float64) SourceOption {
	return func(o *sourceOptions) { o.offset = offset }
}

// WithPreload sets how many seconds ahead of its start the source loads.
func WithPreload(seconds float64) SourceOption {
	return func(o *sourceOptions) { o.preload = seconds }
}

// WithPlaybackRate sets a video's own rate multiplier.
func WithPlaybackRate(rate float64) SourceOption {
	return func(o *sourceOptions) { o.rate = rate }
}

// WithLoop makes a video loop its media.
func WithLoop(loop bool) SourceOption {
	return func(o *sourceOptions) { o.loop = loop }
}

// WithAttributes copies attributes onto the media handle while it is held.
func WithAttributes(attrs map[string]string) SourceOption {
	return func(o *sourceOptions) {
		if o.attributes == nil {
			o.attributes = make(map[string]string, len(attrs))
		}
		maps.Copy(o.attributes, attrs)
	}
}

func collectOptions(opts []SourceOption) sourceOptions {
	o := sourceOptions{preload: source.DefaultPreload, rate: 1}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (d *Driver) sourceTexture(kind string, id nodeid.ID) render.SourceTexture {
	return d.backend.NewSourceTexture(fmt.Sprintf("%s%s", kind, id))
}

// Video creates a video source that borrows a decoder from the media pool.
func (d *Driver) Video(url string, opts ...SourceOption) *source.Video {
	return d.newVideo(url, nil, opts)
}

// VideoFromHandle creates a video source around a handle the caller manages.
func (d *Driver) VideoFromHandle(h media.Handle, opts ...SourceOption) *source.Video {
	return d.newVideo("", h, opts)
}

func (d *Driver) newVideo(url string, h media.Handle, opts []SourceOption) *source.Video {
	o := collectOptions(opts)
	id := d.ids.Next()
	v := source.NewVideo(d.ctx, d.graph, id, d.sourceTexture("VideoNode", id), d.currentTime, source.VideoConfig{
		URL:                url,
		Handle:             h,
		Pool:               d.pool,
		SourceOffset:       o.offset,
		Preload:            o.preload,
		PlaybackRate:       o.rate,
		GlobalPlaybackRate: d.rate,
		Volume:             d.volume,
		Loop:               o.loop,
		Attributes:         o.attributes,
	})
	d.sources = append(d.sources, v.Source)
	d.videos = append(d.videos, v)
	return v
}

// Image creates an image source opened through the driver's opener.
func (d *Driver) Image(url string, opts ...SourceOption) *source.Image {
	return d.newImage(url, nil, opts)
}

// ImageFromHandle creates an image source around a loaded handle the caller
// manages.
func (d *Driver) ImageFromHandle(h media.Handle, opts ...SourceOption) *source.Image {
	return d.newImage("", h, opts)
}

func (d *Driver) newImage(url string, h media.Handle, opts []SourceOption) *source.Image {
	o := collectOptions(opts)
	id := d.ids.Next()
	im := source.NewImage(d.ctx, d.graph, id, d.sourceTexture("ImageNode", id), d.currentTime, source.ImageConfig{
		URL:        url,
		Handle:     h,
		Opener:     d.opener,
		Preload:    o.preload,
		Attributes: o.attributes,
	})
	d.sources = append(d.sources, im.Source)
	return im
}

// Canvas creates a source sampling a surface the caller draws into.
func (d *Driver) Canvas(h media.Handle, opts ...SourceOption) *source.Canvas {
	o := collectOptions(opts)
	id := d.ids.Next()
	c := source.NewCanvas(d.ctx, d.graph, id, d.sourceTexture("CanvasNode", id), d.currentTime, source.CanvasConfig{
		Handle:  h,
		Preload: o.preload,
	})
	d.sources = append(d.sources, c.Source)
	return c
}

// Effect creates a single-output processing node with bounded inputs.
func (d *Driver) Effect(def render.Definition) (*processing.Node, error) {
	return d.addProcessor(processing.NewEffect, def)
}

// Transition creates an effect whose properties can be animated over time.
func (d *Driver) Transition(def render.Definition) (*processing.Node, error) {
	return d.addProcessor(processing.NewTransition, def)
}

// Compositor creates a node that draws every input in z order.
func (d *Driver) Compositor(def render.Definition) (*processing.Node, error) {
	return d.addProcessor(processing.NewCompositor, def)
}

type processorConstructor func(ctx context.Context, g *graph.Graph, id nodeid.ID, backend render.Backend, def render.Definition) (*processing.Node, error)

func (d *Driver) addProcessor(create processorConstructor, def render.Definition) (*processing.Node, error) {
	n, err := create(d.ctx, d.graph, d.ids.Next(), d.backend, def)
	if err != nil {
		return nil, err
	}
	n.Seek(d.currentTime)
	d.processors = append(d.processors, n)
	return n, nil
}
