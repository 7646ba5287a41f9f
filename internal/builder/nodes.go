package builder

import (
	"context"
	"fmt"

	"github.com/vk/reelgraph/internal/config"
	"github.com/vk/reelgraph/internal/ctxlog"
	"github.com/vk/reelgraph/internal/playback"
	"github.com/vk/reelgraph/internal/processing"
	"github.com/vk/reelgraph/internal/source"
)

// createSources performs the first half of node creation: one source node
// per `source` block, sequenced as declared.
func createSources(ctx context.Context, model *config.Model, d *playback.Driver, comp *Composition, canvases CanvasFactory) error {
	logger := ctxlog.FromContext(ctx)

	for _, s := range model.Sources {
		ref := s.Ref()
		if comp.has(ref) {
			return fmt.Errorf("source '%s' is declared more than once", ref)
		}
		logger.Debug("Creating source node.", "ref", ref.String())

		opts := sourceOptions(s)
		var src *source.Source
		switch s.Kind {
		case "video":
			if s.URL == "" {
				return fmt.Errorf("source '%s': url is required", ref)
			}
			src = d.Video(s.URL, opts...).Source
		case "image":
			if s.URL == "" {
				return fmt.Errorf("source '%s': url is required", ref)
			}
			src = d.Image(s.URL, opts...).Source
		case "canvas":
			if canvases == nil {
				return fmt.Errorf("source '%s': no canvas surface available", ref)
			}
			src = d.Canvas(canvases(s.Name), opts...).Source
		default:
			return fmt.Errorf("source '%s': unknown kind '%s', expected video, image or canvas", ref, s.Kind)
		}
		comp.Sources[ref] = src

		if err := sequence(src, s); err != nil {
			return fmt.Errorf("source '%s': %w", ref, err)
		}
	}
	return nil
}

func sourceOptions(s *config.Source) []playback.SourceOption {
	var opts []playback.SourceOption
	if s.Offset != nil {
		opts = append(opts, playback.WithSourceOffset(*s.Offset))
	}
	if s.Preload != nil {
		opts = append(opts, playback.WithPreload(*s.Preload))
	}
	if s.Rate != nil {
		opts = append(opts, playback.WithPlaybackRate(*s.Rate))
	}
	if s.Loop {
		opts = append(opts, playback.WithLoop(true))
	}
	if len(s.Attributes) > 0 {
		opts = append(opts, playback.WithAttributes(s.Attributes))
	}
	return opts
}

// sequence applies the block's absolute start and stop times.
func sequence(src *source.Source, s *config.Source) error {
	if s.Start == nil {
		if s.Stop != nil {
			return fmt.Errorf("stop requires a start time")
		}
		return nil
	}
	if !src.StartAt(*s.Start) {
		return fmt.Errorf("cannot start at %g", *s.Start)
	}
	if s.Stop != nil && !src.StopAt(*s.Stop) {
		return fmt.Errorf("stop %g must be after start %g", *s.Stop, *s.Start)
	}
	return nil
}

// createProcessors performs the second half of node creation.
func createProcessors(ctx context.Context, model *config.Model, d *playback.Driver, comp *Composition) error {
	logger := ctxlog.FromContext(ctx)

	for _, p := range model.Processors {
		ref := p.Ref()
		if comp.has(ref) {
			return fmt.Errorf("processor '%s' is declared more than once", ref)
		}
		def, ok := model.Definitions[p.Definition]
		if !ok {
			return fmt.Errorf("processor '%s' uses unknown definition '%s'", ref, p.Definition)
		}
		logger.Debug("Creating processor node.", "ref", ref.String(), "definition", p.Definition)

		var (
			n   *processing.Node
			err error
		)
		switch p.Kind {
		case "effect":
			n, err = d.Effect(def.RenderDefinition())
		case "transition":
			n, err = d.Transition(def.RenderDefinition())
		case "compositor":
			n, err = d.Compositor(def.RenderDefinition())
		default:
			return fmt.Errorf("processor '%s': unknown kind '%s', expected effect, transition or compositor", ref, p.Kind)
		}
		if err != nil {
			return fmt.Errorf("processor '%s': %w", ref, err)
		}
		comp.Processors[ref] = n

		for name, v := range p.Properties {
			if err := n.SetProperty(name, v); err != nil {
				return fmt.Errorf("processor '%s': %w", ref, err)
			}
		}
		for _, t := range p.Transitions {
			if err := n.Transition(t.Start, t.End, t.From, t.To, t.Property); err != nil {
				return fmt.Errorf("processor '%s': %w", ref, err)
			}
		}
	}
	return nil
}
