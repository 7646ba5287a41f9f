package builder

import (
	"context"
	"fmt"

	"github.com/vk/reelgraph/internal/config"
	"github.com/vk/reelgraph/internal/ctxlog"
	"github.com/vk/reelgraph/internal/graph"
	"github.com/vk/reelgraph/internal/playback"
)

// Build creates every node, connection and cue of model on d.
func Build(ctx context.Context, model *config.Model, d *playback.Driver, canvases CanvasFactory) (*Composition, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: Starting composition construction.")
	comp := newComposition(d)

	// First pass: create all source and processor nodes.
	if err := createSources(ctx, model, d, comp, canvases); err != nil {
		return nil, err
	}
	if err := createProcessors(ctx, model, d, comp); err != nil {
		return nil, err
	}
	logger.Debug("Build: Node creation complete.", "sources", len(comp.Sources), "processors", len(comp.Processors))

	// Second pass: link nodes.
	if err := linkNodes(ctx, model, comp); err != nil {
		return nil, err
	}
	logger.Debug("Build: Node linking complete.", "connections", d.Graph().Len())

	// Final validation: cycle detection.
	if _, err := graph.TopologicalOrder(d.Graph().Snapshot()); err != nil {
		return nil, fmt.Errorf("error validating composition graph: %w", err)
	}
	logger.Debug("Build: Cycle detection passed.")

	if err := applyTimeline(model.Timeline, d); err != nil {
		return nil, err
	}
	registerCues(ctx, model.Cues, d, comp)

	logger.Info("Build: Composition construction successful.")
	return comp, nil
}

func applyTimeline(t *config.Timeline, d *playback.Driver) error {
	if t == nil {
		return nil
	}
	if err := d.SetPlaybackRate(t.PlaybackRate); err != nil {
		return fmt.Errorf("in timeline: %w", err)
	}
	d.SetVolume(t.Volume)
	return nil
}
