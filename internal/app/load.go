package app

import (
	"context"
	"fmt"
	"os"

	"github.com/vk/reelgraph/internal/config"
	"github.com/vk/reelgraph/internal/ctxlog"
)

// loadComposition merges the composition and definition paths into one
// model. The composition path must exist; the definitions path is optional.
func loadComposition(ctx context.Context, cfg *Config, loader config.Loader) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading composition...", "composition_path", cfg.CompositionPath, "definitions_path", cfg.DefinitionsPath)

	if _, err := os.Stat(cfg.CompositionPath); err != nil {
		return nil, fmt.Errorf("composition path: %w", err)
	}

	paths := []string{cfg.CompositionPath}
	if cfg.DefinitionsPath != "" {
		paths = append(paths, cfg.DefinitionsPath)
	}
	model, err := loader.Load(ctx, paths...)
	if err != nil {
		return nil, err
	}
	logger.Info("Composition loaded successfully.",
		"definitions", len(model.Definitions),
		"sources", len(model.Sources),
		"processors", len(model.Processors),
	)
	return model, nil
}
