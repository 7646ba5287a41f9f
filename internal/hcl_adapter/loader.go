package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/reelgraph/internal/config"
	"github.com/vk/reelgraph/internal/ctxlog"
	"github.com/vk/reelgraph/internal/fsutil"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a new HCL composition loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load orchestrates the entire HCL loading process. It is agnostic to the
// origin of the paths and parses any valid block from any file, so
// definitions can live next to the composition or in a directory of their own.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	model := config.NewModel()

	hclFiles, err := fsutil.FindFilesByExtension(paths, ".hcl")
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(hclFiles))

	parser := hclparse.NewParser()
	timelineFile := ""
	definitionFiles := make(map[string]string)

	for _, file := range hclFiles {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		// Translate and merge all discovered blocks into the model.
		if root.Timeline != nil {
			if timelineFile != "" {
				return nil, fmt.Errorf("timeline block in %s already declared in %s", file, timelineFile)
			}
			t, err := l.translateTimeline(ctx, root.Timeline)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", file, err)
			}
			model.Timeline = t
			timelineFile = file
		}
		for _, def := range root.Definitions {
			if prev, exists := definitionFiles[def.Name]; exists {
				return nil, fmt.Errorf("definition '%s' in %s already declared in %s", def.Name, file, prev)
			}
			d, err := l.translateDefinition(def)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", file, err)
			}
			model.Definitions[d.Name] = d
			definitionFiles[d.Name] = file
		}
		for _, src := range root.Sources {
			s, err := l.translateSource(ctx, src)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", file, err)
			}
			model.Sources = append(model.Sources, s)
		}
		for _, proc := range root.Processors {
			p, err := l.translateProcessor(ctx, proc)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", file, err)
			}
			model.Processors = append(model.Processors, p)
		}
		for i, conn := range root.Connects {
			c, err := l.translateConnect(ctx, conn, i)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", file, err)
			}
			model.Connections = append(model.Connections, c)
		}
		for _, cue := range root.Cues {
			c, err := l.translateCue(cue)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", file, err)
			}
			model.Cues = append(model.Cues, c)
		}
	}

	logger.Debug("HCL loading complete.",
		"definitions", len(model.Definitions),
		"sources", len(model.Sources),
		"processors", len(model.Processors),
		"connections", len(model.Connections),
		"cues", len(model.Cues),
	)
	return model, nil
}
