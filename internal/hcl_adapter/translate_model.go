// This file contains the logic for translating HCL schema structs into the
// format-agnostic composition model defined in the config package.

package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/reelgraph/internal/config"
	"github.com/vk/reelgraph/internal/ctxlog"
	"github.com/vk/reelgraph/internal/nodeid"
	"github.com/vk/reelgraph/internal/render"
)

// translateTimeline applies a `timeline` block on top of the defaults.
func (l *Loader) translateTimeline(ctx context.Context, s *Timeline) (*config.Timeline, error) {
	t := config.DefaultTimeline()
	if _, err := decodeOptional(ctx, s.EndOnLastSourceEnd, "end_on_last_source_end", &t.EndOnLastSourceEnd); err != nil {
		return nil, fmt.Errorf("in timeline: %w", err)
	}
	if _, err := decodeOptional(ctx, s.PlaybackRate, "playback_rate", &t.PlaybackRate); err != nil {
		return nil, fmt.Errorf("in timeline: %w", err)
	}
	if _, err := decodeOptional(ctx, s.Volume, "volume", &t.Volume); err != nil {
		return nil, fmt.Errorf("in timeline: %w", err)
	}
	if s.PoolSize < 0 {
		return nil, fmt.Errorf("in timeline: pool_size must not be negative, got %d", s.PoolSize)
	}
	t.PoolSize = s.PoolSize
	return t, nil
}

// translateDefinition converts the HCL-specific definition schema into the agnostic model.
func (l *Loader) translateDefinition(s *Definition) (*config.Definition, error) {
	d := &config.Definition{
		Name:           s.Name,
		Title:          s.Title,
		Description:    s.Description,
		VertexShader:   s.VertexShader,
		FragmentShader: s.FragmentShader,
		Inputs:         s.Inputs,
	}
	if len(s.Properties) > 0 {
		d.Properties = make(map[string]render.Value, len(s.Properties))
	}
	for _, p := range s.Properties {
		if _, exists := d.Properties[p.Name]; exists {
			return nil, fmt.Errorf("in definition '%s': property '%s' declared twice", s.Name, p.Name)
		}
		v, err := ctyToValue(p.Value)
		if err != nil {
			return nil, fmt.Errorf("in definition '%s', property '%s': %w", s.Name, p.Name, err)
		}
		d.Properties[p.Name] = v
	}
	return d, nil
}

// translateSource converts the HCL-specific source schema into the agnostic model.
func (l *Loader) translateSource(ctx context.Context, s *Source) (*config.Source, error) {
	logger := ctxlog.FromContext(ctx).With("source_kind", s.Kind, "source_name", s.Name)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Translating HCL source to internal config model.")

	src := &config.Source{
		Kind:       s.Kind,
		Name:       s.Name,
		URL:        s.URL,
		Loop:       s.Loop,
		Attributes: s.Attributes,
	}
	numbers := []struct {
		name   string
		expr   hcl.Expression
		target **float64
	}{
		{"start", s.Start, &src.Start},
		{"stop", s.Stop, &src.Stop},
		{"offset", s.Offset, &src.Offset},
		{"preload", s.Preload, &src.Preload},
		{"rate", s.Rate, &src.Rate},
	}
	for _, n := range numbers {
		v, err := optionalNumber(ctx, n.expr, n.name)
		if err != nil {
			return nil, fmt.Errorf("in source '%s.%s': %w", s.Kind, s.Name, err)
		}
		*n.target = v
	}
	return src, nil
}

// translateProcessor converts the HCL-specific processor schema into the agnostic model.
func (l *Loader) translateProcessor(ctx context.Context, s *Processor) (*config.Processor, error) {
	p := &config.Processor{
		Kind:       s.Kind,
		Name:       s.Name,
		Definition: s.Definition,
	}
	if isExprDefined(ctx, s.Properties, "properties") {
		val, diags := s.Properties.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("in processor '%s.%s': invalid properties: %w", s.Kind, s.Name, diags)
		}
		props, err := ctyToProperties(val)
		if err != nil {
			return nil, fmt.Errorf("in processor '%s.%s': %w", s.Kind, s.Name, err)
		}
		p.Properties = props
	}
	for _, t := range s.Transitions {
		from, err := ctyToValue(t.From)
		if err != nil {
			return nil, fmt.Errorf("in processor '%s.%s', transition '%s': from: %w", s.Kind, s.Name, t.Property, err)
		}
		to, err := ctyToValue(t.To)
		if err != nil {
			return nil, fmt.Errorf("in processor '%s.%s', transition '%s': to: %w", s.Kind, s.Name, t.Property, err)
		}
		p.Transitions = append(p.Transitions, &config.Transition{
			Property: t.Property,
			Start:    t.Start,
			End:      t.End,
			From:     from,
			To:       to,
		})
	}
	return p, nil
}

// translateConnect converts the HCL-specific connect schema into the agnostic
// model. index is the block's position in its file and only used in errors.
func (l *Loader) translateConnect(ctx context.Context, s *Connect, index int) (*config.Connection, error) {
	fail := func(err error) error {
		return fmt.Errorf("in connect #%d (%s -> %s): %w", index, s.From, s.To, err)
	}
	from, err := nodeid.ParseRef(s.From)
	if err != nil {
		return nil, fail(err)
	}
	to, err := nodeid.ParseRef(s.To)
	if err != nil {
		return nil, fail(err)
	}
	if from.IsDestination() {
		return nil, fail(fmt.Errorf("the destination has no output"))
	}

	c := &config.Connection{From: from, To: to, Port: s.Port}
	var z int
	ok, err := decodeOptional(ctx, s.ZIndex, "z_index", &z)
	if err != nil {
		return nil, fail(err)
	}
	if ok {
		if c.Port != "" {
			return nil, fail(fmt.Errorf("port and z_index are mutually exclusive"))
		}
		c.ZIndex = &z
	}
	return c, nil
}

// translateCue converts the HCL-specific cue schema into the agnostic model.
func (l *Loader) translateCue(s *Cue) (*config.Cue, error) {
	action := config.CueAction(s.Action)
	if action == "" {
		action = config.CueLog
	}
	if !action.Valid() {
		return nil, fmt.Errorf("in cue '%s': unknown action %q", s.Name, s.Action)
	}
	return &config.Cue{
		Name:     s.Name,
		Time:     s.Time,
		Ordering: s.Ordering,
		Action:   action,
		SeekTo:   s.SeekTo,
	}, nil
}
