package builder

import (
	"context"
	"fmt"

	"github.com/vk/reelgraph/internal/config"
	"github.com/vk/reelgraph/internal/ctxlog"
	"github.com/vk/reelgraph/internal/graph"
	"github.com/vk/reelgraph/internal/node"
)

// connector is a node that can feed another one.
type connector interface {
	node.Node
	Connect(target node.Node, t graph.Target) error
}

// linkNodes registers every `connect` block in declaration order, so default
// z-indices follow the order of the file.
func linkNodes(ctx context.Context, model *config.Model, comp *Composition) error {
	logger := ctxlog.FromContext(ctx)

	for _, c := range model.Connections {
		from, ok := comp.Node(c.From)
		if !ok {
			return fmt.Errorf("connect %s -> %s: unknown node '%s'", c.From, c.To, c.From)
		}
		to, ok := comp.Node(c.To)
		if !ok {
			return fmt.Errorf("connect %s -> %s: unknown node '%s'", c.From, c.To, c.To)
		}
		producer, ok := from.(connector)
		if !ok {
			return fmt.Errorf("connect %s -> %s: '%s' has no output", c.From, c.To, c.From)
		}

		target := graph.Next()
		switch {
		case c.Port != "":
			target = graph.Port(c.Port)
		case c.ZIndex != nil:
			target = graph.ZIndex(*c.ZIndex)
		}
		logger.Debug("Linking nodes.", "from", c.From.String(), "to", c.To.String(), "target", target.String())
		if err := producer.Connect(to, target); err != nil {
			return fmt.Errorf("connect %s -> %s: %w", c.From, c.To, err)
		}
	}
	return nil
}
