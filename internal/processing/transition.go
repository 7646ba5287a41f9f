package processing

import (
	"errors"
	"fmt"
	"slices"

	"github.com/vk/reelgraph/internal/render"
)

var (
	// ErrNotTransition is returned when transitions are scheduled on a node
	// that is not a transition.
	ErrNotTransition = errors.New("node does not support transitions")
	// ErrTransitionOverlap is returned when a new transition overlaps one
	// already scheduled for the same property.
	ErrTransitionOverlap = errors.New("transitions on the same property cannot overlap")
	// ErrTransitionShape is returned when transition values do not match the
	// animated property's kind and arity, or the property is a resource.
	ErrTransitionShape = errors.New("transition values do not match the property")
)

// DefaultTransitionProperty is the property Transition animates when callers
// do not name one.
const DefaultTransitionProperty = "mix"

type propertyTransition struct {
	start, end float64
	current    render.Value
	target     render.Value
}

// Transition animates property from current to target between start and end.
// Both values must have the property's current shape and resource properties
// cannot be animated.
func (n *Node) Transition(start, end float64, current, target render.Value, property string) error {
	if n.kind != Transition {
		return fmt.Errorf("%s %q: %w", n.kind, n.def.Title, ErrNotTransition)
	}
	if property == "" {
		property = DefaultTransitionProperty
	}
	existing, ok := n.properties[property]
	if !ok {
		return fmt.Errorf("%s %q: %w %q", n.kind, n.def.Title, ErrUnknownProperty, property)
	}
	if existing.Kind() == render.KindResource {
		return fmt.Errorf("transition of resource %q: %w", property, ErrTransitionShape)
	}
	if !existing.SameShape(current) || !existing.SameShape(target) {
		return fmt.Errorf("transition of %q from %s to %s: %w", property, current.Kind(), target.Kind(), ErrTransitionShape)
	}
	if end <= start {
		return fmt.Errorf("transition of %q ends at %g before it starts at %g", property, end, start)
	}
	if _, err := render.Lerp(current, target, 0); err != nil {
		return fmt.Errorf("transition of %q: %w", property, err)
	}
	for _, t := range n.transitions[property] {
		if start < t.end && t.start < end {
			return fmt.Errorf("transition of %q [%g, %g]: %w", property, start, end, ErrTransitionOverlap)
		}
	}

	list := append(n.transitions[property], propertyTransition{start: start, end: end, current: current, target: target})
	slices.SortFunc(list, func(a, b propertyTransition) int {
		switch {
		case a.start < b.start:
			return -1
		case a.start > b.start:
			return 1
		default:
			return 0
		}
	})
	n.transitions[property] = list
	return nil
}

// ClearTransitions drops every scheduled transition of property, or of every
// property when property is empty.
func (n *Node) ClearTransitions(property string) {
	if n.transitions == nil {
		return
	}
	if property == "" {
		clear(n.transitions)
		return
	}
	delete(n.transitions, property)
}

// ClearTransition drops the transition of property that is scheduled at time.
func (n *Node) ClearTransition(property string, time float64) bool {
	list := n.transitions[property]
	for i, t := range list {
		if time >= t.start && time <= t.end {
			n.transitions[property] = slices.Delete(list, i, i+1)
			return true
		}
	}
	return false
}

// applyTransitions sets every animated property from the node's clock. Before
// the first transition the property holds that transition's start value, after
// the last one it holds the last target.
func (n *Node) applyTransitions() {
	for property, list := range n.transitions {
		if len(list) == 0 {
			continue
		}
		value := list[0].current
		for _, t := range list {
			if n.currentTime >= t.end {
				value = t.target
				continue
			}
			if n.currentTime > t.start {
				progress := (n.currentTime - t.start) / (t.end - t.start)
				v, err := render.Lerp(t.current, t.target, progress)
				if err != nil {
					n.Logger().Warn("Failed to interpolate property.", "property", property, "error", err)
					break
				}
				value = v
			}
			break
		}
		n.properties[property] = value
	}
}
