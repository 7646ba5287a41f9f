package remote

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/vk/reelgraph/internal/playback"
)

// Kind names a remote command. It doubles as the socket.io event name.
type Kind string

const (
	KindPlay  Kind = "play"
	KindPause Kind = "pause"
	KindSeek  Kind = "seek"
	KindRate  Kind = "rate"
)

// Kinds lists every command the client listens for.
var Kinds = []Kind{KindPlay, KindPause, KindSeek, KindRate}

// ErrDriverBroken is returned by Apply when the driver refuses to change state.
var ErrDriverBroken = errors.New("driver is broken")

// Command is a single transport instruction received from the control server.
// Value holds the target time in seconds for seek and the rate for rate.
type Command struct {
	Kind  Kind
	Value float64
}

func (c Command) String() string {
	switch c.Kind {
	case KindSeek, KindRate:
		return fmt.Sprintf("%s(%g)", c.Kind, c.Value)
	default:
		return string(c.Kind)
	}
}

// parseCommand converts the raw event payload into a Command. Numeric
// arguments may arrive as JSON numbers or as strings.
func parseCommand(kind Kind, args []any) (Command, error) {
	cmd := Command{Kind: kind}
	switch kind {
	case KindPlay, KindPause:
		return cmd, nil
	case KindSeek, KindRate:
		if len(args) == 0 {
			return cmd, fmt.Errorf("%s command requires a numeric argument", kind)
		}
		v, err := toFloat(args[0])
		if err != nil {
			return cmd, fmt.Errorf("invalid %s argument: %w", kind, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return cmd, fmt.Errorf("invalid %s argument: %g is not finite", kind, v)
		}
		cmd.Value = v
		return cmd, nil
	default:
		return cmd, fmt.Errorf("unknown command '%s'", kind)
	}
}

func toFloat(raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case string:
		return strconv.ParseFloat(v, 64)
	default:
		return 0, fmt.Errorf("unsupported type %T", raw)
	}
}

// Apply executes the command on d. It must run on the goroutine that
// advances the driver.
func (c Command) Apply(d *playback.Driver) error {
	switch c.Kind {
	case KindPlay:
		if !d.Play() {
			return ErrDriverBroken
		}
	case KindPause:
		if !d.Pause() {
			return ErrDriverBroken
		}
	case KindSeek:
		if c.Value < 0 {
			return fmt.Errorf("cannot seek to negative time %g", c.Value)
		}
		d.SetCurrentTime(c.Value)
	case KindRate:
		if err := d.SetPlaybackRate(c.Value); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown command '%s'", c.Kind)
	}
	return nil
}

// statusPayload shapes a driver status for the "state" event. An unbounded
// duration is sent as null since JSON has no infinity.
func statusPayload(s playback.Status) map[string]any {
	var duration any
	if !math.IsInf(s.Duration, 0) {
		duration = s.Duration
	}
	return map[string]any{
		"id":            s.ID,
		"state":         s.State.String(),
		"current_time":  s.CurrentTime,
		"duration":      duration,
		"playback_rate": s.PlaybackRate,
		"sources":       s.Sources,
		"processors":    s.Processors,
	}
}
