package builder

import (
	"context"

	"github.com/vk/reelgraph/internal/config"
	"github.com/vk/reelgraph/internal/ctxlog"
	"github.com/vk/reelgraph/internal/playback"
)

// registerCues turns every cue into a timeline callback on d.
func registerCues(ctx context.Context, cues []*config.Cue, d *playback.Driver, comp *Composition) {
	logger := ctxlog.FromContext(ctx)

	for _, cue := range cues {
		cueLogger := logger.With("cue", cue.Name, "time", cue.Time)
		var fn func()
		switch cue.Action {
		case config.CuePause:
			fn = func() {
				cueLogger.Info("⏸️ Cue paused playback.")
				d.Pause()
			}
		case config.CuePlay:
			fn = func() {
				cueLogger.Info("▶️ Cue resumed playback.")
				d.Play()
			}
		case config.CueSeek:
			fn = func() {
				cueLogger.Info("⏩ Cue seeking.", "to", cue.SeekTo)
				d.SetCurrentTime(cue.SeekTo)
			}
		default:
			fn = func() {
				cueLogger.Info("🎬 Cue reached.", "current_time", d.CurrentTime())
			}
		}
		comp.Cues[cue.Name] = d.RegisterTimelineCallback(cue.Time, fn, cue.Ordering)
		cueLogger.Debug("Cue registered.", "action", string(cue.Action), "ordering", cue.Ordering)
	}
}
