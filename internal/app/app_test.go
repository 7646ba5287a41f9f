package app

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/reelgraph/internal/playback"
)

func TestNewConfig(t *testing.T) {
	testCases := []struct {
		name    string
		in      Config
		wantErr string
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name: "defaults fps",
			in:   Config{CompositionPath: "show.hcl"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DefaultFPS, cfg.FPS)
				assert.Equal(t, time.Second/DefaultFPS, cfg.tickInterval())
			},
		},
		{
			name: "keeps explicit values",
			in:   Config{CompositionPath: "show.hcl", FPS: 50, PoolSize: 4, MaxDuration: time.Minute},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 50, cfg.FPS)
				assert.Equal(t, 20*time.Millisecond, cfg.tickInterval())
				assert.Equal(t, 4, cfg.PoolSize)
			},
		},
		{name: "missing path", in: Config{}, wantErr: "CompositionPath is a required"},
		{name: "fps too high", in: Config{CompositionPath: "a", FPS: 5000}, wantErr: "FPS must be between"},
		{name: "negative pool", in: Config{CompositionPath: "a", PoolSize: -2}, wantErr: "PoolSize cannot be negative"},
		{name: "negative duration", in: Config{CompositionPath: "a", MaxDuration: -time.Second}, wantErr: "MaxDuration cannot be negative"},
		{name: "namespace alone", in: Config{CompositionPath: "a", RemoteNamespace: "/x"}, wantErr: "RemoteNamespace requires RemoteURL"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := NewConfig(tc.in)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			tc.check(t, cfg)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger("warn", "json", &buf)
	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "reelgraph", entry["app"])
	assert.Equal(t, "value", entry["key"])

	assert.Equal(t, slog.LevelInfo, parseLevel("bogus"))
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
}

func TestHealthHandler(t *testing.T) {
	a := &App{logger: newLogger("error", "text", &bytes.Buffer{})}
	a.lastState.Store(int32(playback.Stalled))

	rec := httptest.NewRecorder()
	a.healthHandler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, map[string]string{"status": "OK", "state": "stalled"}, body)
}
