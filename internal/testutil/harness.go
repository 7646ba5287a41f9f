package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/reelgraph/internal/app"
	"github.com/vk/reelgraph/internal/hcl_adapter"
)

// LogsEnv enables dumping the captured log output of every harness run.
const LogsEnv = "REELGRAPH_TEST_LOGS"

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	LogOutput func() string
	Err       error
	App       *app.App
	Dir       string
}

// ConfigOption adjusts the app configuration used by the harness.
type ConfigOption func(*app.Config)

// RunIntegrationTest provides a standardized harness for running integration tests
// using a default background context.
func RunIntegrationTest(t *testing.T, files map[string]string, opts ...ConfigOption) *HarnessResult {
	t.Helper()
	return RunIntegrationTestWithContext(context.Background(), t, files, opts...)
}

// RunIntegrationTestWithContext writes files under a temporary root and
// builds an app from it. Paths in files are relative to the root, so
// "composition/main.hcl" lands in the composition directory and
// "definitions/x.hcl" in the definitions directory.
//
// The app is built but not run; callers drive it with App.Step or App.Run.
func RunIntegrationTestWithContext(ctx context.Context, t *testing.T, files map[string]string, opts ...ConfigOption) *HarnessResult {
	t.Helper()

	tmpDir := t.TempDir()
	compositionDir := filepath.Join(tmpDir, "composition")
	definitionsDir := filepath.Join(tmpDir, "definitions")
	require.NoError(t, os.Mkdir(compositionDir, 0755))
	require.NoError(t, os.Mkdir(definitionsDir, 0755))

	for name, content := range files {
		filePath := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))
	}

	cfg := app.Config{
		CompositionPath: compositionDir,
		DefinitionsPath: definitionsDir,
		LogLevel:        "debug",
		LogFormat:       "text",
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	logBuffer := &SafeBuffer{}
	t.Cleanup(func() {
		if os.Getenv(LogsEnv) == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	appConfig, err := app.NewConfig(cfg)
	if err != nil {
		return &HarnessResult{LogOutput: logBuffer.String, Err: err, Dir: tmpDir}
	}

	var testApp *app.App
	var panicErr any
	func() {
		defer func() {
			if r := recover(); r != nil {
				if os.Getenv(LogsEnv) == "true" {
					t.Logf("--- HARNESS RECOVERED PANIC ---\n%q", fmt.Sprintf("%v", r))
				}
				panicErr = r
			}
		}()
		testApp = app.NewApp(ctx, logBuffer, appConfig, hcl_adapter.NewLoader())
	}()

	if panicErr != nil {
		return &HarnessResult{
			LogOutput: logBuffer.String,
			Err:       fmt.Errorf("application startup panicked | %v", panicErr),
			Dir:       tmpDir,
		}
	}
	return &HarnessResult{LogOutput: logBuffer.String, App: testApp, Dir: tmpDir}
}
