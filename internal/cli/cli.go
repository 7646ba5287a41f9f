package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/vk/reelgraph/internal/app"
)

const usageHeader = `
reelgraph - plays a composition of media sources and processing nodes on a shared timeline.

Usage:
  reelgraph [options] [COMPOSITION_PATH]

Arguments:
  COMPOSITION_PATH
    Path to a single .hcl file or a directory containing .hcl files.

Options:
`

var (
	logFormats = []string{"text", "json"}
	logLevels  = []string{"debug", "info", "warn", "error"}
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) *ExitError {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

type flags struct {
	composition     string
	c               string
	definitions     string
	healthcheckPort int
	logFormat       string
	logLevel        string
	fps             int
	poolSize        int
	maxDuration     time.Duration
	remoteURL       string
	remoteNamespace string
}

func (f *flags) bind(fs *flag.FlagSet) {
	fs.StringVar(&f.composition, "composition", "", "Path to the composition file or directory.")
	fs.StringVar(&f.c, "c", "", "Path to the composition file or directory (shorthand).")
	fs.StringVar(&f.definitions, "definitions-path", "definitions", "Path to the directory containing shared definitions.")
	fs.IntVar(&f.healthcheckPort, "healthcheck-port", 0, "Port for the HTTP health check server. 0 is disabled.")
	fs.StringVar(&f.logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")
	fs.StringVar(&f.logLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	fs.IntVar(&f.fps, "fps", app.DefaultFPS, "Ticks per second of the playback clock.")
	fs.IntVar(&f.poolSize, "pool-size", 0, "Number of media decoder handles to preallocate. 0 uses the timeline setting.")
	fs.DurationVar(&f.maxDuration, "max-duration", 0, "Stop after this much wall time, e.g. '30s'. 0 runs until the timeline ends.")
	fs.StringVar(&f.remoteURL, "remote-url", "", "socket.io control server URL. Empty disables remote control.")
	fs.StringVar(&f.remoteNamespace, "remote-namespace", "", "socket.io namespace on the control server.")
}

// compositionPath picks the long flag, then the shorthand, then the first
// positional argument.
func (f *flags) compositionPath(fs *flag.FlagSet) string {
	switch {
	case f.composition != "":
		return f.composition
	case f.c != "":
		return f.c
	default:
		return fs.Arg(0)
	}
}

func (f *flags) validate() error {
	f.logFormat = strings.ToLower(f.logFormat)
	if !slices.Contains(logFormats, f.logFormat) {
		return usageError("invalid log-format: must be 'text' or 'json'")
	}
	f.logLevel = strings.ToLower(f.logLevel)
	if !slices.Contains(logLevels, f.logLevel) {
		return usageError("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}
	if f.fps <= 0 {
		return usageError("invalid fps: must be greater than 0")
	}
	return nil
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	fs := flag.NewFlagSet("reelgraph", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprint(output, usageHeader)
		fs.PrintDefaults()
	}

	var f flags
	f.bind(fs)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, usageError("%s", err.Error())
	}

	path := f.compositionPath(fs)
	if path == "" {
		slog.Debug("No composition path provided, printing usage and exiting.")
		fs.Usage()
		return nil, true, nil
	}
	if err := f.validate(); err != nil {
		return nil, false, err
	}

	config, err := app.NewConfig(app.Config{
		CompositionPath: path,
		DefinitionsPath: f.definitions,
		HealthcheckPort: f.healthcheckPort,
		LogFormat:       f.logFormat,
		LogLevel:        f.logLevel,
		FPS:             f.fps,
		PoolSize:        f.poolSize,
		MaxDuration:     f.maxDuration,
		RemoteURL:       f.remoteURL,
		RemoteNamespace: f.remoteNamespace,
	})
	if err != nil {
		return nil, false, usageError("%s", err.Error())
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
