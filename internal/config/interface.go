package config

import "context"

// Loader is the interface for a format-specific composition loader.
type Loader interface {
	// Load reads every composition and definition file under the given
	// paths and merges them into one format-agnostic model.
	Load(ctx context.Context, paths ...string) (*Model, error)
}
