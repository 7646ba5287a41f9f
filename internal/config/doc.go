// Package config defines the format-agnostic composition model, along with
// the Loader interface implemented by concrete file formats.
//
// The `config.Model` is the single source of truth for the `builder`
// package, which turns it into nodes, connections and cues on a playback
// driver. The HCL implementation lives in `hcl_adapter`.
package config
