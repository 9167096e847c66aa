// Package config holds the per-invocation run configuration and the
// repository-level settings stored in git config under trellis.* keys.
//
// RunConfig is built once in the CLI layer from flags, git config and the
// environment, and threaded explicitly through every core call; nothing in
// the core reads globals.
package config
