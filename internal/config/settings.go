package config

import (
	"trellis.dev/trellis/internal/utils"
)

// Git config keys read as repository-level settings
const (
	KeySquashMergeDetection = "trellis.squashMergeDetection"
	KeyTraverseMerge        = "trellis.traverse.merge"
	KeyTraversePush         = "trellis.traverse.push"
	KeyStatusASCII          = "trellis.status.ascii"
)

// ConfigReader reads a single git config value; a missing key yields ""
type ConfigReader interface {
	ConfigGet(key string) (string, error)
}

// Load builds a RunConfig from repository settings and the environment.
// Flag values override the result in the CLI layer.
func Load(repoRoot, layoutPath string, reader ConfigReader) *RunConfig {
	cfg := &RunConfig{
		RepoRoot:             repoRoot,
		LayoutPath:           layoutPath,
		Interactive:          utils.IsInteractive(),
		SquashMergeDetection: SquashMergeDetectionSimple,
		TraversePush:         true,
	}

	if v, err := reader.ConfigGet(KeySquashMergeDetection); err == nil && v != "" {
		if ValidateSquashMergeDetection(v) == nil {
			cfg.SquashMergeDetection = v
		}
	}
	if v, err := reader.ConfigGet(KeyTraverseMerge); err == nil {
		cfg.TraverseMerge = isTrue(v)
	}
	if v, err := reader.ConfigGet(KeyTraversePush); err == nil && v != "" {
		cfg.TraversePush = isTrue(v)
	}
	if v, err := reader.ConfigGet(KeyStatusASCII); err == nil {
		cfg.ASCII = isTrue(v)
	}

	return cfg
}

func isTrue(value string) bool {
	switch value {
	case "true", "yes", "on", "1":
		return true
	}
	return false
}
