package preflight

import (
	"context"

	"opensynth/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string `json:"name"`
	Passed   bool   `json:"passed"`
	Optional bool   `json:"optional,omitempty"`
	Detail   string `json:"detail"`
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	if cfg.UsesHTTPSource() {
		results = append(results, CheckHTTPSource(ctx, cfg.Source.BaseURL, cfg.IndexLocator()))
	} else {
		results = append(results,
			CheckReadableDirectory("Data directory", cfg.Paths.DataDir),
			CheckReadableFile("Index file", cfg.IndexPath()),
		)
	}
	results = append(results,
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckBinary("Structure renderer", cfg.Render.Command, true),
	)
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}
