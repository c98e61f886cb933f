package preflight

import (
	"context"

	"platter/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every preflight check for an identification run: disk
// directory access, catalog reachability, reasoning-service health, and the
// ffprobe binary. Results are reported per check rather than failing fast so
// the operator sees everything broken at once.
func RunAll(ctx context.Context, cfg *config.Config, diskDir string) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Disk directory", diskDir),
		CheckCatalog(ctx, cfg),
		CheckReasoning(ctx, cfg),
	}
	results = append(results, CheckTools(cfg)...)
	return results
}

// AllPassed reports whether every check succeeded.
func AllPassed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return false
		}
	}
	return true
}
