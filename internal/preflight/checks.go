package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"platter/internal/catalog"
	"platter/internal/config"
	"platter/internal/deps"
	"platter/internal/reasoning"
)

// CheckDirectoryAccess verifies that the directory exists and is readable,
// writable, and traversable. The pipeline writes its record and lock inside
// the disk directory, so read-only mounts fail here rather than mid-run.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckCatalog verifies the catalog database opens and answers a trivial
// query.
func CheckCatalog(ctx context.Context, cfg *config.Config) Result {
	const name = "Catalog"

	store, err := catalog.Open(cfg)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	defer store.Close()

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := store.Ping(checkCtx); err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{Name: name, Passed: true, Detail: store.Path()}
}

// CheckReasoning verifies that the reasoning API is reachable and the key is
// valid. It uses a 30-second timeout and a single attempt (no retries).
func CheckReasoning(ctx context.Context, cfg *config.Config) Result {
	const name = "Reasoning service"

	if cfg.Reasoning.APIKey == "" {
		return Result{Name: name, Detail: "API key missing"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client := reasoning.NewClient(cfg.Reasoning, reasoning.WithRetryAttempts(0))
	if err := client.HealthCheck(checkCtx); err != nil {
		return Result{Name: name, Detail: summarizeReasoningError(err)}
	}
	return Result{Name: name, Passed: true, Detail: "API reachable"}
}

// CheckTools reports the availability of the external binaries the pipeline
// shells out to.
func CheckTools(cfg *config.Config) []Result {
	statuses := deps.CheckBinaries([]deps.Requirement{
		{
			Name:        "FFprobe",
			Command:     cfg.FFprobeBinary(),
			Description: "Required for media inspection",
		},
	})
	results := make([]Result, 0, len(statuses))
	for _, status := range statuses {
		detail := status.Detail
		if status.Available {
			detail = status.Command
		}
		results = append(results, Result{Name: status.Name, Passed: status.Available, Detail: detail})
	}
	return results
}

// summarizeReasoningError produces a short summary for health check failures.
func summarizeReasoningError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "health check timed out (reasoning API unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "health check timed out (reasoning API unreachable)"
	}
	return err.Error()
}
