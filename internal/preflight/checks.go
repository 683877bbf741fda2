package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"stashsweep/internal/stash"
)

// CheckStash verifies that the Stash GraphQL endpoint is reachable and the
// API key is accepted. It uses a 5-second timeout and a single attempt.
func CheckStash(ctx context.Context, baseURL, apiKey string) Result {
	const name = "Stash"

	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return Result{Name: name, Detail: "missing url"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	client, err := stash.New(base, apiKey, stash.WithTimeout(5*time.Second))
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}

	version, err := client.Version(checkCtx)
	if err != nil {
		return Result{Name: name, Detail: summarizeStashError(err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("reachable (version %s)", version)}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
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

// CheckNtfyTopic validates the configured notification endpoint shape without
// publishing. Use "stashsweep test-notify" for an end-to-end delivery test.
func CheckNtfyTopic(topic string) Result {
	const name = "Notifications"

	parsed, err := url.Parse(strings.TrimSpace(topic))
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("invalid ntfy topic url (%v)", err)}
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return Result{Name: name, Detail: "ntfy topic must be an http(s) url"}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("topic configured (%s)", parsed.Host)}
}

// summarizeStashError produces a human-readable summary for connectivity
// check failures.
func summarizeStashError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "version check timed out (host unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "version check timed out (host unreachable)"
	}
	if errors.Is(err, stash.ErrGraphQL) {
		return fmt.Sprintf("host rejected request (%v)", err)
	}
	return err.Error()
}
