package validation

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"paintly_backend/core"
)

// CheckResult is the outcome of a single preflight check.
type CheckResult struct {
	Passed  bool
	Warning bool
	Message string
	Error   error
}

// CheckProviderKeys verifies at least one provider credential is present.
// A single missing key is a warning: that provider registers disabled.
func CheckProviderKeys(cfg *core.Config) CheckResult {
	switch {
	case cfg.FalAPIKey == "" && cfg.GeminiAPIKey == "":
		return CheckResult{
			Message: "no provider API keys configured",
			Error:   fmt.Errorf("set FAL_KEY and/or GEMINI_API_KEY"),
		}
	case cfg.FalAPIKey == "":
		return CheckResult{Passed: true, Warning: true,
			Message: "FAL_KEY missing, fal-ai provider will be unavailable"}
	case cfg.GeminiAPIKey == "":
		return CheckResult{Passed: true, Warning: true,
			Message: "GEMINI_API_KEY missing, gemini provider will be unavailable"}
	default:
		return CheckResult{Passed: true, Message: "both providers configured"}
	}
}

// CheckEndpoints validates the provider endpoint URLs.
func CheckEndpoints(cfg *core.Config) CheckResult {
	u, err := url.Parse(cfg.FalEndpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return CheckResult{
			Message: fmt.Sprintf("invalid Fal endpoint %q", cfg.FalEndpoint),
			Error:   fmt.Errorf("FAL_ENDPOINT must be an absolute http(s) URL"),
		}
	}
	if u.Scheme != "https" {
		return CheckResult{Passed: true, Warning: true,
			Message: fmt.Sprintf("Fal endpoint %s is not https", cfg.FalEndpoint)}
	}
	return CheckResult{Passed: true, Message: cfg.FalEndpoint}
}

// CheckDataDirectory verifies the database location is writable.
func CheckDataDirectory(cfg *core.Config) CheckResult {
	dir := filepath.Dir(cfg.DatabasePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return CheckResult{
			Message: fmt.Sprintf("cannot create data directory %s", dir),
			Error:   err,
		}
	}
	probe := filepath.Join(dir, ".paintly-write-check")
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		return CheckResult{
			Message: fmt.Sprintf("data directory %s is not writable", dir),
			Error:   err,
		}
	}
	_ = os.Remove(probe)
	return CheckResult{Passed: true, Message: dir}
}

// CheckMigrations verifies the migrations directory exists and contains
// SQL files.
func CheckMigrations(cfg *core.Config) CheckResult {
	path := strings.TrimPrefix(cfg.MigrationsPath, "file://")
	entries, err := os.ReadDir(path)
	if err != nil {
		return CheckResult{
			Message: fmt.Sprintf("migrations directory %s unreadable", path),
			Error:   err,
		}
	}
	count := 0
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".sql") {
			count++
		}
	}
	if count == 0 {
		return CheckResult{
			Message: fmt.Sprintf("no .sql files in %s", path),
			Error:   fmt.Errorf("migrations directory is empty"),
		}
	}
	return CheckResult{Passed: true, Message: fmt.Sprintf("%d migration files", count)}
}

// CheckAdminAuth reports whether the admin surface is enabled. A missing
// hash is a warning, not an error: the server runs with admin endpoints
// disabled.
func CheckAdminAuth(cfg *core.Config) CheckResult {
	if cfg.AdminPasswordHash == "" {
		return CheckResult{Passed: true, Warning: true,
			Message: "PAINTLY_ADMIN_PASSWORD_HASH not set, admin endpoints disabled"}
	}
	if !strings.HasPrefix(cfg.AdminPasswordHash, "$2") {
		return CheckResult{
			Message: "PAINTLY_ADMIN_PASSWORD_HASH is not a bcrypt hash",
			Error:   fmt.Errorf("generate one with bcrypt before starting"),
		}
	}
	return CheckResult{Passed: true, Message: "admin endpoints enabled"}
}

// CheckConnectivity probes the Fal endpoint. Any HTTP response counts as
// reachable; only transport failures fail the check.
func CheckConnectivity(cfg *core.Config, timeout time.Duration) CheckResult {
	client := &http.Client{Timeout: timeout}
	start := time.Now()
	resp, err := client.Head(cfg.FalEndpoint)
	if err != nil {
		return CheckResult{
			Message: "provider endpoint unreachable",
			Error:   err,
		}
	}
	_ = resp.Body.Close()
	return CheckResult{Passed: true,
		Message: fmt.Sprintf("reachable (latency: %v)", time.Since(start).Round(time.Millisecond))}
}
