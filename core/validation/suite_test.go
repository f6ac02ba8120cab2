package validation

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"paintly_backend/core"
)

func testConfig(t *testing.T) *core.Config {
	t.Helper()
	dir := t.TempDir()
	migrations := filepath.Join(dir, "migrations")
	if err := os.MkdirAll(migrations, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(migrations, "0001_init.up.sql"), []byte("-- noop"), 0o644); err != nil {
		t.Fatalf("write migration: %v", err)
	}
	return &core.Config{
		FalAPIKey:         "test-key",
		GeminiAPIKey:      "test-key",
		FalEndpoint:       "https://fal.run",
		DatabasePath:      filepath.Join(dir, "paintly.db"),
		MigrationsPath:    "file://" + migrations,
		AdminPasswordHash: "$2a$10$abcdefghijklmnopqrstuvwxyz012345678901234567890123456",
	}
}

func TestSuitePasses(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer
	result := NewSuite(cfg).WithOutput(&out).WithSkipNetwork(true).Run()

	if !result.Success {
		t.Fatalf("suite failed: %v", result.FirstError())
	}
	if result.Failed != 0 {
		t.Errorf("failed = %d", result.Failed)
	}
	if !strings.Contains(out.String(), "Paintly Startup Checks") {
		t.Error("output missing header")
	}
}

func TestSuiteFailsWithoutKeys(t *testing.T) {
	cfg := testConfig(t)
	cfg.FalAPIKey = ""
	cfg.GeminiAPIKey = ""

	result := NewSuite(cfg).WithShowProgress(false).WithSkipNetwork(true).Run()
	if result.Success {
		t.Fatal("suite passed with no provider keys")
	}
	if result.FirstError() == nil {
		t.Error("missing error for failed step")
	}
}

func TestSuiteSkipsConnectivityOnConfigFailure(t *testing.T) {
	cfg := testConfig(t)
	cfg.FalEndpoint = "not-a-url"

	result := NewSuite(cfg).WithShowProgress(false).Run()
	last := result.Steps[len(result.Steps)-1]
	if last.Name != "Provider Connectivity" || last.Status != StepSkipped {
		t.Errorf("last step = %+v, want skipped connectivity", last)
	}
}

func TestCheckProviderKeysSingleKeyWarns(t *testing.T) {
	cfg := testConfig(t)
	cfg.GeminiAPIKey = ""

	res := CheckProviderKeys(cfg)
	if !res.Passed || !res.Warning {
		t.Errorf("single key: passed=%v warning=%v", res.Passed, res.Warning)
	}

	result := NewSuite(cfg).WithShowProgress(false).WithSkipNetwork(true).Run()
	if !result.Success || result.Warnings == 0 {
		t.Errorf("suite success=%v warnings=%d", result.Success, result.Warnings)
	}
}

func TestCheckDataDirectoryUnwritable(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}
	cfg := testConfig(t)
	readonly := filepath.Join(t.TempDir(), "ro")
	if err := os.MkdirAll(readonly, 0o555); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	cfg.DatabasePath = filepath.Join(readonly, "paintly.db")

	if res := CheckDataDirectory(cfg); res.Passed {
		t.Error("expected failure for read-only directory")
	}
}

func TestCheckMigrationsEmptyDir(t *testing.T) {
	cfg := testConfig(t)
	cfg.MigrationsPath = "file://" + t.TempDir()

	if res := CheckMigrations(cfg); res.Passed {
		t.Error("expected failure for empty migrations directory")
	}
}

func TestCheckAdminAuth(t *testing.T) {
	cfg := testConfig(t)

	cfg.AdminPasswordHash = ""
	if res := CheckAdminAuth(cfg); !res.Passed || !res.Warning {
		t.Errorf("empty hash: %+v", res)
	}

	cfg.AdminPasswordHash = "plaintext-password"
	if res := CheckAdminAuth(cfg); res.Passed {
		t.Error("plaintext hash accepted")
	}
}
