package e2e

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestEndToEndWorkflow(t *testing.T) {
	// 1. Setup Environment
	// Allow overriding bin dir via env var, default to ../../bin (relative to tests/e2e)
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get cwd: %v", err)
	}

	binDir := os.Getenv("WTH_BIN_DIR")
	if binDir == "" {
		binDir = filepath.Join(cwd, "..", "..", "bin")
	}
	binDir, _ = filepath.Abs(binDir)
	t.Logf("Using bin dir: %s", binDir)

	cliPath := filepath.Join(binDir, "wth")
	if _, err := os.Stat(cliPath); os.IsNotExist(err) {
		t.Fatalf("CLI binary not found at %s. Please build it first.", cliPath)
	}

	// Create temp home for isolation
	tempDir := t.TempDir()
	t.Logf("Running test in temp dir: %s", tempDir)

	var cleanEnv []string
	for _, e := range os.Environ() {
		if strings.HasPrefix(e, "XDG_CONFIG_HOME=") || strings.HasPrefix(e, "HOME=") || strings.HasPrefix(e, "WTH_") {
			continue
		}
		cleanEnv = append(cleanEnv, e)
	}
	dbPath := filepath.Join(tempDir, "wth", "wth.db")
	cleanEnv = append(cleanEnv,
		fmt.Sprintf("XDG_CONFIG_HOME=%s", tempDir),
		fmt.Sprintf("HOME=%s", tempDir),
		fmt.Sprintf("WTH_CONFIG=%s", dbPath),
		fmt.Sprintf("WTH_CATALOG=%s", filepath.Join(tempDir, "wth", "partners.yaml")),
		"WTH_TIER=Freshman",
	)

	// 2. Initialize CLI
	t.Log("Initializing CLI...")
	runCmd(t, cliPath, cleanEnv, "init")
	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("database not created: %v", err)
	}
	runCmd(t, cliPath, cleanEnv, "settings", "--timezone=UTC", "--waking-start=0", "--notifications-enabled=false")

	// 3. Check in for an earlier hour today
	now := time.Now().UTC()
	if now.Hour() == 0 {
		t.Skip("no earlier hour to log just after midnight UTC")
	}
	hour := fmt.Sprintf("%d", now.Hour()-1)
	runCmd(t, cliPath, cleanEnv, "log", "win", "--hour", hour, "write the report")
	out := runCmd(t, cliPath, cleanEnv, "log", "loss", "--hour", hour, "--overwrite", "doomscrolling", "4")
	if !strings.Contains(out, "✓") {
		t.Errorf("log loss output = %q", out)
	}

	// Logging the same hour again needs --overwrite
	failCmd(t, cliPath, cleanEnv, "log", "win", "--hour", hour, "again")

	out = runCmd(t, cliPath, cleanEnv, "today")
	if !strings.Contains(out, "doomscrolling") {
		t.Errorf("today output missing the loss reason:\n%s", out)
	}

	// 4. Priorities and unavailable hours
	runCmd(t, cliPath, cleanEnv, "mybed", "set", "1", "Move")
	out = runCmd(t, cliPath, cleanEnv, "mybed", "show")
	if !strings.Contains(out, "Move") {
		t.Errorf("mybed show output = %q", out)
	}
	runCmd(t, cliPath, cleanEnv, "unavailable", "toggle", "3am")

	// 5. BeastMode
	runCmd(t, cliPath, cleanEnv, "beast", "on")
	out = runCmd(t, cliPath, cleanEnv, "beast", "status")
	if !strings.Contains(out, "BeastMode: on") {
		t.Errorf("beast status output = %q", out)
	}
	runCmd(t, cliPath, cleanEnv, "notify", "--dry-run")
	runCmd(t, cliPath, cleanEnv, "beast", "off")

	// 6. Report, backups and diagnostics
	runCmd(t, cliPath, cleanEnv, "report", "--raw")
	runCmd(t, cliPath, cleanEnv, "backup", "create")
	out = runCmd(t, cliPath, cleanEnv, "backup", "list")
	if !strings.Contains(out, "Available backups (1 total") {
		t.Errorf("backup list output = %q", out)
	}
	runCmd(t, cliPath, cleanEnv, "doctor")
	runCmd(t, cliPath, cleanEnv, "validate")
}

func runCmd(t *testing.T, path string, env []string, args ...string) string {
	t.Helper()
	cmd := exec.Command(path, args...)
	cmd.Env = env
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("Command %s %v failed: %v\nOutput: %s", path, args, err, out)
	}
	return string(out)
}

func failCmd(t *testing.T, path string, env []string, args ...string) {
	t.Helper()
	cmd := exec.Command(path, args...)
	cmd.Env = env
	if out, err := cmd.CombinedOutput(); err == nil {
		t.Fatalf("Command %s %v succeeded, want failure\nOutput: %s", path, args, out)
	}
}
