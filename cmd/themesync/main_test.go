package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"themesync/internal/testsupport"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	return testsupport.WriteConfigFile(t, testsupport.NewConfig(t))
}

func runCLI(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestCLIStatusEmptyStore(t *testing.T) {
	configPath := writeTestConfig(t)

	out, err := runCLI(t, configPath, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "total") || !strings.Contains(out, "progress.db") {
		t.Errorf("unexpected status output: %q", out)
	}
}

func TestCLIResetEmptyStore(t *testing.T) {
	configPath := writeTestConfig(t)

	out, err := runCLI(t, configPath, "reset")
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if !strings.Contains(out, "Removed 0 progress records") {
		t.Errorf("unexpected reset output: %q", out)
	}
}

func TestCLIConfigInit(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	out, err := runCLI(t, "", "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, "Wrote sample configuration") {
		t.Errorf("unexpected init output: %q", out)
	}
	if _, statErr := os.Stat(target); statErr != nil {
		t.Fatalf("expected config file at %s: %v", target, statErr)
	}

	// A second init without --overwrite must refuse.
	if _, err := runCLI(t, "", "config", "init", "--path", target); err == nil {
		t.Error("expected error when config already exists")
	}
}

func TestCLIConfigShowRedactsSecrets(t *testing.T) {
	configPath := writeTestConfig(t)

	out, err := runCLI(t, configPath, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if strings.Contains(out, "test-token") || strings.Contains(out, "test-key") {
		t.Errorf("secrets leaked in output: %q", out)
	}
	if !strings.Contains(out, "<redacted>") {
		t.Errorf("expected redaction marker: %q", out)
	}
}

func TestCLIMissingConfigFails(t *testing.T) {
	// sync requires plex/drive settings; with no config file the defaults
	// fail validation.
	missing := filepath.Join(t.TempDir(), "nope.toml")
	if _, err := runCLI(t, missing, "sync"); err == nil {
		t.Error("expected validation error without required settings")
	}
}
