package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigInitWritesSampleFile(t *testing.T) {
	target := filepath.Join(t.TempDir(), "nested", "config.toml")

	stdout, _, err := runCLI(t, "", "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if !strings.Contains(stdout, "Wrote sample configuration") {
		t.Fatalf("unexpected output: %s", stdout)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	content := string(data)
	for _, section := range []string{"[stash]", "[sweep]", "[paths]", "[history]", "[notifications]", "[logging]"} {
		if !strings.Contains(content, section) {
			t.Fatalf("sample missing section %s:\n%s", section, content)
		}
	}
}

func TestConfigInitRefusesToOverwrite(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(target, []byte("# existing\n"), 0o644); err != nil {
		t.Fatalf("seed config: %v", err)
	}

	_, _, err := runCLI(t, "", "config", "init", "--path", target)
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected overwrite refusal, got %v", err)
	}

	if _, _, err := runCLI(t, "", "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("config init --overwrite failed: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if !strings.Contains(string(data), "[stash]") {
		t.Fatal("expected sample content after overwrite")
	}
}

func TestConfigValidateAcceptsGoodConfig(t *testing.T) {
	base := t.TempDir()
	configPath := writeTestConfig(t, base, "http://stash.local:9999", "")

	stdout, _, err := runCLI(t, configPath, "config", "validate")
	if err != nil {
		t.Fatalf("config validate failed: %v", err)
	}
	if !strings.Contains(stdout, "Config path: "+configPath) {
		t.Fatalf("expected resolved path in output: %s", stdout)
	}
	if !strings.Contains(stdout, "Configuration valid") {
		t.Fatalf("unexpected output: %s", stdout)
	}
}

func TestConfigValidateRejectsBadConfig(t *testing.T) {
	base := t.TempDir()
	configPath := filepath.Join(base, "config.toml")
	content := "[stash]\nurl = \"http://stash.local:9999\"\n\n[sweep]\njpeg_quality = 500\n"
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, _, err := runCLI(t, configPath, "config", "validate")
	if err == nil || !strings.Contains(err.Error(), "jpeg_quality") {
		t.Fatalf("expected jpeg_quality error, got %v", err)
	}
}
