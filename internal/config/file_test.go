package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseFileConfig(t *testing.T) {
	input := `
server_url: http://converter:8000
download_dir: /data/out
language: pt
auto_reveal: false
notification_delay_seconds: 12
`
	fc, err := ParseFileConfig(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if fc.ServerURL != "http://converter:8000" {
		t.Errorf("Unexpected server URL %s", fc.ServerURL)
	}
	if fc.DownloadDir != "/data/out" {
		t.Errorf("Unexpected download dir %s", fc.DownloadDir)
	}
	if fc.Language != "pt" {
		t.Errorf("Unexpected language %s", fc.Language)
	}
	if fc.AutoReveal == nil || *fc.AutoReveal {
		t.Error("Expected auto_reveal to be set to false")
	}
	if fc.NotificationDelay != 12 {
		t.Errorf("Unexpected delay %d", fc.NotificationDelay)
	}
}

func TestParseFileConfigPartial(t *testing.T) {
	fc, err := ParseFileConfig(strings.NewReader("server_url: http://x\n"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if fc.AutoReveal != nil {
		t.Error("auto_reveal should stay unset")
	}
}

func TestParseFileConfigInvalid(t *testing.T) {
	if _, err := ParseFileConfig(strings.NewReader("server_url: [unterminated")); err == nil {
		t.Error("Expected error for malformed YAML")
	}
}

func TestLoadFileConfig(t *testing.T) {
	dir := t.TempDir()

	fc, err := LoadFileConfig(filepath.Join(dir, "missing.yaml"))
	if err != nil {
		t.Fatalf("Missing file should not fail: %v", err)
	}
	if fc.ServerURL != "" {
		t.Error("Missing file should yield empty config")
	}

	path := filepath.Join(dir, FileConfigName)
	if err := os.WriteFile(path, []byte("language: ru\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	fc, err = LoadFileConfig(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if fc.Language != "ru" {
		t.Errorf("Expected language ru, got %s", fc.Language)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("language: [ru\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	if _, err := LoadFileConfig(bad); err == nil {
		t.Error("Expected parse error")
	}
}

func TestDefaultFileConfigPath(t *testing.T) {
	if filepath.Base(DefaultFileConfigPath()) != FileConfigName {
		t.Errorf("Unexpected default path %s", DefaultFileConfigPath())
	}
}
