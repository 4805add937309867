package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileConfigName is the bootstrap file looked up next to the executable
const FileConfigName = "convertudo.yaml"

// FileConfig is the optional YAML bootstrap configuration
type FileConfig struct {
	ServerURL         string `yaml:"server_url"`
	DownloadDir       string `yaml:"download_dir"`
	Language          string `yaml:"language"`
	AutoReveal        *bool  `yaml:"auto_reveal"`
	NotificationDelay int    `yaml:"notification_delay_seconds"`
}

// LoadFileConfig reads path. A missing file yields an empty config.
func LoadFileConfig(path string) (*FileConfig, error) {
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &FileConfig{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	fc, err := ParseFileConfig(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return fc, nil
}

// ParseFileConfig parses a bootstrap config from r
func ParseFileConfig(r io.Reader) (*FileConfig, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, err
	}
	return &fc, nil
}

// DefaultFileConfigPath returns the bootstrap path beside the executable
func DefaultFileConfigPath() string {
	exe, err := os.Executable()
	if err != nil {
		return FileConfigName
	}
	return filepath.Join(filepath.Dir(exe), FileConfigName)
}
