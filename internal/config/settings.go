package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultTimeout   = 30 * time.Second
	DefaultChunkSize = 8192
	DefaultUserAgent = "Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/119.0"

	ProtocolHTTP1 = "http1"
	ProtocolHTTP3 = "http3"
)

// Settings holds user preferences read from settings.yaml.
type Settings struct {
	General GeneralSettings `yaml:"general"`
	Network NetworkSettings `yaml:"network"`
}

type GeneralSettings struct {
	OutputDir         string `yaml:"output_dir"`
	LogRetentionCount int    `yaml:"log_retention_count"`
	RecordHistory     bool   `yaml:"record_history"`
}

type NetworkSettings struct {
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
	ChunkSize int           `yaml:"chunk_size"`
	Protocol  string        `yaml:"protocol"`
}

// DefaultSettings returns the settings used when no file is present.
func DefaultSettings() *Settings {
	return &Settings{
		General: GeneralSettings{
			OutputDir:         DefaultOutputDir,
			LogRetentionCount: 5,
		},
		Network: NetworkSettings{
			Timeout:   DefaultTimeout,
			UserAgent: DefaultUserAgent,
			ChunkSize: DefaultChunkSize,
			Protocol:  ProtocolHTTP1,
		},
	}
}

// LoadSettings reads settings from the standard location.
func LoadSettings() (*Settings, error) {
	return LoadSettingsFrom(GetSettingsPath())
}

// LoadSettingsFrom reads settings from path. A missing file yields defaults.
// Fields left out of the file keep their default values.
func LoadSettingsFrom(path string) (*Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return settings, nil
		}
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings %s: %w", path, err)
	}

	settings.normalize()
	return settings, nil
}

func (s *Settings) normalize() {
	defaults := DefaultSettings()
	if s.General.OutputDir == "" {
		s.General.OutputDir = defaults.General.OutputDir
	}
	if s.Network.Timeout <= 0 {
		s.Network.Timeout = defaults.Network.Timeout
	}
	if s.Network.UserAgent == "" {
		s.Network.UserAgent = defaults.Network.UserAgent
	}
	if s.Network.ChunkSize <= 0 {
		s.Network.ChunkSize = defaults.Network.ChunkSize
	}
	if s.Network.Protocol != ProtocolHTTP3 {
		s.Network.Protocol = ProtocolHTTP1
	}
}
