package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileName is the workspace configuration file `coa init` writes.
const FileName = "coa.yaml"

// Persistence modes.
const (
	PersistFile = "file"
	PersistHTTP = "http"
)

// Config represents the top-level coa.yaml configuration.
type Config struct {
	Templates   TemplatesConfig   `yaml:"templates"`
	Rules       RulesConfig       `yaml:"rules"`
	Persistence PersistenceConfig `yaml:"persistence"`
	Governance  GovernanceConfig  `yaml:"governance"`
	Server      ServerConfig      `yaml:"server"`
	Log         LogConfig         `yaml:"log"`
	Git         GitConfig         `yaml:"git"`
}

// TemplatesConfig locates the template directory.
type TemplatesConfig struct {
	Dir string `yaml:"dir"`
}

// RulesConfig locates the assignment rules file.
type RulesConfig struct {
	Path string `yaml:"path"`
}

// PersistenceConfig selects where configurations and history are stored.
type PersistenceConfig struct {
	Mode       string `yaml:"mode"` // "file" or "http"
	DataDir    string `yaml:"data_dir,omitempty"`
	APIBaseURL string `yaml:"api_base_url,omitempty"`
}

// GovernanceConfig controls governance rule behavior.
type GovernanceConfig struct {
	// EnforceLock turns the lock-after-go-live warning into a hard block.
	EnforceLock bool `yaml:"enforce_lock"`
}

// ServerConfig configures `coa serve`.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig controls log output.
type LogConfig struct {
	Level string `yaml:"level"`
}

// GitConfig controls auto-committing assignment data.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a coa.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new workspace.
func Default() *Config {
	return &Config{
		Templates:   TemplatesConfig{Dir: "templates"},
		Rules:       RulesConfig{Path: "rules/assignment-rules.json"},
		Persistence: PersistenceConfig{Mode: PersistFile, DataDir: "data"},
		Governance:  GovernanceConfig{EnforceLock: false},
		Server:      ServerConfig{Addr: ":8080"},
		Log:         LogConfig{Level: "info"},
		Git: GitConfig{
			AutoCommit:  false,
			AuthorName:  "COA Service",
			AuthorEmail: "coa@heraerp.dev",
		},
	}
}
