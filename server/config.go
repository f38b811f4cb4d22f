package server

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the full report service configuration.
type Config struct {
	Listen      string  `yaml:"listen"`
	DBPath      string  `yaml:"db_path"`
	UploadDir   string  `yaml:"upload_dir"`
	MaxUploadMB int     `yaml:"max_upload_mb"`
	MaxPages    int     `yaml:"max_pages"`
	LexiconPath string  `yaml:"lexicon_path"` // optional override of the built-in test catalog
	JWTSecret   string  `yaml:"jwt_secret"`
	UploadRPS   float64 `yaml:"upload_rps"`
	UploadBurst int     `yaml:"upload_burst"`
}

// DefaultConfig returns sane defaults.
func DefaultConfig() *Config {
	return &Config{
		Listen:      ":8086",
		DBPath:      "medreport.db",
		UploadDir:   "uploads",
		MaxUploadMB: 25,
		MaxPages:    15,
		UploadRPS:   1,
		UploadBurst: 5,
	}
}

// LoadConfig reads and parses a YAML config file. Returns DefaultConfig
// merged with the file.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks that required fields are present and values are sane.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("db_path is required")
	}
	if c.UploadDir == "" {
		return fmt.Errorf("upload_dir is required")
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("max_upload_mb must be > 0")
	}
	if c.MaxPages <= 0 {
		return fmt.Errorf("max_pages must be > 0")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("jwt_secret is required")
	}
	if c.UploadRPS <= 0 || c.UploadBurst <= 0 {
		return fmt.Errorf("upload_rps and upload_burst must be > 0")
	}
	return nil
}

// MaxUploadBytes returns the upload size cap in bytes.
func (c *Config) MaxUploadBytes() int64 { return int64(c.MaxUploadMB) * 1024 * 1024 }
