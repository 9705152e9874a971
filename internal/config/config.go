// Package config loads verification run configuration.
package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/prepub/internal/errors"
)

// DefaultFile is the config filename looked up at the package root.
const DefaultFile = ".prepub.yaml"

// Config holds the knobs for a verification run. Every field has a
// default; a missing config file means an all-defaults run.
type Config struct {
	// Node is the runtime used to execute the package entrypoint.
	Node string `yaml:"node"`

	// Entrypoint overrides the script under test. Empty means use the
	// manifest bin entry.
	Entrypoint string `yaml:"entrypoint"`

	// RequiredFiles are build outputs that must exist before publish.
	RequiredFiles []string `yaml:"required_files"`

	// DocFiles are documentation files that must exist before publish.
	DocFiles []string `yaml:"doc_files"`

	// FrameworkEnvVar selects the operating-mode environment variable
	// injected for the alternate-framework startup scenario.
	FrameworkEnvVar string `yaml:"framework_env_var"`

	// FrameworkEnvValue is the value injected for that scenario.
	FrameworkEnvValue string `yaml:"framework_env_value"`

	// TimeoutSeconds bounds each external command invocation.
	TimeoutSeconds int `yaml:"timeout_seconds"`

	// SizeLimitKB is the bundle-size soft threshold. Artifacts strictly
	// larger than this trigger a warning.
	SizeLimitKB int64 `yaml:"size_limit_kb"`

	// ReportDir is where run reports are written.
	ReportDir string `yaml:"report_dir"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Node:              "node",
		RequiredFiles:     []string{"dist/index.js"},
		DocFiles:          []string{"LICENSE", "README.md"},
		FrameworkEnvVar:   "FRAMEWORK",
		FrameworkEnvValue: "vue",
		TimeoutSeconds:    5,
		SizeLimitKB:       1000,
		ReportDir:         filepath.Join(".prepub", "reports"),
	}
}

// Load reads dir/.prepub.yaml if it exists, applying defaults for any
// field the file leaves unset. A missing file is not an error; an
// unparsable one is.
func Load(dir string) (Config, error) {
	return LoadFile(filepath.Join(dir, DefaultFile))
}

// LoadFile reads an explicit config file path.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrap(errors.ErrCodeFileReadFailed, "failed to read config file: "+path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), errors.NewConfigUnmarshalError(path, err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults fills zero values left by a partial config file.
func (c *Config) applyDefaults() {
	def := Default()
	if c.Node == "" {
		c.Node = def.Node
	}
	if len(c.RequiredFiles) == 0 {
		c.RequiredFiles = def.RequiredFiles
	}
	if len(c.DocFiles) == 0 {
		c.DocFiles = def.DocFiles
	}
	if c.FrameworkEnvVar == "" {
		c.FrameworkEnvVar = def.FrameworkEnvVar
	}
	if c.FrameworkEnvValue == "" {
		c.FrameworkEnvValue = def.FrameworkEnvValue
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = def.TimeoutSeconds
	}
	if c.SizeLimitKB <= 0 {
		c.SizeLimitKB = def.SizeLimitKB
	}
	if c.ReportDir == "" {
		c.ReportDir = def.ReportDir
	}
}

// Timeout returns the per-invocation deadline.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SizeLimitBytes returns the bundle-size threshold in bytes.
func (c Config) SizeLimitBytes() int64 {
	return c.SizeLimitKB * 1024
}
