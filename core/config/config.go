package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/tristendillon/flatten/core/expander"
	"github.com/tristendillon/flatten/core/logger"
	"gopkg.in/yaml.v3"
)

const (
	// FileName is looked up in the working directory.
	FileName = "flatten.yaml"
	// EnvIncludePath holds include directories separated by the OS list
	// separator.
	EnvIncludePath = "CPLUS_INCLUDE_PATH"
)

type Config struct {
	IncludeDirs       []string `yaml:"include_dirs"`
	ExcludedNamespace string   `yaml:"excluded_namespace"`
	SystemHeaders     []string `yaml:"system_headers"`
	Output            string   `yaml:"output"`
	MaxDepth          int      `yaml:"max_depth"`

	// Path is the file the config was read from, empty for defaults.
	Path string `yaml:"-"`
}

func Default() *Config {
	return &Config{
		ExcludedNamespace: expander.DefaultExcludedNamespace,
	}
}

// LoadEnv reads .env from dir into the process environment. Variables that
// are already set win. A missing file is not an error.
func LoadEnv(dir string) error {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	logger.Debug("Loaded environment from %s", path)
	return nil
}

// Load reads explicitPath, or flatten.yaml in dir when explicitPath is
// empty. A missing default file yields Default(); a missing explicit file is
// an error.
func Load(dir, explicitPath string) (*Config, error) {
	filePath := explicitPath
	if filePath == "" {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			filePath = candidate
		}
	}

	if filePath == "" {
		logger.Debug("No config file found, using default config")
		return Default(), nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", filePath, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}
	if cfg.MaxDepth < 0 {
		return nil, fmt.Errorf("%s: max_depth must not be negative", filePath)
	}

	// relative include dirs are relative to the config file
	base := filepath.Dir(filePath)
	for i, d := range cfg.IncludeDirs {
		if d != "" && !filepath.IsAbs(d) {
			cfg.IncludeDirs[i] = filepath.Join(base, d)
		}
	}
	cfg.Path = filePath

	logger.Debug("Config file found: %s", filePath)
	logger.Debug("Config: %+v", *cfg)
	return cfg, nil
}

// EnvIncludeDirs splits CPLUS_INCLUDE_PATH, dropping empty entries.
func EnvIncludeDirs() []string {
	var dirs []string
	for _, d := range filepath.SplitList(os.Getenv(EnvIncludePath)) {
		if d != "" {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// SearchDirs orders include directories: environment, config file, then
// flags.
func (c *Config) SearchDirs(flagDirs []string) []string {
	dirs := EnvIncludeDirs()
	dirs = append(dirs, c.IncludeDirs...)
	return append(dirs, flagDirs...)
}
