// Package config loads and validates nbpublish configuration files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/devmotion/process-notebooks-action/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound   = errors.New("config file not found")
	ErrEmptyConfigName  = errors.New("config name cannot be empty")
	ErrConfigParse      = errors.New("failed to parse config")
	ErrInvalidExtension = errors.New("invalid notebook extension")
	ErrInvalidPattern   = errors.New("invalid glob pattern")
)

// Default publishing layout.
const (
	DefaultExtension    = "ipynb"
	DefaultOutputDir    = "."
	DefaultBuildDir     = "build"
	DefaultSolutionsDir = "solutions"
)

// Config holds all configuration for notebook publishing.
type Config struct {
	Input  InputConfig  `yaml:"input"`
	Output OutputConfig `yaml:"output"`
	HTML   HTMLConfig   `yaml:"html"`
	PDF    PDFConfig    `yaml:"pdf"`
}

// InputConfig defines input discovery options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default working directory (empty = must specify)
	Extension  string `yaml:"extension"`  // Notebook file extension without dot (default: "ipynb")
	Pattern    string `yaml:"pattern"`    // Optional doublestar glob, relative to each input directory
}

// OutputConfig defines output layout options.
type OutputConfig struct {
	DefaultDir   string `yaml:"defaultDir"`   // Base output directory (default: ".")
	BuildDir     string `yaml:"buildDir"`     // Subdirectory for public notebooks (default: "build")
	SolutionsDir string `yaml:"solutionsDir"` // Subdirectory of buildDir for HTML/PDF (default: "solutions")
}

// HTMLConfig defines solutions-document rendering options.
type HTMLConfig struct {
	Style     string `yaml:"style"`     // chroma style name (empty = library default)
	AllowCopy bool   `yaml:"allowCopy"` // Skip the copy-deterrent CSS
}

// PDFConfig defines optional PDF rendering of the solutions document.
type PDFConfig struct {
	Enabled bool   `yaml:"enabled"`
	Timeout string `yaml:"timeout"` // Go duration, e.g. "30s" (empty = library default)
}

// Validate checks invariants the rest of the pipeline relies on.
// Called automatically by Load, but available for consumers who
// construct Config manually.
func (c *Config) Validate() error {
	if ext := c.Input.Extension; ext != "" {
		if strings.HasPrefix(ext, ".") || strings.ContainsAny(ext, "/\\ ") {
			return fmt.Errorf("%w: %q (expected e.g. \"ipynb\")", ErrInvalidExtension, ext)
		}
	}

	if pat := c.Input.Pattern; pat != "" {
		if !doublestar.ValidatePattern(pat) {
			return fmt.Errorf("%w: %q", ErrInvalidPattern, pat)
		}
	}

	return nil
}

// Extension returns the configured notebook extension, without dot.
func (c *Config) Extension() string {
	if c.Input.Extension != "" {
		return c.Input.Extension
	}
	return DefaultExtension
}

// DefaultConfig returns the default configuration: scan for *.ipynb,
// write under ./build with solutions HTML in ./build/solutions, no PDF.
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{Extension: DefaultExtension},
		Output: OutputConfig{
			DefaultDir:   DefaultOutputDir,
			BuildDir:     DefaultBuildDir,
			SolutionsDir: DefaultSolutionsDir,
		},
	}
}

// Load reads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard
// locations. Returns an error if the file is not found (no silent
// fallback).
func Load(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, then the user config dir.
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "nbpublish", name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
