package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

const (
	formatText = "text"
	formatHTML = "html"

	inputDefault  = "-"
	formatDefault = formatText
)

// Config holds the resolved command-line options.
type Config struct {
	InputPath  string
	OutputPath string
	Format     string
	Verbose    bool
}

// FileConfig is the optional YAML or JSON configuration file schema.
type FileConfig struct {
	Input   string `yaml:"input" json:"input"`
	Output  string `yaml:"output" json:"output"`
	Format  string `yaml:"format" json:"format"`
	Verbose bool   `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from fc onto cfg for fields still at
// their flag defaults, so explicit flags win over the file.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	if (cfg.InputPath == "" || cfg.InputPath == inputDefault) && fc.Input != "" {
		cfg.InputPath = fc.Input
	}
	if cfg.OutputPath == "" && fc.Output != "" {
		cfg.OutputPath = fc.Output
	}
	if format := normalizeFormat(fc.Format); (cfg.Format == "" || cfg.Format == formatDefault) && format != "" {
		cfg.Format = format
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
}

// normalizeFormat lower-cases and trims a format name from a flag or file.
func normalizeFormat(format string) string {
	return strings.ToLower(strings.TrimSpace(format))
}

// validate checks the resolved configuration.
func (c Config) validate() error {
	switch c.Format {
	case formatText, formatHTML:
		return nil
	default:
		return fmt.Errorf("unknown format %q (want %q or %q)", c.Format, formatText, formatHTML)
	}
}
