package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/SpineEventEngine/base-sub010/pkg/codegen"
	"github.com/SpineEventEngine/base-sub010/pkg/descriptors"
	"github.com/SpineEventEngine/base-sub010/pkg/observability"
	"github.com/SpineEventEngine/base-sub010/pkg/selector"
)

// FileNames are the names LoadFromDir looks for, in order
var FileNames = []string{"spine-mc.yaml", "spine-mc.yml", ".spine-mc.yaml", ".spine-mc.yml"}

// Config is the generation configuration
type Config struct {
	Version       string              `yaml:"version"`
	Interfaces    InterfacesConfig    `yaml:"interfaces"`
	Methods       MethodsConfig       `yaml:"methods"`
	Fields        FactoriesConfig     `yaml:"fields"`
	NestedClasses FactoriesConfig     `yaml:"nested_classes"`
	UserOptions   bool                `yaml:"user_options"`
	Exclude       []string            `yaml:"exclude,omitempty"`
	Enrichment    EnrichmentConfig    `yaml:"enrichment"`
	Generation    GenerationConfig    `yaml:"generation"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// InterfacesConfig assigns interfaces to messages
type InterfacesConfig struct {
	UuidMessage string             `yaml:"uuid_message"`
	EntityState string             `yaml:"entity_state"`
	Patterns    []PatternInterface `yaml:"patterns"`
	Messages    []TypeInterface    `yaml:"messages,omitempty"`
}

// PatternInterface assigns an interface to top-level messages of matching files
type PatternInterface struct {
	Pattern   FilePatternConfig `yaml:"pattern"`
	Interface string            `yaml:"interface"`
}

// TypeInterface assigns an interface to a single message
type TypeInterface struct {
	Type      string `yaml:"type"`
	Interface string `yaml:"interface"`
}

// MethodsConfig assigns method factories to messages
type MethodsConfig struct {
	UuidMessage string           `yaml:"uuid_message"`
	Patterns    []PatternFactory `yaml:"patterns,omitempty"`
}

// FactoriesConfig assigns member factories to messages of matching files
type FactoriesConfig struct {
	Patterns []PatternFactory `yaml:"patterns,omitempty"`
}

// PatternFactory applies a factory to top-level messages of matching files
type PatternFactory struct {
	Pattern FilePatternConfig `yaml:"pattern"`
	Factory string            `yaml:"factory"`
}

// FilePatternConfig is a file pattern with exactly one member set
type FilePatternConfig struct {
	Prefix string `yaml:"prefix,omitempty"`
	Suffix string `yaml:"suffix,omitempty"`
	Regex  string `yaml:"regex,omitempty"`
}

// EnrichmentConfig configures enrichment checks
type EnrichmentConfig struct {
	Validate bool `yaml:"validate"`
}

// GenerationConfig configures the generation pass
type GenerationConfig struct {
	// Workers above one enables parallel generation
	Workers int `yaml:"workers"`
}

// ObservabilityConfig configures logging and telemetry
type ObservabilityConfig struct {
	LogLevel     string `yaml:"log_level"`
	LogFormat    string `yaml:"log_format"`
	OTelEndpoint string `yaml:"otel_endpoint,omitempty"`
	OTelInsecure bool   `yaml:"otel_insecure,omitempty"`
	MetricsFile  string `yaml:"metrics_file,omitempty"`
}

// Default returns the configuration of the Spine model compiler
func Default() *Config {
	return &Config{
		Version: "v1",
		Interfaces: InterfacesConfig{
			UuidMessage: "io.spine.base.UuidValue",
			EntityState: "io.spine.base.EntityState",
			Patterns: []PatternInterface{
				{Pattern: FilePatternConfig{Suffix: "commands.proto"}, Interface: "io.spine.base.CommandMessage"},
				{Pattern: FilePatternConfig{Suffix: "events.proto"}, Interface: "io.spine.base.EventMessage"},
				{Pattern: FilePatternConfig{Suffix: "rejections.proto"}, Interface: "io.spine.base.RejectionMessage"},
			},
		},
		Methods: MethodsConfig{
			UuidMessage: codegen.UuidMethodFactory,
		},
		UserOptions: true,
		Enrichment: EnrichmentConfig{
			Validate: true,
		},
		Generation: GenerationConfig{
			Workers: 1,
		},
		Observability: ObservabilityConfig{
			LogLevel:  "info",
			LogFormat: string(observability.TextFormat),
		},
	}
}

// Load reads a configuration file over the defaults
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

// LoadFromDir searches for a config file in the directory
func LoadFromDir(dir string) (*Config, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}

	// Return default if no config found
	return Default(), nil
}

// Save writes the configuration to a file
func Save(config *Config, path string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Selector converts the pattern to a file pattern
func (p FilePatternConfig) Selector() (selector.FilePattern, error) {
	var set []string
	if p.Prefix != "" {
		set = append(set, "prefix")
	}
	if p.Suffix != "" {
		set = append(set, "suffix")
	}
	if p.Regex != "" {
		set = append(set, "regex")
	}
	if len(set) != 1 {
		return selector.FilePattern{}, fmt.Errorf("%w: got %d (%s)", ErrInvalidPattern, len(set), strings.Join(set, ", "))
	}

	switch {
	case p.Prefix != "":
		return nonEmpty(selector.Prefix(p.Prefix))
	case p.Suffix != "":
		return nonEmpty(selector.Suffix(p.Suffix))
	default:
		return selector.Regex(p.Regex)
	}
}

func nonEmpty(p selector.FilePattern) (selector.FilePattern, error) {
	if p.IsZero() {
		return p, fmt.Errorf("%w: blank value", ErrInvalidPattern)
	}
	return p, nil
}

// Validate checks the configuration without building tasks
func (c *Config) Validate() error {
	var errs []error
	for i, p := range c.Interfaces.Patterns {
		if _, err := p.Pattern.Selector(); err != nil {
			errs = append(errs, fmt.Errorf("interfaces.patterns[%d]: %w", i, err))
		}
	}
	for _, section := range c.factorySections() {
		for i, p := range section.patterns {
			if _, err := p.Pattern.Selector(); err != nil {
				errs = append(errs, fmt.Errorf("%s[%d]: %w", section.name, i, err))
			}
		}
	}
	if c.Generation.Workers < 0 {
		errs = append(errs, fmt.Errorf("%w: generation.workers must not be negative", ErrInvalidConfig))
	}
	switch observability.Format(c.Observability.LogFormat) {
	case observability.TextFormat, observability.JSONFormat, "":
	default:
		errs = append(errs, fmt.Errorf("%w: unknown log format %q", ErrInvalidConfig, c.Observability.LogFormat))
	}
	return errors.Join(errs...)
}

// LoadOptions returns the descriptor loading options of the configuration
func (c *Config) LoadOptions() []descriptors.LoadOption {
	if len(c.Exclude) == 0 {
		return nil
	}
	excluded := append(append([]string(nil), descriptors.DefaultExcluded...), c.Exclude...)
	return []descriptors.LoadOption{descriptors.WithExcluded(excluded...)}
}
