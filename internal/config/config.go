package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"jsstyle/internal/errors"
	"jsstyle/internal/jsast"
	"jsstyle/internal/lint"
	"jsstyle/internal/slogutil"
)

// CurrentVersion is the config schema version this build reads and writes.
const CurrentVersion = 1

// FileBaseName is the config file name without extension.
const FileBaseName = ".jsstyle"

// EnvPrefix prefixes environment overrides, e.g. JSSTYLE_WORKERS=4.
const EnvPrefix = "JSSTYLE"

// Config represents the complete jsstyle configuration
type Config struct {
	Version int                   `json:"version" yaml:"version" toml:"version" mapstructure:"version"`
	Rules   map[string]RuleConfig `json:"rules" yaml:"rules" toml:"rules" mapstructure:"rules"`
	Files   FilesConfig           `json:"files" yaml:"files" toml:"files" mapstructure:"files"`
	Cache   CacheConfig           `json:"cache" yaml:"cache" toml:"cache" mapstructure:"cache"`
	Workers int                   `json:"workers" yaml:"workers" toml:"workers" mapstructure:"workers"`
	Logging LoggingConfig         `json:"logging" yaml:"logging" toml:"logging" mapstructure:"logging"`
}

// RuleConfig is the severity and options of one rule. In a config file a
// bare string ("warn") is shorthand for a severity without options.
type RuleConfig struct {
	Severity string                 `json:"severity,omitempty" yaml:"severity,omitempty" toml:"severity,omitempty" mapstructure:"severity"`
	Options  map[string]interface{} `json:"options,omitempty" yaml:"options,omitempty" toml:"options,omitempty" mapstructure:"options"`
}

// FilesConfig selects the files a directory walk lints
type FilesConfig struct {
	Include    []string `json:"include,omitempty" yaml:"include,omitempty" toml:"include,omitempty" mapstructure:"include"`
	Exclude    []string `json:"exclude,omitempty" yaml:"exclude,omitempty" toml:"exclude,omitempty" mapstructure:"exclude"`
	Extensions []string `json:"extensions" yaml:"extensions" toml:"extensions" mapstructure:"extensions"`
}

// CacheConfig contains result cache configuration
type CacheConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled" toml:"enabled" mapstructure:"enabled"`
	Path    string `json:"path" yaml:"path" toml:"path" mapstructure:"path"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level      string `json:"level" yaml:"level" toml:"level" mapstructure:"level"`
	File       string `json:"file,omitempty" yaml:"file,omitempty" toml:"file,omitempty" mapstructure:"file"`
	MaxSize    string `json:"maxSize,omitempty" yaml:"maxSize,omitempty" toml:"maxSize,omitempty" mapstructure:"maxSize"`
	MaxBackups int    `json:"maxBackups,omitempty" yaml:"maxBackups,omitempty" toml:"maxBackups,omitempty" mapstructure:"maxBackups"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentVersion,
		Rules: map[string]RuleConfig{
			"sort-keys": {Severity: "error"},
		},
		Files: FilesConfig{
			Extensions: jsast.Extensions(),
		},
		Cache: CacheConfig{
			Enabled: false,
			Path:    filepath.Join(".jsstyle", "cache.db"),
		},
		Workers: 0,
		Logging: LoggingConfig{
			Level:      "warn",
			MaxBackups: 3,
		},
	}
}

// LoadConfig reads the configuration. An explicit path must exist; otherwise
// .jsstyle.{json,yaml,yml,toml} is looked up in dir and the defaults are
// used when there is none. The second return value is the file that was read,
// or "" for defaults.
func LoadConfig(dir, explicitPath string) (*Config, string, error) {
	v := viper.New()

	// Set defaults so that environment overrides reach scalar keys
	def := DefaultConfig()
	v.SetDefault("version", def.Version)
	v.SetDefault("workers", def.Workers)
	v.SetDefault("cache.enabled", def.Cache.Enabled)
	v.SetDefault("cache.path", def.Cache.Path)
	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.file", def.Logging.File)
	v.SetDefault("logging.maxSize", def.Logging.MaxSize)
	v.SetDefault("logging.maxBackups", def.Logging.MaxBackups)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return nil, "", errors.New(errors.ConfigNotFound, fmt.Sprintf("config file %s", explicitPath), err)
		}
		v.SetConfigFile(explicitPath)
	} else {
		v.SetConfigName(FileBaseName)
		v.AddConfigPath(dir)
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, "", errors.New(errors.ConfigInvalid, "read config", err)
		}
	}

	// Unmarshal on top of the defaults; rules named in the file replace or
	// extend the default rule set
	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		ruleShorthandHook,
		mapstructure.StringToSliceHookFunc(","),
	))); err != nil {
		return nil, "", errors.New(errors.ConfigInvalid, "decode config", err)
	}

	return cfg, v.ConfigFileUsed(), nil
}

// ruleShorthandHook lets `sort-keys: warn` (or `sort-keys: 1`) stand for
// {severity: warn}.
func ruleShorthandHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if to != reflect.TypeOf(RuleConfig{}) {
		return data, nil
	}
	switch from.Kind() {
	case reflect.String, reflect.Int, reflect.Int64, reflect.Float64:
		return RuleConfig{Severity: fmt.Sprint(data)}, nil
	}
	return data, nil
}

// Save writes the configuration to path. The format follows the extension:
// .json, .yaml/.yml or .toml.
func (c *Config) Save(path string) error {
	data, err := c.Marshal(formatOf(path))
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

// Marshal encodes the configuration as json, yaml or toml.
func (c *Config) Marshal(format string) ([]byte, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case "yaml", "yml":
		return yaml.Marshal(c)
	case "toml":
		var sb strings.Builder
		if err := toml.NewEncoder(&sb).Encode(c); err != nil {
			return nil, err
		}
		return []byte(sb.String()), nil
	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}
}

func formatOf(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

// Settings converts the rule section for lint.Configure.
func (c *Config) Settings() map[string]lint.Setting {
	settings := make(map[string]lint.Setting, len(c.Rules))
	for name, rc := range c.Rules {
		settings[name] = lint.Setting{Severity: rc.Severity, Options: rc.Options}
	}
	return settings
}

// Fingerprint identifies the rule configuration; cached results are only
// valid under the fingerprint they were computed with.
func (c *Config) Fingerprint() string {
	// encoding/json sorts map keys, so equal configs encode identically
	data, err := json.Marshal(struct {
		Version int                   `json:"version"`
		Rules   map[string]RuleConfig `json:"rules"`
	}{c.Version, c.Rules})
	if err != nil {
		return ""
	}
	return string(data)
}

// Validate checks if the configuration is valid and returns the first problem.
func (c *Config) Validate(reg *lint.Registry) error {
	if problems := c.Problems(reg); len(problems) > 0 {
		return problems[0]
	}
	return nil
}

// Problems returns every configuration problem, in a stable order.
func (c *Config) Problems(reg *lint.Registry) []error {
	var problems []error

	if c.Version != CurrentVersion {
		problems = append(problems, &ConfigError{Field: "version", Message: fmt.Sprintf("unsupported config version %d", c.Version)})
	}
	if c.Workers < 0 {
		problems = append(problems, &ConfigError{Field: "workers", Message: "must not be negative"})
	}
	if c.Cache.Enabled && c.Cache.Path == "" {
		problems = append(problems, &ConfigError{Field: "cache.path", Message: "required when the cache is enabled"})
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		problems = append(problems, &ConfigError{Field: "logging.level", Message: fmt.Sprintf("unknown level %q", c.Logging.Level)})
	}
	if _, err := slogutil.ParseSize(c.Logging.MaxSize); err != nil {
		problems = append(problems, &ConfigError{Field: "logging.maxSize", Message: err.Error()})
	}
	if c.Logging.MaxBackups < 0 {
		problems = append(problems, &ConfigError{Field: "logging.maxBackups", Message: "must not be negative"})
	}

	if len(c.Files.Extensions) == 0 {
		problems = append(problems, &ConfigError{Field: "files.extensions", Message: "at least one extension is required"})
	}
	for _, ext := range c.Files.Extensions {
		if _, ok := jsast.LanguageFromExtension(ext); !ok {
			problems = append(problems, &ConfigError{Field: "files.extensions", Message: fmt.Sprintf("no grammar for %q", ext)})
		}
	}
	for field, patterns := range map[string][]string{"files.include": c.Files.Include, "files.exclude": c.Files.Exclude} {
		for _, p := range patterns {
			if _, err := filepath.Match(p, ""); err != nil {
				problems = append(problems, &ConfigError{Field: field, Message: fmt.Sprintf("bad pattern %q", p)})
			}
		}
	}

	// Rules are checked one by one so every bad rule is reported
	names := make([]string, 0, len(c.Rules))
	for name := range c.Rules {
		names = append(names, name)
	}
	sort.Strings(names)
	settings := c.Settings()
	for _, name := range names {
		if _, err := lint.Configure(reg, map[string]lint.Setting{name: settings[name]}); err != nil {
			problems = append(problems, err)
		}
	}

	sort.SliceStable(problems, func(i, j int) bool {
		return fieldOf(problems[i]) < fieldOf(problems[j])
	})
	return problems
}

func fieldOf(err error) string {
	if ce, ok := err.(*ConfigError); ok {
		return ce.Field
	}
	return "rules"
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
