package checkls

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"dario.cat/mergo"
	"github.com/goccy/go-yaml"
)

// LintFlavor selects which lint tool runs on save.
type LintFlavor string

const (
	LintNone   LintFlavor = "none"
	LintGolint LintFlavor = "golint"
	LintCustom LintFlavor = "custom"
)

// Duration decodes yaml values like "30s" into a time.Duration.
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

type Config struct {
	LogLevel slog.Level  `yaml:"logLevel"`
	Check    CheckConfig `yaml:"check"`
}

// CheckConfig controls which tools run on save. The boolean fields are
// pointers so an explicit false in the config survives default merging.
type CheckConfig struct {
	BuildOnSave *bool      `yaml:"buildOnSave"`
	VetOnSave   *bool      `yaml:"vetOnSave"`
	LintOnSave  LintFlavor `yaml:"lintOnSave"`
	LintCommand string     `yaml:"lintCommand"`
	LintArgs    []string   `yaml:"lintArgs"`
	Timeout     Duration   `yaml:"timeout"`
}

func DefaultConfig() Config {
	return Config{
		LogLevel: slog.LevelInfo,
		Check: CheckConfig{
			BuildOnSave: Ptr(true),
			VetOnSave:   Ptr(true),
			LintOnSave:  LintGolint,
			Timeout:     Duration(30 * time.Second),
		},
	}
}

func LoadConfigFile(fname string) (*Config, error) {
	r, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return LoadConfig(r)
}

func LoadConfig(r io.Reader) (*Config, error) {
	var cfg Config
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && err != io.EOF {
		return nil, err
	}
	if err := mergo.Merge(&cfg, DefaultConfig()); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyOptions overlays editor-provided initializationOptions onto the
// config. Options use the same field names as the yaml check section, e.g.
// {"buildOnSave": false, "lintOnSave": "none"}.
func (c *Config) ApplyOptions(options map[string]any) error {
	if len(options) == 0 {
		return nil
	}

	data, err := yaml.Marshal(options)
	if err != nil {
		return fmt.Errorf("initializationOptions: %w", err)
	}
	var overlay CheckConfig
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("initializationOptions: %w", err)
	}

	if err := mergo.Merge(&c.Check, overlay, mergo.WithOverride); err != nil {
		return err
	}
	return c.Validate()
}

func (c *Config) Validate() error {
	switch c.Check.LintOnSave {
	case LintNone, LintGolint, LintCustom:
	default:
		return fmt.Errorf("check.lintOnSave: unknown flavor %q", c.Check.LintOnSave)
	}
	if c.Check.LintOnSave == LintCustom && c.Check.LintCommand == "" {
		return fmt.Errorf("check.lintCommand is required when lintOnSave is custom")
	}
	if c.Check.Timeout <= 0 {
		return fmt.Errorf("check.timeout must be positive")
	}
	return nil
}
