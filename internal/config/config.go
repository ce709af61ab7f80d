// Package config loads votenotice settings from an optional TOML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/ukaji3/votenotice-go/pkg/votenotice"
	"github.com/ukaji3/votenotice-go/pkg/votenotice/parser"
)

// FileName is the config file looked up in the input root.
const FileName = "votenotice.toml"

// Files names the inputs inside the input root.
type Files struct {
	Template string `toml:"template"`
	Register string `toml:"register"`
}

// Register describes the register layout and row rules.
type Register struct {
	FirstDataRow int            `toml:"first_data_row"`
	SkipMarker   string         `toml:"skip_marker"`
	Separator    string         `toml:"separator"`
	SharePolicy  string         `toml:"share_policy"`
	Precision    int            `toml:"precision"`
	Columns      parser.Columns `toml:"columns"`
}

// Template describes the notice template.
type Template struct {
	NameAnchor   string `toml:"name_anchor"`
	DataRowIndex int    `toml:"data_row_index"`
}

// Batch configures output batching.
type Batch struct {
	Size    int `toml:"size"`
	Workers int `toml:"workers"`
}

// Logging configures the logger.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config is the full configuration.
type Config struct {
	InputRoot string   `toml:"input_root"`
	Files     Files    `toml:"files"`
	Register  Register `toml:"register"`
	Template  Template `toml:"template"`
	Batch     Batch    `toml:"batch"`
	Logging   Logging  `toml:"logging"`
}

// Default returns the built-in configuration.
func Default() Config {
	opts := votenotice.DefaultOptions()
	return Config{
		InputRoot: opts.InputRoot,
		Files: Files{
			Template: opts.TemplateName,
			Register: opts.RegisterName,
		},
		Register: Register{
			FirstDataRow: opts.Read.FirstDataRow,
			SkipMarker:   opts.Normalize.SkipMarker,
			Separator:    opts.Normalize.Separator,
			SharePolicy:  string(opts.Normalize.SharePolicy),
			Precision:    opts.Normalize.Precision,
			Columns:      opts.Read.Columns,
		},
		Template: Template{
			NameAnchor:   opts.Expand.NameAnchor,
			DataRowIndex: opts.Expand.DataRowIndex,
		},
		Batch: Batch{
			Size:    opts.BatchSize,
			Workers: opts.Workers,
		},
		Logging: Logging{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load parses the file at path over the defaults and normalizes the result.
// A missing file yields the defaults; the returned bool reports whether the
// file existed. Callers apply their overrides and then call Validate.
func Load(path string) (*Config, bool, error) {
	cfg := Default()

	exists := false
	if path != "" {
		file, err := os.Open(path)
		switch {
		case err == nil:
			defer file.Close()
			exists = true
			decoder := toml.NewDecoder(file)
			decoder.DisallowUnknownFields()
			if err := decoder.Decode(&cfg); err != nil {
				return nil, false, fmt.Errorf("parse config: %w", err)
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, false, fmt.Errorf("open config: %w", err)
		}
	}

	cfg.normalize()
	return &cfg, exists, nil
}

// DefaultPath returns the config location inside an input root.
func DefaultPath(inputRoot string) string {
	return filepath.Join(inputRoot, FileName)
}

func (c *Config) normalize() {
	c.InputRoot = strings.TrimSpace(c.InputRoot)
	c.Files.Template = strings.TrimSpace(c.Files.Template)
	c.Files.Register = strings.TrimSpace(c.Files.Register)
	c.Register.SharePolicy = strings.ToLower(strings.TrimSpace(c.Register.SharePolicy))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Batch.Workers <= 0 {
		c.Batch.Workers = votenotice.DefaultOptions().Workers
	}
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if c.InputRoot == "" {
		return errors.New("input_root must be set")
	}
	if c.Files.Template == "" || c.Files.Register == "" {
		return errors.New("files.template and files.register must be set")
	}
	if err := c.validateRegister(); err != nil {
		return err
	}
	if c.Template.NameAnchor == "" {
		return errors.New("template.name_anchor must not be empty")
	}
	if c.Template.DataRowIndex < 0 {
		return errors.New("template.data_row_index must be >= 0")
	}
	if c.Batch.Size <= 0 {
		return errors.New("batch.size must be positive")
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateRegister() error {
	r := c.Register
	if r.FirstDataRow < 1 {
		return errors.New("register.first_data_row must be >= 1")
	}
	if r.Separator == "" {
		return errors.New("register.separator must not be empty")
	}
	if _, err := parser.ParseSharePolicy(r.SharePolicy); err != nil {
		return fmt.Errorf("register.share_policy: %w", err)
	}
	if r.Precision < 0 || r.Precision > 15 {
		return errors.New("register.precision must be between 0 and 15")
	}
	cols := map[string]int{
		"id":    r.Columns.ID,
		"flat":  r.Columns.Flat,
		"area":  r.Columns.Area,
		"basis": r.Columns.Basis,
		"name":  r.Columns.Name,
		"share": r.Columns.Share,
	}
	for name, col := range cols {
		if col < 1 {
			return fmt.Errorf("register.columns.%s must be a 1-based column index", name)
		}
	}
	return nil
}

// Options converts the configuration into generation options.
func (c *Config) Options() votenotice.Options {
	opts := votenotice.DefaultOptions()
	opts.InputRoot = c.InputRoot
	opts.TemplateName = c.Files.Template
	opts.RegisterName = c.Files.Register
	opts.Read = parser.ReadParams{
		Columns:      c.Register.Columns,
		FirstDataRow: c.Register.FirstDataRow,
	}
	policy, _ := parser.ParseSharePolicy(c.Register.SharePolicy)
	opts.Normalize = parser.NormalizeParams{
		SkipMarker:  c.Register.SkipMarker,
		Separator:   c.Register.Separator,
		SharePolicy: policy,
		Precision:   c.Register.Precision,
	}
	opts.Expand.NameAnchor = c.Template.NameAnchor
	opts.Expand.DataRowIndex = c.Template.DataRowIndex
	opts.BatchSize = c.Batch.Size
	opts.Workers = c.Batch.Workers
	return opts
}
