// Package config loads the optional axion.toml settings file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"gopkg.axion.dev/compiler.go/internal/source"
)

const (
	// EnvPath names the environment variable holding the settings file path.
	EnvPath = "AXION_CONFIG"
	// FileName is looked up in the working directory when no path is given.
	FileName = "axion.toml"

	FormatYAML = "yaml"
	FormatJSON = "json"
)

type Config struct {
	Lexer    LexerConfig    `toml:"lexer"`
	Rewrite  RewriteConfig  `toml:"rewrite"`
	Compiler CompilerConfig `toml:"compiler"`
	Output   OutputConfig   `toml:"output"`
}

type LexerConfig struct {
	CheckIndentation bool `toml:"check_indentation"`
	TabWidth         int  `toml:"tab_width"`
}

type RewriteConfig struct {
	// EmptyTuple rewrites the () return type to Unit.
	EmptyTuple bool `toml:"empty_tuple"`
}

type CompilerConfig struct {
	// MaxConcurrency bounds the number of units processed at once. Zero
	// leaves it unbounded.
	MaxConcurrency int `toml:"max_concurrency"`
}

type OutputConfig struct {
	DumpFormat string `toml:"dump_format"`
}

func Default() Config {
	return Config{
		Lexer: LexerConfig{
			CheckIndentation: true,
			TabWidth:         source.DefaultOptions().TabWidth,
		},
		Rewrite: RewriteConfig{EmptyTuple: true},
		Output:  OutputConfig{DumpFormat: FormatYAML},
	}
}

// Decode reads TOML settings from r. Keys missing from the input keep their
// default values and unknown keys are an error.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads the settings file at path. An empty path falls back to the
// AXION_CONFIG variable and then to axion.toml in the working directory. When
// no file is found through the fallbacks the defaults are returned.
func Load(path string, lookupEnv func(string) (string, bool)) (Config, error) {
	explicit := path != ""
	if !explicit && lookupEnv != nil {
		if v, ok := lookupEnv(EnvPath); ok && v != "" {
			path = v
			explicit = true
		}
	}
	if path == "" {
		path = FileName
	}
	f, err := os.Open(os.ExpandEnv(path))
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()
	cfg, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Lexer.TabWidth <= 0 {
		return fmt.Errorf("lexer.tab_width must be positive, got %d", c.Lexer.TabWidth)
	}
	if c.Compiler.MaxConcurrency < 0 {
		return fmt.Errorf("compiler.max_concurrency must not be negative, got %d", c.Compiler.MaxConcurrency)
	}
	switch c.Output.DumpFormat {
	case FormatYAML, FormatJSON:
	default:
		return fmt.Errorf("output.dump_format must be %q or %q, got %q", FormatYAML, FormatJSON, c.Output.DumpFormat)
	}
	return nil
}

// SourceOptions converts the lexer settings into per-unit options.
func (c Config) SourceOptions() source.Options {
	opts := source.DefaultOptions()
	opts.CheckIndentationConsistency = c.Lexer.CheckIndentation
	opts.TabWidth = c.Lexer.TabWidth
	return opts
}
