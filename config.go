package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/NickyBoy89/prec/codegen"
	"github.com/NickyBoy89/prec/preprocess"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v2"
)

// configNames are searched for in the working directory, in order, when no
// config file is given
var configNames = []string{"prec.yaml", "prec.yml", "prec.toml"}

var errUnknownConfigFormat = errors.New("unknown config format")

// Config holds every setting of a build. Settings are read from an optional
// config file, and then overridden by any flags that were set
type Config struct {
	Output       string   `yaml:"output" toml:"output"`
	CC           string   `yaml:"cc" toml:"cc"`
	CFlags       []string `yaml:"cflags" toml:"cflags"`
	Intermediate string   `yaml:"intermediate" toml:"intermediate"`
	Keep         bool     `yaml:"keep" toml:"keep"`
	Backend      string   `yaml:"backend" toml:"backend"`
	Templates    string   `yaml:"templates" toml:"templates"`
	Receiver     string   `yaml:"receiver" toml:"receiver"`
	Check        bool     `yaml:"check" toml:"check"`
	Dot          string   `yaml:"dot" toml:"dot"`
	Strict       bool     `yaml:"strict" toml:"strict"`
	Verbose      bool     `yaml:"verbose" toml:"verbose"`

	// Only settable with flags
	Emit bool `yaml:"-" toml:"-"`
}

func DefaultConfig() Config {
	return Config{
		CC:           "clang",
		Intermediate: "pre.c",
		Backend:      codegen.DefaultBackend,
		Receiver:     preprocess.DefaultReceiver,
	}
}

// LoadConfig reads a config file over the given config. The format is picked
// from the file's extension
func LoadConfig(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read config %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.UnmarshalStrict(data, cfg)
	case ".toml":
		_, err = toml.Decode(string(data), cfg)
	default:
		return fmt.Errorf("%w: %s", errUnknownConfigFormat, path)
	}
	if err != nil {
		return fmt.Errorf("parse error in %s: %w", path, err)
	}
	return nil
}

// FindConfig returns the first config file present in the directory, or an
// empty string if there is none
func FindConfig(dir string) string {
	for _, name := range configNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// RegisterFlags adds a flag for every setting, storing the parsed values in
// the config
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	defaults := DefaultConfig()

	flags.StringVarP(&c.Output, "output", "o", "", "path of the compiled binary, defaults to the input without its extension")
	flags.BoolVarP(&c.Emit, "emit", "E", false, "write the generated C to stdout instead of compiling it")
	flags.StringVar(&c.CC, "cc", defaults.CC, "C compiler to run")
	flags.StringSliceVar(&c.CFlags, "cflags", nil, "extra flags for the C compiler")
	flags.StringVar(&c.Intermediate, "intermediate", defaults.Intermediate, "path of the generated C file")
	flags.BoolVar(&c.Keep, "keep", false, "keep the generated C file after compiling")
	flags.StringVar(&c.Backend, "backend", defaults.Backend, fmt.Sprintf("code generation backend (%s)", strings.Join(codegen.Builtin(), ", ")))
	flags.StringVar(&c.Templates, "templates", "", "directory holding a custom backend, overrides --backend")
	flags.StringVar(&c.Receiver, "receiver", defaults.Receiver, "name of the receiver parameter of methods")
	flags.BoolVar(&c.Check, "check", false, "check the generated C for syntax errors before compiling")
	flags.StringVar(&c.Dot, "dot", "", "write the class graph to this file")
	flags.BoolVar(&c.Strict, "strict", false, "treat warnings as errors")
	flags.BoolVarP(&c.Verbose, "verbose", "v", false, "additional debug info")
}

// Override copies every flag that was set on the command line into the
// config
func (c *Config) Override(flags *pflag.FlagSet, from Config) {
	flags.Visit(func(flag *pflag.Flag) {
		switch flag.Name {
		case "output":
			c.Output = from.Output
		case "emit":
			c.Emit = from.Emit
		case "cc":
			c.CC = from.CC
		case "cflags":
			c.CFlags = from.CFlags
		case "intermediate":
			c.Intermediate = from.Intermediate
		case "keep":
			c.Keep = from.Keep
		case "backend":
			c.Backend = from.Backend
		case "templates":
			c.Templates = from.Templates
		case "receiver":
			c.Receiver = from.Receiver
		case "check":
			c.Check = from.Check
		case "dot":
			c.Dot = from.Dot
		case "strict":
			c.Strict = from.Strict
		case "verbose":
			c.Verbose = from.Verbose
		}
	})
}
