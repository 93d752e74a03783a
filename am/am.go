// Package am holds the generator configuration ("I am"): defaults, the
// tscli.toml project file, TSCLI_* environment variables and command-line
// flags, merged by viper.
package am

import "fmt"

// Config is the generator configuration. Every key can be set in
// tscli.toml, through a TSCLI_<KEY> environment variable or by a flag.
type Config struct {
	// Output is the destination file, relative to the entry's directory
	// (the working directory for standard input). Empty prints to stdout.
	Output string `mapstructure:"output" toml:"output" yaml:"output" json:"output"`
	Force  bool   `mapstructure:"force" toml:"force" yaml:"force" json:"force"`
	JSON   bool   `mapstructure:"json" toml:"json" yaml:"json" json:"json"`
	Color  bool   `mapstructure:"color" toml:"color" yaml:"color" json:"color"`

	Verbose int `mapstructure:"verbose" toml:"verbose" yaml:"verbose" json:"verbose"`

	// Wrapper rendering
	FunctionName  string `mapstructure:"function_name" toml:"function_name" yaml:"function_name" json:"function_name"`
	AsyncFunction bool   `mapstructure:"async_function" toml:"async_function" yaml:"async_function" json:"async_function"`
	Strict        bool   `mapstructure:"strict" toml:"strict" yaml:"strict" json:"strict"`
	Help          bool   `mapstructure:"help" toml:"help" yaml:"help" json:"help"`
	HelpAlias     bool   `mapstructure:"help_alias" toml:"help_alias" yaml:"help_alias" json:"help_alias"`
	Version       bool   `mapstructure:"version" toml:"version" yaml:"version" json:"version"`

	JS bool `mapstructure:"js" toml:"js" yaml:"js" json:"js"`

	// Lib is the argument parser module; LibVersion is the semver
	// constraint the installed package must satisfy.
	Lib        string `mapstructure:"lib" toml:"lib" yaml:"lib" json:"lib"`
	LibVersion string `mapstructure:"lib_version" toml:"lib_version" yaml:"lib_version" json:"lib_version"`

	Watch bool `mapstructure:"watch" toml:"watch" yaml:"watch" json:"watch"`
}

// ConfigFileName is the project configuration file searched for from the
// working directory upward.
const ConfigFileName = "tscli.toml"

// EnvPrefix prefixes environment variable overrides.
const EnvPrefix = "TSCLI"

// DefaultOutput is the destination used by --write when no output is set.
const DefaultOutput = "./cli.ts"

// File system constants
const (
	DefaultDirPermissions  = 0755
	DefaultFilePermissions = 0644
)

// String returns a one-line summary of the config
func (c *Config) String() string {
	out := c.Output
	if out == "" {
		out = "stdout"
	}
	return fmt.Sprintf("Config{Output: %s, Lib: %s %s, FunctionName: %s, Async: %t}",
		out, c.Lib, c.LibVersion, c.FunctionName, c.AsyncFunction)
}
