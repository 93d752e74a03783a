package am

import (
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ConfigSource represents where a configuration value came from
type ConfigSource string

const (
	SourceDefault     ConfigSource = "default"
	SourceProject     ConfigSource = "project"     // tscli.toml
	SourceEnvironment ConfigSource = "environment" // TSCLI_* env vars
	SourceFlag        ConfigSource = "flag"
)

// SettingInfo contains metadata about a configuration setting
type SettingInfo struct {
	Key        string       `json:"key" yaml:"key" toml:"key"`
	Value      interface{}  `json:"value" yaml:"value" toml:"value"`
	Source     ConfigSource `json:"source" yaml:"source" toml:"source"`
	SourcePath string       `json:"source_path,omitempty" yaml:"source_path,omitempty" toml:"source_path,omitempty"` // file path, env var or flag
}

// ConfigIntrospection describes the active configuration
type ConfigIntrospection struct {
	ConfigFile string        `json:"config_file" yaml:"config_file" toml:"config_file"`
	Settings   []SettingInfo `json:"settings" yaml:"settings" toml:"settings"`
}

// Introspect reports every key with its effective value and the source
// that supplied it. flags may be nil.
func Introspect(v *viper.Viper, flags *pflag.FlagSet) *ConfigIntrospection {
	in := &ConfigIntrospection{
		ConfigFile: v.ConfigFileUsed(),
		Settings:   make([]SettingInfo, 0, len(Keys)),
	}

	for _, key := range Keys {
		info := SettingInfo{Key: key, Value: v.Get(key), Source: SourceDefault}

		envKey := EnvPrefix + "_" + strings.ToUpper(key)
		switch {
		case flags != nil && flags.Changed(FlagName(key)):
			info.Source, info.SourcePath = SourceFlag, "--"+FlagName(key)
		case os.Getenv(envKey) != "":
			info.Source, info.SourcePath = SourceEnvironment, envKey
		case v.InConfig(key):
			info.Source, info.SourcePath = SourceProject, in.ConfigFile
		}
		in.Settings = append(in.Settings, info)
	}
	return in
}

// Summary counts settings per source
func (in *ConfigIntrospection) Summary() map[ConfigSource]int {
	counts := make(map[ConfigSource]int)
	for _, s := range in.Settings {
		counts[s.Source]++
	}
	return counts
}
