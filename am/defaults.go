package am

import (
	"github.com/spf13/viper"
)

// Keys lists every configuration key in display order.
var Keys = []string{
	"output", "force", "json", "color", "verbose",
	"function_name", "async_function", "strict", "help", "help_alias", "version",
	"js", "lib", "lib_version", "watch",
}

// FlagName returns the command-line flag bound to key. The help and
// version toggles get an -option suffix because --help belongs to cobra.
func FlagName(key string) string {
	switch key {
	case "help":
		return "help-option"
	case "version":
		return "version-option"
	case "function_name":
		return "function-name"
	case "async_function":
		return "async-function"
	case "help_alias":
		return "help-alias"
	case "lib_version":
		return "lib-version"
	}
	return key
}

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Output
	v.SetDefault("output", "")
	v.SetDefault("force", false)
	v.SetDefault("json", false)
	v.SetDefault("color", false)
	v.SetDefault("verbose", 0)

	// Wrapper rendering
	v.SetDefault("function_name", "main")
	v.SetDefault("async_function", true)
	v.SetDefault("strict", true)
	v.SetDefault("help", true)
	v.SetDefault("help_alias", true)
	v.SetDefault("version", true)

	v.SetDefault("js", false)

	// Parser library
	v.SetDefault("lib", "yargs")
	v.SetDefault("lib_version", ">=12.0.0")

	v.SetDefault("watch", false)
}

// Default returns the configuration with nothing but defaults applied.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := LoadWithViper(v)
	if err != nil {
		// defaults always decode
		panic(err)
	}
	return cfg
}
