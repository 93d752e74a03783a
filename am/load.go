package am

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/teranos/tscli/errors"
	"github.com/teranos/tscli/logger"
)

var globalConfig *Config
var viperInstance *viper.Viper

// Load reads the configuration for the working directory. The result is
// cached until Reset.
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	v, err := initViper()
	if err != nil {
		return nil, err
	}
	config, err := LoadWithViper(v)
	if err != nil {
		return nil, err
	}

	globalConfig = config
	return globalConfig, nil
}

// GetViper returns the shared viper instance, creating it for the
// working directory on first use.
func GetViper() (*viper.Viper, error) {
	return initViper()
}

// LoadWithViper decodes the configuration held by v.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &config, nil
}

// LoadFromFile loads configuration from a specific file path, on top of
// the defaults and without environment overrides.
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
	}
	return LoadWithViper(v)
}

// Reset clears the cached configuration (useful for testing)
func Reset() {
	globalConfig = nil
	viperInstance = nil
}

func initViper() (*viper.Viper, error) {
	if viperInstance != nil {
		return viperInstance, nil
	}
	dir, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "failed to determine working directory")
	}
	v, err := NewViper(dir)
	if err != nil {
		return nil, err
	}
	viperInstance = v
	return v, nil
}

// NewViper builds a viper instance with defaults, TSCLI_* environment
// variables and the project file found from dir upward.
// Precedence (lowest to highest): defaults < project file < env vars < flags.
func NewViper(dir string) (*viper.Viper, error) {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if path := FindProjectConfig(dir); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.WithHint(
				errors.Wrapf(err, "failed to read config file %s", path),
				"fix the file or remove it to use the defaults",
			)
		}
		logger.Debugw("Loaded project configuration", logger.FieldFile, path)
	}
	return v, nil
}

// FindProjectConfig searches for tscli.toml by walking up the directory
// tree from dir. Returns the empty string when there is none.
func FindProjectConfig(dir string) string {
	for {
		path := filepath.Join(dir, ConfigFileName)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// BindFlags binds every configuration key to its flag in flags, so an
// explicitly set flag wins over files and environment. Keys without a
// flag in the set are skipped.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for _, key := range Keys {
		f := flags.Lookup(FlagName(key))
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return errors.Wrapf(err, "failed to bind flag --%s", f.Name)
		}
	}
	return nil
}
