package am

import (
	"bytes"
	"os"

	json "github.com/goccy/go-json"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
	"github.com/teranos/tscli/errors"
	"github.com/teranos/tscli/logger"
	"gopkg.in/yaml.v3"
)

// Formats accepted by Marshal.
const (
	FormatTOML = "toml"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Marshal encodes cfg as TOML, YAML or JSON.
func Marshal(cfg *Config, format string) ([]byte, error) {
	switch format {
	case FormatTOML, "":
		data, err := toml.Marshal(cfg)
		return data, errors.Wrap(err, "failed to marshal config as TOML")
	case FormatYAML, "yml":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return nil, errors.Wrap(err, "failed to marshal config as YAML")
		}
		return buf.Bytes(), errors.Wrap(enc.Close(), "failed to marshal config as YAML")
	case FormatJSON:
		data, err := json.MarshalIndentWithOption(cfg, "", "  ", json.DisableHTMLEscape())
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal config as JSON")
		}
		return append(data, '\n'), nil
	}
	return nil, errors.WithHint(
		errors.Newf("unknown config format %q", format),
		"use toml, yaml or json",
	)
}

// WriteDefault writes the default configuration to path as TOML. An
// existing file is only replaced with force, after rotating backups.
func WriteDefault(fs afero.Fs, path string, force bool) error {
	exists, err := afero.Exists(fs, path)
	if err != nil {
		return errors.Wrapf(err, "failed to check %s", path)
	}
	if exists && !force {
		return errors.WithHint(
			errors.Newf("config file %s already exists", path),
			"pass --force to replace it, the old file is kept as a backup",
		)
	}
	if exists {
		if err := createBackup(fs, path); err != nil {
			return errors.Wrap(err, "failed to create backup")
		}
	}

	data, err := Marshal(Default(), FormatTOML)
	if err != nil {
		return err
	}
	if err := afero.WriteFile(fs, path, data, DefaultFilePermissions); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	logger.Infow("Wrote default configuration", logger.FieldFile, path)
	return nil
}

// createBackup creates rotating backups (.back1, .back2, .back3) before
// replacing a config file.
func createBackup(fs afero.Fs, configPath string) error {
	back3 := configPath + ".back3"
	back2 := configPath + ".back2"
	back1 := configPath + ".back1"

	// Delete oldest backup if exists
	if err := fs.Remove(back3); err != nil && !os.IsNotExist(err) {
		logger.Warnw("Failed to delete old backup", logger.FieldFile, back3, logger.FieldError, err)
	}

	for _, step := range [][2]string{{back2, back3}, {back1, back2}} {
		ok, err := afero.Exists(fs, step[0])
		if err != nil {
			return errors.Wrapf(err, "failed to check %s", step[0])
		}
		if !ok {
			continue
		}
		if err := fs.Rename(step[0], step[1]); err != nil {
			return errors.Wrapf(err, "failed to rotate %s", step[0])
		}
	}

	content, err := afero.ReadFile(fs, configPath)
	if err != nil {
		return errors.Wrap(err, "failed to read config for backup")
	}
	if err := afero.WriteFile(fs, back1, content, DefaultFilePermissions); err != nil {
		return errors.Wrap(err, "failed to create .back1")
	}
	return nil
}
