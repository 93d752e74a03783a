package am

import (
	"github.com/Masterminds/semver/v3"
	"github.com/teranos/tscli/codegen"
	"github.com/teranos/tscli/errors"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Lib == "" {
		return errors.New("lib cannot be empty")
	}

	// The wrapper name is written into the generated file as is
	if !codegen.IsIdentifier(c.FunctionName) {
		return errors.WithHint(
			errors.Newf("function_name must be a valid identifier, got %q", c.FunctionName),
			"use letters, digits, _ or $ and do not start with a digit",
		)
	}

	// Empty lib_version disables the installed version check
	if c.LibVersion != "" {
		if _, err := semver.NewConstraint(c.LibVersion); err != nil {
			return errors.Wrapf(err, "lib_version %q is not a semver constraint", c.LibVersion)
		}
	}

	if c.Verbose < 0 {
		return errors.Newf("verbose must be >= 0, got %d", c.Verbose)
	}

	return nil
}
