package generator

import (
	"github.com/Masterminds/semver/v3"
	"github.com/teranos/tscli/logger"
	"github.com/teranos/tscli/typemodel"
)

// libraryPath locates the installed parser library for embedded output.
// An empty result falls back to importing the library by name.
func (g *Generator) libraryPath() string {
	pkg, err := typemodel.ResolvePackage(g.fs, g.cfg.Lib, g.cwd)
	if err != nil {
		g.reporter.Warnw("Parser library not installed, importing it by name",
			logger.FieldLibrary, g.cfg.Lib,
			logger.FieldError, err.Error())
		return ""
	}
	g.checkVersion(pkg)
	return pkg.Main
}

// checkVersion warns when the installed library does not satisfy
// lib_version.
func (g *Generator) checkVersion(pkg *typemodel.Package) {
	if g.cfg.LibVersion == "" {
		return
	}
	constraint, err := semver.NewConstraint(g.cfg.LibVersion)
	if err != nil {
		g.reporter.Warnw("Invalid lib_version constraint",
			logger.FieldLibrary, pkg.Name,
			logger.FieldError, err.Error())
		return
	}
	v, err := semver.NewVersion(pkg.Version)
	if err != nil {
		g.reporter.Warnw("Installed parser library has no usable version",
			logger.FieldLibrary, pkg.Name,
			logger.FieldVersion, pkg.Version)
		return
	}
	if ok, errs := constraint.Validate(v); !ok {
		reason := ""
		if len(errs) > 0 {
			reason = errs[0].Error()
		}
		g.reporter.Warnw("Installed parser library does not satisfy lib_version",
			logger.FieldLibrary, pkg.Name,
			logger.FieldVersion, pkg.Version,
			logger.FieldReason, reason)
		return
	}
	logger.Debugw("Parser library version accepted", logger.FieldLibrary, pkg.Name, logger.FieldVersion, pkg.Version)
}
