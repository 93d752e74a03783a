package typemodel

import (
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/spf13/afero"
	"github.com/teranos/tscli/errors"
)

// Package is an installed npm package.
type Package struct {
	Name    string
	Dir     string
	Main    string // absolute path of the entry point
	Version string
}

type packageJSON struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Main    string `json:"main"`
}

// ResolvePackage finds node_modules/<name> in fromDir or one of its
// parents, the way Node resolves bare specifiers.
func ResolvePackage(fs afero.Fs, name, fromDir string) (*Package, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	dir, err := filepath.Abs(fromDir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve %s", fromDir)
	}

	for {
		pkgDir := filepath.Join(dir, "node_modules", name)
		data, err := afero.ReadFile(fs, filepath.Join(pkgDir, "package.json"))
		if err == nil {
			var manifest packageJSON
			if err := json.Unmarshal(data, &manifest); err != nil {
				return nil, errors.Wrapf(err, "invalid package.json in %s", pkgDir)
			}
			main := manifest.Main
			if main == "" {
				main = "index.js"
			}
			return &Package{
				Name:    name,
				Dir:     pkgDir,
				Main:    filepath.Join(pkgDir, filepath.FromSlash(main)),
				Version: manifest.Version,
			}, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return nil, errors.Mark(
		errors.WithHintf(
			errors.Newf("package %q is not installed", name),
			"run `npm install %s` next to the source file", name,
		),
		errors.ErrUnresolved,
	)
}
