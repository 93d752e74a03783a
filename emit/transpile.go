package emit

import (
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/teranos/tscli/errors"
)

// Transpile strips types from the generated TypeScript.
func Transpile(code, source string) (string, error) {
	result := api.Transform(code, api.TransformOptions{
		Loader:     api.LoaderTS,
		Format:     api.FormatESModule,
		Target:     api.ES2019,
		Sourcefile: source,
	})
	if len(result.Errors) > 0 {
		msgs := make([]string, 0, len(result.Errors))
		for _, m := range result.Errors {
			msgs = append(msgs, m.Text)
		}
		return "", errors.Newf("failed to transpile generated code: %s", strings.Join(msgs, "; "))
	}
	return string(result.Code), nil
}
