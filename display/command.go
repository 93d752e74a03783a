// Package display holds output helpers shared by tscli commands.
package display

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/teranos/tscli/errors"
)

// ShouldOutputJSON determines if a command should output JSON. An
// explicit --json flag wins over the configured default.
func ShouldOutputJSON(cmd *cobra.Command, configured bool) bool {
	if cmd == nil {
		return configured
	}

	if f := cmd.Flags().Lookup("json"); f != nil && f.Changed {
		v, _ := cmd.Flags().GetBool("json")
		return v
	}

	// Persistent --json on the root
	if f := cmd.Root().PersistentFlags().Lookup("json"); f != nil && f.Changed {
		v, _ := cmd.Root().PersistentFlags().GetBool("json")
		return v
	}

	return configured
}

// OutputJSON marshals v with MarshalJSON and writes it to w.
func OutputJSON(w io.Writer, v interface{}) error {
	data, err := MarshalJSON(v)
	if err != nil {
		return errors.Wrap(err, "failed to marshal JSON")
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
