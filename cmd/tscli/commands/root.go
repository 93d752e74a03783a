// Package commands implements the tscli command tree.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/teranos/tscli/errors"
	"github.com/teranos/tscli/logger"
)

// NewRootCmd builds the tscli command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tscli",
		Short: "Generate yargs CLIs from TypeScript functions",
		Long: `tscli - Generate a command-line wrapper from a TypeScript function.

tscli reads a TypeScript file, picks the function to expose and writes a
script that parses arguments with yargs and calls it. Parameters become
positional arguments; a trailing options parameter becomes flags.

Available commands:
  generate - Generate a CLI wrapper for a TypeScript file
  config   - Show or initialise tscli.toml
  version  - Show version information

Examples:
  tscli generate src/greet.ts             # Print the wrapper
  tscli generate src/greet.ts -o          # Write ./cli.ts next to the source
  cat greet.ts | tscli generate -o cli.ts # Embed piped source
  tscli config show --sources             # Where each setting comes from`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			verbosity, _ := cmd.Flags().GetCount("verbose")
			if err := logger.InitializeWriter(cmd.ErrOrStderr(), false, verbosity); err != nil {
				return errors.Wrap(err, "failed to initialize logger")
			}
			return nil
		},
	}

	root.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")

	root.AddCommand(newGenerateCmd())
	root.AddCommand(newConfigCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, args []string) int {
	root := NewRootCmd()
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return exitCode(root.ErrOrStderr(), err)
}

// exitCode reports err on w. A declined overwrite is not a failure.
func exitCode(w io.Writer, err error) int {
	if err == nil {
		return 0
	}
	if errors.IsCanceled(err) {
		fmt.Fprintln(w, "Canceled")
		return 0
	}
	pterm.Error.WithWriter(w).Println(err.Error())
	for _, hint := range errors.GetAllHints(err) {
		pterm.Info.WithWriter(w).Println(hint)
	}
	return 1
}
