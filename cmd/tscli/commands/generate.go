package commands

import (
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/teranos/tscli/am"
	"github.com/teranos/tscli/errors"
	"github.com/teranos/tscli/generator"
	"github.com/teranos/tscli/logger"
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "generate [entry]",
		Aliases: []string{"gen"},
		Short:   "Generate a CLI wrapper for a TypeScript file",
		Long: `Generate a yargs CLI wrapper for the command function in entry.

The command function is the only function in the file, or else the default
export, or else the exported function tagged @command. Without an entry, or
with "-", the source is read from standard input and embedded in the output.

Settings come from flags, TSCLI_* environment variables and the nearest
tscli.toml, in that order.

Examples:
  tscli generate greet.ts                  # Print to stdout
  tscli generate greet.ts --color          # Highlighted
  tscli generate greet.ts -o bin/greet.ts  # Write relative to greet.ts
  tscli generate greet.ts --write          # Write ./cli.ts next to greet.ts
  tscli generate greet.ts --write --js     # Also write cli.js
  tscli generate greet.ts --write -w       # Regenerate on change`,
		Args: cobra.MaximumNArgs(1),
		RunE: runGenerate,
	}

	f := cmd.Flags()
	f.StringP("output", "o", "", "Write to a file relative to the entry instead of stdout")
	f.Bool("write", false, "Write to "+am.DefaultOutput+" when --output is not given")
	f.BoolP("force", "f", false, "Overwrite the output without asking")
	f.Bool("json", false, "Print a JSON envelope with the generated code")
	f.Bool("color", false, "Syntax-highlight code printed to stdout")
	f.String("function-name", "main", "Name of the generated wrapper function")
	f.Bool("async-function", true, "Await the command and the argument parser")
	f.Bool("strict", true, "Reject unknown arguments (.strict())")
	f.Bool("help-option", true, "Add the --help option (.help())")
	f.Bool("help-alias", true, "Alias -h to --help")
	f.Bool("version-option", true, "Add the --version option (.version())")
	f.Bool("js", false, "Also transpile the wrapper to JavaScript")
	f.String("lib", "yargs", "Argument parser module")
	f.String("lib-version", ">=12.0.0", "Version constraint for the installed parser (standard input only)")
	f.BoolP("watch", "w", false, "Regenerate whenever the source changes")

	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd.Flags())
	if err != nil {
		return err
	}
	if write, _ := cmd.Flags().GetBool("write"); write && cfg.Output == "" {
		cfg.Output = am.DefaultOutput
	}
	if err := logger.InitializeWriter(cmd.ErrOrStderr(), cfg.JSON, cfg.Verbose); err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}
	logger.Debugw("Configuration loaded", "config", cfg.String(), "verbosity", logger.LevelName(cfg.Verbose))

	entry := generator.StdinEntry
	if len(args) == 1 {
		entry = args[0]
	}

	g := generator.New(cfg,
		generator.WithStdin(cmd.InOrStdin()),
		generator.WithStdout(cmd.OutOrStdout()),
		generator.WithStderr(cmd.ErrOrStderr()),
		generator.WithCommand(reproduce(cmd, args)),
	)

	if cfg.Watch {
		pterm.Info.WithWriter(cmd.ErrOrStderr()).Printfln("Watching %s, press Ctrl+C to stop", entry)
		return g.Watch(cmd.Context(), entry)
	}
	_, err = g.Generate(cmd.Context(), entry)
	return err
}

// loadConfig merges the project file, environment and flags.
func loadConfig(flags *pflag.FlagSet) (*am.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "failed to determine working directory")
	}
	v, err := am.NewViper(wd)
	if err != nil {
		return nil, err
	}
	if err := am.BindFlags(v, flags); err != nil {
		return nil, err
	}
	cfg, err := am.LoadWithViper(v)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// reproduce rebuilds the command line from the flags that were set.
func reproduce(cmd *cobra.Command, args []string) []string {
	line := strings.Fields(cmd.CommandPath())
	line = append(line, args...)
	cmd.Flags().Visit(func(f *pflag.Flag) {
		line = append(line, "--"+f.Name+"="+f.Value.String())
	})
	return line
}
