package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/teranos/tscli/am"
	"github.com/teranos/tscli/display"
	"github.com/teranos/tscli/errors"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or initialise tscli configuration",
		Long: `Show or initialise tscli configuration.

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (TSCLI_* prefix)
3. Project config (tscli.toml, searched from the working directory up)
4. Default values

Examples:
  tscli config show                  # Effective configuration as TOML
  tscli config show --format json    # ... as JSON
  tscli config show --sources        # Where each value comes from
  tscli config init                  # Write tscli.toml with the defaults`,
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE:  runConfigShow,
	}
	show.Flags().String("format", am.FormatTOML, "Output format: toml, json, yaml")
	show.Flags().Bool("sources", false, "Show the source of every setting")

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write " + am.ConfigFileName + " with the default settings",
		Args:  cobra.NoArgs,
		RunE:  runConfigInit,
	}
	initCmd.Flags().BoolP("force", "f", false, "Replace an existing file, keeping a backup")

	cmd.AddCommand(show, initCmd)
	return cmd
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	sources, _ := cmd.Flags().GetBool("sources")

	wd, err := os.Getwd()
	if err != nil {
		return errors.Wrap(err, "failed to determine working directory")
	}
	v, err := am.NewViper(wd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if sources {
		intro := am.Introspect(v, nil)
		if format == am.FormatJSON {
			return display.OutputJSON(out, intro)
		}
		return printSources(cmd, intro)
	}

	cfg, err := am.LoadWithViper(v)
	if err != nil {
		return err
	}
	data, err := am.Marshal(cfg, format)
	if err != nil {
		return err
	}
	if format != am.FormatJSON {
		fmt.Fprintln(out, "# tscli configuration")
	}
	_, err = out.Write(data)
	return err
}

func printSources(cmd *cobra.Command, intro *am.ConfigIntrospection) error {
	file := intro.ConfigFile
	if file == "" {
		file = "(none)"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Project config: %s\n\n", file)

	data := pterm.TableData{{"KEY", "VALUE", "SOURCE"}}
	for _, s := range intro.Settings {
		source := string(s.Source)
		if s.SourcePath != "" {
			source += " (" + s.SourcePath + ")"
		}
		data = append(data, []string{s.Key, fmt.Sprint(s.Value), source})
	}
	return pterm.DefaultTable.WithHasHeader().WithWriter(cmd.OutOrStdout()).WithData(data).Render()
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")

	wd, err := os.Getwd()
	if err != nil {
		return errors.Wrap(err, "failed to determine working directory")
	}
	path := filepath.Join(wd, am.ConfigFileName)
	if err := am.WriteDefault(afero.NewOsFs(), path, force); err != nil {
		return err
	}
	pterm.Success.WithWriter(cmd.ErrOrStderr()).Printfln("Configuration written to %s", path)
	return nil
}
