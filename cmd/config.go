package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/witanlabs/xlsxwriter/config"
)

var configJSON bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change saved defaults",
	Long: `Manage defaults saved in the xlsxwriter config file.

Keys:
  author              Document author (flag and XLSXWRITER_AUTHOR take precedence)
  default_sheet_name  Sheet name used for stdin input
  column_width        Width applied to every column when --widths is not given

The file lives in $XLSXWRITER_CONFIG_DIR, $XDG_CONFIG_HOME/xlsxwriter or
~/.config/xlsxwriter.

Examples:
  xlsxwriter config show
  xlsxwriter config set author "Finance Team"
  xlsxwriter config get column_width
  xlsxwriter config reset`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print every config key",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one config key (exit code 1 when unset)",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Save a config key (an empty value clears it)",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the config file",
	Args:  cobra.NoArgs,
	RunE:  runConfigReset,
}

func init() {
	configShowCmd.Flags().BoolVar(&configJSON, "json", false, "Output JSON")
	configCmd.AddCommand(configShowCmd, configGetCmd, configSetCmd, configResetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if configJSON {
		return jsonPrint(cfg)
	}
	out := cmd.OutOrStdout()
	for _, key := range config.Keys {
		v, _ := cfg.Get(key)
		if v == "" {
			v = "(unset)"
		}
		fmt.Fprintf(out, "%-20s %s\n", key, v)
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	v, ok := cfg.Get(args[0])
	if !ok {
		return fmt.Errorf("unknown config key %q", args[0])
	}
	if v == "" {
		return &ExitError{Code: 1}
	}
	fmt.Fprintln(cmd.OutOrStdout(), v)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Set(args[0], args[1]); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Fprintf(os.Stderr, "✓ Saved %s\n", args[0])
	return nil
}

func runConfigReset(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	if err := config.Delete(); err != nil {
		return fmt.Errorf("failed to delete config: %w", err)
	}
	fmt.Fprintln(os.Stderr, "✓ Config reset")
	return nil
}
