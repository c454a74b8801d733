package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tetris-duel/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Write or locate the configuration file",
	Long: `Configuration is searched in this order:
  --config <path>
  $XDG_CONFIG_HOME/tetris-duel/duel.yaml
  ./configs/duel.yaml
  built-in defaults`,
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default configuration",
	Long: `Write the default duel.yaml to the user config directory, or to the
given path. Existing files are never overwritten.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.UserPath()
		if err != nil {
			return err
		}
		if len(args) > 0 {
			path = args[0]
		}
		if err := config.WriteDefault(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the user configuration path",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, err := config.UserPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}
