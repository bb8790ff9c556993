package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/rawfmt/internal/config"
	"github.com/zjrosen/rawfmt/internal/log"
)

var (
	configInitUser  bool
	configInitForce bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the rawfmt configuration file",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file in use",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if cfgPath == "" {
			return errors.New("no config file found; run 'rawfmt config init'")
		}
		return writeText(cmd, cfgPath)
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long: `Write a commented default config file to .rawfmt/config.yaml, or to
~/.config/rawfmt/config.yaml with --user.`,
	Args: cobra.NoArgs,
	RunE: traced(func(_ context.Context, _ trace.Span, cmd *cobra.Command, _ []string) error {
		path := config.LocalConfigPath
		if configInitUser {
			path = filepath.Join(config.UserConfigDir(), "config.yaml")
		}
		if _, err := os.Stat(path); err == nil && !configInitForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := config.WriteDefaultConfig(path); err != nil {
			return err
		}
		return writeText(cmd, path)
	}),
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print effective config values",
	Long: `Print the effective value of key, or of every key when none is given.
Effective values include defaults, the config file and RAWFMT_* variables.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			if !slices.Contains(config.Keys, args[0]) {
				return fmt.Errorf("unknown config key %q", args[0])
			}
			return writeText(cmd, fmt.Sprint(settings.Get(args[0])))
		}
		for _, k := range config.Keys {
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s = %v\n", k, settings.Get(k)); err != nil {
				return err
			}
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a value in the config file, keeping its comments",
	Long: `Set a value in the config file in use (or .rawfmt/config.yaml when none
exists). The change is rejected if the resulting configuration is invalid.

Example:
  rawfmt config set markup.emoji false
  rawfmt config set catalog.path ~/.config/rawfmt/emoji.yaml`,
	Args: cobra.ExactArgs(2),
	RunE: traced(func(_ context.Context, _ trace.Span, cmd *cobra.Command, args []string) error {
		path := cfgPath
		if path == "" {
			path = config.LocalConfigPath
		}

		previous, readErr := os.ReadFile(path) //nolint:gosec // G304: path is the config file
		if err := config.SetValue(path, args[0], args[1]); err != nil {
			return err
		}
		if _, _, err := config.Load(viper.New(), path, false); err != nil {
			restore(path, previous, readErr)
			return err
		}
		log.Info(log.CatConfig, "config value set", "key", args[0], "path", path)
		return writeText(cmd, fmt.Sprintf("%s = %s (%s)", args[0], args[1], path))
	}),
}

// restore puts back the config file contents read before a rejected set.
func restore(path string, previous []byte, readErr error) {
	var err error
	if os.IsNotExist(readErr) {
		err = os.Remove(path)
	} else {
		err = os.WriteFile(path, previous, 0o600)
	}
	if err != nil {
		log.ErrorErr(log.CatConfig, "failed to restore config", err, "path", path)
	}
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitUser, "user", false, "write to ~/.config/rawfmt/config.yaml")
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing file")
	configCmd.AddCommand(configPathCmd, configInitCmd, configGetCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}
