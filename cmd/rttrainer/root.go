package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"rttrainer/pkg/config"
)

const defaultConfigPath = "configs/rttrainer.yaml"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "rttrainer",
		Short: "RT phraseology trainer",
		Long: `rttrainer generates VFR flight scenarios over UK airspace and checks
radio calls made along them against standard phraseology.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if viper.GetBool("no-color") {
				color.NoColor = true
			}
		},
	}

	root.PersistentFlags().String("config", defaultConfigPath, "config file")
	root.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")
	root.PersistentFlags().Bool("no-color", false, "disable colored output")
	for _, name := range []string{"config", "log-level", "no-color"} {
		_ = viper.BindPFlag(name, root.PersistentFlags().Lookup(name))
	}

	viper.SetEnvPrefix("RTTRAINER")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	root.AddCommand(
		newServeCmd(),
		newScenarioCmd(),
		newRouteCmd(),
		newPracticeCmd(),
		newInitConfigCmd(),
	)
	return root
}

// loadConfig reads the config file named by --config or RTTRAINER_CONFIG
// and applies the log level override.
func loadConfig() (*config.Config, error) {
	path := viper.GetString("config")
	if path == "" {
		path = defaultConfigPath
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if lvl := viper.GetString("log-level"); lvl != "" {
		cfg.Log.Server.Level = lvl
	}
	return cfg, nil
}

func newInitConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-config",
		Short: "Generate the default config file and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := viper.GetString("config")
			if err := config.GenerateDefault(path); err != nil {
				return fmt.Errorf("failed to generate config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Config file generated: %s\n", path)
			return nil
		},
	}
}
