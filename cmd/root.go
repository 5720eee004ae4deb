package cmd

import (
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arcanaland/umadeck/internal/config"
	"github.com/arcanaland/umadeck/internal/logging"
)

var (
	cfgFile   string
	logLevel  string
	noColor   bool
	appConfig *config.Config
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "umadeck",
	Short: "Tool for managing Uma Musume support card collections",
	Long: `Umadeck is a command-line tool for managing an Uma Musume support card collection.
It joins your cards with a precomputed tierlist, recommends decks and renders
a Markdown overview of everything you own.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd.ErrOrStderr())
	},
}

func init() {
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $XDG_CONFIG_HOME/umadeck/config.toml)")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error, off (overrides config)")
	RootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable coloured output")

	RootCmd.AddCommand(validateCmd)
}

// setup loads the configuration and initialises logging for a command run.
func setup(stderr io.Writer) error {
	var err error
	if cfgFile != "" {
		appConfig, err = config.LoadConfigFrom(cfgFile)
	} else {
		appConfig, err = config.LoadConfig()
	}
	if err != nil {
		return err
	}

	if noColor {
		color.NoColor = true
	}

	level := appConfig.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	logging.Init(logging.Config{
		Level:   level,
		Format:  "console",
		NoColor: color.NoColor,
		Output:  stderr,
	})
	return nil
}

// pathOr returns flagValue when set, otherwise fallback.
func pathOr(flagValue, fallback string) string {
	if flagValue != "" {
		return flagValue
	}
	return fallback
}
