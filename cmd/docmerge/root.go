package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/docmerge-dev/docmerge/internal/config"
	"github.com/docmerge-dev/docmerge/internal/logging"
)

var (
	cfgFile  string
	verbose  bool
	settings config.Settings
	closeLog = func() {}
)

// rootCmd is the application entry point.
var rootCmd = &cobra.Command{
	Use:   "docmerge",
	Short: "Bulk mail-merge document generator",
	Long: `Docmerge reads tabular records from a spreadsheet, binds each record's
fields into a DOCX template, and writes one rendered document per record
to an output directory, with progress reporting and cancellation.

Templates use {{ name }} placeholders matching the spreadsheet's column
headers. Placeholder names must not contain whitespace.`,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		settings = config.FromViper(viper.GetViper())

		logger, closeFn, err := logging.Setup(settings.LogFile, verbose)
		if err != nil {
			return err
		}
		closeLog = closeFn
		slog.SetDefault(logger)
		return nil
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	closeLog()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.docmerge.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

// initConfig loads configuration from the config file and environment.
func initConfig() {
	config.BindDefaults(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			slog.Error("failed to find home directory", "error", err)
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".docmerge")
	}

	viper.SetEnvPrefix("DOCMERGE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		slog.Debug("using config file", "file", viper.ConfigFileUsed())
	}
}
