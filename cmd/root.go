/*
	Copyright 2024 orbitarch
*/

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	checkCmd "github.com/orbitarch/orbitarch-service-go/pkg/cmd/check"
	migrateCmd "github.com/orbitarch/orbitarch-service-go/pkg/cmd/migrate"
	serverCmd "github.com/orbitarch/orbitarch-service-go/pkg/cmd/server"
	transferCmd "github.com/orbitarch/orbitarch-service-go/pkg/cmd/transfer"
	"github.com/orbitarch/orbitarch-service-go/pkg/collision"
	"github.com/orbitarch/orbitarch-service-go/pkg/config"
	"github.com/orbitarch/orbitarch-service-go/pkg/maneuver"
	"github.com/orbitarch/orbitarch-service-go/version"
)

const envPrefix = "OAS"

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "oas",
	Short:   "Collision risk and avoidance maneuver advisor for satellites",
	Long:    ``,
	Version: version.FullVersion,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:funlen // flag definitions
func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.oas.yml)")

	rootCmd.PersistentFlags().StringVar(&config.LogLevel,
		"log-level",
		"info",
		"controls the log level (debug, info, warn, error, fatal)")
	rootCmd.PersistentFlags().StringVar(&config.LogFormat,
		"log-format",
		"json",
		"controls the log output format (json, text)")
	rootCmd.PersistentFlags().StringVar(&config.LogFilter,
		"log-filter",
		"",
		"zapfilter rules, e.g. 'debug:decision info:*'")
	rootCmd.PersistentFlags().StringVar(&config.DB, "db",
		"postgresql://DB_USERNAME:DB_USER_PASSWORD@DB_HOST:5432/oas",
		"Connection string for the reference database")
	rootCmd.PersistentFlags().StringVar(&config.WaitForServices,
		"wait-for-services",
		"15s",
		"Duration to wait for other services to be ready")
	rootCmd.PersistentFlags().StringVar(&config.DebrisSource,
		"debris-source",
		"debris.csv",
		"debris table: csv, xlsx or yaml file or postgresql:// url")
	rootCmd.PersistentFlags().Float64Var(&config.DebrisDensity,
		"debris-density",
		collision.DefaultDensity,
		"debris density used to select the impact area thresholds")
	rootCmd.PersistentFlags().Float64Var(&config.SpecificImpulse,
		"specific-impulse",
		maneuver.DefaultSpecificImpulse,
		"specific impulse (s) used for fuel estimation")
	rootCmd.PersistentFlags().Float64Var(&config.StandardGravity,
		"standard-gravity",
		maneuver.DefaultStandardGravity,
		"standard gravity (m/s^2) used for fuel estimation")

	// add commands here
	rootCmd.AddCommand(serverCmd.NewServerCmd())
	rootCmd.AddCommand(checkCmd.NewCheckCmd())
	rootCmd.AddCommand(migrateCmd.NewMigrateCmd())
	rootCmd.AddCommand(transferCmd.NewTransferCmd())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// a missing .env file is fine
	//nolint:errcheck // by design
	godotenv.Load()

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".oas" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".oas")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	bindFlags(rootCmd, viper.GetViper())
	for _, cmd := range rootCmd.Commands() {
		bindFlags(cmd, viper.GetViper())
	}
}

// Bind each cobra flag to its associated viper configuration
// (config file and environment variable)
func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		// Environment variables can't have dashes in them, so bind them to their
		// equivalent keys with underscores, e.g. --debris-source to OAS_DEBRIS_SOURCE
		if strings.Contains(f.Name, "-") {
			envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			if err := v.BindEnv(f.Name,
				fmt.Sprintf("%s_%s", envPrefix, envVarSuffix)); err != nil {
				fmt.Fprintf(os.Stderr, "Could not bind env var %s: %v", f.Name, err)
			}
		}
		// Apply the viper config value to the flag when the flag is not set and viper
		// has a value
		if !f.Changed && v.IsSet(f.Name) {
			val := v.Get(f.Name)
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)); err != nil {
				fmt.Fprintf(os.Stderr, "Could set flag value for %s: %v", f.Name, err)
			}
		}
	})
}
