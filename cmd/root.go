/*
Copyright © 2026 Paulo Suderio
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/suderio/loot-table/internal/config"
	"github.com/suderio/loot-table/internal/data"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "loot-table",
	Short: "Generate magic items from declarative loot tables",
	Long: `loot-table rolls on loot table definitions (YAML or XML) to build
magic items: category and percentile selections, price checks, follow-up
tables and index adjustments.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.loot-table.yaml)")
	rootCmd.PersistentFlags().StringSlice("tables-dir", nil, "directories searched for loot tables, in order")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("history", "", "item log file")

	viper.BindPFlag("tables_dir", rootCmd.PersistentFlags().Lookup("tables-dir"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("history", rootCmd.PersistentFlags().Lookup("history"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".loot-table")
	}

	viper.SetEnvPrefix("loot")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// settings merges LOOT_* environment defaults with the config file and flags.
func settings() config.Engine {
	cfg, err := config.LoadEngine()
	if err != nil {
		fmt.Printf("Error reading environment: %v\n", err)
		os.Exit(1)
	}
	if dirs := viper.GetStringSlice("tables_dir"); len(dirs) > 0 {
		cfg.TablesDir = dirs
	}
	if lvl := viper.GetString("log_level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	if h := viper.GetString("history"); h != "" {
		cfg.History = h
	}
	if n := viper.GetInt("max_rolls"); n > 0 {
		cfg.MaxRolls = n
	}
	return cfg
}

func newLogger(cfg config.Engine) *slog.Logger {
	return config.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
}

// loadDefinition resolves a table reference against the configured directories.
func loadDefinition(cfg config.Engine, ref string) *data.Definition {
	def, err := data.NewLoader(append(cfg.TablesDir, "tables")).Load(ref)
	if err != nil {
		fmt.Printf("Error loading loot table: %v\n", err)
		os.Exit(1)
	}
	return def
}
