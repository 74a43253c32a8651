// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paper-digest CLI. It turns a
// scored paper set into a Markdown digest grouped by topic criteria.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-digest/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const (
	defaultCriteriaPath = "configs/paper_topics.txt"
	defaultInputPath    = "out/output.json"
	defaultOutputPath   = "out/output.md"
	dateFlagLayout      = "2006-01-02"
)

// rootCmd is the base command for the paper-digest CLI.
var rootCmd = &cobra.Command{
	Use:   "paper-digest",
	Short: "Render scored arXiv papers as a Markdown digest",
	Long: `paper-digest reads a set of scored paper records and a list of numbered
topic criteria, files each paper under the criterion its reviewer comment
names, and writes a Markdown digest with a per-topic index and the full
paper list.

Settings come from flags, PAPER_DIGEST_* environment variables (a .env file
in the working directory is loaded first), or paper-digest.yaml.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("loading .env: %w", err)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./paper-digest.yaml or ~/.config/paper-digest/config.yaml)")
	rootCmd.PersistentFlags().String("criteria", defaultCriteriaPath, "topic criteria file, one numbered criterion per line")
	rootCmd.PersistentFlags().String("input", defaultInputPath, "scored paper set (JSON or YAML)")
	rootCmd.PersistentFlags().String("overflow", string(types.OverflowUnknown), "policy for topic ids without a criterion: unknown, reject, or extend")
	rootCmd.PersistentFlags().String("archive-dir", "", "directory of the SQLite run history (empty disables archiving)")

	for _, key := range []string{"criteria", "input", "overflow", "archive-dir"} {
		viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(key))
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paper-digest")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paper-digest"))
		}
	}

	viper.SetEnvPrefix("PAPER_DIGEST")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// digestConfig assembles the run settings from flags, environment, and the
// config file, in viper's precedence order.
func digestConfig() (types.DigestConfig, error) {
	overflow, err := types.ParseOverflowPolicy(viper.GetString("overflow"))
	if err != nil {
		return types.DigestConfig{}, err
	}
	date, err := parseDigestDate(viper.GetString("date"), time.Now())
	if err != nil {
		return types.DigestConfig{}, err
	}
	return types.DigestConfig{
		CriteriaPath: viper.GetString("criteria"),
		InputPath:    viper.GetString("input"),
		OutputPath:   viper.GetString("output"),
		Date:         date,
		Overflow:     overflow,
		ArchiveDir:   viper.GetString("archive-dir"),
	}, nil
}

// parseDigestDate reads a YYYY-MM-DD date in local time. Empty means now.
func parseDigestDate(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return now, nil
	}
	t, err := time.ParseInLocation(dateFlagLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD", s)
	}
	return t, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
