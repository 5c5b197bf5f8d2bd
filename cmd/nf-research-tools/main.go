// Copyright NF Open Science Initiative, 2026. All rights reserved.

// Package main is the entry point for the nf-research-tools CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nf-osi/nf-research-tools-schema-sub001/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback when set, otherwise the secret value for key.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the nf-research-tools CLI.
var rootCmd = &cobra.Command{
	Use:   "nf-research-tools",
	Short: "Publication evidence pipeline for NF research-tool curation",
	Long: `nf-research-tools extracts research-tool evidence from the NF literature.
It caches publication text in stages, mines candidate tool mentions, sends
them to a review collaborator for verdicts, resolves verdicts into
submission tables, links extracted observations to the resource store, and
scores every resource's documentation completeness.

Each pipeline stage is a subcommand: fetch, mine, review, resolve, match,
score, and upgrade. The store subcommand manages the resource database.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./nf-research-tools.yaml or ~/.config/nf-research-tools/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("nf-research-tools")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "nf-research-tools"))
		}
	}

	viper.SetEnvPrefix("NF_RESEARCH_TOOLS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
