// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the docx2jats CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the docx2jats CLI.
var rootCmd = &cobra.Command{
	Use:   "docx2jats",
	Short: "Convert publisher DOCX manuscripts to JATS 1.2 XML",
	Long: `docx2jats converts styled DOCX manuscripts into JATS 1.2 XML suitable for
PMC submission. It extracts metadata, body sections, references, tables, and
figures from the manuscript's paragraph styles, optionally enriches the
bibliography against CrossRef and OpenAlex, and renders the article with
typed cross-references.

Subcommands: convert runs the pipeline on files, serve exposes it over
HTTP, and history lists logged conversions.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./docx2jats.yaml or ~/.config/docx2jats/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("docx2jats")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "docx2jats"))
		}
	}

	viper.SetEnvPrefix("DOCX2JATS")
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
