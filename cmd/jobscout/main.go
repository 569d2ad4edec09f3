// Package main provides the jobscout command line: one-off runs, config
// validation, the HTTP API and the scheduled daemon.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/jobscout/internal/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "jobscout",
	Short: "Aggregate recent USA job postings from ATS job boards",
	Long: `jobscout pulls listings from Greenhouse, Lever, Ashby, Workday and other
ATS backends, normalizes them into one record, and keeps the recent,
keyword-matching, USA-located ones.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath, "Path to the ATS config file (.json or .yaml)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
