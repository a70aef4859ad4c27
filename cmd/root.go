// Package cmd defines and implements the CLI commands for the jobsweep executable.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobsweep",
		Short: "A job-posting scraper for Freshersworld.",
		Long: `jobsweep crawls Freshersworld search-result pages, follows job-posting
links, extracts structured job records from JSON-LD and page markup, and
appends them to a configured sink.`,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./jobsweep.yaml)")

	cmd.AddCommand(newScrapeCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
