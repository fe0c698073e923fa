package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "venty",
	Short: "VenTY Relay - multi-provider LLM gateway",
	Long: `VenTY Relay is a gateway that routes chat requests across many
interchangeable LLM providers.

It provides:
  - Failover across providers and models, with no timed retries
  - Per-conversation provider affinity
  - Temporary blacklisting of repeatedly failing providers
  - Vision-aware provider selection and image context memoization
  - Buffered and streamed (SSE) completion endpoints`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
