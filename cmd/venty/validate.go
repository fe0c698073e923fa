package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"venty-hq/relay/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long: `Load and validate the configuration file without starting the
gateway.

Validation covers the provider catalog (wire protocols, model lists,
vision capability), routing parameters, and telemetry settings. Exit
status is non-zero when the configuration is invalid.

Examples:
  # Validate the default config
  venty validate

  # Validate a specific file
  venty validate --config /etc/venty/config.yaml`,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	fmt.Printf("Configuration valid: %d providers configured\n", len(cfg.Providers))
	if verbose {
		for _, p := range cfg.Providers {
			fmt.Printf("  - %s (wire=%s, vision=%t, free=%t, models=%d)\n",
				p.Name, p.Wire, p.SupportsVision, p.Free, len(p.Models))
		}
	}
	return nil
}
