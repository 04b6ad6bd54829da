// Package cmd implements the railplan command line.
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/railplan/config"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:           "railplan",
	Short:         "Train and passenger schedule search",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (YAML or JSON)")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// ExecuteContext runs the CLI with ctx, which cancels a running search.
func ExecuteContext(ctx context.Context) error { return rootCmd.ExecuteContext(ctx) }

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
