package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opskit/diagflow/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show the effective diagflow configuration.

Configuration is read from ~/.config/diagflow/config.yaml, with
project-specific overrides from .diagflow.yaml and DIAGFLOW_*
environment variables.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		apiKeyDisplay := "(not set)"
		if cfg.Anthropic.APIKey != "" {
			apiKeyDisplay = "****"
		}

		fmt.Printf("anthropic.api_key: %s\n", apiKeyDisplay)
		fmt.Printf("anthropic.model: %s\n", orDefault(cfg.Anthropic.Model, "(sdk default)"))
		fmt.Printf("anthropic.use_aws_bedrock: %t\n", cfg.Anthropic.UseAWSBedrock)
		fmt.Printf("retry.max_retries: %d\n", cfg.Retry.MaxRetries)
		fmt.Printf("retry.base_delay: %s\n", cfg.Retry.BaseDelay)
		fmt.Printf("retry.max_delay: %s\n", cfg.Retry.MaxDelay)
		fmt.Printf("retry.exponential_base: %g\n", cfg.Retry.ExponentialBase)
		fmt.Printf("retry.jitter: %t\n", cfg.Retry.Jitter)
		fmt.Printf("defaults.executor: %s\n", cfg.Defaults.Executor)
		fmt.Printf("defaults.task_timeout: %s\n", cfg.Defaults.TaskTimeout)
		fmt.Printf("defaults.output: %s\n", cfg.Defaults.Output)
		fmt.Printf("history.enabled: %t\n", cfg.History.Enabled)
		fmt.Printf("history.path: %s\n", orDefault(cfg.History.Path, "(global default)"))
		return nil
	},
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
