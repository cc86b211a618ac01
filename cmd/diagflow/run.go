package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/fatih/color"
	"github.com/metoro-io/mcp-golang/transport/stdio"
	"github.com/spf13/cobra"

	"github.com/opskit/diagflow/internal/capability"
	"github.com/opskit/diagflow/internal/catalog"
	"github.com/opskit/diagflow/internal/config"
	"github.com/opskit/diagflow/internal/engine"
	"github.com/opskit/diagflow/internal/executor"
	"github.com/opskit/diagflow/internal/llm"
	"github.com/opskit/diagflow/internal/retry"
	"github.com/opskit/diagflow/internal/state"
)

var (
	runContextVars  []string
	runExecutorName string
	runOutputFormat string
	runMCPCommand   string
	runUseTUI       bool
	runNoHistory    bool
)

var runCmd = &cobra.Command{
	Use:   "run <workflow-id>",
	Short: "Execute a diagnostic workflow",
	Long: `Execute a registered diagnostic workflow and print its report.

Context variables feed instruction templates and capability calls:

  diagflow run cluster-triage -c time_range=1h -c focus=logs-*

By default tasks run through the deterministic rule-based executor
against bundled sample capabilities. Point --mcp at a tool server
command to run against real diagnostics, or use --executor agent to
route analysis tasks through the Anthropic API.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWorkflow(cmd.Context(), args[0])
	},
}

func init() {
	runCmd.Flags().StringArrayVarP(&runContextVars, "context", "c", nil, "Context variable as key=value (repeatable)")
	runCmd.Flags().StringVar(&runExecutorName, "executor", "", "Task executor: rules or agent (default from config)")
	runCmd.Flags().StringVarP(&runOutputFormat, "output", "o", "", "Report format: text, json, or yaml (default from config)")
	runCmd.Flags().StringVar(&runMCPCommand, "mcp", "", "Command launching an MCP tool server for capabilities")
	runCmd.Flags().BoolVar(&runUseTUI, "tui", false, "Watch the run in a live terminal view")
	runCmd.Flags().BoolVar(&runNoHistory, "no-history", false, "Skip persisting the run to history")
}

func runWorkflow(ctx context.Context, workflowID string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	diagCtx, err := parseContextVars(runContextVars)
	if err != nil {
		return err
	}

	invoker, cleanup, err := buildInvoker(ctx)
	if err != nil {
		return err
	}
	if cleanup != nil {
		defer cleanup()
	}

	taskExec, err := buildExecutor(cfg, invoker)
	if err != nil {
		return err
	}

	registry := engine.NewRegistry()
	if err := catalog.RegisterBuiltins(registry); err != nil {
		return fmt.Errorf("register built-in workflows: %w", err)
	}

	opts := []engine.Option{}
	if cfg.History.Enabled && !runNoHistory {
		db, err := openHistory(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: run history disabled: %v\n", err)
		} else {
			defer db.Close()
			opts = append(opts, engine.WithStore(db))
		}
	}
	if !runUseTUI {
		opts = append(opts, engine.WithNotifier(consoleNotifier{}))
	}

	orch := engine.New(registry, taskExec, opts...)

	if runUseTUI {
		return runWithTUI(ctx, cfg, orch, workflowID, diagCtx)
	}

	result, err := orch.Execute(ctx, workflowID, diagCtx)
	if err != nil {
		return err
	}
	return renderReport(result, outputFormat(cfg))
}

// parseContextVars converts repeated key=value flags into the run's
// diagnostic context.
func parseContextVars(vars []string) (map[string]any, error) {
	diagCtx := make(map[string]any, len(vars))
	for _, kv := range vars {
		key, value, found := strings.Cut(kv, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid context variable %q, want key=value", kv)
		}
		diagCtx[key] = value
	}
	return diagCtx, nil
}

// buildInvoker wires the capability source: an MCP tool server when
// --mcp is given, otherwise the bundled sample capabilities. The
// returned cleanup stops a spawned MCP server, if any.
func buildInvoker(ctx context.Context) (capability.Invoker, func(), error) {
	if runMCPCommand == "" {
		return catalog.SampleCapabilities(), nil, nil
	}

	parts := strings.Fields(runMCPCommand)
	if len(parts) == 0 {
		return nil, nil, fmt.Errorf("empty --mcp command")
	}
	server := exec.CommandContext(ctx, parts[0], parts[1:]...)
	stdin, err := server.StdinPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("pipe MCP server stdin: %w", err)
	}
	stdout, err := server.StdoutPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("pipe MCP server stdout: %w", err)
	}
	if err := server.Start(); err != nil {
		return nil, nil, fmt.Errorf("start MCP server: %w", err)
	}

	invoker := capability.NewMCPInvoker(stdio.NewStdioServerTransportWithIO(stdout, stdin))
	if err := invoker.Initialize(ctx); err != nil {
		server.Process.Kill()
		return nil, nil, fmt.Errorf("initialize MCP capabilities: %w", err)
	}

	cleanup := func() {
		server.Process.Kill()
		server.Wait()
	}
	return invoker, cleanup, nil
}

// buildExecutor selects the task executor named by flag or config.
func buildExecutor(cfg *config.Config, invoker capability.Invoker) (executor.TaskExecutor, error) {
	name := runExecutorName
	if name == "" {
		name = cfg.Defaults.Executor
	}

	policy := retry.Policy{
		MaxRetries:      cfg.Retry.MaxRetries,
		BaseDelay:       cfg.Retry.BaseDelay,
		MaxDelay:        cfg.Retry.MaxDelay,
		ExponentialBase: cfg.Retry.ExponentialBase,
		Jitter:          cfg.Retry.Jitter,
	}

	switch name {
	case "", "rules":
		ex := executor.NewRuleExecutor(invoker)
		ex.SetRetryPolicy(policy, nil)
		ex.SetDefaultTimeout(cfg.Defaults.TaskTimeout)
		return ex, nil
	case "agent":
		client, err := llm.NewClient(llm.ClientConfig{
			Model:         anthropic.Model(cfg.Anthropic.Model),
			APIKey:        cfg.Anthropic.APIKey,
			UseAWSBedrock: cfg.Anthropic.UseAWSBedrock,
			AWSRegion:     cfg.Anthropic.AWSRegion,
			AWSProfile:    cfg.Anthropic.AWSProfile,
		})
		if err != nil {
			return nil, fmt.Errorf("create LLM client: %w", err)
		}
		ex := executor.NewAgentExecutor(client)
		ex.SetRetryPolicy(policy, nil)
		ex.SetDefaultTimeout(cfg.Defaults.TaskTimeout)
		return ex, nil
	default:
		return nil, fmt.Errorf("unknown executor %q, want rules or agent", name)
	}
}

// openHistory opens the run history database from config.
func openHistory(cfg *config.Config) (*state.DB, error) {
	if cfg.History.Path != "" {
		return state.Open(cfg.History.Path)
	}
	return state.OpenGlobal()
}

// outputFormat resolves the report format from flag or config.
func outputFormat(cfg *config.Config) string {
	if runOutputFormat != "" {
		return runOutputFormat
	}
	if cfg.Defaults.Output != "" {
		return cfg.Defaults.Output
	}
	return "text"
}

// consoleNotifier prints engine progress messages to stderr.
type consoleNotifier struct{}

func (consoleNotifier) Info(message string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", color.CyanString("•"), message)
}

func (consoleNotifier) Error(message string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", color.RedString("!"), message)
}
