package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/opskit/diagflow/internal/config"
	"github.com/opskit/diagflow/internal/engine"
	"github.com/opskit/diagflow/internal/tui"
	"github.com/opskit/diagflow/pkg/models"
)

// runWithTUI executes the workflow in the background while a live
// terminal view consumes the engine's event stream. The report is
// printed after the view exits.
func runWithTUI(ctx context.Context, cfg *config.Config, orch *engine.Orchestrator, workflowID string, diagCtx map[string]any) error {
	result, err := executeWithTUI(ctx, orch, workflowID, diagCtx)
	if err != nil {
		return err
	}
	return renderReport(result, outputFormat(cfg))
}

// executeWithTUI runs the workflow under a live view and returns its
// result. The run goroutine delivers the result on a channel the view
// never reads, so the result survives the user quitting the view
// before the run finishes.
func executeWithTUI(ctx context.Context, orch *engine.Orchestrator, workflowID string, diagCtx map[string]any, progOpts ...tea.ProgramOption) (*models.WorkflowResult, error) {
	viewDone := make(chan tui.RunDoneMsg, 1)
	final := make(chan tui.RunDoneMsg, 1)

	go func() {
		result, err := orch.Execute(ctx, workflowID, diagCtx)
		msg := tui.RunDoneMsg{Result: result, Err: err}
		final <- msg
		viewDone <- msg
	}()

	model := tui.NewRunModel(workflowID, orch.Events(), viewDone)
	if _, err := tea.NewProgram(model, progOpts...).Run(); err != nil {
		return nil, fmt.Errorf("run TUI: %w", err)
	}

	// Both channels are buffered, so the run goroutine always gets to
	// deliver here even when the view quit early and a leftover view
	// command drained viewDone.
	msg := <-final
	return msg.Result, msg.Err
}
