// Package tui provides the terminal user interface for watching a
// diagnostic workflow run live.
package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/opskit/diagflow/internal/engine"
	"github.com/opskit/diagflow/pkg/models"
)

// EventMsg wraps an engine event for the TUI.
type EventMsg struct {
	Event engine.Event
}

// RunDoneMsg signals that the workflow run has completed.
type RunDoneMsg struct {
	Result *models.WorkflowResult
	Err    error
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	phaseStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	healthyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	criticalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Faint(true)
)

// taskState is what the view knows about one task.
type taskState struct {
	id      string
	phase   int
	running bool
	status  models.HealthStatus
	done    bool
}

// RunModel is the bubbletea model for a single workflow run.
type RunModel struct {
	workflowID string
	runID      string
	phaseTotal int
	phase      int
	spinner    spinner.Model
	tasks      map[string]*taskState
	order      []string
	events     <-chan engine.Event
	done       <-chan RunDoneMsg
	result     *models.WorkflowResult
	err        error
	quitting   bool
}

// NewRunModel creates a run view fed by the engine's event stream and
// a completion channel.
func NewRunModel(workflowID string, events <-chan engine.Event, done <-chan RunDoneMsg) *RunModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	return &RunModel{
		workflowID: workflowID,
		spinner:    s,
		tasks:      make(map[string]*taskState),
		events:     events,
		done:       done,
	}
}

// waitForEvent blocks on the next engine event or run completion.
func (m *RunModel) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		select {
		case event, ok := <-m.events:
			if !ok {
				return RunDoneMsg{}
			}
			return EventMsg{Event: event}
		case doneMsg := <-m.done:
			return doneMsg
		}
	}
}

// Init implements tea.Model.
func (m *RunModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForEvent())
}

// Update implements tea.Model.
func (m *RunModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case EventMsg:
		m.apply(msg.Event)
		return m, m.waitForEvent()

	case RunDoneMsg:
		m.result = msg.Result
		m.err = msg.Err
		return m, tea.Quit
	}

	return m, nil
}

// apply folds one engine event into the view state.
func (m *RunModel) apply(event engine.Event) {
	if event.RunID != "" {
		m.runID = event.RunID
	}
	if event.PhaseTotal > 0 {
		m.phaseTotal = event.PhaseTotal
	}

	switch event.Type {
	case engine.EventPhaseStarted:
		m.phase = event.Phase
	case engine.EventTaskStarted:
		m.track(event.TaskID, event.Phase).running = true
	case engine.EventTaskCompleted, engine.EventTaskFailed:
		task := m.track(event.TaskID, event.Phase)
		task.running = false
		task.done = true
		task.status = event.Status
	}
}

// track returns the state entry for a task, creating it on first sight.
func (m *RunModel) track(taskID string, phase int) *taskState {
	if task, ok := m.tasks[taskID]; ok {
		return task
	}
	task := &taskState{id: taskID, phase: phase}
	m.tasks[taskID] = task
	m.order = append(m.order, taskID)
	return task
}

// View implements tea.Model.
func (m *RunModel) View() string {
	var sb strings.Builder

	header := fmt.Sprintf("diagflow %s", m.workflowID)
	if m.runID != "" {
		header += dimStyle.Render(fmt.Sprintf(" run %s", m.runID))
	}
	sb.WriteString(titleStyle.Render(header))
	sb.WriteString("\n")
	if m.phaseTotal > 0 {
		sb.WriteString(phaseStyle.Render(fmt.Sprintf("phase %d/%d", m.phase+1, m.phaseTotal)))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	ids := make([]string, len(m.order))
	copy(ids, m.order)
	sort.SliceStable(ids, func(i, j int) bool {
		return m.tasks[ids[i]].phase < m.tasks[ids[j]].phase
	})

	for _, id := range ids {
		task := m.tasks[id]
		switch {
		case task.running:
			fmt.Fprintf(&sb, "  %s %s\n", m.spinner.View(), id)
		case task.done:
			fmt.Fprintf(&sb, "  %s %s %s\n", statusGlyph(task.status), id, dimStyle.Render(string(task.status)))
		default:
			fmt.Fprintf(&sb, "  %s %s\n", dimStyle.Render("·"), id)
		}
	}

	sb.WriteString("\n")
	switch {
	case m.err != nil:
		sb.WriteString(errorStyle.Render(fmt.Sprintf("run failed: %v", m.err)))
		sb.WriteString("\n")
	case m.result != nil:
		sb.WriteString(fmt.Sprintf("%s %s in %s\n",
			statusGlyph(m.result.Status),
			titleStyle.Render("run "+string(m.result.Status)),
			m.result.ExecutionTime.Round(time.Millisecond)))
	case !m.quitting:
		sb.WriteString(dimStyle.Render("q to quit"))
		sb.WriteString("\n")
	}

	return sb.String()
}

// Result returns the finished run's result, if any.
func (m *RunModel) Result() (*models.WorkflowResult, error) {
	return m.result, m.err
}

// statusGlyph renders a colored marker for a status.
func statusGlyph(status models.HealthStatus) string {
	switch status {
	case models.StatusHealthy:
		return healthyStyle.Render("✓")
	case models.StatusWarning:
		return warningStyle.Render("!")
	case models.StatusCritical:
		return criticalStyle.Render("✗")
	case models.StatusError:
		return errorStyle.Render("✗")
	default:
		return "·"
	}
}
