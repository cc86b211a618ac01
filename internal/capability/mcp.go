package capability

import (
	"context"
	"errors"
	"fmt"
	"sync"

	mcp "github.com/metoro-io/mcp-golang"
	"github.com/metoro-io/mcp-golang/transport"
)

// MCPInvoker exposes the tools of an MCP server as capabilities.
// It lets diagnostic tooling live in a separate process while task
// executors keep using the plain Invoker contract.
type MCPInvoker struct {
	client *mcp.Client

	mu    sync.RWMutex
	tools map[string]bool
}

// NewMCPInvoker creates an invoker over the given MCP transport.
// Initialize must be called before Invoke.
func NewMCPInvoker(t transport.Transport) *MCPInvoker {
	return &MCPInvoker{
		client: mcp.NewClient(t),
		tools:  make(map[string]bool),
	}
}

// Initialize performs the MCP handshake and caches the server's tool
// list for name lookups.
func (m *MCPInvoker) Initialize(ctx context.Context) error {
	if _, err := m.client.Initialize(ctx); err != nil {
		return fmt.Errorf("initialize MCP client: %w", err)
	}

	tools, err := m.client.ListTools(ctx, nil)
	if err != nil {
		return fmt.Errorf("list MCP tools: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, tool := range tools.Tools {
		m.tools[tool.Name] = true
	}
	return nil
}

// Names returns the cached tool names discovered during Initialize.
func (m *MCPInvoker) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.tools))
	for name := range m.tools {
		names = append(names, name)
	}
	return names
}

// Invoke calls the named MCP tool and folds its response into a
// Result. Unknown tools and transport failures are reported through
// the Result rather than surfaced as errors.
func (m *MCPInvoker) Invoke(ctx context.Context, name string, args map[string]any) Result {
	m.mu.RLock()
	known := m.tools[name]
	m.mu.RUnlock()

	if !known {
		return Result{Error: fmt.Sprintf("unknown capability %q", name)}
	}

	response, err := m.client.CallTool(ctx, name, args)
	if err != nil {
		return Result{Error: fmt.Sprintf("call MCP tool %s: %v", name, err)}
	}

	text, err := firstText(response)
	if err != nil {
		return Result{Error: err.Error()}
	}
	return Result{Success: true, Data: text}
}

// firstText extracts the first text block from an MCP tool response.
func firstText(response *mcp.ToolResponse) (string, error) {
	if response == nil || len(response.Content) == 0 || response.Content[0].TextContent == nil {
		return "", errors.New("empty response from MCP tool")
	}
	return response.Content[0].TextContent.Text, nil
}
