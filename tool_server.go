package vertexai

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ToolServerManager discovers MCP tool servers and bridges them into the
// Vertex AI function-calling surface: tools are exposed as
// FunctionDeclarations and model FunctionCalls are executed against the
// owning server. The manager is safe for concurrent use.
type ToolServerManager struct {
	mu      sync.RWMutex
	clients map[string]*ToolServerClient
}

// NewToolServerManager creates a new, empty manager.
func NewToolServerManager() *ToolServerManager {
	return &ToolServerManager{
		clients: make(map[string]*ToolServerClient),
	}
}

// ToolServerConfig defines the top-level structure of the mcp.json file.
type ToolServerConfig struct {
	MCPServers map[string]ToolServerEntry `json:"mcpServers"`
}

// ToolServerEntry configures one command-based MCP server.
type ToolServerEntry struct {
	Command string            `json:"command"`
	Args    []string          `json:"args"`
	Env     map[string]string `json:"env"`
}

// LoadFromFile parses a standard mcp.json file and registers all defined
// servers with the manager.
func (m *ToolServerManager) LoadFromFile(configFile string) error {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return fmt.Errorf("failed to read tool server config file '%s': %w", configFile, err)
	}
	var config ToolServerConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("failed to parse tool server config JSON: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for name, entry := range config.MCPServers {
		if entry.Command == "" {
			continue
		}
		cmd := exec.Command(entry.Command, entry.Args...)
		if len(entry.Env) > 0 {
			cmd.Env = os.Environ()
			for key, value := range entry.Env {
				cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", key, value))
			}
		}
		m.clients[name] = newToolServerClient(mcp.NewCommandTransport(cmd))
	}
	return nil
}

// AddRemoteServer programmatically registers a remote, HTTP-based MCP server.
func (m *ToolServerManager) AddRemoteServer(name, url string) error {
	if url == "" {
		return fmt.Errorf("url cannot be empty for remote server '%s'", name)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.clients[name]; exists {
		return fmt.Errorf("server with name '%s' already exists", name)
	}
	m.clients[name] = newToolServerClient(mcp.NewStreamableClientTransport(url, nil))
	return nil
}

// ServerNames returns the names of all registered servers.
func (m *ToolServerManager) ServerNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.clients))
	for name := range m.clients {
		names = append(names, name)
	}
	return names
}

// GetClient retrieves the client for the server with the given name.
func (m *ToolServerManager) GetClient(name string) (*ToolServerClient, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	client, ok := m.clients[name]
	return client, ok
}

// ToolServerClient handles the connection lifecycle for a single MCP
// server and the translation to and from Vertex AI tool types.
type ToolServerClient struct {
	client    *mcp.Client
	transport mcp.Transport
	session   *mcp.ClientSession
}

func newToolServerClient(transport mcp.Transport) *ToolServerClient {
	return &ToolServerClient{
		client:    mcp.NewClient(&mcp.Implementation{Name: "vertexai-go", Version: sdkVersion}, nil),
		transport: transport,
	}
}

// Connect establishes a session with the MCP server.
func (c *ToolServerClient) Connect(ctx context.Context) error {
	if c.session != nil {
		return fmt.Errorf("session already established")
	}
	session, err := c.client.Connect(ctx, c.transport)
	if err != nil {
		return fmt.Errorf("mcp connect failed: %w", err)
	}
	c.session = session
	return nil
}

// Close terminates the session with the MCP server.
func (c *ToolServerClient) Close() error {
	if c.session != nil {
		err := c.session.Close()
		c.session = nil
		return err
	}
	return nil
}

// FetchTools lists the server's tools as a Vertex AI Tool carrying one
// FunctionDeclaration per MCP tool.
func (c *ToolServerClient) FetchTools(ctx context.Context) ([]Tool, error) {
	if c.session == nil {
		return nil, fmt.Errorf("not connected to MCP server, call Connect() first")
	}
	mcpTools, err := c.session.ListTools(ctx, &mcp.ListToolsParams{})
	if err != nil {
		return nil, fmt.Errorf("mcp list tools failed: %w", err)
	}
	var decls []FunctionDeclaration
	for _, mcpTool := range mcpTools.Tools {
		paramsJSON, err := json.Marshal(mcpTool.InputSchema)
		if err != nil {
			continue
		}
		decls = append(decls, FunctionDeclaration{
			Name:        mcpTool.Name,
			Description: mcpTool.Description,
			Parameters:  json.RawMessage(paramsJSON),
		})
	}
	if len(decls) == 0 {
		return nil, nil
	}
	return []Tool{{FunctionDeclarations: decls}}, nil
}

// ExecuteFunctionCall runs a model-requested function call on the server
// and wraps the output as a FunctionResponse part ready to send back.
func (c *ToolServerClient) ExecuteFunctionCall(ctx context.Context, call *FunctionCall) (*Part, error) {
	if c.session == nil {
		return nil, fmt.Errorf("not connected to MCP server, call Connect() first")
	}
	params := &mcp.CallToolParams{Name: call.Name, Arguments: call.Args}
	res, err := c.session.CallTool(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("mcp call tool '%s' failed: %w", call.Name, err)
	}
	var output string
	if res.IsError {
		output = "Error: "
	}
	for _, contentItem := range res.Content {
		if textContent, ok := contentItem.(*mcp.TextContent); ok {
			output += textContent.Text
		}
	}
	return &Part{FunctionResponse: &FunctionResponse{
		Name:     call.Name,
		Response: map[string]any{"content": output},
	}}, nil
}
