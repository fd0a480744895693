package vertexai_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/liuzl/vertexai"
)

// TestToolServerManagerConcurrency tests that ToolServerManager is safe for concurrent use.
func TestToolServerManagerConcurrency(t *testing.T) {
	manager := vertexai.NewToolServerManager()

	numGoroutines := 100

	var wg sync.WaitGroup
	wg.Add(numGoroutines * 3)

	for i := range numGoroutines {
		go func(idx int) {
			defer wg.Done()
			serverName := "test-server-" + string(rune('a'+idx%26)) + string(rune('0'+idx/26))
			_ = manager.AddRemoteServer(serverName, "http://localhost:8080")
		}(i)
	}

	for range numGoroutines {
		go func() {
			defer wg.Done()
			_ = manager.ServerNames()
		}()
	}

	for i := range numGoroutines {
		go func(idx int) {
			defer wg.Done()
			serverName := "test-server-" + string(rune('a'+idx%26)) + string(rune('0'+idx/26))
			_, _ = manager.GetClient(serverName)
		}(i)
	}

	wg.Wait()

	names := manager.ServerNames()
	if len(names) == 0 {
		t.Error("Expected at least some servers to be registered")
	}
}

// TestToolServerManagerAddDuplicate tests that adding a duplicate server returns an error.
func TestToolServerManagerAddDuplicate(t *testing.T) {
	manager := vertexai.NewToolServerManager()

	if err := manager.AddRemoteServer("test-server", "http://localhost:8080"); err != nil {
		t.Fatalf("First AddRemoteServer failed: %v", err)
	}

	if err := manager.AddRemoteServer("test-server", "http://localhost:8080"); err == nil {
		t.Error("Expected error when adding duplicate server, got nil")
	}
}

// TestToolServerManagerEmptyURL tests that empty URL returns an error.
func TestToolServerManagerEmptyURL(t *testing.T) {
	manager := vertexai.NewToolServerManager()

	if err := manager.AddRemoteServer("test-server", ""); err == nil {
		t.Error("Expected error for empty URL, got nil")
	}
}

// TestToolServerManagerGetNonExistent tests getting a non-existent server.
func TestToolServerManagerGetNonExistent(t *testing.T) {
	manager := vertexai.NewToolServerManager()

	client, exists := manager.GetClient("non-existent")
	if exists {
		t.Error("Expected exists to be false for non-existent server")
	}
	if client != nil {
		t.Error("Expected nil client for non-existent server")
	}
}

// TestToolServerManagerLoadFromFile tests registering command-based servers
// from a standard mcp.json file.
func TestToolServerManagerLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mcp.json")
	content := `{
		"mcpServers": {
			"shell": {"command": "/usr/bin/env", "args": ["true"]},
			"empty-command": {"command": ""}
		}
	}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	manager := vertexai.NewToolServerManager()
	if err := manager.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if _, ok := manager.GetClient("shell"); !ok {
		t.Error("Expected 'shell' server to be registered")
	}
	// Entries without a command are skipped.
	if _, ok := manager.GetClient("empty-command"); ok {
		t.Error("Expected 'empty-command' server to be skipped")
	}
}

// TestToolServerManagerLoadFromFileMissing tests the missing-file error path.
func TestToolServerManagerLoadFromFileMissing(t *testing.T) {
	manager := vertexai.NewToolServerManager()
	if err := manager.LoadFromFile("/nonexistent/mcp.json"); err == nil {
		t.Error("Expected error for missing config file, got nil")
	}
}
