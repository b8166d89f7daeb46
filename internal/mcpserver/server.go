// Package mcpserver exposes the manifest tree over MCP so AI tools can
// query agents, render prompts and compile recipes without shelling out
// to the CLI.
package mcpserver

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/mark3labs/mcp-go/server"

	"recipeforge/internal/backend"
	"recipeforge/internal/compiler"
	"recipeforge/internal/logger"
	"recipeforge/internal/manifest"
)

// Server manages an embedded MCP HTTP server over one manifest store
// snapshot.
type Server struct {
	store      *manifest.Store
	registry   *backend.Registry
	compiler   *compiler.Compiler
	mcpServer  *server.MCPServer
	httpServer *server.StreamableHTTPServer
	port       int
	mu         sync.Mutex
}

// New creates a new MCP server over the given store. port 0 picks a
// random free port at Start time.
func New(store *manifest.Store, port int) *Server {
	registry := backend.DefaultRegistry()
	return &Server{
		store:    store,
		registry: registry,
		compiler: compiler.New(store, registry),
		port:     port,
	}
}

// Start starts the MCP HTTP server. Returns the bound port.
func (s *Server) Start(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.httpServer != nil {
		return 0, fmt.Errorf("server already started")
	}

	s.mcpServer = server.NewMCPServer(
		"recipeforge",
		"1.0.0",
		server.WithToolCapabilities(true),
	)
	s.registerTools()

	if s.port == 0 {
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return 0, fmt.Errorf("failed to find available port: %w", err)
		}
		s.port = listener.Addr().(*net.TCPAddr).Port
		if err := listener.Close(); err != nil {
			return 0, fmt.Errorf("failed to close listener: %w", err)
		}
	}

	// Stateless: every tool call stands alone, no MCP session state.
	s.httpServer = server.NewStreamableHTTPServer(
		s.mcpServer,
		server.WithStateLess(true),
	)

	addr := fmt.Sprintf("127.0.0.1:%d", s.port)
	httpServer := s.httpServer
	go func() {
		if err := httpServer.Start(addr); err != nil {
			logger.Error("MCP server error: %v", err)
		}
	}()

	logger.Info("MCP server ready on port %d", s.port)
	return s.port, nil
}

// Stop stops the MCP HTTP server.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.httpServer == nil {
		return nil
	}

	if err := s.httpServer.Shutdown(context.Background()); err != nil {
		logger.Warn("Error stopping MCP server: %v", err)
		return fmt.Errorf("failed to stop server: %w", err)
	}

	s.httpServer = nil
	s.mcpServer = nil
	return nil
}

// URL returns the HTTP URL for the MCP server endpoint.
func (s *Server) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("http://localhost:%d/mcp", s.port)
}
