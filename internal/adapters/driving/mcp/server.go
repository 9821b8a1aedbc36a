package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/stixnav/internal/core/domain"
	"github.com/custodia-labs/stixnav/internal/logger"
)

// Version is the MCP server version.
const Version = "0.1.0"

// Server is the MCP server for stixnav.
type Server struct {
	ports  *Ports
	server *mcp.Server

	mu     sync.Mutex
	loaded map[string]bool
}

// NewServer creates a new MCP server with the given ports.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	impl := &mcp.Implementation{
		Name:    "stixnav",
		Version: Version,
	}

	s := &Server{
		ports:  ports,
		server: mcp.NewServer(impl, nil),
		loaded: make(map[string]bool),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Run starts the MCP server over stdio.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP starts the MCP server over HTTP on the specified address.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown when context is cancelled
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background()) //nolint:errcheck
	}()

	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// domainFor resolves the version a tool call targets and makes sure it is
// loaded from the bundle library when one is configured.
func (s *Server) domainFor(ctx context.Context, versionID string) (string, error) {
	if versionID == "" {
		versionID = s.ports.DefaultDomain
	}
	if versionID == "" {
		return "", ErrNoDomain
	}
	if s.ports.Library == nil {
		return versionID, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded[versionID] {
		return versionID, nil
	}
	if _, err := s.ports.Library.Load(ctx, versionID); err != nil {
		// Domains loaded straight from a file are not in the library.
		if !errors.Is(err, domain.ErrNotFound) {
			return "", err
		}
		logger.Debug("mcp: %s not in library, using domain store as is", versionID)
	}
	s.loaded[versionID] = true
	return versionID, nil
}
