// Package mcp provides an MCP (Model Context Protocol) server adapter for stixnav.
// It lets AI assistants search ATT&CK knowledge bases and resolve the
// techniques related to groups, software, mitigations and campaigns.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")

// ErrNoDomain is returned when a tool call names no domain and no default is set.
var ErrNoDomain = errors.New("mcp: no domain version given and no default configured")

// ErrRelationsUnavailable is returned when related_techniques is called without a relation service.
var ErrRelationsUnavailable = errors.New("mcp: relation service not configured")
