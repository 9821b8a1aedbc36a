package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/stixnav/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for stixnav resources.
	uriScheme = "stixnav://"
)

// domainInfo is the JSON shape of a domain summary.
type domainInfo struct {
	VersionID  string `json:"version_id"`
	Name       string `json:"name"`
	Version    string `json:"version,omitempty"`
	Techniques int    `json:"techniques"`
	Source     string `json:"source,omitempty"`
	ImportedAt string `json:"imported_at,omitempty"`
}

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "domains",
		Name:        "domains",
		Description: "ATT&CK domain versions in the bundle library",
		MIMEType:    "application/json",
	}, s.handleDomainsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "domains/{versionId}",
		Name:        "domain",
		Description: "Summary of one ATT&CK domain version",
		MIMEType:    "application/json",
	}, s.handleDomainResource)
}

// handleDomainsResource returns every stored domain version.
func (s *Server) handleDomainsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	summaries, err := s.summaries(ctx)
	if err != nil {
		return nil, err
	}

	infos := make([]domainInfo, 0, len(summaries))
	for _, sum := range summaries {
		infos = append(infos, toDomainInfo(sum))
	}
	return jsonResource(req.Params.URI, infos)
}

// handleDomainResource returns the summary of one domain version.
func (s *Server) handleDomainResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	versionID := extractVersionID(req.Params.URI)
	if versionID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	summaries, err := s.summaries(ctx)
	if err != nil {
		return nil, err
	}
	for _, sum := range summaries {
		if sum.VersionID == versionID {
			return jsonResource(req.Params.URI, toDomainInfo(sum))
		}
	}
	return nil, mcp.ResourceNotFoundError(req.Params.URI)
}

func (s *Server) summaries(ctx context.Context) ([]domain.DomainSummary, error) {
	if s.ports.Library == nil {
		return nil, nil
	}
	summaries, err := s.ports.Library.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing domains: %w", err)
	}
	return summaries, nil
}

func toDomainInfo(sum domain.DomainSummary) domainInfo {
	info := domainInfo{
		VersionID:  sum.VersionID,
		Name:       sum.Name,
		Version:    sum.Version,
		Techniques: sum.Techniques,
		Source:     sum.Source,
	}
	if !sum.ImportedAt.IsZero() {
		info.ImportedAt = sum.ImportedAt.UTC().Format(time.RFC3339)
	}
	return info
}

// EncodeJSON renders v as indented JSON without HTML escaping, so names
// such as "Enterprise ATT&CK" are kept as written.
func EncodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := EncodeJSON(v)
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractVersionID extracts the version ID from a URI like stixnav://domains/{versionId}.
func extractVersionID(uri string) string {
	const prefix = uriScheme + "domains/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
