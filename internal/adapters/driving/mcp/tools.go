package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/stixnav/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query  string   `json:"query" jsonschema:"the text to find in names, ATT&CK IDs, descriptions and data sources"`
	Domain string   `json:"domain,omitempty" jsonschema:"domain version ID, defaults to the configured domain"`
	Fields []string `json:"fields,omitempty" jsonschema:"fields to match: name, attackID, description, datasources (default all)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Domain         string                `json:"domain"`
	Query          string                `json:"query"`
	Techniques     []TechniqueOutput     `json:"techniques"`
	Groups         []GroupOutput         `json:"groups"`
	DataComponents []DataComponentOutput `json:"data_components"`
	Count          int                   `json:"count"`
}

// TechniqueOutput represents a technique or sub-technique.
type TechniqueOutput struct {
	ID       string   `json:"id"`
	AttackID string   `json:"attack_id,omitempty"`
	Name     string   `json:"name"`
	Parent   string   `json:"parent,omitempty"`
	Tactics  []string `json:"tactics,omitempty"`
	URL      string   `json:"url,omitempty"`
}

// ObjectOutput represents a group, software, mitigation or campaign.
type ObjectOutput struct {
	ID       string `json:"id"`
	AttackID string `json:"attack_id,omitempty"`
	Name     string `json:"name"`
	URL      string `json:"url,omitempty"`
}

// GroupOutput is one non-technique result list.
type GroupOutput struct {
	Label   string         `json:"label"`
	Objects []ObjectOutput `json:"objects"`
}

// DataComponentOutput is one matching "<source>: <component>" label.
type DataComponentOutput struct {
	Label      string   `json:"label"`
	URL        string   `json:"url,omitempty"`
	Techniques []string `json:"techniques"`
}

// RelatedInput is the input schema for the related_techniques tool.
type RelatedInput struct {
	Object string `json:"object" jsonschema:"STIX ID, ATT&CK ID or exact name of a group, software, mitigation or campaign"`
	Domain string `json:"domain,omitempty" jsonschema:"domain version ID, defaults to the configured domain"`
}

// RelatedOutput is the output schema for the related_techniques tool.
type RelatedOutput struct {
	Object     ObjectOutput      `json:"object"`
	Techniques []TechniqueOutput `json:"techniques"`
	Count      int               `json:"count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search techniques, groups, software, mitigations, campaigns and data components of an ATT&CK domain",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "related_techniques",
		Description: "List the techniques a group, software, mitigation or campaign relates to",
	}, s.handleRelated)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	fields, err := domain.ParseFields(input.Fields)
	if err != nil {
		return nil, SearchOutput{}, err
	}
	versionID, err := s.domainFor(ctx, input.Domain)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	results, err := s.ports.Search.Search(ctx, versionID, input.Query, fields)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := NewSearchOutput(versionID, input.Query, results)
	res, err := textResult(output)
	if err != nil {
		return nil, SearchOutput{}, err
	}
	return res, output, nil
}

// handleRelated handles the related_techniques tool invocation.
func (s *Server) handleRelated(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RelatedInput,
) (*mcp.CallToolResult, RelatedOutput, error) {
	if s.ports.Relations == nil {
		return nil, RelatedOutput{}, ErrRelationsUnavailable
	}
	versionID, err := s.domainFor(ctx, input.Domain)
	if err != nil {
		return nil, RelatedOutput{}, err
	}

	obj, techniques, err := s.ports.Relations.RelatedTechniques(ctx, versionID, input.Object)
	if err != nil {
		return nil, RelatedOutput{}, err
	}

	output := NewRelatedOutput(obj, techniques)
	res, err := textResult(output)
	if err != nil {
		return nil, RelatedOutput{}, err
	}
	return res, output, nil
}

// textResult renders a tool output as its text content. Left empty, the
// SDK would fill it with HTML-escaped JSON.
func textResult(output any) (*mcp.CallToolResult, error) {
	data, err := EncodeJSON(output)
	if err != nil {
		return nil, fmt.Errorf("encoding tool output: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil
}

// NewSearchOutput converts search results into the search tool schema.
// The CLI prints the same shape for --json.
func NewSearchOutput(versionID, query string, results *domain.Results) SearchOutput {
	output := SearchOutput{
		Domain:         versionID,
		Query:          query,
		Techniques:     techniqueOutputs(results.Techniques),
		Groups:         make([]GroupOutput, 0, len(results.Groups)),
		DataComponents: make([]DataComponentOutput, 0, len(results.DataComponentLabels)),
		Count:          len(results.Techniques) + len(results.DataComponentLabels),
	}

	for _, g := range results.Groups {
		objects := make([]ObjectOutput, 0, len(g.Objects))
		for _, o := range g.Objects {
			objects = append(objects, objectOutput(o.Base()))
		}
		output.Groups = append(output.Groups, GroupOutput{Label: g.Label, Objects: objects})
		output.Count += len(objects)
	}

	for _, label := range results.DataComponentLabels {
		dc := results.DataComponents[label]
		ids := make([]string, 0, len(dc.Techniques))
		for _, t := range dc.Techniques {
			ids = append(ids, techniqueKey(t))
		}
		output.DataComponents = append(output.DataComponents, DataComponentOutput{
			Label:      label,
			URL:        dc.URL,
			Techniques: ids,
		})
	}
	return output
}

// NewRelatedOutput converts a resolved object into the related_techniques tool schema.
func NewRelatedOutput(obj domain.Relatable, techniques []*domain.Technique) RelatedOutput {
	return RelatedOutput{
		Object:     objectOutput(obj.Base()),
		Techniques: techniqueOutputs(techniques),
		Count:      len(techniques),
	}
}

func techniqueOutputs(techniques []*domain.Technique) []TechniqueOutput {
	out := make([]TechniqueOutput, 0, len(techniques))
	for _, t := range techniques {
		o := TechniqueOutput{
			ID:       t.ID,
			AttackID: t.AttackID,
			Name:     t.Name,
			Tactics:  t.Tactics,
			URL:      t.URL,
		}
		if t.IsSubtechnique && t.Parent != nil {
			o.Parent = techniqueKey(t.Parent)
		}
		out = append(out, o)
	}
	return out
}

func objectOutput(o *domain.Object) ObjectOutput {
	return ObjectOutput{
		ID:       o.ID,
		AttackID: o.AttackID,
		Name:     o.Name,
		URL:      o.URL,
	}
}

// techniqueKey prefers the ATT&CK ID over the STIX ID.
func techniqueKey(t *domain.Technique) string {
	if t.AttackID != "" {
		return t.AttackID
	}
	return t.ID
}
