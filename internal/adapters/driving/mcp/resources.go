package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/electro-agent/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for Electro resources.
	uriScheme = "electro://"
)

// categoryInfo is the JSON shape of one taxonomy entry.
type categoryInfo struct {
	Key     string `json:"key"`
	Display string `json:"display"`
	Chunks  *int   `json:"chunks,omitempty"`
}

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "categories",
		Name:        "categories",
		Description: "The subject taxonomy of the corpus, with chunk counts when available",
		MIMEType:    "application/json",
	}, s.handleCategoriesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "categories/{category}",
		Name:        "category",
		Description: "A single category of the corpus",
		MIMEType:    "application/json",
	}, s.handleCategoryResource)
}

// handleCategoriesResource lists every category in taxonomy order.
func (s *Server) handleCategoriesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	infos, err := s.categoryInfos(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResource(req.Params.URI, infos)
}

// handleCategoryResource returns one category.
func (s *Server) handleCategoryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	key := extractCategory(req.Params.URI)
	if !domain.Category(key).IsValid() {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	infos, err := s.categoryInfos(ctx)
	if err != nil {
		return nil, err
	}
	for _, info := range infos {
		if info.Key == key {
			return jsonResource(req.Params.URI, info)
		}
	}
	return nil, mcp.ResourceNotFoundError(req.Params.URI)
}

func (s *Server) categoryInfos(ctx context.Context) ([]categoryInfo, error) {
	categories := domain.Categories()
	infos := make([]categoryInfo, len(categories))
	for i, c := range categories {
		infos[i] = categoryInfo{Key: c.String(), Display: c.Display()}
	}

	if s.ports.Stats == nil {
		return infos, nil
	}

	counts, err := s.ports.Stats.StatsByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting categories: %w", err)
	}
	byKey := make(map[domain.Category]int, len(counts))
	for _, c := range counts {
		byKey[c.Category] = c.Chunks
	}
	for i := range infos {
		n := byKey[domain.Category(infos[i].Key)]
		infos[i].Chunks = &n
	}
	return infos, nil
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractCategory extracts the key from a URI like electro://categories/{category}.
func extractCategory(uri string) string {
	const prefix = uriScheme + "categories/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}
