package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/indextank/indextank-go/client"
)

// IndexHandler exposes account-level index tools.
type IndexHandler struct {
	client *client.Client
}

func NewIndexHandler(c *client.Client) *IndexHandler { return &IndexHandler{client: c} }

func (ih *IndexHandler) RegisterTools(s *server.MCPServer) error {
	list := mcp.NewTool("list_indexes",
		mcp.WithDescription("List all indexes of the account with their code, started flag and size"),
	)
	info := mcp.NewTool("index_info",
		mcp.WithDescription("Fetch the metadata of one index"),
		mcp.WithString("index", mcp.Required(), mcp.Description("Index name")),
	)
	s.AddTool(list, ih.handleListIndexes)
	s.AddTool(info, ih.handleIndexInfo)
	return nil
}

type indexSummary struct {
	Name         string `json:"name"`
	Code         string `json:"code"`
	Started      bool   `json:"started"`
	Size         int64  `json:"size"`
	PublicSearch bool   `json:"publicSearch"`
	CreationTime string `json:"creationTime,omitempty"`
}

func summarize(name string, md client.IndexMetadata) indexSummary {
	s := indexSummary{
		Name:         name,
		Code:         md.Code(),
		Started:      md.Started(),
		Size:         md.Size(),
		PublicSearch: md.PublicSearch(),
	}
	if t := md.CreationTime(); t != nil {
		s.CreationTime = t.UTC().Format(time.RFC3339)
	}
	return s
}

func (ih *IndexHandler) handleListIndexes(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	log.Debug().Msg("list_indexes invoked")

	start := time.Now()
	indexes, err := ih.client.ListIndexes(ctx)
	elapsed := time.Since(start)
	if err != nil {
		log.Error().Err(err).Dur("elapsed", elapsed).Msg("list_indexes failed")
		return mcp.NewToolResultError(fmt.Sprintf("failed to list indexes: %v", err)), nil
	}

	out := make([]indexSummary, 0, len(indexes))
	for _, idx := range indexes {
		// metadata is pre-seeded by ListIndexes; no extra request
		md, err := idx.Metadata(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to read metadata of %s: %v", idx.Name(), err)), nil
		}
		out = append(out, summarize(idx.Name(), md))
	}
	return jsonResult(out)
}

func (ih *IndexHandler) handleIndexInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("index")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	log.Debug().Str("index", name).Msg("index_info invoked")

	start := time.Now()
	md, err := ih.client.Index(name).Metadata(ctx)
	elapsed := time.Since(start)
	if err != nil {
		log.Error().Err(err).Str("index", name).Dur("elapsed", elapsed).Msg("index_info failed")
		return mcp.NewToolResultError(fmt.Sprintf("failed to get index info: %v", err)), nil
	}
	return jsonResult(summarize(name, md))
}
