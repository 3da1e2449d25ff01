package handlers

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/indextank/indextank-go/client"
)

// FunctionHandler exposes the list_functions tool.
type FunctionHandler struct {
	client *client.Client
}

func NewFunctionHandler(c *client.Client) *FunctionHandler { return &FunctionHandler{client: c} }

func (fh *FunctionHandler) RegisterTools(s *server.MCPServer) error {
	list := mcp.NewTool("list_functions",
		mcp.WithDescription("List the scoring functions of an index, ordered by id"),
		mcp.WithString("index", mcp.Required(), mcp.Description("Index name")),
	)
	s.AddTool(list, fh.handleListFunctions)
	return nil
}

type functionEntry struct {
	ID         int    `json:"id"`
	Definition string `json:"definition"`
}

func (fh *FunctionHandler) handleListFunctions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("index")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	log.Debug().Str("index", name).Msg("list_functions invoked")

	start := time.Now()
	fns, err := fh.client.Index(name).ListFunctions(ctx)
	elapsed := time.Since(start)
	if err != nil {
		log.Error().Err(err).Str("index", name).Dur("elapsed", elapsed).Msg("list_functions failed")
		return mcp.NewToolResultError(fmt.Sprintf("failed to list functions: %v", err)), nil
	}

	out := make([]functionEntry, 0, len(fns))
	for id, def := range fns {
		out = append(out, functionEntry{ID: id, Definition: def})
	}
	slices.SortFunc(out, func(a, b functionEntry) int { return a.ID - b.ID })
	return jsonResult(out)
}
