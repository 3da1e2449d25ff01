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

const (
	defaultLen = 10
	maxLen     = 100
)

// SearchHandler exposes the search_index tool.
type SearchHandler struct {
	client *client.Client
}

func NewSearchHandler(c *client.Client) *SearchHandler {
	return &SearchHandler{client: c}
}

// RegisterTools registers the search_index tool.
func (sh *SearchHandler) RegisterTools(s *server.MCPServer) error {
	searchTool := mcp.NewTool("search_index",
		mcp.WithDescription("Full-text search over one index. Returns matches, search_time, results (docid plus fetched fields and snippets) and facets (category value counts over all matches)."),
		mcp.WithString("index", mcp.Required(), mcp.Description("Index name")),
		mcp.WithString("query", mcp.Required(), mcp.Description("Query text, e.g. `apple` or `title:apple`")),
		mcp.WithNumber("start", mcp.Description("Offset of the first result (default 0)")),
		mcp.WithNumber("len", mcp.Description("Number of results to return (1-100, default 10)")),
		mcp.WithNumber("function", mcp.Description("Scoring function id (default 0)")),
		mcp.WithArray("fetch", mcp.Description("Fields to return with each result; \"*\" returns all"), mcp.WithStringItems()),
		mcp.WithArray("snippet", mcp.Description("Fields to return as highlighted snippets"), mcp.WithStringItems()),
		mcp.WithObject("categories", mcp.Description("Category filter, category name to accepted value, e.g. {\"color\":\"red\"}")),
	)
	s.AddTool(searchTool, sh.handleSearch)
	return nil
}

func (sh *SearchHandler) handleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("index")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	q := client.NewQuery(text)
	if start := intArg(req, "start", 0); start > 0 {
		q = q.WithStart(start)
	}
	length := intArg(req, "len", defaultLen)
	if length < 1 || length > maxLen {
		length = defaultLen
	}
	q = q.WithLength(length)
	if fn := intArg(req, "function", 0); fn != 0 {
		q = q.WithScoringFunction(fn)
	}
	if fetch := stringSliceArg(req, "fetch"); len(fetch) > 0 {
		q = q.WithFetchFields(fetch...)
	}
	if snippet := stringSliceArg(req, "snippet"); len(snippet) > 0 {
		q = q.WithSnippetFields(snippet...)
	}
	cats, err := stringMapArg(req, "categories")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(cats) > 0 {
		filters := make(map[string][]string, len(cats))
		for k, v := range cats {
			filters[k] = []string{v}
		}
		q = q.WithCategoryFilters(filters)
	}

	log.Debug().Str("index", name).Str("query", text).Int("len", length).Msg("search_index invoked")

	started := time.Now()
	res, err := sh.client.Index(name).Search(ctx, q)
	elapsed := time.Since(started)
	if err != nil {
		log.Error().Err(err).Str("index", name).Dur("elapsed", elapsed).Msg("search_index failed")
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	log.Debug().Str("index", name).Int64("matches", res.Matches).Dur("elapsed", elapsed).Msg("search_index completed")
	return jsonResult(res)
}
