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

// DocumentHandler exposes tools that write documents.
type DocumentHandler struct {
	client *client.Client
}

func NewDocumentHandler(c *client.Client) *DocumentHandler { return &DocumentHandler{client: c} }

func (dh *DocumentHandler) RegisterTools(s *server.MCPServer) error {
	add := mcp.NewTool("add_document",
		mcp.WithDescription("Index a document, replacing any document with the same docid"),
		mcp.WithString("index", mcp.Required(), mcp.Description("Index name")),
		mcp.WithString("docid", mcp.Required(), mcp.Description("Document id (at most 1024 bytes)")),
		mcp.WithObject("fields", mcp.Required(), mcp.Description("Field name to text, e.g. {\"text\":\"...\",\"title\":\"...\"}")),
		mcp.WithObject("variables", mcp.Description("Scoring variables keyed by index, e.g. {\"0\": 1.5}")),
		mcp.WithObject("categories", mcp.Description("Category name to value")),
	)
	del := mcp.NewTool("delete_document",
		mcp.WithDescription("Remove a document from an index"),
		mcp.WithString("index", mcp.Required(), mcp.Description("Index name")),
		mcp.WithString("docid", mcp.Required(), mcp.Description("Document id")),
	)
	s.AddTool(add, dh.handleAddDocument)
	s.AddTool(del, dh.handleDeleteDocument)
	return nil
}

func (dh *DocumentHandler) handleAddDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("index")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	docID, err := req.RequireString("docid")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	fields, err := stringMapArg(req, "fields")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	vars, err := variablesArg(req, "variables")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cats, err := stringMapArg(req, "categories")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	doc, err := client.NewDocument(docID, fields, client.WithVariables(vars), client.WithCategories(cats))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid document: %v", err)), nil
	}

	log.Debug().Str("index", name).Str("docid", docID).Int("fields", len(fields)).Msg("add_document invoked")

	start := time.Now()
	err = dh.client.Index(name).AddDocument(ctx, doc)
	elapsed := time.Since(start)
	if err != nil {
		log.Error().Err(err).Str("index", name).Dur("elapsed", elapsed).Msg("add_document failed")
		return mcp.NewToolResultError(fmt.Sprintf("failed to add document: %v", err)), nil
	}
	return jsonResult(map[string]any{"index": name, "docid": docID, "status": "added"})
}

func (dh *DocumentHandler) handleDeleteDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("index")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	docID, err := req.RequireString("docid")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	log.Debug().Str("index", name).Str("docid", docID).Msg("delete_document invoked")

	start := time.Now()
	err = dh.client.Index(name).DeleteDocument(ctx, docID)
	elapsed := time.Since(start)
	if err != nil {
		log.Error().Err(err).Str("index", name).Dur("elapsed", elapsed).Msg("delete_document failed")
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete document: %v", err)), nil
	}
	return jsonResult(map[string]any{"index": name, "docid": docID, "status": "deleted"})
}
