package handlers

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
)

// intArg reads an optional integer argument. JSON numbers arrive as float64.
func intArg(req mcp.CallToolRequest, name string, def int) int {
	switch v := req.GetArguments()[name].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return def
}

// stringSliceArg accepts either a JSON array of strings or a single string.
func stringSliceArg(req mcp.CallToolRequest, name string) []string {
	switch v := req.GetArguments()[name].(type) {
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func stringMapArg(req mcp.CallToolRequest, name string) (map[string]string, error) {
	raw, ok := req.GetArguments()[name]
	if !ok || raw == nil {
		return nil, nil
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s must be an object", name)
	}
	out := make(map[string]string, len(obj))
	for k, v := range obj {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%s.%s must be a string", name, k)
		}
		out[k] = s
	}
	return out, nil
}

// variablesArg reads an object keyed by variable index, e.g. {"0": 1.5}.
func variablesArg(req mcp.CallToolRequest, name string) (map[int]float32, error) {
	raw, ok := req.GetArguments()[name]
	if !ok || raw == nil {
		return nil, nil
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s must be an object", name)
	}
	out := make(map[int]float32, len(obj))
	for k, v := range obj {
		idx, err := strconv.Atoi(k)
		if err != nil || idx < 0 {
			return nil, fmt.Errorf("%s key %q is not a variable index", name, k)
		}
		switch n := v.(type) {
		case float64:
			out[idx] = float32(n)
		case int:
			out[idx] = float32(n)
		default:
			return nil, fmt.Errorf("%s.%s must be a number", name, k)
		}
	}
	return out, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
