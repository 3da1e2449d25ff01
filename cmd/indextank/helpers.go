package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parsePairs turns ["k=v", ...] into a map.
func parsePairs(flag string, pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("--%s %q: want key=value", flag, p)
		}
		out[k] = v
	}
	return out, nil
}

// parseVariables turns ["0=1.5", ...] into scoring variables.
func parseVariables(flag string, pairs []string) (map[int]float32, error) {
	raw, err := parsePairs(flag, pairs)
	if err != nil || raw == nil {
		return nil, err
	}
	out := make(map[int]float32, len(raw))
	for k, v := range raw {
		id, err := strconv.Atoi(k)
		if err != nil || id < 0 {
			return nil, fmt.Errorf("--%s: variable index %q is not a non-negative integer", flag, k)
		}
		f, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return nil, fmt.Errorf("--%s: value %q: %w", flag, v, err)
		}
		out[id] = float32(f)
	}
	return out, nil
}

// parseCategoryFilters turns ["color=red", "color=blue"] into color -> [red blue].
func parseCategoryFilters(pairs []string) (map[string][]string, error) {
	out := map[string][]string{}
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("--category %q: want category=value", p)
		}
		out[k] = append(out[k], v)
	}
	return out, nil
}

type rangeFilter struct {
	id          int
	floor, ceil float64
}

// parseRangeFilter reads "id:floor:ceil" where floor or ceil may be "*".
func parseRangeFilter(flag, s string) (rangeFilter, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return rangeFilter{}, fmt.Errorf("--%s %q: want id:floor:ceil", flag, s)
	}
	id, err := strconv.Atoi(parts[0])
	if err != nil || id < 0 {
		return rangeFilter{}, fmt.Errorf("--%s %q: bad id", flag, s)
	}
	bound := func(v string, open float64) (float64, error) {
		if v == "*" {
			return open, nil
		}
		return strconv.ParseFloat(v, 64)
	}
	floor, err := bound(parts[1], math.Inf(-1))
	if err != nil {
		return rangeFilter{}, fmt.Errorf("--%s %q: bad floor", flag, s)
	}
	ceil, err := bound(parts[2], math.Inf(1))
	if err != nil {
		return rangeFilter{}, fmt.Errorf("--%s %q: bad ceil", flag, s)
	}
	return rangeFilter{id: id, floor: floor, ceil: ceil}, nil
}
