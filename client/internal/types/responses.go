package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// ------------------------------
// Response Types
// ------------------------------

// SearchResults is a read-only snapshot of one search call.
type SearchResults struct {
	Matches    int64                       `json:"matches"`
	SearchTime float64                     `json:"search_time"`
	Results    []map[string]any            `json:"results"`
	Facets     map[string]map[string]int64 `json:"facets"`
}

// searchResultsWire mirrors the service payload; search_time arrives as a
// numeric string.
type searchResultsWire struct {
	Matches    *int64                      `json:"matches"`
	SearchTime *string                     `json:"search_time"`
	Results    []map[string]any            `json:"results"`
	Facets     map[string]map[string]int64 `json:"facets"`
}

// DecodeSearchResults parses and validates a search payload.
func DecodeSearchResults(body []byte) (*SearchResults, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	for _, key := range []string{"matches", "search_time", "results", "facets"} {
		if _, ok := raw[key]; !ok {
			return nil, fmt.Errorf("search response missing %q", key)
		}
	}

	var wire searchResultsWire
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, err
	}
	if wire.Matches == nil || wire.SearchTime == nil {
		return nil, fmt.Errorf("search response has null matches or search_time")
	}
	st, err := strconv.ParseFloat(*wire.SearchTime, 64)
	if err != nil {
		return nil, fmt.Errorf("search_time %q: %w", *wire.SearchTime, err)
	}
	res := &SearchResults{
		Matches:    *wire.Matches,
		SearchTime: st,
		Results:    wire.Results,
		Facets:     wire.Facets,
	}
	if res.Results == nil {
		res.Results = []map[string]any{}
	}
	if res.Facets == nil {
		res.Facets = map[string]map[string]int64{}
	}
	return res, nil
}

// IndexMetadata is the service's description of an index. Known keys have
// typed accessors; everything else stays reachable through the map.
type IndexMetadata map[string]any

// CreationTimeLayouts are tried in order when parsing creation_time.
var CreationTimeLayouts = []string{
	"2006-01-02T15:04:05MST",
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

// Code returns the index code.
func (m IndexMetadata) Code() string {
	s, _ := m["code"].(string)
	return s
}

// Started reports whether the index is ready to serve.
func (m IndexMetadata) Started() bool {
	b, _ := m["started"].(bool)
	return b
}

// Size returns the document count when the service reports it.
func (m IndexMetadata) Size() int64 {
	switch v := m["size"].(type) {
	case float64:
		return int64(v)
	case json.Number:
		n, _ := v.Int64()
		return n
	}
	return 0
}

// PublicSearch reports whether the index accepts unauthenticated searches.
func (m IndexMetadata) PublicSearch() bool {
	b, _ := m["public_search"].(bool)
	return b
}

// CreationTime parses creation_time; an absent or unparsable value yields nil.
func (m IndexMetadata) CreationTime() *time.Time {
	s, ok := m["creation_time"].(string)
	if !ok || s == "" {
		return nil
	}
	for _, layout := range CreationTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// DecodeIndexMetadata parses a single index description.
func DecodeIndexMetadata(body []byte) (IndexMetadata, error) {
	var md IndexMetadata
	if err := json.Unmarshal(body, &md); err != nil {
		return nil, err
	}
	if md == nil {
		md = IndexMetadata{}
	}
	return md, nil
}

// DecodeIndexList parses the account listing: index name -> metadata.
func DecodeIndexList(body []byte) (map[string]IndexMetadata, error) {
	var out map[string]IndexMetadata
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = map[string]IndexMetadata{}
	}
	return out, nil
}

// DecodeFunctions parses the function listing: function id -> definition.
func DecodeFunctions(body []byte) (map[int]string, error) {
	var raw map[string]string
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	out := make(map[int]string, len(raw))
	for k, v := range raw {
		id, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("function id %q: %w", k, err)
		}
		out[id] = v
	}
	return out, nil
}

// DocumentOutcome is the service's verdict on one document of a batch.
type DocumentOutcome struct {
	Added bool   `json:"added"`
	Error string `json:"error,omitempty"`
}

// DecodeOutcomes parses a batch-add response.
func DecodeOutcomes(body []byte) ([]DocumentOutcome, error) {
	var out []DocumentOutcome
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// EnqueueAck represents acknowledgment of async operation
type EnqueueAck struct {
	Index     string `json:"index"`
	Documents int    `json:"documents"`
	Status    string `json:"status"`
}
