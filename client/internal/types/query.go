package types

import (
	"encoding/json"
	"maps"
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// Range is a floor/ceil constraint over a document variable or a scoring
// function output. Use math.Inf(-1) / math.Inf(1) for an open bound.
type Range struct {
	ID    int
	Floor float64
	Ceil  float64
}

// Value renders the range as "floor:ceil" with "*" for an open bound.
func (r Range) Value() string {
	floor, ceil := "*", "*"
	if !math.IsInf(r.Floor, -1) {
		floor = FormatFloat(r.Floor, 64)
	}
	if !math.IsInf(r.Ceil, 1) {
		ceil = FormatFloat(r.Ceil, 64)
	}
	return floor + ":" + ceil
}

// Query describes one search. Every With method returns a new Query and
// leaves the receiver untouched, so a Query handed to Search cannot change
// underneath it.
type Query struct {
	text            string
	start           *int
	length          *int
	scoringFunction *int
	snippetFields   []string
	fetchFields     []string
	categoryFilters map[string][]string
	docvarFilters   []Range
	functionFilters []Range
	queryVariables  map[int]float32
}

// NewQuery starts a query for the given query string.
func NewQuery(text string) Query {
	return Query{text: text}
}

// Text returns the free-text query string.
func (q Query) Text() string { return q.text }

// WithStart sets the offset of the first result.
func (q Query) WithStart(start int) Query {
	q.start = &start
	return q
}

// WithLength sets the number of results to return.
func (q Query) WithLength(length int) Query {
	q.length = &length
	return q
}

// WithScoringFunction selects the scoring function used to rank results.
func (q Query) WithScoringFunction(id int) Query {
	q.scoringFunction = &id
	return q
}

// WithSnippetFields appends fields to snippet.
func (q Query) WithSnippetFields(fields ...string) Query {
	q.snippetFields = append(slices.Clip(q.snippetFields), fields...)
	return q
}

// WithFetchFields appends fields to fetch.
func (q Query) WithFetchFields(fields ...string) Query {
	q.fetchFields = append(slices.Clip(q.fetchFields), fields...)
	return q
}

// WithCategoryFilters merges category -> accepted values filters.
func (q Query) WithCategoryFilters(filters map[string][]string) Query {
	if len(filters) == 0 {
		return q
	}
	merged := make(map[string][]string, len(q.categoryFilters)+len(filters))
	for k, v := range q.categoryFilters {
		merged[k] = v
	}
	for k, v := range filters {
		merged[k] = slices.Clone(v)
	}
	q.categoryFilters = merged
	return q
}

// WithDocumentVariableFilter adds a range over document variable id. Ranges
// sharing an id are OR-ed by the service.
func (q Query) WithDocumentVariableFilter(id int, floor, ceil float64) Query {
	q.docvarFilters = append(slices.Clip(q.docvarFilters), Range{ID: id, Floor: floor, Ceil: ceil})
	return q
}

// WithFunctionFilter adds a range over the output of scoring function id.
func (q Query) WithFunctionFilter(id int, floor, ceil float64) Query {
	q.functionFilters = append(slices.Clip(q.functionFilters), Range{ID: id, Floor: floor, Ceil: ceil})
	return q
}

// WithQueryVariables merges per-query scoring variable overrides.
func (q Query) WithQueryVariables(vars map[int]float32) Query {
	if len(vars) == 0 {
		return q
	}
	merged := maps.Clone(q.queryVariables)
	if merged == nil {
		merged = make(map[int]float32, len(vars))
	}
	maps.Copy(merged, vars)
	q.queryVariables = merged
	return q
}

// WithQueryVariable sets a single scoring variable override.
func (q Query) WithQueryVariable(index int, value float32) Query {
	return q.WithQueryVariables(map[int]float32{index: value})
}

// Params serialises the query into search parameters.
func (q Query) Params() url.Values {
	params := url.Values{}
	if q.start != nil {
		params.Set("start", strconv.Itoa(*q.start))
	}
	if q.length != nil {
		params.Set("len", strconv.Itoa(*q.length))
	}
	if q.scoringFunction != nil {
		params.Set("function", strconv.Itoa(*q.scoringFunction))
	}
	if q.snippetFields != nil {
		params.Set("snippet", strings.Join(q.snippetFields, ","))
	}
	if q.fetchFields != nil {
		params.Set("fetch", strings.Join(q.fetchFields, ","))
	}
	if q.categoryFilters != nil {
		// map[string][]string always marshals.
		b, _ := json.Marshal(q.categoryFilters)
		params.Set("category_filters", string(b))
	}
	addRanges(params, "filter_docvar", q.docvarFilters)
	addRanges(params, "filter_function", q.functionFilters)
	for idx, v := range q.queryVariables {
		params.Set("var"+strconv.Itoa(idx), FormatFloat(float64(v), 32))
	}
	params.Set("q", q.text)
	return params
}

func addRanges(params url.Values, prefix string, ranges []Range) {
	for _, r := range ranges {
		key := prefix + strconv.Itoa(r.ID)
		if prev := params.Get(key); prev != "" {
			params.Set(key, prev+","+r.Value())
			continue
		}
		params.Set(key, r.Value())
	}
}
