package fakeservice

import (
	"encoding/json"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

const defaultLength = 10

type searchParams struct {
	text       string
	terms      []string
	start      int
	length     int
	function   *int
	fetch      []string
	snippet    []string
	categories map[string][]string
	docvars    map[int][]bounds
}

type bounds struct {
	lo, hi       float64
	hasLo, hasHi bool
}

func (b bounds) contains(v float64) bool {
	return (!b.hasLo || v >= b.lo) && (!b.hasHi || v <= b.hi)
}

// parseSearch reads the query string; a non-empty message means 400.
func parseSearch(q url.Values) (searchParams, string) {
	p := searchParams{text: q.Get("q"), length: defaultLength}
	if strings.TrimSpace(p.text) == "" {
		return p, "Invalid or missing argument: q"
	}
	if strings.Count(p.text, `"`)%2 == 1 {
		return p, "Invalid query syntax: unbalanced quotes"
	}
	p.terms = strings.Fields(strings.ToLower(strings.ReplaceAll(p.text, `"`, " ")))

	var err error
	if v := q.Get("start"); v != "" {
		if p.start, err = strconv.Atoi(v); err != nil || p.start < 0 {
			return p, "Invalid argument: start"
		}
	}
	if v := q.Get("len"); v != "" {
		if p.length, err = strconv.Atoi(v); err != nil || p.length < 0 {
			return p, "Invalid argument: len"
		}
	}
	if v := q.Get("function"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return p, "Invalid argument: function"
		}
		p.function = &id
	}
	if v := q.Get("fetch"); v != "" {
		p.fetch = strings.Split(v, ",")
	}
	if v := q.Get("snippet"); v != "" {
		p.snippet = strings.Split(v, ",")
	}
	if v := q.Get("category_filters"); v != "" {
		if err := json.Unmarshal([]byte(v), &p.categories); err != nil {
			return p, "Invalid argument: category_filters"
		}
	}
	for key, vals := range q {
		rest, ok := strings.CutPrefix(key, "filter_docvar")
		if !ok || len(vals) == 0 {
			continue
		}
		id, err := strconv.Atoi(rest)
		if err != nil {
			return p, "Invalid argument: " + key
		}
		ranges, ok := parseRanges(vals[0])
		if !ok {
			return p, "Invalid argument: " + key
		}
		if p.docvars == nil {
			p.docvars = map[int][]bounds{}
		}
		p.docvars[id] = ranges
	}
	return p, ""
}

// parseRanges reads "lo:hi,lo:hi" where either side may be "*".
func parseRanges(s string) ([]bounds, bool) {
	var out []bounds
	for _, part := range strings.Split(s, ",") {
		lo, hi, ok := strings.Cut(part, ":")
		if !ok {
			return nil, false
		}
		var b bounds
		if lo != "*" {
			v, err := strconv.ParseFloat(lo, 64)
			if err != nil {
				return nil, false
			}
			b.lo, b.hasLo = v, true
		}
		if hi != "*" {
			v, err := strconv.ParseFloat(hi, 64)
			if err != nil {
				return nil, false
			}
			b.hi, b.hasHi = v, true
		}
		out = append(out, b)
	}
	return out, true
}

func (p searchParams) matches(d *storedDoc) bool {
	for _, term := range p.terms {
		field, word, scoped := strings.Cut(term, ":")
		found := false
		for name, value := range d.fields {
			if scoped && !strings.EqualFold(name, field) {
				continue
			}
			needle := term
			if scoped {
				needle = word
			}
			if strings.Contains(strings.ToLower(value), needle) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for cat, allowed := range p.categories {
		v, ok := d.categories[cat]
		if !ok || !slices.Contains(allowed, v) {
			return false
		}
	}
	for id, ranges := range p.docvars {
		v, ok := d.variables[id]
		if !ok {
			return false
		}
		in := false
		for _, b := range ranges {
			if b.contains(float64(v)) {
				in = true
				break
			}
		}
		if !in {
			return false
		}
	}
	return true
}

func (p searchParams) render(id string, d *storedDoc) map[string]any {
	out := map[string]any{"docid": id}
	for _, f := range p.fetch {
		if f == "*" {
			for name, value := range d.fields {
				out[name] = value
			}
			continue
		}
		if v, ok := d.fields[f]; ok {
			out[f] = v
		}
	}
	for _, f := range p.snippet {
		if v, ok := d.fields[f]; ok {
			out["snippet_"+f] = v
		}
	}
	for c, v := range d.categories {
		out["category_"+c] = v
	}
	return out
}

// search GET /v1/indexes/{name}/search
func (s *Service) search(w http.ResponseWriter, r *http.Request) {
	p, msg := parseSearch(r.URL.Query())
	if msg != "" {
		writeText(w, http.StatusBadRequest, msg)
		return
	}
	s.withIndex(w, r, func(_ string, idx *index) {
		if p.function != nil {
			if _, ok := idx.functions[*p.function]; !ok {
				writeText(w, http.StatusBadRequest, "Invalid scoring function")
				return
			}
		}

		ordered := make([]string, 0, len(idx.order))
		if promoted, ok := idx.promoted[p.text]; ok {
			if _, exists := idx.docs[promoted]; exists {
				ordered = append(ordered, promoted)
			}
		}
		for _, id := range idx.order {
			if len(ordered) > 0 && ordered[0] == id {
				continue
			}
			ordered = append(ordered, id)
		}

		var hits []string
		facets := map[string]map[string]int64{}
		for _, id := range ordered {
			d := idx.docs[id]
			if !p.matches(d) {
				continue
			}
			hits = append(hits, id)
			for c, v := range d.categories {
				if facets[c] == nil {
					facets[c] = map[string]int64{}
				}
				facets[c][v]++
			}
		}

		results := []map[string]any{}
		for i := p.start; i < len(hits) && i < p.start+p.length; i++ {
			results = append(results, p.render(hits[i], idx.docs[hits[i]]))
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"matches":     len(hits),
			"search_time": "0.001",
			"results":     results,
			"facets":      facets,
		})
	})
}
