package fakeservice

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
)

func (s *Service) routes(r *mux.Router) {
	r.HandleFunc("/v1/indexes", s.listIndexes).Methods(http.MethodGet)
	r.HandleFunc("/v1/indexes/", s.listIndexes).Methods(http.MethodGet)

	const base = "/v1/indexes/{name}"
	r.HandleFunc(base, s.createIndex).Methods(http.MethodPut)
	r.HandleFunc(base, s.getIndex).Methods(http.MethodGet)
	r.HandleFunc(base, s.deleteIndex).Methods(http.MethodDelete)
	r.HandleFunc(base+"/search", s.search).Methods(http.MethodGet)
	r.HandleFunc(base+"/docs", s.putDocuments).Methods(http.MethodPut)
	r.HandleFunc(base+"/docs", s.deleteDocument).Methods(http.MethodDelete)
	r.HandleFunc(base+"/docs/variables", s.updateVariables).Methods(http.MethodPut)
	r.HandleFunc(base+"/docs/categories", s.updateCategories).Methods(http.MethodPut)
	r.HandleFunc(base+"/promote", s.promote).Methods(http.MethodPut)
	r.HandleFunc(base+"/functions", s.listFunctions).Methods(http.MethodGet)
	r.HandleFunc(base+"/functions/{id:[0-9]+}", s.putFunction).Methods(http.MethodPut)
	r.HandleFunc(base+"/functions/{id:[0-9]+}", s.deleteFunction).Methods(http.MethodDelete)
}

// indexName returns the decoded {name} path variable.
func indexName(r *http.Request) (string, error) {
	return url.PathUnescape(mux.Vars(r)["name"])
}

// withIndex runs fn under the service lock for an existing index, answering
// 404 otherwise.
func (s *Service) withIndex(w http.ResponseWriter, r *http.Request, fn func(name string, idx *index)) {
	name, err := indexName(r)
	if err != nil {
		writeText(w, http.StatusBadRequest, "Invalid index name")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.indexes[name]
	if !ok {
		writeText(w, http.StatusNotFound, "No index existed for the given name")
		return
	}
	fn(name, idx)
}

// ---- indexes ----

// listIndexes GET /v1/indexes/
func (s *Service) listIndexes(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := make(map[string]any, len(s.indexes))
	for name, idx := range s.indexes {
		out[name] = s.metadataLocked(idx)
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

// createIndex PUT /v1/indexes/{name}
func (s *Service) createIndex(w http.ResponseWriter, r *http.Request) {
	name, err := indexName(r)
	if err != nil || name == "" {
		writeText(w, http.StatusBadRequest, "Invalid index name")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.indexes[name]; ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if len(s.indexes) >= s.maxIndexes {
		writeText(w, http.StatusConflict, "Too many indexes for this account")
		return
	}
	s.nextCode++
	idx := &index{
		code:      fmt.Sprintf("fk%04d", s.nextCode),
		created:   time.Now(),
		started:   s.autoStart,
		docs:      map[string]*storedDoc{},
		functions: map[int]string{0: "-age"},
		promoted:  map[string]string{},
	}
	s.indexes[name] = idx
	writeJSON(w, http.StatusCreated, s.metadataLocked(idx))
}

// getIndex GET /v1/indexes/{name}
func (s *Service) getIndex(w http.ResponseWriter, r *http.Request) {
	s.withIndex(w, r, func(_ string, idx *index) {
		writeJSON(w, http.StatusOK, s.metadataLocked(idx))
	})
}

// deleteIndex DELETE /v1/indexes/{name}
func (s *Service) deleteIndex(w http.ResponseWriter, r *http.Request) {
	s.withIndex(w, r, func(name string, _ *index) {
		delete(s.indexes, name)
		w.WriteHeader(http.StatusOK)
	})
}

// ---- documents ----

type wireDocument struct {
	DocID      string             `json:"docid"`
	Fields     map[string]string  `json:"fields"`
	Variables  map[string]float32 `json:"variables"`
	Categories map[string]string  `json:"categories"`
}

type outcome struct {
	Added bool   `json:"added"`
	Error string `json:"error,omitempty"`
}

func (wd wireDocument) toStored() (*storedDoc, error) {
	switch {
	case wd.DocID == "":
		return nil, fmt.Errorf("Invalid or missing argument: docid")
	case len(wd.DocID) > 1024:
		return nil, fmt.Errorf("docid too long")
	case len(wd.Fields) == 0:
		return nil, fmt.Errorf("Invalid or missing argument: fields")
	}
	vars, err := parseVariables(wd.Variables)
	if err != nil {
		return nil, err
	}
	return &storedDoc{fields: wd.Fields, variables: vars, categories: wd.Categories}, nil
}

func parseVariables(raw map[string]float32) (map[int]float32, error) {
	if raw == nil {
		return nil, nil
	}
	out := make(map[int]float32, len(raw))
	for k, v := range raw {
		id, err := strconv.Atoi(k)
		if err != nil || id < 0 {
			return nil, fmt.Errorf("Invalid variable index %q", k)
		}
		out[id] = v
	}
	return out, nil
}

func (idx *index) put(id string, d *storedDoc) {
	if _, ok := idx.docs[id]; !ok {
		idx.order = append(idx.order, id)
	}
	idx.docs[id] = d
}

// putDocuments PUT /v1/indexes/{name}/docs (one object or an array)
func (s *Service) putDocuments(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeText(w, http.StatusBadRequest, "Unreadable body")
		return
	}
	trimmed := strings.TrimSpace(string(body))
	s.withIndex(w, r, func(_ string, idx *index) {
		if strings.HasPrefix(trimmed, "[") {
			var batch []wireDocument
			if err := json.Unmarshal(body, &batch); err != nil {
				writeText(w, http.StatusBadRequest, "Invalid JSON array")
				return
			}
			results := make([]outcome, len(batch))
			for i, wd := range batch {
				d, err := wd.toStored()
				if err != nil {
					results[i] = outcome{Error: err.Error()}
					continue
				}
				idx.put(wd.DocID, d)
				results[i] = outcome{Added: true}
			}
			writeJSON(w, http.StatusOK, results)
			return
		}

		var wd wireDocument
		if err := json.Unmarshal(body, &wd); err != nil {
			writeText(w, http.StatusBadRequest, "Invalid JSON object")
			return
		}
		d, err := wd.toStored()
		if err != nil {
			writeText(w, http.StatusBadRequest, err.Error())
			return
		}
		idx.put(wd.DocID, d)
		w.WriteHeader(http.StatusOK)
	})
}

// deleteDocument DELETE /v1/indexes/{name}/docs?docid=
func (s *Service) deleteDocument(w http.ResponseWriter, r *http.Request) {
	docID := r.URL.Query().Get("docid")
	if docID == "" {
		writeText(w, http.StatusBadRequest, "Invalid or missing argument: docid")
		return
	}
	s.withIndex(w, r, func(_ string, idx *index) {
		if _, ok := idx.docs[docID]; ok {
			delete(idx.docs, docID)
			idx.order = slices.DeleteFunc(idx.order, func(id string) bool { return id == docID })
		}
		w.WriteHeader(http.StatusOK)
	})
}

// updateVariables PUT /v1/indexes/{name}/docs/variables
func (s *Service) updateVariables(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DocID     string             `json:"docid"`
		Variables map[string]float32 `json:"variables"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.DocID == "" {
		writeText(w, http.StatusBadRequest, "Invalid or missing argument: docid")
		return
	}
	vars, err := parseVariables(req.Variables)
	if err != nil {
		writeText(w, http.StatusBadRequest, err.Error())
		return
	}
	s.withIndex(w, r, func(_ string, idx *index) {
		d, ok := idx.docs[req.DocID]
		if !ok {
			writeText(w, http.StatusBadRequest, "Document does not exist")
			return
		}
		d.variables = vars
		w.WriteHeader(http.StatusOK)
	})
}

// updateCategories PUT /v1/indexes/{name}/docs/categories
func (s *Service) updateCategories(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DocID      string            `json:"docid"`
		Categories map[string]string `json:"categories"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.DocID == "" {
		writeText(w, http.StatusBadRequest, "Invalid or missing argument: docid")
		return
	}
	s.withIndex(w, r, func(_ string, idx *index) {
		d, ok := idx.docs[req.DocID]
		if !ok {
			writeText(w, http.StatusBadRequest, "Document does not exist")
			return
		}
		d.categories = req.Categories
		w.WriteHeader(http.StatusOK)
	})
}

// promote PUT /v1/indexes/{name}/promote
func (s *Service) promote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DocID string `json:"docid"`
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.DocID == "" || req.Query == "" {
		writeText(w, http.StatusBadRequest, "Invalid or missing argument: docid, query")
		return
	}
	s.withIndex(w, r, func(_ string, idx *index) {
		idx.promoted[req.Query] = req.DocID
		w.WriteHeader(http.StatusOK)
	})
}

// ---- scoring functions ----

func functionID(r *http.Request) int {
	// The route pattern only admits digits.
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	return id
}

// validDefinition accepts non-empty definitions with balanced parentheses.
func validDefinition(def string) bool {
	if strings.TrimSpace(def) == "" {
		return false
	}
	depth := 0
	for _, c := range def {
		switch c {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

// putFunction PUT /v1/indexes/{name}/functions/{id}
func (s *Service) putFunction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Definition string `json:"definition"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !validDefinition(req.Definition) {
		writeText(w, http.StatusBadRequest, "Invalid function definition")
		return
	}
	id := functionID(r)
	s.withIndex(w, r, func(_ string, idx *index) {
		idx.functions[id] = req.Definition
		w.WriteHeader(http.StatusOK)
	})
}

// deleteFunction DELETE /v1/indexes/{name}/functions/{id}
func (s *Service) deleteFunction(w http.ResponseWriter, r *http.Request) {
	id := functionID(r)
	s.withIndex(w, r, func(_ string, idx *index) {
		delete(idx.functions, id)
		w.WriteHeader(http.StatusOK)
	})
}

// listFunctions GET /v1/indexes/{name}/functions
func (s *Service) listFunctions(w http.ResponseWriter, r *http.Request) {
	s.withIndex(w, r, func(_ string, idx *index) {
		out := make(map[string]string, len(idx.functions))
		for id, def := range idx.functions {
			out[strconv.Itoa(id)] = def
		}
		writeJSON(w, http.StatusOK, out)
	})
}
