// Package fakeservice is an in-memory implementation of the index service
// HTTP API. Tests and local development point a client at it instead of a
// real account.
package fakeservice

import (
	"encoding/base64"
	"fmt"
	"maps"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

// DefaultMaxIndexes is the per-account index quota unless overridden.
const DefaultMaxIndexes = 16

type storedDoc struct {
	fields     map[string]string
	variables  map[int]float32
	categories map[string]string
}

type index struct {
	code      string
	created   time.Time
	started   bool
	docs      map[string]*storedDoc
	order     []string // insertion order of docids, for stable results
	functions map[int]string
	promoted  map[string]string // query -> docid
}

type injected struct {
	status int
	body   string
}

// Service holds the state of one fake account.
type Service struct {
	authorization string

	mu         sync.Mutex
	indexes    map[string]*index
	maxIndexes int
	autoStart  bool
	failures   []injected
	nextCode   int
	requests   int
}

// Option configures a Service.
type Option func(*Service)

// WithMaxIndexes overrides the account index quota.
func WithMaxIndexes(n int) Option {
	return func(s *Service) { s.maxIndexes = n }
}

// WithIndexesStopped makes new indexes report started=false until Start is
// called for them.
func WithIndexesStopped() Option {
	return func(s *Service) { s.autoStart = false }
}

// New returns an empty account accepting credential as its private pass.
func New(credential string, opts ...Option) *Service {
	s := &Service{
		authorization: "Basic " + base64.StdEncoding.EncodeToString([]byte(credential)),
		indexes:       map[string]*index{},
		maxIndexes:    DefaultMaxIndexes,
		autoStart:     true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP surface of the service.
func (s *Service) Handler() http.Handler {
	r := mux.NewRouter()
	// Index names travel escaped; keep "%2F" inside a single segment.
	r.UseEncodedPath()
	r.Use(s.recoverPanics, s.authenticate, s.injectFailures)
	s.routes(r)
	return r
}

// NewServer starts an httptest server for s. Callers must Close it.
func (s *Service) NewServer() *httptest.Server {
	return httptest.NewServer(s.Handler())
}

// FailNext makes the next request answer status with body, whatever it asks.
// Calls queue up in order.
func (s *Service) FailNext(status int, body string) {
	s.mu.Lock()
	s.failures = append(s.failures, injected{status: status, body: body})
	s.mu.Unlock()
}

// Start marks an index as started.
func (s *Service) Start(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.indexes[name]
	if !ok {
		return fmt.Errorf("no index %q", name)
	}
	idx.started = true
	return nil
}

// DocIDs returns the docids stored in an index, in insertion order.
func (s *Service) DocIDs(name string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.indexes[name]
	if !ok {
		return nil
	}
	return slices.Clone(idx.order)
}

// Document returns a stored document's fields, variables and categories.
func (s *Service) Document(name, docID string) (map[string]string, map[int]float32, map[string]string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.indexes[name]
	if !ok {
		return nil, nil, nil, false
	}
	d, ok := idx.docs[docID]
	if !ok {
		return nil, nil, nil, false
	}
	return maps.Clone(d.fields), maps.Clone(d.variables), maps.Clone(d.categories), true
}

// Promoted returns the docid promoted for query, if any.
func (s *Service) Promoted(name, query string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx, ok := s.indexes[name]; ok {
		return idx.promoted[query]
	}
	return ""
}

// Requests returns how many requests passed authentication.
func (s *Service) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

// ---- middleware ----

func (s *Service) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().Interface("panic", rec).Str("method", r.Method).Str("url", r.URL.String()).Msg("fakeservice: panic recovered")
				writeText(w, http.StatusInternalServerError, "Internal Server Error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Service) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != s.authorization {
			writeText(w, http.StatusUnauthorized, "Authorization required")
			return
		}
		s.mu.Lock()
		s.requests++
		s.mu.Unlock()
		log.Debug().Str("method", r.Method).Str("uri", r.RequestURI).Str("request_id", r.Header.Get("X-Request-Id")).Msg("fakeservice: request")
		next.ServeHTTP(w, r)
	})
}

func (s *Service) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		var f *injected
		if len(s.failures) > 0 {
			f = &s.failures[0]
			s.failures = s.failures[1:]
		}
		s.mu.Unlock()
		if f != nil {
			writeText(w, f.status, f.body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Service) metadataLocked(idx *index) map[string]any {
	return map[string]any{
		"code":          idx.code,
		"creation_time": idx.created.UTC().Format(time.RFC3339),
		"started":       idx.started,
		"size":          len(idx.docs),
		"public_search": false,
	}
}
