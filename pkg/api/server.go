// Package api exposes namespace operations over HTTP.
package api

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/binlabs/pebblebin/pkg/codec"
	"github.com/binlabs/pebblebin/pkg/namespace"
)

// ServerConfig holds the API server configuration
type ServerConfig struct {
	Bind   string
	Port   int
	APIKey string
}

// Server holds the API server state. HTTP clients address namespaces by
// label; the server creates each namespace on first use and caches the
// handle, since a label's tag stays registered for the life of the DB.
type Server struct {
	db         *namespace.DB
	config     ServerConfig
	metrics    *Metrics
	namespaces *xsync.MapOf[string, *namespace.Namespace[string, []byte]]
	createMu   sync.Mutex
}

// NewServer creates a new API server over db.
func NewServer(db *namespace.DB, config ServerConfig, metrics *Metrics) *Server {
	return &Server{
		db:         db,
		config:     config,
		metrics:    metrics,
		namespaces: xsync.NewMapOf[string, *namespace.Namespace[string, []byte]](),
	}
}

// Routes builds the HTTP handler. Exposed separately from StartServer so
// tests can drive the router directly.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-API-Key"},
	}))

	r.Handle("/metrics", s.metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if s.config.APIKey != "" {
			r.Use(s.metrics.InstrumentAuthMiddleware(apiKeyMiddleware(s.config.APIKey)))
		}

		r.Get("/health", s.metrics.InstrumentHandler("GET", "/api/v1/health", s.handleHealth))

		r.Put("/ns/{ns}/kv/{key}", s.metrics.InstrumentHandler("PUT", "/api/v1/ns/{ns}/kv/{key}", s.handlePut))
		r.Get("/ns/{ns}/kv/{key}", s.metrics.InstrumentHandler("GET", "/api/v1/ns/{ns}/kv/{key}", s.handleGet))
		r.Delete("/ns/{ns}/kv/{key}", s.metrics.InstrumentHandler("DELETE", "/api/v1/ns/{ns}/kv/{key}", s.handleDelete))
		r.Get("/ns/{ns}/kv", s.metrics.InstrumentHandler("GET", "/api/v1/ns/{ns}/kv", s.handleListKeys))
	})

	return r
}

// namespaceFor resolves a label to a cached namespace handle, creating it on
// first use. Dotted labels ("users.active") walk namespace groups.
//
// Creations are serialized under createMu with a second cache check inside
// the lock; otherwise two first requests for one label would race past each
// other's cache miss and the loser would surface a spurious ErrTagConflict
// for a label this server just registered. The cached read path stays
// lock-free.
func (s *Server) namespaceFor(label string) (*namespace.Namespace[string, []byte], error) {
	if ns, ok := s.namespaces.Load(label); ok {
		return ns, nil
	}

	s.createMu.Lock()
	defer s.createMu.Unlock()
	if ns, ok := s.namespaces.Load(label); ok {
		return ns, nil
	}

	ns, err := s.createNamespace(label)
	if err != nil {
		return nil, err
	}
	s.namespaces.Store(label, ns)
	return ns, nil
}

func (s *Server) createNamespace(label string) (*namespace.Namespace[string, []byte], error) {
	parts := strings.Split(label, ".")
	if len(parts) == 1 {
		return namespace.Create(s.db, label, codec.String(), codec.Bytes())
	}

	group, err := s.db.CreateGroup(parts[0])
	if err != nil {
		return nil, err
	}
	for _, part := range parts[1 : len(parts)-1] {
		if group, err = group.CreateGroup(part); err != nil {
			return nil, err
		}
	}
	return namespace.CreateIn(group, parts[len(parts)-1], codec.String(), codec.Bytes())
}

// StartServer starts the API server over db and blocks.
func StartServer(db *namespace.DB, config ServerConfig) error {
	metrics := NewMetrics()
	server := NewServer(db, config, metrics)

	addr := fmt.Sprintf("%s:%d", config.Bind, config.Port)
	log.Printf("pebblebin API listening on %s", addr)
	return http.ListenAndServe(addr, server.Routes())
}
