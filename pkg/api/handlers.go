package api

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/binlabs/pebblebin/pkg/namespace"
)

// handleHealth reports server liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.metrics.RecordHealthCheck(true)
	sendSuccess(w, map[string]string{"status": "healthy"})
}

// nsParams pulls the namespace label and optional key out of the route.
func nsParams(r *http.Request) (label, key string, err error) {
	label = chi.URLParam(r, "ns")
	key = chi.URLParam(r, "key")
	if key != "" {
		key, err = url.QueryUnescape(key)
	}
	return label, key, err
}

// handlePut stores the request body under a key.
func (s *Server) handlePut(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	label, key, err := nsParams(r)
	if err != nil || label == "" || key == "" {
		s.metrics.RecordDBOperation("put", false, time.Since(start))
		sendError(w, "namespace and key are required", http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.metrics.RecordDBOperation("put", false, time.Since(start))
		sendError(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	ns, err := s.namespaceFor(label)
	if err != nil {
		s.metrics.RecordDBOperation("put", false, time.Since(start))
		sendError(w, err.Error(), statusFor(err))
		return
	}

	if err := ns.Insert(key, body); err != nil {
		s.metrics.RecordDBOperation("put", false, time.Since(start))
		sendError(w, err.Error(), statusFor(err))
		return
	}

	s.metrics.RecordDBOperation("put", true, time.Since(start))
	sendSuccess(w, map[string]string{"namespace": label, "key": key})
}

// handleGet returns the raw value stored under a key.
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	label, key, err := nsParams(r)
	if err != nil || label == "" || key == "" {
		s.metrics.RecordDBOperation("get", false, time.Since(start))
		sendError(w, "namespace and key are required", http.StatusBadRequest)
		return
	}

	ns, err := s.namespaceFor(label)
	if err != nil {
		s.metrics.RecordDBOperation("get", false, time.Since(start))
		sendError(w, err.Error(), statusFor(err))
		return
	}

	value, found, err := ns.Get(key)
	if err != nil {
		s.metrics.RecordDBOperation("get", false, time.Since(start))
		sendError(w, err.Error(), statusFor(err))
		return
	}
	if !found {
		s.metrics.RecordDBOperation("get", false, time.Since(start))
		sendError(w, "key not found", http.StatusNotFound)
		return
	}

	s.metrics.RecordDBOperation("get", true, time.Since(start))
	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(value)
}

// handleDelete removes a key. Deleting an absent key succeeds.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	label, key, err := nsParams(r)
	if err != nil || label == "" || key == "" {
		s.metrics.RecordDBOperation("delete", false, time.Since(start))
		sendError(w, "namespace and key are required", http.StatusBadRequest)
		return
	}

	ns, err := s.namespaceFor(label)
	if err != nil {
		s.metrics.RecordDBOperation("delete", false, time.Since(start))
		sendError(w, err.Error(), statusFor(err))
		return
	}

	if err := ns.Remove(key); err != nil {
		s.metrics.RecordDBOperation("delete", false, time.Since(start))
		sendError(w, err.Error(), statusFor(err))
		return
	}

	s.metrics.RecordDBOperation("delete", true, time.Since(start))
	sendSuccess(w, map[string]string{"namespace": label, "key": key})
}

// handleListKeys returns every key of a namespace in ascending order.
// Records whose key fails to decode are skipped, not fatal.
func (s *Server) handleListKeys(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	label := chi.URLParam(r, "ns")
	if label == "" {
		s.metrics.RecordDBOperation("list", false, time.Since(start))
		sendError(w, "namespace is required", http.StatusBadRequest)
		return
	}

	ns, err := s.namespaceFor(label)
	if err != nil {
		s.metrics.RecordDBOperation("list", false, time.Since(start))
		sendError(w, err.Error(), statusFor(err))
		return
	}

	it := ns.Keys()
	defer it.Close()

	keys := []string{}
	for it.Next() {
		if it.Err() != nil {
			continue
		}
		keys = append(keys, it.Key())
	}
	if err := it.Err(); err != nil {
		s.metrics.RecordDBOperation("list", false, time.Since(start))
		sendError(w, err.Error(), statusFor(err))
		return
	}

	s.metrics.RecordDBOperation("list", true, time.Since(start))
	sendSuccess(w, map[string]interface{}{"namespace": label, "keys": keys, "count": len(keys)})
}

// statusFor maps the namespace error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	var contractErr *namespace.ContractError
	switch {
	case errors.Is(err, namespace.ErrTagConflict):
		return http.StatusConflict
	case errors.As(err, &contractErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
