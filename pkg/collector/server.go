// Package collector implements a development route-point collector.
//
// It is the receiving end of the streaming pipeline: producers POST batches
// of route points authenticated with a push key, and the collector appends
// them to a route in a [routestore.Store]. It exists so operators can run a
// local sink for the streaming client and inspect what arrives.
package collector

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mapryk/routecast/pkg/apperr"
	"github.com/mapryk/routecast/pkg/observability"
	"github.com/mapryk/routecast/pkg/route"
	"github.com/mapryk/routecast/pkg/routestore"
)

// PushKeyHeader carries the producer's authentication key.
const PushKeyHeader = "X-Push-Key"

// RouteIDHeader optionally names the route a batch belongs to. Batches
// without it are appended to the live route created at server start.
const RouteIDHeader = "X-Route-Id"

// Server handles collector HTTP traffic.
type Server struct {
	store   routestore.Store
	pushKey string
	log     *log.Logger
	liveID  string
}

// New creates a collector backed by store. Incoming batches without an
// explicit route id are appended to a fresh live route.
func New(store routestore.Store, pushKey string, logger *log.Logger) *Server {
	return &Server{
		store:   store,
		pushKey: pushKey,
		log:     logger,
		liveID:  uuid.NewString(),
	}
}

// LiveRouteID returns the id of the route receiving unnamed batches.
func (s *Server) LiveRouteID() string { return s.liveID }

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.With(s.requirePushKey).Post("/RoutePoints", s.handlePush)
		r.Get("/routes", s.handleListRoutes)
		r.Get("/routes/{id}", s.handleGetRoute)
	})
	return r
}

// requirePushKey rejects requests whose push key doesn't match. Comparison
// is constant-time; the key is a shared secret.
func (s *Server) requirePushKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(PushKeyHeader)
		if key == "" || subtle.ConstantTimeCompare([]byte(key), []byte(s.pushKey)) != 1 {
			s.log.Warn("rejected push with invalid key", "remote", r.RemoteAddr)
			observability.Collector().OnPushRejected(r.Context(), r.RemoteAddr)
			writeError(w, http.StatusUnauthorized, "invalid push key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handlePush(w http.ResponseWriter, r *http.Request) {
	var points []route.Point
	if err := json.NewDecoder(r.Body).Decode(&points); err != nil {
		writeError(w, http.StatusBadRequest, "invalid route point payload")
		return
	}
	if len(points) == 0 {
		writeJSON(w, http.StatusOK, map[string]any{"accepted": 0})
		return
	}

	routeID := r.Header.Get(RouteIDHeader)
	if routeID == "" {
		routeID = s.liveID
	}

	if err := s.store.Append(r.Context(), routeID, points); err != nil {
		s.log.Error("failed to store route points", "route", routeID, "err", err)
		writeError(w, http.StatusInternalServerError, "storage failure")
		return
	}

	s.log.Debug("accepted route points", "route", routeID, "count", len(points))
	observability.Collector().OnPointsAccepted(r.Context(), routeID, len(points))
	writeJSON(w, http.StatusOK, map[string]any{"accepted": len(points)})
}

func (s *Server) handleListRoutes(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.List(r.Context())
	if err != nil {
		s.log.Error("failed to list routes", "err", err)
		writeError(w, http.StatusInternalServerError, "storage failure")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"routes": ids})
}

func (s *Server) handleGetRoute(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	points, err := s.store.Get(r.Context(), id)
	if err != nil {
		if apperr.Is(err, apperr.CodeNotFound) {
			writeError(w, http.StatusNotFound, "unknown route")
			return
		}
		s.log.Error("failed to read route", "route", id, "err", err)
		writeError(w, http.StatusInternalServerError, "storage failure")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "points": points})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
