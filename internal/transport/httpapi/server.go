// Package httpapi exposes the pipeline over HTTP: POST /process_query for
// turn resolution, GET /healthz for liveness, and GET /metrics for
// Prometheus scrapes.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"butik-nlu/internal/common/logger"
	"butik-nlu/internal/models"
	"butik-nlu/internal/nlu"
)

// TurnResolver is the pipeline surface the transport needs.
type TurnResolver interface {
	ResolveTurn(ctx context.Context, sessionID, utterance string) (*models.ResolvedTurn, error)
}

var _ TurnResolver = (*nlu.Pipeline)(nil)

// Health reports readiness of the optional resources so operators can see
// which degradations are active.
type Health struct {
	SpellingDictionary bool `json:"spellingDictionary"`
	Lemmatizer         bool `json:"lemmatizer"`
	IntentModel        bool `json:"intentModel"`
}

// Server wires the handlers together.
type Server struct {
	resolver  TurnResolver
	responder *Responder
	health    Health
	log       logger.Logger
}

// NewServer builds the HTTP surface.
func NewServer(resolver TurnResolver, responder *Responder, health Health, log logger.Logger) *Server {
	return &Server{resolver: resolver, responder: responder, health: health, log: log}
}

// Routes returns the handler with all endpoints mounted.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/process_query", s.handleProcessQuery)
	// Clients of the previous service post with a trailing slash.
	mux.HandleFunc("/process_query/", s.handleProcessQuery)
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.Handle("/metrics", promhttp.Handler())
	return s.withRequestLog(mux)
}

func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("http request", map[string]interface{}{
			"method": r.Method,
			"path":   r.URL.Path,
			"ms":     time.Since(start).Milliseconds(),
		})
	})
}
