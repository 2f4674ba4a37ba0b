package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const readinessTimeout = 2 * time.Second

// Pinger is a dependency the readiness probe checks.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) PingContext(ctx context.Context) error {
	return f(ctx)
}

type HealthHandler struct {
	deps map[string]Pinger
}

// NewHealthHandler checks each named dependency on readiness.
func NewHealthHandler(deps map[string]Pinger) *HealthHandler {
	return &HealthHandler{deps: deps}
}

// Live handles GET /api/live
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Healthy"))
}

// Ready handles GET /api/ready
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	var (
		mu      sync.Mutex
		g       errgroup.Group
		results = make(map[string]string, len(h.deps))
		status  = http.StatusOK
	)
	for name, dep := range h.deps {
		g.Go(func() error {
			err := dep.PingContext(ctx)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.WithField("dependency", name).WithError(err).Warn("Readiness check failed")
				results[name] = "Unhealthy"
				status = http.StatusServiceUnavailable
				return nil
			}
			results[name] = "Healthy"
			return nil
		})
	}
	_ = g.Wait()

	writeJSON(w, status, results)
}
