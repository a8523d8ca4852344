package cart

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"RocketShoes/pkg/kit"
)

type HTTPDeps = kit.RouterDeps

const (
	sessionLimitPerMin = 30
	limitWindow        = 60 * time.Second
	readyTimeout       = 1 * time.Second
)

func NewHandler(s *Server, deps HTTPDeps) http.Handler {
	if s.Log == nil {
		s.Log = deps.Log
	}

	r := kit.NewRouter(deps)
	sessionLimiter := kit.NewIPRateLimiter(sessionLimitPerMin, limitWindow)

	r.Get("/healthz", kit.Healthz)
	r.Get("/readyz", s.handleReady)

	r.With(sessionLimiter.Middleware).Post("/session", s.createSession)

	r.Group(func(pr chi.Router) {
		pr.Use(s.RequireSession)
		pr.Get("/cart", s.getCart)
		pr.Post("/cart/products/{id}", s.addProduct)
		pr.Delete("/cart/products/{id}", s.removeProduct)
		pr.Put("/cart/products/{id}", s.updateProductAmount)
	})

	return r
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := s.Sessions.Ping(ctx); err != nil {
		s.logger().Warn("readyz failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
		return
	}
	w.WriteHeader(http.StatusOK)
}
