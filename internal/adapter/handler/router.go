package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// NewRouter mounts the cart endpoints.
func NewRouter(h *HTTPHandler, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger(logger))
	r.Use(chimw.Recoverer)

	r.Get("/health", h.HealthCheck)
	r.Get("/cart/fragment", h.Fragment)

	r.Route("/api/cart", func(r chi.Router) {
		r.Get("/", h.GetCart)
		r.Delete("/", h.ClearCart)
		r.Post("/items", h.AddItem)
		r.Patch("/items/{itemID}", h.UpdateItem)
		r.Delete("/items/{itemID}", h.RemoveItem)
		r.Post("/actions", h.Action)
		r.Post("/checkout", h.Checkout)
	})

	return r
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("http request",
				zap.String("request_id", chimw.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
