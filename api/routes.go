package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(LoggerMiddleware(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.SetHeader("Content-Type", "application/json"))

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("OK"))
		})

		r.Route("/preferences", func(r chi.Router) {
			r.Get("/", s.handleListPreferences)      // GET /api/v1/preferences?search=
			r.Get("/{name}", s.handleGetPreference)  // GET /api/v1/preferences/{name}
			r.Put("/{name}", s.handleSetPreference)  // PUT /api/v1/preferences/{name}
			r.Post("/{name}/toggle", s.handleToggle) // POST /api/v1/preferences/{name}/toggle
			r.Post("/{name}/reset", s.handleReset)   // POST /api/v1/preferences/{name}/reset
		})

		r.Get("/changed", s.handleListChanged)
		r.Post("/save", s.handleSave)
		r.Post("/reload", s.handleReload)
		r.Post("/modules/{path}/reload", s.handleReloadModule)
	})
}
