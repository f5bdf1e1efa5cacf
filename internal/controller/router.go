package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (c *Controller) Mux() http.Handler {
	r := chi.NewRouter()

	r.Use(c.requestIDMw)
	r.Use(c.requestLoggingMw)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.HandleFunc("/ws/player", c.ServePlayer)

	return r
}
