package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (c controller) GetMux() http.Handler {
	r := chi.NewRouter()

	r.Use(c.requestIdMw)
	r.Use(c.requestLoggingMw)

	r.Route("/api", func(r chi.Router) {
		r.Get("/videos", c.ListVideos)
		r.Post("/videos", c.CreateVideo)
		r.Put("/videos", c.UpdateVideo)
		r.Get("/videos/single", c.GetVideo)
		r.Get("/videos/comments", c.ListComments)
		r.Post("/videos/comments", c.CreateComment)
	})

	r.HandleFunc("/ws/player", c.PlayerSession)

	return r
}
