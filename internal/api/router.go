package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(app *App) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/ping", PingHandler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/videos", app.ListVideosHandler)
		r.Post("/videos", app.UploadVideoHandler)
		r.Get("/videos/{id}", app.GetVideoHandler)
		r.Post("/videos/{id}/comments", app.AddCommentHandler)

		r.Get("/images", app.ListImagesHandler)
		r.Post("/images", app.UploadImageHandler)
		r.Get("/images/{filename}", app.GetImageHandler)

		r.Get("/pastes", app.ListPastesHandler)
		r.Post("/pastes", app.CreatePasteHandler)
		r.Get("/pastes/{id}", app.GetPasteHandler)

		r.Get("/settings", app.GetSettingsHandler)
		r.Post("/settings/dark-mode", app.ToggleDarkModeHandler)
	})

	r.Get("/content/{filename}", app.ContentHandler)

	return r
}
