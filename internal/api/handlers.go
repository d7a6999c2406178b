package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"mediastash/internal/gallery"
	"mediastash/internal/storage"
	"mediastash/internal/upload"
)

type App struct {
	Gallery       *gallery.Service
	Storage       storage.Storage
	MaxUploadSize int64
}

func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// respondError maps the service error taxonomy onto HTTP statuses. Anything
// outside the taxonomy is a persistence or programming fault and stays
// opaque to the client.
func respondError(w http.ResponseWriter, err error) {
	var ve *gallery.ValidationError
	var re *upload.RejectedError

	switch {
	case errors.As(err, &ve):
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": ve.Error()})
	case errors.As(err, &re):
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": re.Error()})
	case errors.Is(err, gallery.ErrNotFound):
		respondJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	default:
		slog.Error("request failed", "error", err)
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

// formUpload extracts one file field from a parsed multipart form. A missing
// field is not an error here; the service decides whether it was required.
func formUpload(r *http.Request, field string) (*gallery.Upload, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}

	return &gallery.Upload{
		File: file,
		Info: storage.FileInfo{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
		},
	}, nil
}

func (app *App) ListVideosHandler(w http.ResponseWriter, r *http.Request) {
	videos, err := app.Gallery.ListVideos()
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, videos)
}

func (app *App) GetVideoHandler(w http.ResponseWriter, r *http.Request) {
	video, err := app.Gallery.GetVideo(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, video)
}

func (app *App) UploadVideoHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, app.MaxUploadSize)

	if err := r.ParseMultipartForm(app.MaxUploadSize); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid or oversized form data"})
		return
	}

	video, err := formUpload(r, "video")
	if err != nil {
		respondError(w, err)
		return
	}
	if video != nil {
		defer video.File.Close()
	}

	thumbnail, err := formUpload(r, "thumbnail")
	if err != nil {
		respondError(w, err)
		return
	}
	if thumbnail != nil {
		defer thumbnail.File.Close()
	}

	id, err := app.Gallery.IngestVideo(r.FormValue("title"), r.FormValue("description"), video, thumbnail)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (app *App) ListImagesHandler(w http.ResponseWriter, r *http.Request) {
	images, err := app.Gallery.ListImages()
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, images)
}

func (app *App) GetImageHandler(w http.ResponseWriter, r *http.Request) {
	img, err := app.Gallery.GetImage(chi.URLParam(r, "filename"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, img)
}

func (app *App) UploadImageHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, app.MaxUploadSize)

	if err := r.ParseMultipartForm(app.MaxUploadSize); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid or oversized form data"})
		return
	}

	img, err := formUpload(r, "image")
	if err != nil {
		respondError(w, err)
		return
	}
	if img != nil {
		defer img.File.Close()
	}

	filename, err := app.Gallery.IngestImage(img)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"filename": filename})
}

func (app *App) ListPastesHandler(w http.ResponseWriter, r *http.Request) {
	pastes, err := app.Gallery.ListPastes()
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, pastes)
}

func (app *App) GetPasteHandler(w http.ResponseWriter, r *http.Request) {
	paste, err := app.Gallery.GetPaste(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, paste)
}

func (app *App) CreatePasteHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
		Code  string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	id, err := app.Gallery.IngestPaste(req.Title, req.Code)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (app *App) AddCommentHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if err := app.Gallery.AddComment(chi.URLParam(r, "id"), req.Name, req.Text); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (app *App) GetSettingsHandler(w http.ResponseWriter, r *http.Request) {
	settings, err := app.Gallery.GetSettings()
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

func (app *App) ToggleDarkModeHandler(w http.ResponseWriter, r *http.Request) {
	settings, err := app.Gallery.ToggleDarkMode()
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

// ContentHandler serves a stored blob by its generated reference.
// ServeContent handles Range requests, so video playback seeks work without
// any extra code here.
func (app *App) ContentHandler(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	if filename == "" {
		http.NotFound(w, r)
		return
	}

	file, err := app.Storage.OpenFile(filename)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer file.Close()

	stat, err := file.(interface{ Stat() (os.FileInfo, error) }).Stat()
	if err != nil {
		http.Error(w, "error accessing file", http.StatusInternalServerError)
		return
	}

	http.ServeContent(w, r, filename, stat.ModTime(), file)
}
