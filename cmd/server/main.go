package main

import (
	"log/slog"
	"net/http"
	"os"

	"mediastash/internal/api"
	"mediastash/internal/catalog"
	"mediastash/internal/config"
	"mediastash/internal/gallery"
	"mediastash/internal/storage"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	localStorage, err := storage.NewLocalStorage(cfg.ContentDir)
	if err != nil {
		slog.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}

	catalogStore, err := catalog.NewStore(cfg.CatalogPath)
	if err != nil {
		slog.Error("failed to initialize catalog", "error", err)
		os.Exit(1)
	}

	app := &api.App{
		Gallery:       gallery.NewService(localStorage, catalogStore),
		Storage:       localStorage,
		MaxUploadSize: cfg.MaxUploadSize,
	}

	router := api.NewRouter(app)

	slog.Info("server starting",
		"port", cfg.Port,
		"content_dir", cfg.ContentDir,
		"catalog_path", cfg.CatalogPath,
		"max_upload_size", cfg.MaxUploadSize,
	)

	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
