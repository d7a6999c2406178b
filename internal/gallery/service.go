// Package gallery implements the content store contract: ingestion of
// videos, images and pastes, comment appends, and catalog reads.
package gallery

import (
	"fmt"
	"mime/multipart"

	"mediastash/internal/models"
	"mediastash/internal/storage"
	"mediastash/internal/upload"
)

// CatalogStore is the serialized read/mutate surface the service drives.
// Satisfied by *catalog.Store.
type CatalogStore interface {
	Read() (models.Catalog, error)
	Mutate(fn func(*models.Catalog) error) error
}

// Upload pairs an open multipart file with its client-declared metadata.
type Upload struct {
	File multipart.File
	Info storage.FileInfo
}

type Service struct {
	storage storage.Storage
	catalog CatalogStore
}

func NewService(st storage.Storage, cat CatalogStore) *Service {
	return &Service{storage: st, catalog: cat}
}

func (s *Service) ListVideos() ([]models.Video, error) {
	doc, err := s.catalog.Read()
	if err != nil {
		return nil, err
	}
	return doc.Videos, nil
}

func (s *Service) ListImages() ([]models.Image, error) {
	doc, err := s.catalog.Read()
	if err != nil {
		return nil, err
	}
	return doc.Images, nil
}

func (s *Service) ListPastes() ([]models.Paste, error) {
	doc, err := s.catalog.Read()
	if err != nil {
		return nil, err
	}
	return doc.Pastes, nil
}

func (s *Service) GetVideo(id string) (*models.Video, error) {
	doc, err := s.catalog.Read()
	if err != nil {
		return nil, err
	}
	v, ok := doc.FindVideo(id)
	if !ok {
		return nil, ErrNotFound
	}
	return v, nil
}

func (s *Service) GetImage(filename string) (*models.Image, error) {
	doc, err := s.catalog.Read()
	if err != nil {
		return nil, err
	}
	img, ok := doc.FindImage(filename)
	if !ok {
		return nil, ErrNotFound
	}
	return img, nil
}

func (s *Service) GetPaste(id string) (*models.Paste, error) {
	doc, err := s.catalog.Read()
	if err != nil {
		return nil, err
	}
	p, ok := doc.FindPaste(id)
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

// IngestVideo validates everything up front, stores the video blob (and
// thumbnail, if given), then appends the catalog entry. If the append fails
// after blobs were written, the blobs are deleted so no orphan survives a
// failed ingestion. Returns the new entry's id.
func (s *Service) IngestVideo(title, description string, video *Upload, thumbnail *Upload) (string, error) {
	if title == "" {
		return "", &ValidationError{Field: "title"}
	}
	if description == "" {
		return "", &ValidationError{Field: "description"}
	}
	if video == nil {
		return "", &ValidationError{Field: "video file"}
	}
	if err := upload.Validate(video.Info, upload.CategoryVideo); err != nil {
		return "", err
	}
	if thumbnail != nil {
		if err := upload.Validate(thumbnail.Info, upload.CategoryImage); err != nil {
			return "", err
		}
	}

	filename, err := s.storage.SaveFile(video.File, video.Info)
	if err != nil {
		return "", fmt.Errorf("failed to store video: %w", err)
	}

	var thumbName *string
	if thumbnail != nil {
		name, err := s.storage.SaveFile(thumbnail.File, thumbnail.Info)
		if err != nil {
			s.storage.DeleteFile(filename)
			return "", fmt.Errorf("failed to store thumbnail: %w", err)
		}
		thumbName = &name
	}

	entry := models.NewVideo(title, description, filename, thumbName)
	err = s.catalog.Mutate(func(c *models.Catalog) error {
		c.Videos = append(c.Videos, entry)
		return nil
	})
	if err != nil {
		s.storage.DeleteFile(filename)
		if thumbName != nil {
			s.storage.DeleteFile(*thumbName)
		}
		return "", fmt.Errorf("failed to record video: %w", err)
	}

	return entry.ID, nil
}

// IngestImage stores the blob and appends an entry keyed by the generated
// blob reference, which it returns.
func (s *Service) IngestImage(img *Upload) (string, error) {
	if img == nil {
		return "", &ValidationError{Field: "image file"}
	}
	if err := upload.Validate(img.Info, upload.CategoryImage); err != nil {
		return "", err
	}

	filename, err := s.storage.SaveFile(img.File, img.Info)
	if err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}

	entry := models.NewImage(filename, img.Info.Filename, img.Info.Size)
	err = s.catalog.Mutate(func(c *models.Catalog) error {
		c.Images = append(c.Images, entry)
		return nil
	})
	if err != nil {
		s.storage.DeleteFile(filename)
		return "", fmt.Errorf("failed to record image: %w", err)
	}

	return filename, nil
}

// IngestPaste records the code text directly in the catalog, verbatim.
func (s *Service) IngestPaste(title, code string) (string, error) {
	if title == "" {
		return "", &ValidationError{Field: "title"}
	}
	if code == "" {
		return "", &ValidationError{Field: "code"}
	}

	entry := models.NewPaste(title, code)
	err := s.catalog.Mutate(func(c *models.Catalog) error {
		c.Pastes = append(c.Pastes, entry)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to record paste: %w", err)
	}

	return entry.ID, nil
}

// AddComment appends a comment to a video. The lookup happens inside the
// mutation so concurrent appends against the same video never lose updates.
func (s *Service) AddComment(videoID, name, text string) error {
	if name == "" {
		return &ValidationError{Field: "name"}
	}
	if text == "" {
		return &ValidationError{Field: "text"}
	}

	return s.catalog.Mutate(func(c *models.Catalog) error {
		v, ok := c.FindVideo(videoID)
		if !ok {
			return ErrNotFound
		}
		v.Comments = append(v.Comments, models.NewComment(name, text))
		return nil
	})
}

func (s *Service) GetSettings() (models.Settings, error) {
	doc, err := s.catalog.Read()
	if err != nil {
		return models.Settings{}, err
	}
	return doc.Settings, nil
}

// ToggleDarkMode flips the persisted dark mode flag and returns the new
// settings.
func (s *Service) ToggleDarkMode() (models.Settings, error) {
	var settings models.Settings
	err := s.catalog.Mutate(func(c *models.Catalog) error {
		c.Settings.DarkMode = !c.Settings.DarkMode
		settings = c.Settings
		return nil
	})
	if err != nil {
		return models.Settings{}, fmt.Errorf("failed to update settings: %w", err)
	}
	return settings, nil
}
