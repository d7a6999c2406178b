package models

import (
	"time"

	"github.com/google/uuid"
)

// Catalog is the root aggregate holding every entry in the gallery. It is
// persisted as a single JSON document and loaded fresh for each operation.
type Catalog struct {
	Videos   []Video  `json:"videos"`
	Images   []Image  `json:"images"`
	Pastes   []Paste  `json:"pastes"`
	Settings Settings `json:"settings"`
}

type Settings struct {
	DarkMode bool `json:"darkMode"`
}

type Video struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Filename    string    `json:"video"`
	Thumbnail   *string   `json:"thumbnail"`
	Comments    []Comment `json:"comments"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Image uses its blob reference as the entry key; OriginalName is kept for
// display only and never used to address the stored file.
type Image struct {
	Filename     string    `json:"filename"`
	OriginalName string    `json:"originalName"`
	Size         int64     `json:"size"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

type Paste struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"createdAt"`
}

type Comment struct {
	Name      string    `json:"name"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewCatalog returns an empty document with default settings.
func NewCatalog() Catalog {
	return Catalog{
		Videos:   []Video{},
		Images:   []Image{},
		Pastes:   []Paste{},
		Settings: Settings{DarkMode: true},
	}
}

func NewVideo(title, description, filename string, thumbnail *string) Video {
	return Video{
		ID:          uuid.New().String(),
		Title:       title,
		Description: description,
		Filename:    filename,
		Thumbnail:   thumbnail,
		Comments:    []Comment{},
		CreatedAt:   time.Now(),
	}
}

func NewImage(filename, originalName string, size int64) Image {
	return Image{
		Filename:     filename,
		OriginalName: originalName,
		Size:         size,
		UploadedAt:   time.Now(),
	}
}

func NewPaste(title, code string) Paste {
	return Paste{
		ID:        uuid.New().String(),
		Title:     title,
		Code:      code,
		CreatedAt: time.Now(),
	}
}

func NewComment(name, text string) Comment {
	return Comment{
		Name:      name,
		Text:      text,
		CreatedAt: time.Now(),
	}
}

// FindVideo returns a pointer into the document, so a caller holding the
// document may mutate the entry in place before persisting it.
func (c *Catalog) FindVideo(id string) (*Video, bool) {
	for i := range c.Videos {
		if c.Videos[i].ID == id {
			return &c.Videos[i], true
		}
	}
	return nil, false
}

func (c *Catalog) FindImage(filename string) (*Image, bool) {
	for i := range c.Images {
		if c.Images[i].Filename == filename {
			return &c.Images[i], true
		}
	}
	return nil, false
}

func (c *Catalog) FindPaste(id string) (*Paste, bool) {
	for i := range c.Pastes {
		if c.Pastes[i].ID == id {
			return &c.Pastes[i], true
		}
	}
	return nil, false
}
