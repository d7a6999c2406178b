// Package upload decides whether a declared upload may be stored at all.
// Checks are advisory: they look at the declared extension and content type,
// never at the file bytes themselves.
package upload

import (
	"fmt"
	"path/filepath"
	"strings"

	"mediastash/internal/storage"
)

type Category string

const (
	CategoryVideo Category = "video"
	CategoryImage Category = "image"
)

// RejectedError reports an upload turned away before any byte was persisted.
type RejectedError struct {
	Reason string
}

func (e *RejectedError) Error() string {
	return "upload rejected: " + e.Reason
}

type policy struct {
	extensions  map[string]bool
	typePrefix  string
	maxSize     int64
	description string
}

var policies = map[Category]policy{
	CategoryVideo: {
		extensions:  map[string]bool{".mp4": true, ".webm": true, ".mov": true},
		typePrefix:  "video/",
		maxSize:     100 << 20,
		description: "mp4, webm or mov video",
	},
	CategoryImage: {
		extensions:  map[string]bool{".jpeg": true, ".jpg": true, ".png": true, ".gif": true},
		typePrefix:  "image/",
		maxSize:     20 << 20,
		description: "jpeg, png or gif image",
	},
}

// MaxSize returns the byte ceiling for a category. Used by the transport
// layer to size its request body limit.
func MaxSize(cat Category) int64 {
	return policies[cat].maxSize
}

// Validate accepts or rejects an upload for a category. Both the declared
// extension and the declared content type must match the category's
// allow-list, so a single spoofed signal is not enough to get a file stored.
func Validate(info storage.FileInfo, cat Category) error {
	p, ok := policies[cat]
	if !ok {
		return fmt.Errorf("unknown upload category: %s", cat)
	}

	ext := strings.ToLower(filepath.Ext(info.Filename))
	if !p.extensions[ext] {
		return &RejectedError{Reason: fmt.Sprintf("only %s files are allowed", p.description)}
	}

	if !strings.HasPrefix(info.ContentType, p.typePrefix) {
		return &RejectedError{Reason: fmt.Sprintf("only %s files are allowed", p.description)}
	}

	if info.Size > p.maxSize {
		return &RejectedError{Reason: fmt.Sprintf("file exceeds the %d MB limit", p.maxSize>>20)}
	}

	return nil
}
