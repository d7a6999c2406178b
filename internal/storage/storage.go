package storage

import (
	"io"
	"mime/multipart"
)

// FileInfo carries the client-declared facts about an upload. None of it is
// trusted; validation happens before a file reaches SaveFile.
type FileInfo struct {
	Filename    string
	ContentType string
	Size        int64
}

type Storage interface {
	SaveFile(file multipart.File, info FileInfo) (string, error)
	OpenFile(path string) (io.ReadSeekCloser, error)
	DeleteFile(path string) error
}
