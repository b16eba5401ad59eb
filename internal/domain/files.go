package domain

import (
	"errors"
	"time"
)

// ErrInvalidFilename is returned when the resolved filename has no usable
// extension separator.
var ErrInvalidFilename = errors.New("filename must contain a base name and an extension")

// File is a stored upload: the payload plus its descriptive metadata.
// Data never leaves the service through metadata responses.
type File struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Description *string   `json:"description"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Data        []byte    `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Filename joins name and type back into the filename they were split from.
func (f *File) Filename() string {
	return f.Name + "." + f.Type
}

// CreateFileRequest carries the client-supplied fields of an upload.
// Data is filled from the multipart file part, never from JSON.
type CreateFileRequest struct {
	Username    string `json:"username" validate:"notblank"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Data        []byte `json:"-" validate:"required"`
}
