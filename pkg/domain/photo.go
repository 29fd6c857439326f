package domain

import (
	"time"

	"github.com/google/uuid"
)

// Photo is the metadata of an uploaded picture; the bytes live in object storage.
type Photo struct {
	ID               uuid.UUID
	StorageKey       string
	OriginalFilename string
	UploadDate       time.Time
	IsApproved       bool
	FileSize         int64
	MimeType         string
	Description      string
	Photographer     string
	PhotoExif
}

// PhotoExif is the camera metadata read from an upload. Nil fields were
// absent from the file.
type PhotoExif struct {
	DateTaken    *time.Time
	CameraMake   string
	CameraModel  string
	ExposureTime string
	FNumber      *float64
	ISOSpeed     *int
	FocalLength  *float64
}
