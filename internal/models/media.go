package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Типы медиафайлов
const (
	MediaTypeImage    = "image"
	MediaTypeVideo    = "video"
	MediaTypeDocument = "document"
	MediaTypeUnknown  = "unknown"
)

// MediaTypeFromMIME выводит тип медиа из MIME-типа
func MediaTypeFromMIME(mimeType string) string {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return MediaTypeImage
	case strings.HasPrefix(mimeType, "video/"):
		return MediaTypeVideo
	case strings.HasPrefix(mimeType, "application/"):
		return MediaTypeDocument
	default:
		return MediaTypeUnknown
	}
}

type Media struct {
	ID         uuid.UUID      `json:"id"`
	IncidentID *uuid.UUID     `json:"incident_id,omitempty"`
	Name       string         `json:"name"`
	FileType   string         `json:"file_type"`
	FilePath   string         `json:"file_path"`
	FileURL    string         `json:"file_url,omitempty"`
	Size       int64          `json:"size"`
	MimeType   string         `json:"mime_type"`
	Stored     bool           `json:"stored"`
	UploadedBy *uuid.UUID     `json:"uploaded_by,omitempty"`
	CapturedAt time.Time      `json:"captured_at"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}
