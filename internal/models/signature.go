package models

import (
	"time"

	"github.com/google/uuid"
)

// SignatureImageKind определяет, какое представление изображения подписи является основным
type SignatureImageKind string

const (
	SignatureImageRemote SignatureImageKind = "remote"
	SignatureImageInline SignatureImageKind = "inline"
)

// SignatureImage - изображение подписи: либо URL во внешнем хранилище, либо data URI
type SignatureImage struct {
	Kind  SignatureImageKind `json:"kind"`
	Value string             `json:"value"`
}

// NewSignatureImage выбирает основное представление. URL имеет приоритет над data URI.
func NewSignatureImage(url, data string) (SignatureImage, bool) {
	switch {
	case url != "":
		return SignatureImage{Kind: SignatureImageRemote, Value: url}, true
	case data != "":
		return SignatureImage{Kind: SignatureImageInline, Value: data}, true
	}
	return SignatureImage{}, false
}

// URL возвращает ссылку, если изображение хранится удаленно
func (i SignatureImage) URL() string {
	if i.Kind == SignatureImageRemote {
		return i.Value
	}
	return ""
}

// Data возвращает data URI, если изображение хранится inline
func (i SignatureImage) Data() string {
	if i.Kind == SignatureImageInline {
		return i.Value
	}
	return ""
}

// DeviceInfo - контекст устройства, на котором была снята подпись
type DeviceInfo struct {
	Platform         string    `json:"platform,omitempty"`
	ScreenResolution string    `json:"screen_resolution,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
}

type Signature struct {
	ID         uuid.UUID      `json:"id"`
	IncidentID uuid.UUID      `json:"incident_id"`
	SignerName string         `json:"signer_name"`
	SignerRole string         `json:"signer_role,omitempty"`
	Image      SignatureImage `json:"image"`
	SignedAt   time.Time      `json:"signed_at"`
	IPAddress  string         `json:"ip_address,omitempty"`
	UserAgent  string         `json:"user_agent,omitempty"`
	DeviceInfo DeviceInfo     `json:"device_info"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// SignatureStats - агрегированная статистика по подписям
type SignatureStats struct {
	TotalSignatures           int `json:"total_signatures"`
	FinalizedIncidents        int `json:"finalized_incidents"`
	AverageSigningTimeMinutes int `json:"average_signing_time_minutes"`
}
