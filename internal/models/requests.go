package models

import (
	"io"
	"time"

	"github.com/google/uuid"
)

// ClientContext - данные клиента, зафиксированные при подписании
type ClientContext struct {
	IPAddress        string
	UserAgent        string
	Platform         string
	ScreenResolution string
}

// FinalizePayload - входные данные процесса финализации
type FinalizePayload struct {
	DeployedUnit      string
	Team              string
	ActionDescription string
	FinalLatitude     *float64
	FinalLongitude    *float64
	SignerName        string
	SignerRole        string
	SignatureURL      string
	SignatureData     string
	MediaIDs          []uuid.UUID
}

// SignRequest - входные данные отдельной точки подписания
type SignRequest struct {
	IncidentID    uuid.UUID
	SignerName    string
	SignerRole    string
	SignatureData string
}

// IncidentUpdate - частичное обновление полей приема; nil означает "не менять"
type IncidentUpdate struct {
	AdvisoryNumber   *string
	Type             *string
	ReceivedAt       *time.Time
	ActivationMethod *string
	Situation        *string
	InitialNature    *string
	Address          *Address
	Requester        *Requester
	InitialLatitude  *float64
	InitialLongitude *float64
}

// Apply переносит заданные поля в инцидент
func (u IncidentUpdate) Apply(i *Incident) {
	if u.AdvisoryNumber != nil {
		i.AdvisoryNumber = *u.AdvisoryNumber
	}
	if u.Type != nil {
		i.Type = *u.Type
	}
	if u.ReceivedAt != nil {
		i.ReceivedAt = *u.ReceivedAt
	}
	if u.ActivationMethod != nil {
		i.ActivationMethod = *u.ActivationMethod
	}
	if u.Situation != nil {
		i.Situation = *u.Situation
	}
	if u.InitialNature != nil {
		i.InitialNature = *u.InitialNature
	}
	if u.Address != nil {
		i.Address = *u.Address
	}
	if u.Requester != nil {
		i.Requester = *u.Requester
	}
	if u.InitialLatitude != nil {
		i.InitialLatitude = u.InitialLatitude
	}
	if u.InitialLongitude != nil {
		i.InitialLongitude = u.InitialLongitude
	}
}

// UploadFile - файл, полученный от клиента для загрузки в хранилище
type UploadFile struct {
	Name     string
	MimeType string
	Data     []byte
}

// RegisteredPhoto - метаданные фото, уже загруженного клиентом во внешнее хранилище
type RegisteredPhoto struct {
	FileURL  string
	PublicID string
	Format   string
	Width    *int
	Height   *int
	Bytes    int64
}

// MediaUpdate - изменяемые поля медиа
type MediaUpdate struct {
	Name     *string
	Metadata map[string]any
}

// FileObject - содержимое объекта, прочитанного из хранилища
type FileObject struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}
