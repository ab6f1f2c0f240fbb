package v1

import (
	"time"

	"github.com/google/uuid"
)

// Envelope - общий формат всех ответов API
// @Description Общий формат ответа
type Envelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Data    any      `json:"data,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// AddressDTO адрес происшествия
type AddressDTO struct {
	Street       string `json:"street" validate:"required,max=255"`
	Number       string `json:"number" validate:"required,max=20"`
	Neighborhood string `json:"neighborhood" validate:"required,max=120"`
	Municipality string `json:"municipality" validate:"required,max=120"`
	Reference    string `json:"reference,omitempty" validate:"max=255"`
}

// RequesterDTO заявитель
type RequesterDTO struct {
	Name     string `json:"name" validate:"required,max=120"`
	Phone    string `json:"phone" validate:"required,phone_digits"`
	Relation string `json:"relation" validate:"required,max=60"`
}

// CreateIncidentRequest DTO для создания инцидента
// @Description DTO для создания инцидента
type CreateIncidentRequest struct {
	AdvisoryNumber   string       `json:"advisory_number" validate:"required,max=64"`
	Type             string       `json:"type" validate:"required,max=120"`
	ReceivedAt       time.Time    `json:"received_at" validate:"required"`
	ActivationMethod string       `json:"activation_method" validate:"required,max=120"`
	Situation        string       `json:"situation" validate:"required,max=255"`
	InitialNature    string       `json:"initial_nature" validate:"required,max=255"`
	Address          AddressDTO   `json:"address"`
	Requester        RequesterDTO `json:"requester"`
	InitialLatitude  *float64     `json:"initial_latitude,omitempty" validate:"omitempty,latitude"`
	InitialLongitude *float64     `json:"initial_longitude,omitempty" validate:"omitempty,longitude"`
}

// UpdateIncidentRequest DTO для частичного обновления инцидента
// @Description DTO для обновления инцидента, передаются только изменяемые поля
type UpdateIncidentRequest struct {
	AdvisoryNumber   *string       `json:"advisory_number,omitempty" validate:"omitempty,min=1,max=64"`
	Type             *string       `json:"type,omitempty" validate:"omitempty,min=1,max=120"`
	ReceivedAt       *time.Time    `json:"received_at,omitempty"`
	ActivationMethod *string       `json:"activation_method,omitempty" validate:"omitempty,min=1,max=120"`
	Situation        *string       `json:"situation,omitempty" validate:"omitempty,min=1,max=255"`
	InitialNature    *string       `json:"initial_nature,omitempty" validate:"omitempty,min=1,max=255"`
	Address          *AddressDTO   `json:"address,omitempty" validate:"omitempty"`
	Requester        *RequesterDTO `json:"requester,omitempty" validate:"omitempty"`
	InitialLatitude  *float64      `json:"initial_latitude,omitempty" validate:"omitempty,latitude"`
	InitialLongitude *float64      `json:"initial_longitude,omitempty" validate:"omitempty,longitude"`
}

// CancelIncidentRequest DTO для отмены инцидента
type CancelIncidentRequest struct {
	Reason string `json:"reason,omitempty" validate:"max=500"`
}

// FinalizeIncidentRequest DTO для финализации инцидента.
// Обязательность полей проверяется после проверки статуса и подписи.
// @Description DTO для финализации инцидента
type FinalizeIncidentRequest struct {
	DeployedUnit      string      `json:"deployed_unit" validate:"max=100"`
	Team              string      `json:"team" validate:"max=255"`
	ActionDescription string      `json:"action_description" validate:"max=5000"`
	FinalLatitude     *float64    `json:"final_latitude" validate:"omitempty,latitude"`
	FinalLongitude    *float64    `json:"final_longitude" validate:"omitempty,longitude"`
	SignerName        string      `json:"signer_name" validate:"max=200"`
	SignerRole        string      `json:"signer_role,omitempty" validate:"max=100"`
	SignatureURL      string      `json:"signature_url,omitempty" validate:"max=2048"`
	SignatureData     string      `json:"signature_data,omitempty"`
	PhotosIDs         []uuid.UUID `json:"photos_ids,omitempty"`
	Platform          string      `json:"platform,omitempty" validate:"max=50"`
	ScreenResolution  string      `json:"screen_resolution,omitempty" validate:"max=50"`
}

// SignIncidentRequest DTO для отдельного подписания инцидента
// @Description DTO для подписания инцидента
type SignIncidentRequest struct {
	IncidentID       uuid.UUID `json:"incident_id" validate:"required"`
	SignerName       string    `json:"signer_name" validate:"max=200"`
	SignerRole       string    `json:"signer_role,omitempty" validate:"max=100"`
	SignatureData    string    `json:"signature_data"`
	Platform         string    `json:"platform,omitempty" validate:"max=50"`
	ScreenResolution string    `json:"screen_resolution,omitempty" validate:"max=50"`
}

// UpdateSignatureRoleRequest DTO для исправления функции подписавшего
type UpdateSignatureRoleRequest struct {
	SignerRole string `json:"signer_role" validate:"required,max=100"`
}

// RegisteredPhotoDTO метаданные фото во внешнем хранилище
type RegisteredPhotoDTO struct {
	FileURL  string `json:"file_url" validate:"required,url"`
	PublicID string `json:"public_id" validate:"required"`
	Format   string `json:"format,omitempty" validate:"max=10"`
	Width    *int   `json:"width,omitempty" validate:"omitempty,gt=0"`
	Height   *int   `json:"height,omitempty" validate:"omitempty,gt=0"`
	Bytes    int64  `json:"bytes" validate:"required,gt=0"`
}

// RegisterPhotosRequest DTO для регистрации нескольких фото
// @Description DTO для регистрации фото, уже загруженных во внешнее хранилище
type RegisterPhotosRequest struct {
	IncidentID uuid.UUID            `json:"incident_id" validate:"required"`
	Photos     []RegisteredPhotoDTO `json:"photos" validate:"required,min=1,dive"`
}

// RegisterPhotoRequest DTO для регистрации одного фото
type RegisterPhotoRequest struct {
	IncidentID uuid.UUID          `json:"incident_id" validate:"required"`
	Photo      RegisteredPhotoDTO `json:"photo"`
}

// UpdateMediaRequest DTO для изменения медиа
type UpdateMediaRequest struct {
	Name     *string        `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// DeleteMediaRequest DTO для удаления нескольких медиа
type DeleteMediaRequest struct {
	IDs []uuid.UUID `json:"ids" validate:"required,min=1"`
}

// IncidentResponse DTO для ответа с информацией об инциденте
// @Description DTO для ответа с информацией об инциденте
type IncidentResponse struct {
	ID                uuid.UUID    `json:"id"`
	AdvisoryNumber    string       `json:"advisory_number"`
	Type              string       `json:"type"`
	ReceivedAt        time.Time    `json:"received_at"`
	ActivationMethod  string       `json:"activation_method"`
	Situation         string       `json:"situation"`
	InitialNature     string       `json:"initial_nature"`
	Address           AddressDTO   `json:"address"`
	Requester         RequesterDTO `json:"requester"`
	InitialLatitude   *float64     `json:"initial_latitude,omitempty"`
	InitialLongitude  *float64     `json:"initial_longitude,omitempty"`
	Status            string       `json:"status"`
	CreatedBy         uuid.UUID    `json:"created_by"`
	FinalizedBy       *uuid.UUID   `json:"finalized_by,omitempty"`
	DeployedUnit      string       `json:"deployed_unit,omitempty"`
	Team              string       `json:"team,omitempty"`
	ActionDescription string       `json:"action_description,omitempty"`
	FinalLatitude     *float64     `json:"final_latitude,omitempty"`
	FinalLongitude    *float64     `json:"final_longitude,omitempty"`
	FinalizedAt       *time.Time   `json:"finalized_at,omitempty"`
	SignatureID       *uuid.UUID   `json:"signature_id,omitempty"`
	CanceledAt        *time.Time   `json:"canceled_at,omitempty"`
	CancelReason      string       `json:"cancel_reason,omitempty"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// IncidentSummaryResponse DTO для списка инцидентов
// @Description Проекция инцидента для списка
type IncidentSummaryResponse struct {
	ID            uuid.UUID  `json:"id"`
	InitialNature string     `json:"initial_nature"`
	Status        string     `json:"status"`
	ReceivedAt    time.Time  `json:"received_at"`
	Address       AddressDTO `json:"address"`
}

// FinalizedIncidentSummary краткие данные финализированного инцидента
type FinalizedIncidentSummary struct {
	ID             uuid.UUID  `json:"id"`
	AdvisoryNumber string     `json:"advisory_number"`
	Status         string     `json:"status"`
	FinalizedAt    *time.Time `json:"finalized_at,omitempty"`
	DeployedUnit   string     `json:"deployed_unit,omitempty"`
	Team           string     `json:"team,omitempty"`
}

// SignatureSummary краткие данные подписи; заполнено только основное представление
type SignatureSummary struct {
	ID            uuid.UUID `json:"id"`
	SignerName    string    `json:"signer_name"`
	SignerRole    string    `json:"signer_role,omitempty"`
	SignedAt      time.Time `json:"signed_at"`
	SignatureURL  string    `json:"signature_url,omitempty"`
	SignatureData string    `json:"signature_data,omitempty"`
}

// FinalizationResponse DTO результата финализации или подписания
// @Description Результат финализации инцидента
type FinalizationResponse struct {
	Incident     FinalizedIncidentSummary `json:"incident"`
	Signature    SignatureSummary         `json:"signature"`
	LinkedPhotos int                      `json:"linked_photos"`
}

// DeviceInfoDTO контекст устройства подписания
type DeviceInfoDTO struct {
	Platform         string    `json:"platform,omitempty"`
	ScreenResolution string    `json:"screen_resolution,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
}

// SignatureResponse DTO подписи
// @Description Подпись инцидента
type SignatureResponse struct {
	ID            uuid.UUID     `json:"id"`
	IncidentID    uuid.UUID     `json:"incident_id"`
	SignerName    string        `json:"signer_name"`
	SignerRole    string        `json:"signer_role,omitempty"`
	SignatureURL  string        `json:"signature_url,omitempty"`
	SignatureData string        `json:"signature_data,omitempty"`
	SignedAt      time.Time     `json:"signed_at"`
	IPAddress     string        `json:"ip_address,omitempty"`
	UserAgent     string        `json:"user_agent,omitempty"`
	DeviceInfo    DeviceInfoDTO `json:"device_info"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// MediaResponse DTO медиафайла
// @Description Медиафайл
type MediaResponse struct {
	ID         uuid.UUID      `json:"id"`
	IncidentID *uuid.UUID     `json:"incident_id,omitempty"`
	Name       string         `json:"name"`
	FileType   string         `json:"file_type"`
	FileURL    string         `json:"file_url,omitempty"`
	Size       int64          `json:"size"`
	MimeType   string         `json:"mime_type"`
	UploadedBy *uuid.UUID     `json:"uploaded_by,omitempty"`
	CapturedAt time.Time      `json:"captured_at"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// FinalizationDetailsResponse DTO деталей финализации
// @Description Инцидент с подписью, фото и признаками заполненности
type FinalizationDetailsResponse struct {
	Incident     IncidentResponse   `json:"incident"`
	Signature    *SignatureResponse `json:"signature,omitempty"`
	Photos       []MediaResponse    `json:"photos"`
	HasReport    bool               `json:"has_report"`
	HasSignature bool               `json:"has_signature"`
	HasPhotos    bool               `json:"has_photos"`
}

// SignatureStatsResponse DTO статистики подписей
type SignatureStatsResponse struct {
	TotalSignatures           int `json:"total_signatures"`
	FinalizedIncidents        int `json:"finalized_incidents"`
	AverageSigningTimeMinutes int `json:"average_signing_time_minutes"`
}

// SignedURLResponse DTO временной ссылки
type SignedURLResponse struct {
	URL       string `json:"url"`
	ExpiresIn int64  `json:"expires_in"`
}

// DeleteMediaResponse DTO результата удаления нескольких медиа
type DeleteMediaResponse struct {
	Deleted int64 `json:"deleted"`
}
