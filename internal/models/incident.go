package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Статусы жизненного цикла инцидента
const (
	StatusInProgress = "in_progress"
	StatusFinalized  = "finalized"
	StatusCanceled   = "canceled"
)

// Address - адрес происшествия, принадлежит инциденту
type Address struct {
	Street       string `json:"street"`
	Number       string `json:"number"`
	Neighborhood string `json:"neighborhood"`
	Municipality string `json:"municipality"`
	Reference    string `json:"reference,omitempty"`
}

// Requester - лицо, сообщившее о происшествии
type Requester struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Relation string `json:"relation"`
}

// FinalReport - поля итогового отчета, заполняются только при финализации
type FinalReport struct {
	DeployedUnit      string   `json:"deployed_unit,omitempty"`
	Team              string   `json:"team,omitempty"`
	ActionDescription string   `json:"action_description,omitempty"`
	FinalLatitude     *float64 `json:"final_latitude,omitempty"`
	FinalLongitude    *float64 `json:"final_longitude,omitempty"`
}

// Complete сообщает, заполнены ли текстовые поля отчета
func (r FinalReport) Complete() bool {
	return r.DeployedUnit != "" && r.Team != "" && r.ActionDescription != ""
}

type Incident struct {
	ID               uuid.UUID   `json:"id"`
	AdvisoryNumber   string      `json:"advisory_number"`
	Type             string      `json:"type"`
	ReceivedAt       time.Time   `json:"received_at"`
	ActivationMethod string      `json:"activation_method"`
	Situation        string      `json:"situation"`
	InitialNature    string      `json:"initial_nature"`
	Address          Address     `json:"address"`
	Requester        Requester   `json:"requester"`
	InitialLatitude  *float64    `json:"initial_latitude,omitempty"`
	InitialLongitude *float64    `json:"initial_longitude,omitempty"`
	Status           string      `json:"status"`
	CreatedBy        uuid.UUID   `json:"created_by"`
	FinalizedBy      *uuid.UUID  `json:"finalized_by,omitempty"`
	Report           FinalReport `json:"report"`
	FinalizedAt      *time.Time  `json:"finalized_at,omitempty"`
	SignatureID      *uuid.UUID  `json:"signature_id,omitempty"`
	CanceledAt       *time.Time  `json:"canceled_at,omitempty"`
	CancelReason     string      `json:"cancel_reason,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// NormalizedStatus возвращает статус в нижнем регистре без пробелов по краям
func (i *Incident) NormalizedStatus() string {
	return strings.ToLower(strings.TrimSpace(i.Status))
}

// InProgress - единственный статус, из которого возможны переходы
func (i *Incident) InProgress() bool {
	return i.NormalizedStatus() == StatusInProgress
}

// IncidentSummary - проекция для списка инцидентов
type IncidentSummary struct {
	ID            uuid.UUID `json:"id"`
	InitialNature string    `json:"initial_nature"`
	Status        string    `json:"status"`
	ReceivedAt    time.Time `json:"received_at"`
	Address       Address   `json:"address"`
}
