package v1

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shenikar/ignis_incident_service/internal/models"
)

func addressToModel(a AddressDTO) models.Address {
	return models.Address{
		Street:       strings.TrimSpace(a.Street),
		Number:       strings.TrimSpace(a.Number),
		Neighborhood: strings.TrimSpace(a.Neighborhood),
		Municipality: strings.TrimSpace(a.Municipality),
		Reference:    strings.TrimSpace(a.Reference),
	}
}

func addressToDTO(a models.Address) AddressDTO {
	return AddressDTO{
		Street:       a.Street,
		Number:       a.Number,
		Neighborhood: a.Neighborhood,
		Municipality: a.Municipality,
		Reference:    a.Reference,
	}
}

func requesterToModel(r RequesterDTO) models.Requester {
	return models.Requester{
		Name:     strings.TrimSpace(r.Name),
		Phone:    strings.TrimSpace(r.Phone),
		Relation: strings.TrimSpace(r.Relation),
	}
}

// DTOToIncidentModel преобразует DTO создания в доменную модель
func DTOToIncidentModel(dto CreateIncidentRequest, createdBy uuid.UUID) *models.Incident {
	return &models.Incident{
		AdvisoryNumber:   strings.TrimSpace(dto.AdvisoryNumber),
		Type:             strings.TrimSpace(dto.Type),
		ReceivedAt:       dto.ReceivedAt,
		ActivationMethod: strings.TrimSpace(dto.ActivationMethod),
		Situation:        strings.TrimSpace(dto.Situation),
		InitialNature:    strings.TrimSpace(dto.InitialNature),
		Address:          addressToModel(dto.Address),
		Requester:        requesterToModel(dto.Requester),
		InitialLatitude:  dto.InitialLatitude,
		InitialLongitude: dto.InitialLongitude,
		CreatedBy:        createdBy,
	}
}

// DTOToIncidentUpdate преобразует DTO обновления в частичное обновление
func DTOToIncidentUpdate(dto UpdateIncidentRequest) models.IncidentUpdate {
	update := models.IncidentUpdate{
		AdvisoryNumber:   dto.AdvisoryNumber,
		Type:             dto.Type,
		ReceivedAt:       dto.ReceivedAt,
		ActivationMethod: dto.ActivationMethod,
		Situation:        dto.Situation,
		InitialNature:    dto.InitialNature,
		InitialLatitude:  dto.InitialLatitude,
		InitialLongitude: dto.InitialLongitude,
	}
	if dto.Address != nil {
		address := addressToModel(*dto.Address)
		update.Address = &address
	}
	if dto.Requester != nil {
		requester := requesterToModel(*dto.Requester)
		update.Requester = &requester
	}
	return update
}

// DTOToFinalizePayload преобразует DTO финализации во входные данные сервиса
func DTOToFinalizePayload(dto FinalizeIncidentRequest) models.FinalizePayload {
	return models.FinalizePayload{
		DeployedUnit:      dto.DeployedUnit,
		Team:              dto.Team,
		ActionDescription: dto.ActionDescription,
		FinalLatitude:     dto.FinalLatitude,
		FinalLongitude:    dto.FinalLongitude,
		SignerName:        dto.SignerName,
		SignerRole:        dto.SignerRole,
		SignatureURL:      dto.SignatureURL,
		SignatureData:     dto.SignatureData,
		MediaIDs:          dto.PhotosIDs,
	}
}

func photoToModel(p RegisteredPhotoDTO) models.RegisteredPhoto {
	return models.RegisteredPhoto{
		FileURL:  strings.TrimSpace(p.FileURL),
		PublicID: strings.TrimSpace(p.PublicID),
		Format:   p.Format,
		Width:    p.Width,
		Height:   p.Height,
		Bytes:    p.Bytes,
	}
}

// ModelToIncidentResponse преобразует доменную модель в DTO для ответа
func ModelToIncidentResponse(model *models.Incident) *IncidentResponse {
	return &IncidentResponse{
		ID:               model.ID,
		AdvisoryNumber:   model.AdvisoryNumber,
		Type:             model.Type,
		ReceivedAt:       model.ReceivedAt,
		ActivationMethod: model.ActivationMethod,
		Situation:        model.Situation,
		InitialNature:    model.InitialNature,
		Address:          addressToDTO(model.Address),
		Requester: RequesterDTO{
			Name:     model.Requester.Name,
			Phone:    model.Requester.Phone,
			Relation: model.Requester.Relation,
		},
		InitialLatitude:   model.InitialLatitude,
		InitialLongitude:  model.InitialLongitude,
		Status:            model.Status,
		CreatedBy:         model.CreatedBy,
		FinalizedBy:       model.FinalizedBy,
		DeployedUnit:      model.Report.DeployedUnit,
		Team:              model.Report.Team,
		ActionDescription: model.Report.ActionDescription,
		FinalLatitude:     model.Report.FinalLatitude,
		FinalLongitude:    model.Report.FinalLongitude,
		FinalizedAt:       model.FinalizedAt,
		SignatureID:       model.SignatureID,
		CanceledAt:        model.CanceledAt,
		CancelReason:      model.CancelReason,
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
	}
}

// SummariesToResponses возвращает только поля проекции списка
func SummariesToResponses(summaries []*models.IncidentSummary) []*IncidentSummaryResponse {
	responses := make([]*IncidentSummaryResponse, len(summaries))
	for i, s := range summaries {
		responses[i] = &IncidentSummaryResponse{
			ID:            s.ID,
			InitialNature: s.InitialNature,
			Status:        s.Status,
			ReceivedAt:    s.ReceivedAt,
			Address:       addressToDTO(s.Address),
		}
	}
	return responses
}

// ModelToFinalizationResponse собирает сводку результата. Показывается только основное представление подписи.
func ModelToFinalizationResponse(result *models.FinalizationResult) *FinalizationResponse {
	return &FinalizationResponse{
		Incident: FinalizedIncidentSummary{
			ID:             result.Incident.ID,
			AdvisoryNumber: result.Incident.AdvisoryNumber,
			Status:         result.Incident.Status,
			FinalizedAt:    result.Incident.FinalizedAt,
			DeployedUnit:   result.Incident.Report.DeployedUnit,
			Team:           result.Incident.Report.Team,
		},
		Signature: SignatureSummary{
			ID:            result.Signature.ID,
			SignerName:    result.Signature.SignerName,
			SignerRole:    result.Signature.SignerRole,
			SignedAt:      result.Signature.SignedAt,
			SignatureURL:  result.Signature.Image.URL(),
			SignatureData: result.Signature.Image.Data(),
		},
		LinkedPhotos: result.LinkedMedia,
	}
}

// ModelToSignatureResponse преобразует подпись в DTO
func ModelToSignatureResponse(s *models.Signature) *SignatureResponse {
	return &SignatureResponse{
		ID:            s.ID,
		IncidentID:    s.IncidentID,
		SignerName:    s.SignerName,
		SignerRole:    s.SignerRole,
		SignatureURL:  s.Image.URL(),
		SignatureData: s.Image.Data(),
		SignedAt:      s.SignedAt,
		IPAddress:     s.IPAddress,
		UserAgent:     s.UserAgent,
		DeviceInfo: DeviceInfoDTO{
			Platform:         s.DeviceInfo.Platform,
			ScreenResolution: s.DeviceInfo.ScreenResolution,
			Timestamp:        s.DeviceInfo.Timestamp,
		},
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func ModelsToSignatureResponses(signatures []*models.Signature) []*SignatureResponse {
	responses := make([]*SignatureResponse, len(signatures))
	for i, s := range signatures {
		responses[i] = ModelToSignatureResponse(s)
	}
	return responses
}

// ModelToMediaResponse преобразует медиа в DTO
func ModelToMediaResponse(m *models.Media) MediaResponse {
	return MediaResponse{
		ID:         m.ID,
		IncidentID: m.IncidentID,
		Name:       m.Name,
		FileType:   m.FileType,
		FileURL:    m.FileURL,
		Size:       m.Size,
		MimeType:   m.MimeType,
		UploadedBy: m.UploadedBy,
		CapturedAt: m.CapturedAt,
		Metadata:   m.Metadata,
		CreatedAt:  m.CreatedAt,
	}
}

func ModelsToMediaResponses(media []*models.Media) []MediaResponse {
	responses := make([]MediaResponse, len(media))
	for i, m := range media {
		responses[i] = ModelToMediaResponse(m)
	}
	return responses
}

// ModelToFinalizationDetailsResponse преобразует детали финализации в DTO
func ModelToFinalizationDetailsResponse(d *models.FinalizationDetails) *FinalizationDetailsResponse {
	resp := &FinalizationDetailsResponse{
		Incident:     *ModelToIncidentResponse(d.Incident),
		Photos:       ModelsToMediaResponses(d.Media),
		HasReport:    d.HasReport,
		HasSignature: d.HasSignature,
		HasPhotos:    d.HasMedia,
	}
	if d.Signature != nil {
		resp.Signature = ModelToSignatureResponse(d.Signature)
	}
	return resp
}

func ModelToStatsResponse(s *models.SignatureStats) SignatureStatsResponse {
	return SignatureStatsResponse{
		TotalSignatures:           s.TotalSignatures,
		FinalizedIncidents:        s.FinalizedIncidents,
		AverageSigningTimeMinutes: s.AverageSigningTimeMinutes,
	}
}
