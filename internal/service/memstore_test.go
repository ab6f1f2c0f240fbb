package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/ignis_incident_service/internal/models"
	"github.com/shenikar/ignis_incident_service/internal/webhook"
)

// memStore - хранилище в памяти с транзакциями на снимках.
// Используется для проверки атомарности финализации.
type memStore struct {
	incidents  map[uuid.UUID]models.Incident
	signatures map[uuid.UUID]models.Signature
	media      map[uuid.UUID]models.Media
	failures   map[string]error
}

func newMemStore() *memStore {
	return &memStore{
		incidents:  map[uuid.UUID]models.Incident{},
		signatures: map[uuid.UUID]models.Signature{},
		media:      map[uuid.UUID]models.Media{},
		failures:   map[string]error{},
	}
}

type memSnapshot struct {
	incidents  map[uuid.UUID]models.Incident
	signatures map[uuid.UUID]models.Signature
	media      map[uuid.UUID]models.Media
}

func (s *memStore) snapshot() memSnapshot {
	snap := memSnapshot{
		incidents:  make(map[uuid.UUID]models.Incident, len(s.incidents)),
		signatures: make(map[uuid.UUID]models.Signature, len(s.signatures)),
		media:      make(map[uuid.UUID]models.Media, len(s.media)),
	}
	for k, v := range s.incidents {
		snap.incidents[k] = v
	}
	for k, v := range s.signatures {
		snap.signatures[k] = v
	}
	for k, v := range s.media {
		snap.media[k] = v
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.incidents = snap.incidents
	s.signatures = snap.signatures
	s.media = snap.media
}

func (s *memStore) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	snap := s.snapshot()
	if err := fn(ctx); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func (s *memStore) signaturesOf(incidentID uuid.UUID) []models.Signature {
	var out []models.Signature
	for _, sig := range s.signatures {
		if sig.IncidentID == incidentID {
			out = append(out, sig)
		}
	}
	return out
}

func (s *memStore) addIncident(i models.Incident) uuid.UUID {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	s.incidents[i.ID] = i
	return i.ID
}

type memIncidents struct{ s *memStore }

func (r memIncidents) Create(_ context.Context, incident *models.Incident) error {
	incident.ID = uuid.New()
	r.s.incidents[incident.ID] = *incident
	return nil
}

func (r memIncidents) GetByID(_ context.Context, id uuid.UUID) (*models.Incident, error) {
	i, ok := r.s.incidents[id]
	if !ok {
		return nil, fmt.Errorf("incident %s: %w", id, ErrNotFound)
	}
	return &i, nil
}

func (r memIncidents) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	return r.GetByID(ctx, id)
}

func (r memIncidents) save(op string, incident *models.Incident) error {
	if err := r.s.failures[op]; err != nil {
		return err
	}
	if _, ok := r.s.incidents[incident.ID]; !ok {
		return ErrNotFound
	}
	r.s.incidents[incident.ID] = *incident
	return nil
}

func (r memIncidents) Update(_ context.Context, incident *models.Incident) error {
	return r.save("incidents.Update", incident)
}

func (r memIncidents) Cancel(_ context.Context, incident *models.Incident) error {
	return r.save("incidents.Cancel", incident)
}

func (r memIncidents) Finalize(_ context.Context, incident *models.Incident) error {
	return r.save("incidents.Finalize", incident)
}

func (r memIncidents) ClearSignature(_ context.Context, id uuid.UUID) error {
	i, ok := r.s.incidents[id]
	if !ok {
		return ErrNotFound
	}
	i.SignatureID = nil
	r.s.incidents[id] = i
	return nil
}

func (r memIncidents) List(_ context.Context) ([]*models.IncidentSummary, error) {
	out := make([]*models.IncidentSummary, 0, len(r.s.incidents))
	for _, i := range r.s.incidents {
		out = append(out, &models.IncidentSummary{
			ID:            i.ID,
			InitialNature: i.InitialNature,
			Status:        i.Status,
			ReceivedAt:    i.ReceivedAt,
			Address:       i.Address,
		})
	}
	return out, nil
}

func (r memIncidents) GetIncidentFromCache(context.Context, uuid.UUID) (*models.Incident, error) {
	return nil, nil
}

func (r memIncidents) SetIncidentCache(context.Context, *models.Incident) error { return nil }

func (r memIncidents) InvalidateIncidentCache(context.Context, uuid.UUID) error { return nil }

type memSignatures struct{ s *memStore }

func (r memSignatures) Create(_ context.Context, signature *models.Signature) error {
	if err := r.s.failures["signatures.Create"]; err != nil {
		return err
	}
	if len(r.s.signaturesOf(signature.IncidentID)) > 0 {
		return ErrAlreadySigned
	}
	signature.ID = uuid.New()
	r.s.signatures[signature.ID] = *signature
	return nil
}

func (r memSignatures) GetByID(_ context.Context, id uuid.UUID) (*models.Signature, error) {
	sig, ok := r.s.signatures[id]
	if !ok {
		return nil, fmt.Errorf("signature %s: %w", id, ErrNotFound)
	}
	return &sig, nil
}

func (r memSignatures) GetByIncidentID(_ context.Context, incidentID uuid.UUID) (*models.Signature, error) {
	sigs := r.s.signaturesOf(incidentID)
	if len(sigs) == 0 {
		return nil, ErrNotFound
	}
	return &sigs[0], nil
}

func (r memSignatures) ExistsForIncident(_ context.Context, incidentID uuid.UUID) (bool, error) {
	return len(r.s.signaturesOf(incidentID)) > 0, nil
}

func (r memSignatures) ListByFinalizer(_ context.Context, userID uuid.UUID) ([]*models.Signature, error) {
	var out []*models.Signature
	for _, sig := range r.s.signatures {
		i, ok := r.s.incidents[sig.IncidentID]
		if ok && i.FinalizedBy != nil && *i.FinalizedBy == userID {
			sig := sig
			out = append(out, &sig)
		}
	}
	return out, nil
}

func (r memSignatures) UpdateRole(_ context.Context, id uuid.UUID, role string) (*models.Signature, error) {
	sig, ok := r.s.signatures[id]
	if !ok {
		return nil, ErrNotFound
	}
	sig.SignerRole = role
	r.s.signatures[id] = sig
	return &sig, nil
}

func (r memSignatures) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.s.signatures[id]; !ok {
		return ErrNotFound
	}
	delete(r.s.signatures, id)
	return nil
}

func (r memSignatures) Stats(context.Context) (*models.SignatureStats, error) {
	stats := &models.SignatureStats{TotalSignatures: len(r.s.signatures)}
	for _, i := range r.s.incidents {
		if i.Status == models.StatusFinalized && i.SignatureID != nil {
			stats.FinalizedIncidents++
		}
	}
	return stats, nil
}

type memMedia struct{ s *memStore }

func (r memMedia) Create(_ context.Context, media *models.Media) error {
	media.ID = uuid.New()
	r.s.media[media.ID] = *media
	return nil
}

func (r memMedia) GetByID(_ context.Context, id uuid.UUID) (*models.Media, error) {
	m, ok := r.s.media[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &m, nil
}

func (r memMedia) List(context.Context) ([]*models.Media, error) {
	out := make([]*models.Media, 0, len(r.s.media))
	for _, m := range r.s.media {
		m := m
		out = append(out, &m)
	}
	return out, nil
}

func (r memMedia) ListByIDs(_ context.Context, ids []uuid.UUID) ([]*models.Media, error) {
	var out []*models.Media
	for _, id := range ids {
		if m, ok := r.s.media[id]; ok {
			out = append(out, &m)
		}
	}
	return out, nil
}

func (r memMedia) ListByIncidentID(_ context.Context, incidentID uuid.UUID) ([]*models.Media, error) {
	var out []*models.Media
	for _, m := range r.s.media {
		if m.IncidentID != nil && *m.IncidentID == incidentID {
			m := m
			out = append(out, &m)
		}
	}
	return out, nil
}

func (r memMedia) LinkToIncident(_ context.Context, incidentID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if err := r.s.failures["media.LinkToIncident"]; err != nil {
		return 0, err
	}
	var linked int64
	for _, id := range ids {
		m, ok := r.s.media[id]
		if !ok {
			continue
		}
		ref := incidentID
		m.IncidentID = &ref
		r.s.media[id] = m
		linked++
	}
	return linked, nil
}

func (r memMedia) Update(_ context.Context, media *models.Media) error {
	r.s.media[media.ID] = *media
	return nil
}

func (r memMedia) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.s.media, id)
	return nil
}

func (r memMedia) DeleteMany(_ context.Context, ids []uuid.UUID) (int64, error) {
	var n int64
	for _, id := range ids {
		if _, ok := r.s.media[id]; ok {
			delete(r.s.media, id)
			n++
		}
	}
	return n, nil
}

// recordingPublisher запоминает опубликованные события
type recordingPublisher struct {
	events []webhook.WebhookEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event webhook.WebhookEvent) error {
	p.events = append(p.events, event)
	return nil
}

var fixedNow = time.Date(2024, 6, 1, 15, 30, 0, 0, time.UTC)
