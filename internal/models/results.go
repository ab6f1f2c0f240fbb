package models

// FinalizationResult - результат перехода инцидента в статус finalized
type FinalizationResult struct {
	Incident    *Incident
	Signature   *Signature
	LinkedMedia int
}

// FinalizationDetails - инцидент вместе с подписью и привязанными медиа
type FinalizationDetails struct {
	Incident     *Incident
	Signature    *Signature
	Media        []*Media
	HasReport    bool
	HasSignature bool
	HasMedia     bool
}
