package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shenikar/ignis_incident_service/internal/service"
	"github.com/stretchr/testify/assert"
)

func TestMapSignatureInsertErr(t *testing.T) {
	uniqueViolation := &pgconn.PgError{
		Code:           pgerrcode.UniqueViolation,
		ConstraintName: "signatures_incident_id_key",
	}
	foreignKey := &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}

	tests := []struct {
		name         string
		err          error
		wantConflict bool
	}{
		{name: "unique violation", err: uniqueViolation, wantConflict: true},
		{name: "wrapped unique violation", err: fmt.Errorf("scan: %w", uniqueViolation), wantConflict: true},
		{name: "foreign key violation", err: foreignKey, wantConflict: false},
		{name: "connection error", err: errors.New("conn closed"), wantConflict: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mapSignatureInsertErr(tt.err)

			assert.Equal(t, tt.wantConflict, errors.Is(err, service.ErrAlreadySigned))
			assert.Equal(t, tt.wantConflict, errors.Is(err, service.ErrConflict))
			if !tt.wantConflict {
				assert.ErrorIs(t, err, tt.err)
				assert.Contains(t, err.Error(), "failed to create signature")
			}
		})
	}
}
