package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/rajivgeraev/barrio-api/internal/models"
)

func TestMapError(t *testing.T) {
	assert.NoError(t, mapError(nil))
	assert.ErrorIs(t, mapError(pgx.ErrNoRows), models.ErrNoRecord)
	assert.ErrorIs(t, mapError(fmt.Errorf("scan: %w", pgx.ErrNoRows)), models.ErrNoRecord)

	dup := &pgconn.PgError{Code: "23505", ConstraintName: "uq_rating_per_direction"}
	err := mapError(dup)
	assert.ErrorIs(t, err, models.ErrDuplicate)
	assert.Contains(t, err.Error(), "uq_rating_per_direction")

	assert.ErrorIs(t, mapError(&pgconn.PgError{Code: "23503"}), models.ErrInUse)

	other := errors.New("connection reset")
	assert.Equal(t, other, mapError(other))
}

func TestSchemaEmbedded(t *testing.T) {
	for _, table := range []string{"localities", "categories", "users", "telegram_users", "listings", "listing_photos", "transaction_requests", "ratings"} {
		assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS "+table)
	}
	assert.Contains(t, schemaSQL, "UNIQUE (request_id, rater_id, rated_id)")
	assert.Contains(t, schemaSQL, "ON DELETE RESTRICT")
}
