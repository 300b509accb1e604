package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajivgeraev/barrio-api/internal/models"
)

type ratingPayload struct {
	RequestID string `json:"request_id" validate:"required,uuid"`
	Score     int    `json:"score" validate:"required,min=1,max=5"`
}

func TestStructValidator(t *testing.T) {
	v := NewStructValidator()

	require.NoError(t, v.Validate(&ratingPayload{RequestID: "6f1d2b7c-0d7e-4f57-9d3a-1d2f3c4b5a69", Score: 5}))

	err := v.Validate(&ratingPayload{Score: 9})
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.KindValidation))
	assert.Contains(t, err.Error(), "request_id")
	assert.Contains(t, err.Error(), "score")
}
