package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "processflow/pkg/errors"
)

type edgeInput struct {
	Upstream   string `validate:"required"`
	Downstream string `validate:"required,nefield=Upstream"`
	Kind       string `validate:"omitempty,oneof=pipe duct"`
}

func TestValidateStruct(t *testing.T) {
	assert.NoError(t, ValidateStruct(edgeInput{Upstream: "a", Downstream: "b"}))

	err := ValidateStruct(edgeInput{Upstream: "a", Downstream: "a", Kind: "wire"})
	require.Error(t, err)
	appErr := pkgerrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.ErrorTypeValidation, appErr.Type)
	assert.Equal(t, "downstream must differ from upstream; kind must be one of: pipe duct", appErr.Message)

	err = ValidateStruct(edgeInput{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream is required")
}

func TestTimestamp(t *testing.T) {
	at := time.Date(2024, 3, 1, 14, 30, 0, 0, time.FixedZone("CET", 3600))
	assert.Equal(t, "2024-03-01T13:30:00Z", Timestamp(at))
}
