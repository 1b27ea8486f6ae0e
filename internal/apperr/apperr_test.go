package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAsFindsWrappedErrors(t *testing.T) {
	cause := errors.New("no documents")
	err := fmt.Errorf("get fabric: %w", NotFound("Fabric not found", cause))

	appErr, ok := As(err)
	require.True(t, ok)
	require.Equal(t, http.StatusNotFound, appErr.HTTPStatus)
	require.ErrorIs(t, err, cause)
	require.True(t, IsNotFound(err))
	require.Equal(t, "Fabric not found: no documents", appErr.Error())
}

func TestValidationCarriesDetails(t *testing.T) {
	err := Validation("Validation failed", []FieldError{{Field: "fabricName", Message: "fabricName is required"}})

	require.Equal(t, CodeValidation, err.Code)
	require.Equal(t, http.StatusBadRequest, err.HTTPStatus)
	require.Len(t, err.Details, 1)
	require.False(t, IsNotFound(err))

	_, ok := As(errors.New("plain"))
	require.False(t, ok)
}
