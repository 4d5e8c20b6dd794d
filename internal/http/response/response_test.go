package response_test

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/membership-directory/internal/http/response"
)

func TestStatusOKWithData(t *testing.T) {
	resp := response.StatusOKWithData(map[string]any{"id": 1})

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"OK","data":{"id":1}}`, string(raw))
}

func TestOK(t *testing.T) {
	raw, err := json.Marshal(response.OK())
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"OK"}`, string(raw))
}

func TestError(t *testing.T) {
	resp := response.Error("invalid request body")
	assert.Equal(t, response.StatusError, resp.Status)
	assert.Equal(t, "invalid request body", resp.Error)
}

func TestValidationError(t *testing.T) {
	type payload struct {
		Email  string `validate:"required,email"`
		Locale string `validate:"oneof=fr en"`
	}

	err := validator.New().Struct(payload{Email: "not-an-email", Locale: "de"})
	require.Error(t, err)

	resp := response.ValidationError(err.(validator.ValidationErrors))
	assert.Equal(t, response.StatusError, resp.Status)
	assert.Contains(t, resp.Error, "field Email must be a valid email address")
	assert.Contains(t, resp.Error, "field Locale has an unsupported value")
}
