package http

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"toy-catalog/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/jwt", `{"email":"owner@toys.dev","displayName":"Owner"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var body tokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Token)

	claims, err := env.tokens.Verify(context.Background(), body.Token)
	require.NoError(t, err)
	assert.Equal(t, "owner@toys.dev", claims.Email)
	assert.Equal(t, "Owner", claims.Raw["displayName"])
}

func TestIssueToken_BadPayload(t *testing.T) {
	for name, body := range map[string]string{
		"malformed":    `{"email":`,
		"not object":   `["owner@toys.dev"]`,
		"no email":     `{"name":"owner"}`,
		"invalid mail": `{"email":"owner"}`,
	} {
		t.Run(name, func(t *testing.T) {
			env := newTestEnv(t)

			rec := env.do(http.MethodPost, "/jwt", body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var resp errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Contains(t, resp.Error, service.ErrInvalidPayload.Error())
		})
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"UP","data":{"mongodb":"UP"}}`, rec.Body.String())
}

func TestHealth_Down(t *testing.T) {
	h := NewHealthHandler(stubHealth{status: service.HealthStatus{Mongo: service.StatusDown}})
	env := newTestEnv(t)
	env.router.Get("/healthz-down", h.Check)

	rec := env.do(http.MethodGet, "/healthz-down", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"status":"DOWN","data":{"mongodb":"DOWN"}}`, rec.Body.String())
}
