package http

import (
	"context"
	"net/http"

	"toy-catalog/internal/logger"

	"go.opentelemetry.io/otel"
)

// TokenIssuer is satisfied by *service.TokenService.
type TokenIssuer interface {
	Issue(ctx context.Context, identity map[string]any) (string, error)
}

type AuthHandler struct {
	issuer TokenIssuer
}

type tokenResponse struct {
	Token string `json:"token"`
}

var HttpAuthHandlerTracer = otel.Tracer("HttpAuthHandler")

func NewAuthHandler(issuer TokenIssuer) *AuthHandler {
	return &AuthHandler{issuer: issuer}
}

// IssueToken signs the posted identity payload into a one-day token.
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpAuthHandlerTracer.Start(r.Context(), "HttpAuthHandler.IssueToken")
	defer span.End()
	logger.Info(ctx, "HttpAuthHandler.IssueToken")

	var identity map[string]any
	if err := decodeJSON(w, r, &identity); err != nil {
		writeError(ctx, w, err)
		return
	}

	token, err := h.issuer.Issue(ctx, identity)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}
