package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"toy-catalog/internal/logger"
	"toy-catalog/internal/model"
	"toy-catalog/internal/service"
)

// maxBodyBytes bounds decoded request bodies.
const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps service errors onto status codes. Store failures are logged
// and reported without their cause.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidID), errors.Is(err, service.ErrInvalidPayload):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: service.ErrForbidden.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		logger.Err(ctx, "request timed out", err)
		if ctx.Err() != nil {
			// the request deadline expired; middleware.Timeout answers 504 itself
			return
		}
		writeJSON(w, http.StatusGatewayTimeout, errorResponse{Error: "request timed out"})
	default:
		logger.Err(ctx, "request failed", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", service.ErrInvalidPayload, err)
	}
	return nil
}

// decodeDocument reads a JSON object body as an untyped document. Integral
// numbers stay integers, everything else keeps its JSON type.
func decodeDocument(w http.ResponseWriter, r *http.Request) (model.Document, error) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()

	var doc model.Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", service.ErrInvalidPayload, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: body must be a JSON object", service.ErrInvalidPayload)
	}
	for k, v := range doc {
		doc[k] = fromJSONNumbers(v)
	}
	return doc, nil
}

func fromJSONNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n
		}
		f, _ := t.Float64()
		return f
	case map[string]any:
		for k, e := range t {
			t[k] = fromJSONNumbers(e)
		}
	case []any:
		for i, e := range t {
			t[i] = fromJSONNumbers(e)
		}
	}
	return v
}
