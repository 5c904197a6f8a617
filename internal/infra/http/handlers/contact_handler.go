package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/xavierca1/clicom-leads/internal/usecase"
)

const defaultMaxBodyBytes = 64 << 10

// LeadCapturer runs the lead pipeline for one request.
type LeadCapturer interface {
	Execute(ctx context.Context, input usecase.CaptureLeadInput) (*usecase.CaptureLeadOutput, error)
}

type ContactHandler struct {
	CaptureLeadUC LeadCapturer
	RateLimiter   *RateLimiter
	MaxBodyBytes  int64
}

type ContactResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func NewContactHandler(uc LeadCapturer, limiter *RateLimiter) *ContactHandler {
	return &ContactHandler{
		CaptureLeadUC: uc,
		RateLimiter:   limiter,
		MaxBodyBytes:  defaultMaxBodyBytes,
	}
}

func (h *ContactHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
	case http.MethodOptions:
		w.WriteHeader(http.StatusNoContent)
		return
	default:
		w.Header().Set("Allow", "POST, OPTIONS")
		h.writeError(w, r, &usecase.DomainError{
			Code:    usecase.CodeUnsupportedMethod,
			Message: "Method not allowed.",
		})
		return
	}

	if h.RateLimiter != nil && !h.RateLimiter.Allow(getClientIP(r)) {
		writeJSON(w, http.StatusTooManyRequests, ContactResponse{
			Success: false,
			Message: "Too many requests. Please try again later.",
		})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.MaxBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, ContactResponse{
				Success: false,
				Message: "Request too large.",
			})
			return
		}
		h.writeError(w, r, &usecase.DomainError{
			Code:    usecase.CodeMalformedRequest,
			Message: "Invalid request payload.",
		})
		return
	}

	output, err := h.CaptureLeadUC.Execute(r.Context(), usecase.CaptureLeadInput{
		ContentType: r.Header.Get("Content-Type"),
		Body:        body,
		ReceivedAt:  time.Now(),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, output)
}

// writeError never exposes the cause of a technical failure to the caller.
func (h *ContactHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := usecase.HTTPStatus(err)
	message := usecase.MessageServerError

	var de *usecase.DomainError
	if errors.As(err, &de) {
		message = de.Message
	} else {
		slog.Error("contact request failed",
			"request_id", middleware.GetReqID(r.Context()),
			"code", usecase.ErrorCode(err),
			"error", err,
		)
	}

	writeJSON(w, status, ContactResponse{Success: false, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
