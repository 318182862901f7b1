// Copyright (c) 2026 Linkgrove. All rights reserved.
// Author: eng@linkgrove.app

/*
Package waitlist handles landing-page signup submissions.

Architecture:

  - Signups are forwarded to an external webhook when one is configured.
  - The webhook is fire-and-forget: a delivery failure is logged but never
    surfaces to the visitor, since losing a lead beats losing the signup UX.
  - No signup data is persisted locally.
*/
package waitlist

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/linkgrove/linkgrove/internal/platform/ctxutil"
	requestutil "github.com/linkgrove/linkgrove/internal/platform/request"
	"github.com/linkgrove/linkgrove/internal/platform/respond"
	"github.com/linkgrove/linkgrove/internal/platform/validate"
)

// webhookTimeout bounds the outbound delivery so a slow webhook cannot hold
// the handler past the global request deadline.
const webhookTimeout = 5 * time.Second

// Handler implements the public waitlist signup endpoint.
type Handler struct {
	webhookURL string
	httpClient *http.Client
}

// NewHandler constructs a new [Handler].
//
// An empty webhookURL disables forwarding; signups are then acknowledged
// without leaving the process.
func NewHandler(webhookURL string) *Handler {
	return &Handler{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: webhookTimeout},
	}
}

// Routes returns the anonymous waitlist routes.
//
// # Endpoints
//   - POST / : Submit an email address to the waitlist.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", handler.join)

	return router
}

// joinRequest represents the JSON payload for a waitlist signup.
type joinRequest struct {
	Email string `json:"email"`
}

// webhookPayload is the body forwarded to the configured webhook.
type webhookPayload struct {
	Email     string    `json:"email"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}

// join handles POST /api/v1/waitlist requests.
//
// # Returns
//   - Writes HTTP 200 OK once the signup is accepted.
//   - Writes HTTP 400 Bad Request for a missing or malformed email.
func (handler *Handler) join(writer http.ResponseWriter, request *http.Request) {
	var input joinRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	if err := validator.Required("email", input.Email).Email("email", input.Email).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.forward(request.Context(), input.Email)

	respond.OK(writer, map[string]string{"message": "You're on the list!"})
}

// forward delivers the signup to the webhook, best-effort.
func (handler *Handler) forward(ctx context.Context, email string) {
	if handler.webhookURL == "" {
		return
	}

	logger := ctxutil.GetLogger(ctx)

	body, err := json.Marshal(webhookPayload{
		Email:     email,
		Source:    "landing",
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		logger.WarnContext(ctx, "waitlist_webhook_marshal_failed", "error", err.Error())
		return
	}

	outbound, err := http.NewRequestWithContext(ctx, http.MethodPost, handler.webhookURL, bytes.NewReader(body))
	if err != nil {
		logger.WarnContext(ctx, "waitlist_webhook_request_failed", "error", err.Error())
		return
	}
	outbound.Header.Set("Content-Type", "application/json")

	response, err := handler.httpClient.Do(outbound)
	if err != nil {
		logger.WarnContext(ctx, "waitlist_webhook_delivery_failed", "error", err.Error())
		return
	}
	defer response.Body.Close()

	if response.StatusCode >= http.StatusBadRequest {
		logger.WarnContext(ctx, "waitlist_webhook_rejected", "status", response.StatusCode)
	}
}
