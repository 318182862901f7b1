// Copyright (c) 2026 Linkgrove. All rights reserved.
// Author: eng@linkgrove.app

// HTTP delivery layer for subscription entitlements.

package feature

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/linkgrove/linkgrove/internal/platform/middleware"
	requestutil "github.com/linkgrove/linkgrove/internal/platform/request"
	"github.com/linkgrove/linkgrove/internal/platform/respond"
)

// TierSource resolves the subscription tier of a user account.
type TierSource interface {
	TierForUser(ctx context.Context, userID string) (Tier, error)
}

// Handler serves the authenticated entitlement lookup.
type Handler struct {
	tiers TierSource
}

// NewHandler constructs a new [Handler] with its tier source.
func NewHandler(tiers TierSource) *Handler {
	return &Handler{tiers: tiers}
}

// Routes returns the entitlement routes, all requiring authentication.
//
// # Endpoints
//   - GET / : The caller's tier and its feature table.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.RequireAuth)

	router.Get("/", handler.myFeatures)

	return router
}

// myFeatures handles GET /api/v1/me/features requests.
//
// # Returns
//   - Writes HTTP 200 OK with the caller's tier and resolved limits.
func (handler *Handler) myFeatures(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	tier, err := handler.tiers.TierForUser(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		"tier":     tier,
		"features": ForTier(tier),
	})
}
