// Copyright (c) 2026 Linkgrove. All rights reserved.
// Author: eng@linkgrove.app

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/linkgrove/linkgrove/internal/platform/middleware"
	"github.com/linkgrove/linkgrove/internal/platform/respond"
	"github.com/linkgrove/linkgrove/internal/platform/sec"
	"github.com/linkgrove/linkgrove/pkg/pagination"
)

// AdminHandler implements administrative account endpoints.
//
// # Scope
//
// Every route in this handler sits behind RequireRole(admin). Roles are an
// explicit allow-list, so moderators are NOT admitted here.
type AdminHandler struct {
	userRepository UserRepository
}

// NewAdminHandler constructs a new [AdminHandler].
func NewAdminHandler(userRepo UserRepository) *AdminHandler {
	return &AdminHandler{userRepository: userRepo}
}

// Routes returns a [chi.Router] with the admin-only account routes.
//
// # Endpoints
//   - GET /users : Paginated account listing.
func (handler *AdminHandler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.RequireAuth)
	router.Use(middleware.RequireRole(sec.RoleAdmin))

	router.Get("/users", handler.listUsers)

	return router
}

// listUsers handles GET /api/v1/admin/users requests.
//
// # Returns
//   - Writes HTTP 200 OK with a paginated user list.
//   - Writes HTTP 401/403 via middleware for unauthenticated or
//     insufficiently privileged callers.
func (handler *AdminHandler) listUsers(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	users, total, err := handler.userRepository.List(request.Context(), params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, pagination.NewMeta(params.Page, params.Limit, total))
}
