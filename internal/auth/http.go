// Copyright (c) 2026 Linkgrove. All rights reserved.
// Author: eng@linkgrove.app

// HTTP delivery layer for account identity.
//
// # Architecture
//
// Handlers act as the "gatekeepers" to the system. They are responsible for:
//   - JSON request parsing and strict input validation.
//   - Mapping HTTP contexts to service layer method calls.
//   - Standardizing JSON response formats via the [respond] package.
//
// They contain NO business logic or database queries.

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/linkgrove/linkgrove/internal/platform/middleware"
	requestutil "github.com/linkgrove/linkgrove/internal/platform/request"
	"github.com/linkgrove/linkgrove/internal/platform/respond"
	"github.com/linkgrove/linkgrove/internal/platform/validate"
)

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages everything related to the account lifecycle entry
// points (Registration, Login, Token Refresh, Logout, Identity lookup).
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /register : Creates a new account plus its default profile.
//   - POST /login    : Authenticates and returns a token pair.
//   - POST /refresh  : Rotates the refresh token.
//   - POST /logout   : Revokes the refresh token (idempotent).
//   - GET  /me       : Returns the authenticated account (auth required).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/refresh", handler.refresh)
	router.Post("/logout", handler.logout)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)
		protected.Get("/me", handler.me)
	})

	return router
}

// registerRequest represents the JSON payload expected for account creation.
type registerRequest struct {
	Email       string `json:"email"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// register handles POST /api/v1/auth/register requests.
//
// # Parameters
//   - writer: The HTTP response constructor.
//   - request: The incoming HTTP request payload.
//
// # Returns
//   - Writes HTTP 201 Created on success with user, profile, and token pair.
//   - Writes HTTP 400 Bad Request if validation rules fail.
//   - Writes HTTP 409 Conflict if email/username is taken.
//   - Writes HTTP 429 Too Many Requests when the IP budget is exhausted.
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Rate Limiting ──────────────────────────────────────────────────

	// Budget is consumed before the body is read: malformed payloads cost
	// an attempt too.
	if err := handler.authService.AllowRegisterAttempt(request.Context(), requestutil.ClientIP(request)); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 2. Payload Extraction ─────────────────────────────────────────────

	var input registerRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 3. Boundary Validation (Explicit & Mandatory) ────────────────────

	// Prevent malformed data from reaching the service layer. The first
	// failing field's message becomes the top-level error.
	validator := &validate.Validator{}
	validator.
		Required("email", input.Email).
		Email("email", input.Email).
		Required("username", input.Username).
		Username("username", input.Username).
		Required("password", input.Password).
		Password("password", input.Password).
		MaxLen("display_name", input.DisplayName, 100)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 4. Application Execution ──────────────────────────────────────────

	session, err := handler.authService.Register(request.Context(), RegisterInput{
		Email:       input.Email,
		Username:    input.Username,
		Password:    input.Password,
		DisplayName: input.DisplayName,
	})

	// Service handles uniqueness checks and Bcrypt hashing. Domain errors
	// are mapped to HTTP statuses by the respond helper.
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 5. Presentation Output ────────────────────────────────────────────

	respond.Created(writer, map[string]any{
		"user":         session.User,
		"profile":      session.Profile,
		"token":        session.AccessToken,
		"refreshToken": session.RefreshToken,
	})
}

// loginRequest represents the JSON payload expected for authentication.
type loginRequest struct {
	Identifier string `json:"identifier"` // Can be Email or Username.
	Password   string `json:"password"`
}

// login handles POST /api/v1/auth/login requests.
//
// # Parameters
//   - writer: The HTTP response constructor.
//   - request: The incoming HTTP request payload.
//
// # Returns
//   - Writes HTTP 200 OK on success with user and token pair.
//   - Writes HTTP 401 Unauthorized for bad credentials.
//   - Writes HTTP 429 Too Many Requests when the IP budget is exhausted.
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Rate Limiting ──────────────────────────────────────────────────

	// Budget is consumed before the body is read: malformed payloads cost
	// an attempt too.
	if err := handler.authService.AllowLoginAttempt(request.Context(), requestutil.ClientIP(request)); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 2. Payload Extraction ─────────────────────────────────────────────

	var input loginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 3. Boundary Validation ────────────────────────────────────────────

	validator := &validate.Validator{}
	validator.
		Required("identifier", input.Identifier).
		Required("password", input.Password)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 4. Application Execution ──────────────────────────────────────────

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Identifier: input.Identifier,
		Password:   input.Password,
	})

	if err != nil {
		// Returns HTTP 401 Unauthorized without leaking whether the
		// identifier or the password was wrong.
		respond.Error(writer, request, err)
		return
	}

	// ── 5. Presentation Output ────────────────────────────────────────────

	respond.OK(writer, map[string]any{
		"user":         session.User,
		"token":        session.AccessToken,
		"refreshToken": session.RefreshToken,
	})
}

// refreshRequest represents the JSON payload for token rotation.
type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// refresh handles POST /api/v1/auth/refresh requests.
//
// # Returns
//   - Writes HTTP 200 OK with a fresh token pair.
//   - Writes HTTP 400 Bad Request if the token is missing.
//   - Writes HTTP 401 Unauthorized if the token is invalid, expired, or
//     already used.
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	var input refreshRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if input.RefreshToken == "" {
		respond.Error(writer, request, validate.RequiredError("refreshToken", "Refresh token is required"))
		return
	}

	session, err := handler.authService.Refresh(request.Context(), input.RefreshToken)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		"token":        session.AccessToken,
		"refreshToken": session.RefreshToken,
	})
}

// logoutRequest represents the JSON payload for logout.
type logoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// logout handles POST /api/v1/auth/logout requests.
//
// Always returns 204: a missing body, missing token, or unknown token all
// count as a successful logout.
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	var input logoutRequest
	// Decode failures are ignored; logout with no usable token is a no-op.
	_ = requestutil.DecodeJSON(request, &input)

	if err := handler.authService.Logout(request.Context(), input.RefreshToken); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// me handles GET /api/v1/auth/me requests.
//
// # Returns
//   - Writes HTTP 200 OK with the fresh account state.
//   - Writes HTTP 401 Unauthorized if not authenticated.
//   - Writes HTTP 404 Not Found if the account row has vanished.
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Me(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		"user": user,
	})
}
