// Copyright (c) 2026 Linkgrove. All rights reserved.
// Author: eng@linkgrove.app

// HTTP delivery layer for profile pages.

package profile

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/linkgrove/linkgrove/internal/platform/middleware"
	requestutil "github.com/linkgrove/linkgrove/internal/platform/request"
	"github.com/linkgrove/linkgrove/internal/platform/respond"
	"github.com/linkgrove/linkgrove/internal/platform/validate"
	"github.com/linkgrove/linkgrove/pkg/pagination"
)

// Handler implements profile-related HTTP endpoints.
//
// # Scope
//
// Two route groups: the anonymous public page lookup, and the
// authenticated management surface for the caller's own profiles.
type Handler struct {
	profileService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{profileService: service}
}

// PublicRoutes returns the anonymous profile page routes.
//
// # Endpoints
//   - GET /{slug} : Public page with active links and social accounts.
func (handler *Handler) PublicRoutes() chi.Router {
	router := chi.NewRouter()

	router.Get("/{slug}", handler.publicPage)

	return router
}

// OwnRoutes returns the authenticated profile management routes.
//
// # Endpoints
//   - GET   /              : List the caller's profiles.
//   - POST  /              : Create an additional profile (tier gated).
//   - PATCH /{profileID}       : Update an owned profile.
//   - GET   /{profileID}/links : List links of an owned profile (paginated).
//   - POST  /{profileID}/links : Add a link (tier gated).
func (handler *Handler) OwnRoutes() chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.RequireAuth)

	router.Get("/", handler.listOwn)
	router.Post("/", handler.create)
	router.Patch("/{profileID}", handler.update)
	router.Get("/{profileID}/links", handler.listLinks)
	router.Post("/{profileID}/links", handler.createLink)

	return router
}

// publicPage handles GET /p/{slug} requests.
//
// # Returns
//   - Writes HTTP 200 OK with profile, links, and social accounts.
//   - Writes HTTP 404 Not Found for unknown or private slugs.
func (handler *Handler) publicPage(writer http.ResponseWriter, request *http.Request) {
	pageSlug := requestutil.Param(request, "slug")

	validator := &validate.Validator{}
	if err := validator.Slug("slug", pageSlug).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	page, err := handler.profileService.PublicPage(request.Context(), pageSlug)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, page)
}

// listOwn handles GET /api/v1/me/profiles requests.
func (handler *Handler) listOwn(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	pages, err := handler.profileService.ListOwn(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, pages)
}

// createProfileRequest represents the JSON payload for profile creation.
type createProfileRequest struct {
	Slug            string `json:"slug"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	BackgroundType  string `json:"background_type"`
	BackgroundValue string `json:"background_value"`
	Theme           string `json:"theme"`
	CustomCSS       string `json:"custom_css"`
	IsPublic        *bool  `json:"is_public"`
}

// create handles POST /api/v1/me/profiles requests.
//
// # Returns
//   - Writes HTTP 201 Created with the new profile.
//   - Writes HTTP 400 Bad Request if validation rules fail.
//   - Writes HTTP 403 PREMIUM_REQUIRED when the tier gate rejects.
//   - Writes HTTP 409 Conflict if the slug is taken.
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createProfileRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.
		Required("title", input.Title).
		MaxLen("title", input.Title, 100).
		MaxLen("description", input.Description, 500)
	if input.Slug != "" {
		validator.Slug("slug", input.Slug)
	}
	if input.BackgroundType != "" {
		validator.OneOf("background_type", input.BackgroundType,
			string(BackgroundColor), string(BackgroundGradient), string(BackgroundImage))
	}
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// New profiles default to public unless explicitly hidden.
	isPublic := true
	if input.IsPublic != nil {
		isPublic = *input.IsPublic
	}

	page, err := handler.profileService.Create(request.Context(), userID, CreateInput{
		Slug:            input.Slug,
		Title:           input.Title,
		Description:     input.Description,
		BackgroundType:  BackgroundType(input.BackgroundType),
		BackgroundValue: input.BackgroundValue,
		Theme:           input.Theme,
		CustomCSS:       input.CustomCSS,
		IsPublic:        isPublic,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, page)
}

// updateProfileRequest represents the JSON payload for profile patching.
// Absent fields are left untouched.
type updateProfileRequest struct {
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	BackgroundType  *string `json:"background_type"`
	BackgroundValue *string `json:"background_value"`
	Theme           *string `json:"theme"`
	CustomCSS       *string `json:"custom_css"`
	IsPublic        *bool   `json:"is_public"`
}

// update handles PATCH /api/v1/me/profiles/{profileID} requests.
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	profileID := requestutil.Param(request, "profileID")

	var input updateProfileRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.UUID("profileID", profileID)
	if input.Title != nil {
		validator.Required("title", *input.Title).MaxLen("title", *input.Title, 100)
	}
	if input.Description != nil {
		validator.MaxLen("description", *input.Description, 500)
	}
	if input.BackgroundType != nil {
		validator.OneOf("background_type", *input.BackgroundType,
			string(BackgroundColor), string(BackgroundGradient), string(BackgroundImage))
	}
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var backgroundType *BackgroundType
	if input.BackgroundType != nil {
		converted := BackgroundType(*input.BackgroundType)
		backgroundType = &converted
	}

	page, err := handler.profileService.Update(request.Context(), userID, profileID, UpdateInput{
		Title:           input.Title,
		Description:     input.Description,
		BackgroundType:  backgroundType,
		BackgroundValue: input.BackgroundValue,
		Theme:           input.Theme,
		CustomCSS:       input.CustomCSS,
		IsPublic:        input.IsPublic,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, page)
}

// createLinkRequest represents the JSON payload for link creation.
type createLinkRequest struct {
	Title         string `json:"title"`
	URL           string `json:"url"`
	Icon          string `json:"icon"`
	CustomIconURL string `json:"custom_icon_url"`
}

// createLink handles POST /api/v1/me/profiles/{profileID}/links requests.
//
// # Returns
//   - Writes HTTP 201 Created with the new link.
//   - Writes HTTP 403 PREMIUM_REQUIRED when the tier's link ceiling is hit.
func (handler *Handler) createLink(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	profileID := requestutil.Param(request, "profileID")

	var input createLinkRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.
		UUID("profileID", profileID).
		Required("title", input.Title).
		MaxLen("title", input.Title, 100).
		Required("url", input.URL).
		URL("url", input.URL)
	if input.CustomIconURL != "" {
		validator.URL("custom_icon_url", input.CustomIconURL)
	}
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	link, err := handler.profileService.CreateLink(request.Context(), userID, profileID, LinkInput{
		Title:         input.Title,
		URL:           input.URL,
		Icon:          input.Icon,
		CustomIconURL: input.CustomIconURL,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, link)
}

// listLinks handles GET /api/v1/me/profiles/{profileID}/links requests.
func (handler *Handler) listLinks(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	profileID := requestutil.Param(request, "profileID")
	params := pagination.FromRequest(request)

	links, meta, err := handler.profileService.ListLinks(request.Context(), userID, profileID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, links, meta)
}
