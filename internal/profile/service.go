// Copyright (c) 2026 Linkgrove. All rights reserved.
// Author: eng@linkgrove.app

// Business logic (Use Cases) for profile pages and their links.

package profile

import (
	"context"
	"fmt"

	"github.com/linkgrove/linkgrove/internal/feature"
	"github.com/linkgrove/linkgrove/internal/platform/apperr"
	"github.com/linkgrove/linkgrove/internal/platform/ctxutil"
	"github.com/linkgrove/linkgrove/pkg/pagination"
	"github.com/linkgrove/linkgrove/pkg/slug"
	"github.com/linkgrove/linkgrove/pkg/uuid"
)

// Service implements profile page use cases.
type Service struct {
	repository  Repository
	tierLookup  TierLookup
	viewCounter ViewCounter
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(repo Repository, tiers TierLookup, views ViewCounter) *Service {
	return &Service{
		repository:  repo,
		tierLookup:  tiers,
		viewCounter: views,
	}
}

// PublicPage returns the publicly visible page for a slug and records the view.
//
// # Returns
//   - The profile with its active links and social accounts.
//   - Returns [apperr.NotFound] if the slug is unclaimed OR the profile is
//     private: anonymous visitors cannot distinguish the two cases.
func (service *Service) PublicPage(ctx context.Context, pageSlug string) (*PublicPage, error) {
	page, err := service.repository.FindBySlug(ctx, pageSlug)
	if err != nil {
		return nil, err
	}

	// A private page is indistinguishable from a missing one.
	if !page.IsPublic {
		return nil, apperr.NotFound("Profile")
	}

	links, err := service.repository.ListActiveLinks(ctx, page.ID)
	if err != nil {
		return nil, fmt.Errorf("profile_service_links_failed: %w", err)
	}

	accounts, err := service.repository.ListSocialAccounts(ctx, page.ID)
	if err != nil {
		return nil, fmt.Errorf("profile_service_social_failed: %w", err)
	}

	// View counting is best-effort: a Redis hiccup never blocks the page.
	if err := service.viewCounter.IncrementView(ctx, page.ID); err != nil {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "profile_view_count_failed",
			"profile_id", page.ID, "error", err.Error())
	}

	return &PublicPage{
		Profile:        page,
		Links:          links,
		SocialAccounts: accounts,
	}, nil
}

// ListOwn returns all profiles owned by the authenticated user.
func (service *Service) ListOwn(ctx context.Context, userID string) ([]*Profile, error) {
	pages, err := service.repository.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("profile_service_list_own_failed: %w", err)
	}
	return pages, nil
}

// CreateInput holds the data required to create an additional profile.
type CreateInput struct {
	Slug            string // Optional; derived from Title when empty.
	Title           string
	Description     string
	BackgroundType  BackgroundType
	BackgroundValue string
	Theme           string
	CustomCSS       string
	IsPublic        bool
}

// Create adds a new profile for the user, subject to the tier's profile limit.
//
// # Returns
//   - Returns [apperr.PremiumRequired] if the tier's profile ceiling is hit
//     or custom CSS is requested without the entitlement.
//   - Returns [apperr.Conflict] if the slug is already claimed.
//
// # Business Rules
//   - An omitted slug is derived from the title.
//   - An omitted theme falls back to "default".
func (service *Service) Create(ctx context.Context, userID string, input CreateInput) (*Profile, error) {
	// ── 1. Entitlement Gates ──────────────────────────────────────────────

	tier, err := service.tierLookup.TierForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("profile_service_tier_failed: %w", err)
	}

	owned, err := service.repository.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("profile_service_count_failed: %w", err)
	}
	if !feature.CheckLimit(tier, feature.ProfilesLimit, owned) {
		return nil, apperr.PremiumRequired()
	}

	if input.CustomCSS != "" && !feature.CheckLimit(tier, feature.CustomCSS, 0) {
		return nil, apperr.PremiumRequired()
	}

	// ── 2. Slug Resolution ────────────────────────────────────────────────

	pageSlug := input.Slug
	if pageSlug == "" {
		pageSlug = slug.From(input.Title)
	}

	if _, err := service.repository.FindBySlug(ctx, pageSlug); err == nil {
		return nil, apperr.Conflict("Slug is already taken")
	}

	// ── 3. Entity Construction ────────────────────────────────────────────

	backgroundType := input.BackgroundType
	if backgroundType == "" {
		backgroundType = BackgroundColor
	}
	theme := input.Theme
	if theme == "" {
		theme = "default"
	}

	page := &Profile{
		ID:              uuid.New(),
		UserID:          userID,
		Slug:            pageSlug,
		Title:           input.Title,
		Description:     input.Description,
		BackgroundType:  backgroundType,
		BackgroundValue: input.BackgroundValue,
		Theme:           theme,
		CustomCSS:       input.CustomCSS,
		IsPublic:        input.IsPublic,
	}

	// ── 4. Persistence ────────────────────────────────────────────────────

	if err := service.repository.Create(ctx, page); err != nil {
		return nil, fmt.Errorf("profile_service_create_failed: %w", err)
	}

	return page, nil
}

// UpdateInput holds the patchable profile fields. Nil pointers leave the
// current value untouched.
type UpdateInput struct {
	Title           *string
	Description     *string
	BackgroundType  *BackgroundType
	BackgroundValue *string
	Theme           *string
	CustomCSS       *string
	IsPublic        *bool
}

// Update patches an owned profile.
//
// # Returns
//   - Returns [apperr.NotFound] if the profile does not exist.
//   - Returns [apperr.Forbidden] if the caller does not own it.
//   - Returns [apperr.PremiumRequired] when setting custom CSS without the
//     tier entitlement.
func (service *Service) Update(ctx context.Context, userID, profileID string, input UpdateInput) (*Profile, error) {
	page, err := service.repository.FindByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if page.UserID != userID {
		return nil, apperr.Forbidden("You do not own this profile")
	}

	if input.CustomCSS != nil && *input.CustomCSS != "" {
		tier, err := service.tierLookup.TierForUser(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("profile_service_tier_failed: %w", err)
		}
		if !feature.CheckLimit(tier, feature.CustomCSS, 0) {
			return nil, apperr.PremiumRequired()
		}
	}

	if input.Title != nil {
		page.Title = *input.Title
	}
	if input.Description != nil {
		page.Description = *input.Description
	}
	if input.BackgroundType != nil {
		page.BackgroundType = *input.BackgroundType
	}
	if input.BackgroundValue != nil {
		page.BackgroundValue = *input.BackgroundValue
	}
	if input.Theme != nil {
		page.Theme = *input.Theme
	}
	if input.CustomCSS != nil {
		page.CustomCSS = *input.CustomCSS
	}
	if input.IsPublic != nil {
		page.IsPublic = *input.IsPublic
	}

	if err := service.repository.Update(ctx, page); err != nil {
		return nil, fmt.Errorf("profile_service_update_failed: %w", err)
	}

	return page, nil
}

// LinkInput holds the data required to add a link to a profile.
type LinkInput struct {
	Title         string
	URL           string
	Icon          string
	CustomIconURL string
}

// CreateLink adds a link to an owned profile, subject to the tier's link limit.
//
// # Returns
//   - Returns [apperr.NotFound] if the profile does not exist.
//   - Returns [apperr.Forbidden] if the caller does not own it.
//   - Returns [apperr.PremiumRequired] if the tier's link ceiling is hit.
func (service *Service) CreateLink(ctx context.Context, userID, profileID string, input LinkInput) (*Link, error) {
	// ── 1. Ownership ──────────────────────────────────────────────────────

	page, err := service.repository.FindByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if page.UserID != userID {
		return nil, apperr.Forbidden("You do not own this profile")
	}

	// ── 2. Entitlement Gate ───────────────────────────────────────────────

	tier, err := service.tierLookup.TierForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("profile_service_tier_failed: %w", err)
	}

	existing, err := service.repository.CountLinks(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("profile_service_link_count_failed: %w", err)
	}
	if !feature.CheckLimit(tier, feature.LinksLimit, existing) {
		return nil, apperr.PremiumRequired()
	}

	// ── 3. Persistence ────────────────────────────────────────────────────

	link := &Link{
		ID:            uuid.New(),
		ProfileID:     profileID,
		Title:         input.Title,
		URL:           input.URL,
		Icon:          input.Icon,
		CustomIconURL: input.CustomIconURL,
		DisplayOrder:  existing, // Appended at the end of the page.
		IsActive:      true,
	}

	if err := service.repository.CreateLink(ctx, link); err != nil {
		return nil, fmt.Errorf("profile_service_create_link_failed: %w", err)
	}

	return link, nil
}

// ListLinks returns a page of ALL links of an owned profile.
//
// Unlike the public page, hidden links are included: this is the owner's
// management view.
func (service *Service) ListLinks(ctx context.Context, userID, profileID string, params pagination.Params) ([]*Link, pagination.Meta, error) {
	page, err := service.repository.FindByID(ctx, profileID)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	if page.UserID != userID {
		return nil, pagination.Meta{}, apperr.Forbidden("You do not own this profile")
	}

	links, total, err := service.repository.ListLinks(ctx, profileID, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("profile_service_list_links_failed: %w", err)
	}

	return links, pagination.NewMeta(params.Page, params.Limit, total), nil
}
