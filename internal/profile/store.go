// Copyright (c) 2026 Linkgrove. All rights reserved.
// Author: eng@linkgrove.app

package profile

import (
	"context"

	"github.com/linkgrove/linkgrove/internal/feature"
)

// Repository defines the data access contract for profiles, their links,
// and their social accounts.
//
// # Implementations
//
// The canonical implementation for Linkgrove is PostgreSQL (store_postgres.go).
type Repository interface {
	// FindByID returns the profile with the given ID.
	//
	// Returns [apperr.NotFound] if the profile does not exist.
	FindByID(ctx context.Context, id string) (*Profile, error)

	// FindBySlug returns the profile with the given slug.
	//
	// Returns [apperr.NotFound] if the slug is unclaimed.
	FindBySlug(ctx context.Context, slug string) (*Profile, error)

	// ListByUser returns all profiles owned by the user, oldest first.
	ListByUser(ctx context.Context, userID string) ([]*Profile, error)

	// CountByUser returns how many profiles the user owns. Used by the
	// tier gate before creation.
	CountByUser(ctx context.Context, userID string) (int, error)

	// Create persists a brand-new profile.
	Create(ctx context.Context, page *Profile) error

	// Update persists changes to mutable profile fields.
	Update(ctx context.Context, page *Profile) error

	// ListActiveLinks returns the visible links of a profile in display order.
	ListActiveLinks(ctx context.Context, profileID string) ([]*Link, error)

	// ListLinks returns a page of ALL links (active and hidden) of a
	// profile in display order, plus the total count.
	ListLinks(ctx context.Context, profileID string, limit, offset int) ([]*Link, int, error)

	// CountLinks returns how many links a profile holds. Used by the tier
	// gate before link creation.
	CountLinks(ctx context.Context, profileID string) (int, error)

	// CreateLink persists a brand-new link.
	CreateLink(ctx context.Context, link *Link) error

	// ListSocialAccounts returns a profile's social accounts in display order.
	ListSocialAccounts(ctx context.Context, profileID string) ([]*SocialAccount, error)
}

// TierLookup resolves the subscription tier of a user for entitlement gates.
type TierLookup interface {
	// TierForUser returns the user's subscription tier.
	//
	// Returns [apperr.NotFound] if the user does not exist.
	TierForUser(ctx context.Context, userID string) (feature.Tier, error)
}

// ViewCounter tracks public page views in a volatile store.
//
// View counting is best-effort: a failed increment never blocks the page.
type ViewCounter interface {
	// IncrementView bumps the total and per-day counters for a profile.
	IncrementView(ctx context.Context, profileID string) error

	// Views returns the total recorded views for a profile.
	Views(ctx context.Context, profileID string) (int64, error)
}
