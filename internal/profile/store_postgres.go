// Copyright (c) 2026 Linkgrove. All rights reserved.
// Author: eng@linkgrove.app

// PostgreSQL implementation of the profile storage contracts.
//
// # Error Mapping
//
// Storage-specific errors (like pgx.ErrNoRows) are mapped to domain-friendly
// [apperr.AppError] types to avoid leaking storage implementation details.

package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/linkgrove/linkgrove/internal/feature"
	"github.com/linkgrove/linkgrove/internal/platform/apperr"
)

// profileColumns is the canonical column list scanned into a [Profile].
const profileColumns = `
	id, user_id, slug, title, description, background_type, background_value,
	theme, custom_css, is_public, view_count, click_count, created_at, updated_at`

// linkColumns is the canonical column list scanned into a [Link].
const linkColumns = `
	id, profile_id, title, url, icon, custom_icon_url, display_order,
	is_active, click_count, created_at`

// PostgresRepository implements [Repository] and [TierLookup] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of [Repository].
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// scanProfile reads a full profile row from any pgx row source.
func scanProfile(row pgx.Row) (*Profile, error) {
	page := &Profile{}
	err := row.Scan(
		&page.ID,
		&page.UserID,
		&page.Slug,
		&page.Title,
		&page.Description,
		&page.BackgroundType,
		&page.BackgroundValue,
		&page.Theme,
		&page.CustomCSS,
		&page.IsPublic,
		&page.ViewCount,
		&page.ClickCount,
		&page.CreatedAt,
		&page.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return page, nil
}

// scanLink reads a full link row from any pgx row source.
func scanLink(row pgx.Row) (*Link, error) {
	link := &Link{}
	err := row.Scan(
		&link.ID,
		&link.ProfileID,
		&link.Title,
		&link.URL,
		&link.Icon,
		&link.CustomIconURL,
		&link.DisplayOrder,
		&link.IsActive,
		&link.ClickCount,
		&link.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return link, nil
}

// FindByID retrieves a profile by its unique ID.
func (repository *PostgresRepository) FindByID(ctx context.Context, id string) (*Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

	page, err := scanProfile(repository.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Profile")
		}
		return nil, fmt.Errorf("postgres_profile_repo_find_by_id_failed: %w", err)
	}

	return page, nil
}

// FindBySlug retrieves a profile by its unique slug.
func (repository *PostgresRepository) FindBySlug(ctx context.Context, slug string) (*Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE slug = $1`

	page, err := scanProfile(repository.pool.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Profile")
		}
		return nil, fmt.Errorf("postgres_profile_repo_find_by_slug_failed: %w", err)
	}

	return page, nil
}

// ListByUser returns all profiles owned by a user, oldest first.
func (repository *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1 ORDER BY created_at ASC`

	rows, err := repository.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres_profile_repo_list_failed: %w", err)
	}
	defer rows.Close()

	pages := []*Profile{}
	for rows.Next() {
		page, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres_profile_repo_list_scan_failed: %w", err)
		}
		pages = append(pages, page)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_profile_repo_list_rows_failed: %w", err)
	}

	return pages, nil
}

// CountByUser returns how many profiles a user owns.
func (repository *PostgresRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	const query = `SELECT COUNT(*) FROM profiles WHERE user_id = $1`

	var count int
	if err := repository.pool.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("postgres_profile_repo_count_failed: %w", err)
	}

	return count, nil
}

// Create persists a new profile record.
func (repository *PostgresRepository) Create(ctx context.Context, page *Profile) error {
	const query = `
		INSERT INTO profiles (
			id, user_id, slug, title, description, background_type,
			background_value, theme, custom_css, is_public, view_count,
			click_count, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	now := time.Now()
	if page.CreatedAt.IsZero() {
		page.CreatedAt = now
	}
	page.UpdatedAt = now

	_, err := repository.pool.Exec(ctx, query,
		page.ID,
		page.UserID,
		page.Slug,
		page.Title,
		page.Description,
		page.BackgroundType,
		page.BackgroundValue,
		page.Theme,
		page.CustomCSS,
		page.IsPublic,
		page.ViewCount,
		page.ClickCount,
		page.CreatedAt,
		page.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_profile_repo_create_failed: %w", err)
	}

	return nil
}

// Update persists changes to a profile's mutable fields.
func (repository *PostgresRepository) Update(ctx context.Context, page *Profile) error {
	const query = `
		UPDATE profiles
		SET title = $2, description = $3, background_type = $4,
			background_value = $5, theme = $6, custom_css = $7,
			is_public = $8, updated_at = $9
		WHERE id = $1`

	page.UpdatedAt = time.Now()
	_, err := repository.pool.Exec(ctx, query,
		page.ID,
		page.Title,
		page.Description,
		page.BackgroundType,
		page.BackgroundValue,
		page.Theme,
		page.CustomCSS,
		page.IsPublic,
		page.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_profile_repo_update_failed: %w", err)
	}

	return nil
}

// ListActiveLinks returns a profile's visible links in display order.
func (repository *PostgresRepository) ListActiveLinks(ctx context.Context, profileID string) ([]*Link, error) {
	query := `SELECT ` + linkColumns + `
		FROM profile_links
		WHERE profile_id = $1 AND is_active = TRUE
		ORDER BY display_order ASC, created_at ASC`

	rows, err := repository.pool.Query(ctx, query, profileID)
	if err != nil {
		return nil, fmt.Errorf("postgres_profile_repo_active_links_failed: %w", err)
	}
	defer rows.Close()

	return collectLinks(rows)
}

// ListLinks returns a page of all links of a profile plus the total count.
func (repository *PostgresRepository) ListLinks(ctx context.Context, profileID string, limit, offset int) ([]*Link, int, error) {
	const countQuery = `SELECT COUNT(*) FROM profile_links WHERE profile_id = $1`
	query := `SELECT ` + linkColumns + `
		FROM profile_links
		WHERE profile_id = $1
		ORDER BY display_order ASC, created_at ASC
		LIMIT $2 OFFSET $3`

	var total int
	if err := repository.pool.QueryRow(ctx, countQuery, profileID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_profile_repo_link_count_failed: %w", err)
	}

	rows, err := repository.pool.Query(ctx, query, profileID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_profile_repo_links_failed: %w", err)
	}
	defer rows.Close()

	links, err := collectLinks(rows)
	if err != nil {
		return nil, 0, err
	}

	return links, total, nil
}

// CountLinks returns how many links a profile holds.
func (repository *PostgresRepository) CountLinks(ctx context.Context, profileID string) (int, error) {
	const query = `SELECT COUNT(*) FROM profile_links WHERE profile_id = $1`

	var count int
	if err := repository.pool.QueryRow(ctx, query, profileID).Scan(&count); err != nil {
		return 0, fmt.Errorf("postgres_profile_repo_count_links_failed: %w", err)
	}

	return count, nil
}

// CreateLink persists a new link record.
func (repository *PostgresRepository) CreateLink(ctx context.Context, link *Link) error {
	const query = `
		INSERT INTO profile_links (
			id, profile_id, title, url, icon, custom_icon_url,
			display_order, is_active, click_count, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	if link.CreatedAt.IsZero() {
		link.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(ctx, query,
		link.ID,
		link.ProfileID,
		link.Title,
		link.URL,
		link.Icon,
		link.CustomIconURL,
		link.DisplayOrder,
		link.IsActive,
		link.ClickCount,
		link.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_profile_repo_create_link_failed: %w", err)
	}

	return nil
}

// ListSocialAccounts returns a profile's social accounts in display order.
func (repository *PostgresRepository) ListSocialAccounts(ctx context.Context, profileID string) ([]*SocialAccount, error) {
	const query = `
		SELECT id, profile_id, platform, username, display_name, avatar_url,
			display_order, created_at, updated_at
		FROM social_accounts
		WHERE profile_id = $1
		ORDER BY display_order ASC`

	rows, err := repository.pool.Query(ctx, query, profileID)
	if err != nil {
		return nil, fmt.Errorf("postgres_profile_repo_social_failed: %w", err)
	}
	defer rows.Close()

	accounts := []*SocialAccount{}
	for rows.Next() {
		account := &SocialAccount{}
		err := rows.Scan(
			&account.ID,
			&account.ProfileID,
			&account.Platform,
			&account.Username,
			&account.DisplayName,
			&account.AvatarURL,
			&account.DisplayOrder,
			&account.CreatedAt,
			&account.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres_profile_repo_social_scan_failed: %w", err)
		}
		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_profile_repo_social_rows_failed: %w", err)
	}

	return accounts, nil
}

// TierForUser returns the subscription tier of a user account.
//
// This lives on the profile repository because the entitlement gate is a
// profile-domain concern; it reads a single column off the users table.
func (repository *PostgresRepository) TierForUser(ctx context.Context, userID string) (feature.Tier, error) {
	const query = `SELECT subscription_tier FROM users WHERE id = $1`

	var tier feature.Tier
	if err := repository.pool.QueryRow(ctx, query, userID).Scan(&tier); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperr.NotFound("User")
		}
		return "", fmt.Errorf("postgres_profile_repo_tier_failed: %w", err)
	}

	return tier, nil
}

// collectLinks drains a pgx rows cursor into a slice of links.
func collectLinks(rows pgx.Rows) ([]*Link, error) {
	links := []*Link{}
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres_profile_repo_link_scan_failed: %w", err)
		}
		links = append(links, link)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_profile_repo_link_rows_failed: %w", err)
	}

	return links, nil
}
