// Copyright (c) 2026 Linkgrove. All rights reserved.
// Author: eng@linkgrove.app

// PostgreSQL implementation of the auth storage contracts.
//
// # Error Mapping
//
// Storage-specific errors (like pgx.ErrNoRows) are mapped to domain-friendly
// [apperr.AppError] types to avoid leaking storage implementation details.

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/linkgrove/linkgrove/internal/platform/apperr"
	"github.com/linkgrove/linkgrove/internal/profile"
)

// userColumns is the canonical column list scanned into a [User].
const userColumns = `
	id, email, username, password_hash, display_name, avatar_url, bio,
	role, is_premium, subscription_tier, subscription_expires_at,
	email_verified, is_active, last_login_at, created_at, updated_at`

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// uniqueConflict maps a unique-violation on a known registration constraint
// to its client-safe Conflict error.
//
// The service pre-checks uniqueness with exact-match lookups, but two
// concurrent registrations can both pass those checks; the loser then hits
// the index here and must still see a 409, not a 500.
func uniqueConflict(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		return nil
	}

	switch pgErr.ConstraintName {
	case "users_email_key":
		return apperr.Conflict("Email is already registered")
	case "users_username_key":
		return apperr.Conflict("Username is already taken")
	case "profiles_slug_key":
		// The default profile slug is the username.
		return apperr.Conflict("Username is already taken")
	}

	return nil
}

// scanUser reads a full user row from any pgx row source.
func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.PasswordHash,
		&user.DisplayName,
		&user.AvatarURL,
		&user.Bio,
		&user.Role,
		&user.IsPremium,
		&user.SubscriptionTier,
		&user.SubscriptionExpiresAt,
		&user.EmailVerified,
		&user.IsActive,
		&user.LastLoginAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// FindByID retrieves a user record by their unique ID.
func (repository *PostgresUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(repository.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_id_failed: %w", err)
	}

	return user, nil
}

// FindByEmail retrieves a user record by their unique email address.
//
// # Returns
//
// Returns [*User] if found, or [apperr.NotFound] if no account exists.
func (repository *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(repository.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_email_failed: %w", err)
	}

	return user, nil
}

// FindByUsername retrieves a user record by their unique username.
//
// # Returns
//
// Returns [*User] if found, or [apperr.NotFound] if no account exists.
func (repository *PostgresUserRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	user, err := scanUser(repository.pool.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_username_failed: %w", err)
	}

	return user, nil
}

// CreateWithProfile persists a new user and their default profile atomically.
//
// # Parameters
//   - ctx: Context for the database transaction.
//   - user: The user entity to persist.
//   - defaultProfile: The seed profile created alongside the account.
//
// # Atomicity
//
// Both inserts run in a single transaction. A failure on either side rolls
// everything back, so no account exists without its default page and no
// orphan page exists without its owner.
func (repository *PostgresUserRepository) CreateWithProfile(ctx context.Context, user *User, defaultProfile *profile.Profile) error {
	const insertUser = `
		INSERT INTO users (
			id, email, username, password_hash, display_name, avatar_url, bio,
			role, is_premium, subscription_tier, email_verified, is_active,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	const insertProfile = `
		INSERT INTO profiles (
			id, user_id, slug, title, description, background_type,
			background_value, theme, custom_css, is_public, view_count,
			click_count, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	defaultProfile.CreatedAt = now
	defaultProfile.UpdatedAt = now

	transaction, err := repository.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_begin_failed: %w", err)
	}
	// Rollback is a no-op once the transaction has been committed.
	defer func() { _ = transaction.Rollback(ctx) }()

	_, err = transaction.Exec(ctx, insertUser,
		user.ID,
		user.Email,
		user.Username,
		user.PasswordHash,
		user.DisplayName,
		user.AvatarURL,
		user.Bio,
		user.Role,
		user.IsPremium,
		user.SubscriptionTier,
		user.EmailVerified,
		user.IsActive,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if conflict := uniqueConflict(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("postgres_user_repo_create_user_failed: %w", err)
	}

	_, err = transaction.Exec(ctx, insertProfile,
		defaultProfile.ID,
		defaultProfile.UserID,
		defaultProfile.Slug,
		defaultProfile.Title,
		defaultProfile.Description,
		defaultProfile.BackgroundType,
		defaultProfile.BackgroundValue,
		defaultProfile.Theme,
		defaultProfile.CustomCSS,
		defaultProfile.IsPublic,
		defaultProfile.ViewCount,
		defaultProfile.ClickCount,
		defaultProfile.CreatedAt,
		defaultProfile.UpdatedAt,
	)
	if err != nil {
		if conflict := uniqueConflict(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("postgres_user_repo_create_profile_failed: %w", err)
	}

	if err := transaction.Commit(ctx); err != nil {
		return fmt.Errorf("postgres_user_repo_commit_failed: %w", err)
	}

	return nil
}

// UpdateLastLogin records the timestamp of a successful authentication.
func (repository *PostgresUserRepository) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	const query = `UPDATE users SET last_login_at = $2, updated_at = $2 WHERE id = $1`

	_, err := repository.pool.Exec(ctx, query, userID, at)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_last_login_failed: %w", err)
	}

	return nil
}

// List returns a page of accounts ordered by creation time (newest first),
// plus the total account count.
func (repository *PostgresUserRepository) List(ctx context.Context, limit, offset int) ([]*User, int, error) {
	const countQuery = `SELECT COUNT(*) FROM users`
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	var total int
	if err := repository.pool.QueryRow(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_user_repo_count_failed: %w", err)
	}

	rows, err := repository.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_user_repo_list_failed: %w", err)
	}
	defer rows.Close()

	users := make([]*User, 0, limit)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_user_repo_list_scan_failed: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_user_repo_list_rows_failed: %w", err)
	}

	return users, total, nil
}
