// Copyright (c) 2026 Linkgrove. All rights reserved.
// Author: eng@linkgrove.app

// Business logic (Use Cases) for account identity.
//
// # Architecture
//
// The Service orchestrates domain entities and interacts with repositories
// through interfaces. It is technology-agnostic and does not know about
// HTTP or SQL.

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/linkgrove/linkgrove/internal/feature"
	"github.com/linkgrove/linkgrove/internal/platform/apperr"
	"github.com/linkgrove/linkgrove/internal/platform/sec"
	"github.com/linkgrove/linkgrove/internal/profile"
	"github.com/linkgrove/linkgrove/pkg/uuid"
)

// TokenProvider defines the contract for generating security tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given user.
	//
	// # Parameters
	//   - userID: The ID of the account.
	//   - email: The email of the account.
	//   - role: The role of the account.
	//   - isPremium: The premium entitlement flag.
	//   - timeToLive: The duration before the token expires.
	//
	// # Returns
	//   - A signed JWT string, or an error if signing fails.
	GenerateAccessToken(userID, email, role string, isPremium bool, timeToLive time.Duration) (string, error)
}

// Service implements account identity use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed by the security team.
type Service struct {
	userRepository UserRepository
	sessionStore   SessionStore
	refreshTokens  RefreshTokenStore
	rateLimiter    RateLimiter
	tokenProvider  TokenProvider
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	sessions SessionStore,
	refreshTokens RefreshTokenStore,
	limiter RateLimiter,
	tokenProv TokenProvider,
) *Service {
	return &Service{
		userRepository: userRepo,
		sessionStore:   sessions,
		refreshTokens:  refreshTokens,
		rateLimiter:    limiter,
		tokenProvider:  tokenProv,
	}
}

// AuthSession represents a successfully established login.
type AuthSession struct {
	User         *User
	Profile      *profile.Profile // Populated only on registration.
	AccessToken  string
	RefreshToken string
}

// issueTokens generates the access/refresh token pair and records the
// server-side state for it: the refresh mapping and the session marker.
func (service *Service) issueTokens(ctx context.Context, user *User) (accessToken, refreshToken string, err error) {
	accessToken, err = service.tokenProvider.GenerateAccessToken(
		user.ID, user.Email, string(user.Role), user.IsPremium, AccessTokenTTL,
	)
	if err != nil {
		return "", "", fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	refreshToken, err = sec.GenerateSecureToken(RefreshTokenLength)
	if err != nil {
		return "", "", fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	if err := service.refreshTokens.Set(ctx, refreshToken, user.ID, RefreshTokenTTL); err != nil {
		return "", "", fmt.Errorf("auth_service_refresh_persist_failed: %w", err)
	}

	session := SessionData{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      string(user.Role),
		IsPremium: user.IsPremium,
		ExpiresAt: time.Now().Add(SessionTTL),
	}
	if err := service.sessionStore.Set(ctx, user.ID, session, SessionTTL); err != nil {
		return "", "", fmt.Errorf("auth_service_session_persist_failed: %w", err)
	}

	return accessToken, refreshToken, nil
}

// AllowLoginAttempt consumes one unit of an IP's fixed-window login budget.
//
// The delivery layer calls this before reading or validating the request
// payload: malformed and well-formed attempts cost the same, so an attacker
// cannot probe for free with unparseable bodies.
//
// # Returns
//   - Returns [apperr.RateLimited] after 5 attempts per IP per 15 minutes.
func (service *Service) AllowLoginAttempt(ctx context.Context, ipAddress string) error {
	allowed, err := service.rateLimiter.Allow(ctx, rateLimitLogin, ipAddress, LoginRateLimit, LoginRateWindow)
	if err != nil {
		return fmt.Errorf("auth_service_login_rate_limit_failed: %w", err)
	}
	if !allowed {
		return apperr.RateLimited("Too many login attempts. Please try again later.")
	}
	return nil
}

// AllowRegisterAttempt consumes one unit of an IP's fixed-window
// registration budget. See [Service.AllowLoginAttempt] for the ordering
// contract with the delivery layer.
//
// # Returns
//   - Returns [apperr.RateLimited] after 3 attempts per IP per hour.
func (service *Service) AllowRegisterAttempt(ctx context.Context, ipAddress string) error {
	allowed, err := service.rateLimiter.Allow(ctx, rateLimitRegister, ipAddress, RegisterRateLimit, RegisterRateWindow)
	if err != nil {
		return fmt.Errorf("auth_service_register_rate_limit_failed: %w", err)
	}
	if !allowed {
		return apperr.RateLimited("Too many registration attempts. Please try again later.")
	}
	return nil
}

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Identifier string // Can be Email or Username.
	Password   string
}

// Login validates user credentials and issues security tokens.
//
// The per-IP attempt budget is consumed by [Service.AllowLoginAttempt]
// before the payload is even parsed; this method assumes that check has
// already passed.
//
// # Parameters
//   - ctx: Context for the database operation.
//   - input: Contains Identifier (Email/Username) and plain-text Password.
//
// # Returns
//   - A pointer to [AuthSession] containing the token pair.
//   - Returns [apperr.Unauthorized] if credentials do not match.
//
// # Flow
//  1. Lookup user by email, falling back to username.
//  2. Reject deactivated accounts with a distinct message.
//  3. Verify password hash using Bcrypt.
//  4. Record last_login_at, issue tokens, persist session state.
func (service *Service) Login(ctx context.Context, input LoginInput) (*AuthSession, error) {
	// ── 1. Fetch User ─────────────────────────────────────────────────────

	// Flexible login: the identifier may be an email or a username.
	user, err := service.userRepository.FindByEmail(ctx, input.Identifier)
	if err != nil {
		user, err = service.userRepository.FindByUsername(ctx, input.Identifier)
	}

	// Generic message: an unknown identifier and a wrong password are
	// indistinguishable, preventing account enumeration.
	if err != nil {
		return nil, apperr.Unauthorized("Invalid email/username or password")
	}

	// ── 2. Account State ──────────────────────────────────────────────────

	// Deactivation is reported distinctly. The accepted trade-off: a
	// deactivated account's existence is leaked to whoever holds its
	// credentials.
	if !user.IsActive {
		return nil, apperr.Unauthorized("Account is deactivated")
	}

	// ── 3. Credential Verification ────────────────────────────────────────

	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid email/username or password")
	}

	// ── 4. Session Establishment ──────────────────────────────────────────

	now := time.Now()
	if err := service.userRepository.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("auth_service_login_timestamp_failed: %w", err)
	}
	user.LastLoginAt = &now

	accessToken, refreshToken, err := service.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	return &AuthSession{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Email       string
	Username    string
	Password    string
	DisplayName string
}

// Register validates, hashes, and persists a brand new user account together
// with its default profile page, then logs the user in.
//
// The per-IP attempt budget is consumed by [Service.AllowRegisterAttempt]
// before the payload is even parsed; this method assumes that check has
// already passed.
//
// # Parameters
//   - ctx: Context for the database operation.
//   - input: The user-provided registration details (already shape-validated
//     by the delivery layer).
//
// # Returns
//   - A pointer to [AuthSession] with User, default Profile, and token pair.
//   - Returns [apperr.Conflict] if email or username already exists.
//
// # Business Rules
//   - Emails must be unique; checked before usernames, so a payload failing
//     both reports the email conflict.
//   - Default role is always 'user', tier 'free', account active, email
//     unverified.
//   - The default profile uses the username as slug with a public
//     "<name>'s Links" page.
func (service *Service) Register(ctx context.Context, input RegisterInput) (*AuthSession, error) {
	// ── 1. Uniqueness Checks ──────────────────────────────────────────────

	// Verify email uniqueness. Return a client-safe Conflict error.
	if _, err := service.userRepository.FindByEmail(ctx, input.Email); err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// Verify username uniqueness. Return a client-safe Conflict error.
	if _, err := service.userRepository.FindByUsername(ctx, input.Username); err == nil {
		return nil, apperr.Conflict("Username is already taken")
	}

	// ── 2. Security ───────────────────────────────────────────────────────

	// Prevent storing plain-text passwords.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// ── 3. Entity Construction ────────────────────────────────────────────

	displayName := input.DisplayName
	if displayName == "" {
		displayName = input.Username
	}

	user := &User{
		ID:               uuid.New(), // Time-sortable ID to prevent PG index fragmentation.
		Email:            input.Email,
		Username:         input.Username,
		PasswordHash:     hashedPassword,
		DisplayName:      displayName,
		Role:             sec.RoleUser, // Rule: Default role is always 'user'
		SubscriptionTier: feature.TierFree,
		EmailVerified:    false,
		IsActive:         true,
	}

	defaultProfile := &profile.Profile{
		ID:             uuid.New(),
		UserID:         user.ID,
		Slug:           input.Username,
		Title:          displayName + "'s Links",
		Description:    "Check out my links!",
		BackgroundType: profile.BackgroundColor,
		Theme:          "default",
		IsPublic:       true,
	}

	// ── 4. Persistence ────────────────────────────────────────────────────

	// One transaction: the account and its default page exist together or
	// not at all.
	if err := service.userRepository.CreateWithProfile(ctx, user, defaultProfile); err != nil {
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	// ── 5. Session Establishment ──────────────────────────────────────────

	accessToken, refreshToken, err := service.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	return &AuthSession{
		User:         user,
		Profile:      defaultProfile,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh implements the Refresh Token Rotation mechanism.
//
// It atomically consumes the presented refresh token, verifies the account
// is still active, and issues a fresh pair of access and refresh tokens.
// The old refresh token is permanently unusable after this call, whether
// rotation succeeds or fails.
func (service *Service) Refresh(ctx context.Context, refreshToken string) (*AuthSession, error) {
	// ── 1. Consume the Mapping ────────────────────────────────────────────

	// Take is atomic (GETDEL): a replayed or concurrent refresh with the
	// same token finds the mapping already gone.
	userID, err := service.refreshTokens.Take(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_take_failed: %w", err)
	}
	if userID == "" {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	// ── 2. Verify the Account ─────────────────────────────────────────────

	user, err := service.userRepository.FindByID(ctx, userID)
	if err != nil || !user.IsActive {
		// The mapping is already consumed; nothing further to revoke.
		return nil, apperr.Unauthorized("User not found or inactive")
	}

	// ── 3. Issue New Tokens ───────────────────────────────────────────────

	accessToken, newRefreshToken, err := service.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	return &AuthSession{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

// Logout revokes the presented refresh token so it can never mint another
// access token.
//
// # Idempotency
//
// Logout always succeeds: an empty, unknown, or already-revoked token is
// treated the same as a live one. The session marker is intentionally left
// in place; it expires on its own within the access-token lifetime.
func (service *Service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	if err := service.refreshTokens.Revoke(ctx, refreshToken); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	return nil
}

// Me returns the fresh database state of the authenticated account.
//
// The handler reads identity from the token; this re-read surfaces any
// role or entitlement changes made since the token was minted.
func (service *Service) Me(ctx context.Context, userID string) (*User, error) {
	user, err := service.userRepository.FindByID(ctx, userID)
	if err != nil {
		return nil, apperr.NotFound("User")
	}
	return user, nil
}
