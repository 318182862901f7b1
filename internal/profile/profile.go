// Copyright (c) 2026 Linkgrove. All rights reserved.
// Author: eng@linkgrove.app

// Package profile defines the public bio-link pages owned by users.
//
// # Architecture
//
// Entities in this package represent the "Truth" of the system.
// They have no dependencies on outer layers (like databases, APIs, or libraries).
// This makes the core logic highly testable and resilient to technology changes.
package profile

import (
	"time"
)

// BackgroundType enumerates the supported page background styles.
type BackgroundType string

const (
	BackgroundColor    BackgroundType = "color"
	BackgroundGradient BackgroundType = "gradient"
	BackgroundImage    BackgroundType = "image"
)

// IsValid reports whether the background type is a known enumerated value.
func (b BackgroundType) IsValid() bool {
	switch b {
	case BackgroundColor, BackgroundGradient, BackgroundImage:
		return true
	}
	return false
}

// Profile represents a public, slug-addressed bio-link page.
//
// # Rules
//   - Slug is globally unique and URL-safe.
//   - Every user gets a default profile at registration (slug = username).
//   - Private profiles (IsPublic = false) are invisible to anonymous visitors.
type Profile struct {
	ID              string         `json:"id"`
	UserID          string         `json:"user_id"`
	Slug            string         `json:"slug"`
	Title           string         `json:"title"`
	Description     string         `json:"description,omitempty"`
	BackgroundType  BackgroundType `json:"background_type"`
	BackgroundValue string         `json:"background_value,omitempty"`
	Theme           string         `json:"theme"`
	CustomCSS       string         `json:"custom_css,omitempty"`
	IsPublic        bool           `json:"is_public"`
	ViewCount       int            `json:"view_count"`
	ClickCount      int            `json:"click_count"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// Link represents a single entry on a profile page.
type Link struct {
	ID            string    `json:"id"`
	ProfileID     string    `json:"profile_id"`
	Title         string    `json:"title"`
	URL           string    `json:"url"`
	Icon          string    `json:"icon,omitempty"`
	CustomIconURL string    `json:"custom_icon_url,omitempty"`
	DisplayOrder  int       `json:"display_order"`
	IsActive      bool      `json:"is_active"`
	ClickCount    int       `json:"click_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// SocialAccount represents a linked social media handle shown on the page.
type SocialAccount struct {
	ID           string    `json:"id"`
	ProfileID    string    `json:"profile_id"`
	Platform     string    `json:"platform"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"display_name,omitempty"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PublicPage is the aggregate served on the public profile endpoint.
//
// It bundles the profile with its visible links and social accounts so the
// page renders with a single API call.
type PublicPage struct {
	Profile        *Profile         `json:"profile"`
	Links          []*Link          `json:"links"`
	SocialAccounts []*SocialAccount `json:"social_accounts"`
}
