// Copyright (c) 2026 Linkgrove. All rights reserved.
// Author: eng@linkgrove.app

/*
Package feature defines the subscription tiers and the entitlement table
that gates countable resources (profiles, links) and premium capabilities.

Design:

  - Static Table: Entitlements are compiled in, not stored per user. A
    user's tier is the single source of truth.
  - Countable vs Boolean: Countable features carry a numeric ceiling with
    [Unlimited] meaning no ceiling. Boolean features are simple capability
    flags.
  - Enforcement: Services consult [CheckLimit] before creating gated
    resources and return PREMIUM_REQUIRED errors when the ceiling is hit.
*/
package feature

// # Subscription Tiers

// Tier identifies a subscription plan.
type Tier string

const (
	TierFree       Tier = "free"
	TierPro        Tier = "pro"
	TierEnterprise Tier = "enterprise"
)

// IsValid reports whether the tier is one of the known plans.
func (t Tier) IsValid() bool {
	switch t {
	case TierFree, TierPro, TierEnterprise:
		return true
	}
	return false
}

// # Countable Features

// Unlimited marks a countable feature with no ceiling.
const Unlimited = -1

// Key identifies a gated feature.
type Key string

const (
	ProfilesLimit        Key = "PROFILES_LIMIT"
	LinksLimit           Key = "LINKS_LIMIT"
	FileUploadLimit      Key = "FILE_UPLOAD_LIMIT"
	AnalyticsHistoryDays Key = "ANALYTICS_HISTORY_DAYS"
	CustomCSS            Key = "CUSTOM_CSS"
	TemplateCreation     Key = "TEMPLATE_CREATION"
	APIAccess            Key = "API_ACCESS"
	PrioritySupport      Key = "PRIORITY_SUPPORT"
	RemoveBranding       Key = "REMOVE_BRANDING"
	AdvancedCustomization Key = "ADVANCED_CUSTOMIZATION"
)

// Limits is the full entitlement set for one tier, shaped for the
// GET /api/v1/me/features response.
type Limits struct {
	ProfilesLimit         int  `json:"profilesLimit"`
	LinksLimit            int  `json:"linksLimit"`
	FileUploadLimit       int  `json:"fileUploadLimit"`
	AnalyticsHistoryDays  int  `json:"analyticsHistoryDays"`
	CustomCSS             bool `json:"customCss"`
	TemplateCreation      bool `json:"templateCreation"`
	APIAccess             bool `json:"apiAccess"`
	PrioritySupport       bool `json:"prioritySupport"`
	RemoveBranding        bool `json:"removeBranding"`
	AdvancedCustomization bool `json:"advancedCustomization"`
}

// tierLimits is the compiled-in entitlement table.
var tierLimits = map[Tier]Limits{
	TierFree: {
		ProfilesLimit:        1,
		LinksLimit:           10,
		FileUploadLimit:      5 * 1024 * 1024,
		AnalyticsHistoryDays: 7,
	},
	TierPro: {
		ProfilesLimit:        5,
		LinksLimit:           50,
		FileUploadLimit:      50 * 1024 * 1024,
		AnalyticsHistoryDays: 90,
		CustomCSS:            true,
		PrioritySupport:      true,
		RemoveBranding:       true,
	},
	TierEnterprise: {
		ProfilesLimit:         Unlimited,
		LinksLimit:            Unlimited,
		FileUploadLimit:       500 * 1024 * 1024,
		AnalyticsHistoryDays:  Unlimited,
		CustomCSS:             true,
		TemplateCreation:      true,
		APIAccess:             true,
		PrioritySupport:       true,
		RemoveBranding:        true,
		AdvancedCustomization: true,
	},
}

// # Lookups

// ForTier returns the entitlement set for the given tier.
// Unknown tiers fall back to the free plan.
func ForTier(tier Tier) Limits {
	limits, found := tierLimits[tier]
	if !found {
		return tierLimits[TierFree]
	}
	return limits
}

// CheckLimit reports whether the user may consume one more unit of a
// countable feature, or whether a boolean capability is enabled.
//
// # Parameters
//   - tier: The user's subscription tier.
//   - key: The feature being checked.
//   - currentCount: How many units the user already holds. Ignored for
//     boolean features.
//
// # Returns
//   - true if the action is allowed under the tier's ceiling.
func CheckLimit(tier Tier, key Key, currentCount int) bool {
	limits := ForTier(tier)

	switch key {
	case ProfilesLimit:
		return allowCount(limits.ProfilesLimit, currentCount)
	case LinksLimit:
		return allowCount(limits.LinksLimit, currentCount)
	case FileUploadLimit:
		return allowCount(limits.FileUploadLimit, currentCount)
	case AnalyticsHistoryDays:
		return allowCount(limits.AnalyticsHistoryDays, currentCount)
	case CustomCSS:
		return limits.CustomCSS
	case TemplateCreation:
		return limits.TemplateCreation
	case APIAccess:
		return limits.APIAccess
	case PrioritySupport:
		return limits.PrioritySupport
	case RemoveBranding:
		return limits.RemoveBranding
	case AdvancedCustomization:
		return limits.AdvancedCustomization
	}

	// Unknown features are denied outright.
	return false
}

// allowCount applies the Unlimited sentinel to a countable ceiling.
func allowCount(limit, currentCount int) bool {
	if limit == Unlimited {
		return true
	}
	return currentCount < limit
}
