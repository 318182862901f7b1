// Copyright (c) 2026 Linkgrove. All rights reserved.
// Author: eng@linkgrove.app

package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForTier(t *testing.T) {
	t.Run("free tier has entry limits", func(t *testing.T) {
		limits := ForTier(TierFree)

		assert.Equal(t, 1, limits.ProfilesLimit)
		assert.Equal(t, 10, limits.LinksLimit)
		assert.Equal(t, 5*1024*1024, limits.FileUploadLimit)
		assert.Equal(t, 7, limits.AnalyticsHistoryDays)
		assert.False(t, limits.CustomCSS)
	})

	t.Run("enterprise tier is unlimited on countables", func(t *testing.T) {
		limits := ForTier(TierEnterprise)

		assert.Equal(t, Unlimited, limits.ProfilesLimit)
		assert.Equal(t, Unlimited, limits.LinksLimit)
		assert.Equal(t, Unlimited, limits.AnalyticsHistoryDays)
		assert.True(t, limits.TemplateCreation)
		assert.True(t, limits.APIAccess)
	})

	t.Run("unknown tier falls back to free", func(t *testing.T) {
		limits := ForTier(Tier("platinum"))

		assert.Equal(t, ForTier(TierFree), limits)
	})
}

func TestCheckLimit(t *testing.T) {
	testCases := []struct {
		name         string
		tier         Tier
		key          Key
		currentCount int
		wantAllowed  bool
	}{
		{"free user below profile cap", TierFree, ProfilesLimit, 0, true},
		{"free user at profile cap", TierFree, ProfilesLimit, 1, false},
		{"pro user below profile cap", TierPro, ProfilesLimit, 4, true},
		{"pro user at profile cap", TierPro, ProfilesLimit, 5, false},
		{"enterprise ignores profile count", TierEnterprise, ProfilesLimit, 10_000, true},
		{"free user at link cap", TierFree, LinksLimit, 10, false},
		{"pro user below link cap", TierPro, LinksLimit, 49, true},
		{"custom css denied on free", TierFree, CustomCSS, 0, false},
		{"custom css allowed on pro", TierPro, CustomCSS, 0, true},
		{"api access denied on pro", TierPro, APIAccess, 0, false},
		{"api access allowed on enterprise", TierEnterprise, APIAccess, 0, true},
		{"unknown feature denied", TierEnterprise, Key("TELEPORTATION"), 0, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.wantAllowed, CheckLimit(tc.tier, tc.key, tc.currentCount))
		})
	}
}

func TestTierIsValid(t *testing.T) {
	assert.True(t, TierFree.IsValid())
	assert.True(t, TierPro.IsValid())
	assert.True(t, TierEnterprise.IsValid())
	assert.False(t, Tier("").IsValid())
	assert.False(t, Tier("premium").IsValid())
}
