// Copyright (c) 2026 Linkgrove. All rights reserved.
// Author: eng@linkgrove.app

package profile_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkgrove/linkgrove/internal/feature"
	"github.com/linkgrove/linkgrove/internal/platform/apperr"
	"github.com/linkgrove/linkgrove/internal/profile"
	"github.com/linkgrove/linkgrove/pkg/pagination"
	"github.com/linkgrove/linkgrove/pkg/uuid"
)

// ── In-Memory Fakes ──────────────────────────────────────────────────────────

// fakeRepo is an in-memory [profile.Repository].
type fakeRepo struct {
	mu       sync.Mutex
	profiles map[string]*profile.Profile
	links    map[string][]*profile.Link
	social   map[string][]*profile.SocialAccount
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		profiles: make(map[string]*profile.Profile),
		links:    make(map[string][]*profile.Link),
		social:   make(map[string][]*profile.SocialAccount),
	}
}

func (r *fakeRepo) FindByID(_ context.Context, id string) (*profile.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if page, ok := r.profiles[id]; ok {
		copied := *page
		return &copied, nil
	}
	return nil, apperr.NotFound("Profile")
}

func (r *fakeRepo) FindBySlug(_ context.Context, slug string) (*profile.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, page := range r.profiles {
		if page.Slug == slug {
			copied := *page
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("Profile")
}

func (r *fakeRepo) ListByUser(_ context.Context, userID string) ([]*profile.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pages := []*profile.Profile{}
	for _, page := range r.profiles {
		if page.UserID == userID {
			copied := *page
			pages = append(pages, &copied)
		}
	}
	return pages, nil
}

func (r *fakeRepo) CountByUser(_ context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, page := range r.profiles {
		if page.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *fakeRepo) Create(_ context.Context, page *profile.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *page
	r.profiles[page.ID] = &copied
	return nil
}

func (r *fakeRepo) Update(_ context.Context, page *profile.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *page
	r.profiles[page.ID] = &copied
	return nil
}

func (r *fakeRepo) ListActiveLinks(_ context.Context, profileID string) ([]*profile.Link, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	active := []*profile.Link{}
	for _, link := range r.links[profileID] {
		if link.IsActive {
			copied := *link
			active = append(active, &copied)
		}
	}
	return active, nil
}

func (r *fakeRepo) ListLinks(_ context.Context, profileID string, limit, offset int) ([]*profile.Link, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.links[profileID]
	total := len(all)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	page := []*profile.Link{}
	for _, link := range all[offset:end] {
		copied := *link
		page = append(page, &copied)
	}
	return page, total, nil
}

func (r *fakeRepo) CountLinks(_ context.Context, profileID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.links[profileID]), nil
}

func (r *fakeRepo) CreateLink(_ context.Context, link *profile.Link) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *link
	r.links[link.ProfileID] = append(r.links[link.ProfileID], &copied)
	return nil
}

func (r *fakeRepo) ListSocialAccounts(_ context.Context, profileID string) ([]*profile.SocialAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.social[profileID], nil
}

// fakeTiers maps user IDs to tiers, defaulting to free.
type fakeTiers struct {
	tiers map[string]feature.Tier
}

func (f *fakeTiers) TierForUser(_ context.Context, userID string) (feature.Tier, error) {
	if tier, ok := f.tiers[userID]; ok {
		return tier, nil
	}
	return feature.TierFree, nil
}

// fakeViews records view increments in memory.
type fakeViews struct {
	mu     sync.Mutex
	counts map[string]int64
}

func newFakeViews() *fakeViews {
	return &fakeViews{counts: make(map[string]int64)}
}

func (v *fakeViews) IncrementView(_ context.Context, profileID string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.counts[profileID]++
	return nil
}

func (v *fakeViews) Views(_ context.Context, profileID string) (int64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.counts[profileID], nil
}

// ── Fixture ──────────────────────────────────────────────────────────────────

type fixture struct {
	service *profile.Service
	repo    *fakeRepo
	tiers   *fakeTiers
	views   *fakeViews
}

func newFixture() *fixture {
	f := &fixture{
		repo:  newFakeRepo(),
		tiers: &fakeTiers{tiers: make(map[string]feature.Tier)},
		views: newFakeViews(),
	}
	f.service = profile.NewService(f.repo, f.tiers, f.views)
	return f
}

// seedProfile inserts a profile directly into the fake repository.
func (f *fixture) seedProfile(userID, slug string, public bool) *profile.Profile {
	page := &profile.Profile{
		ID:       uuid.New(),
		UserID:   userID,
		Slug:     slug,
		Title:    slug + "'s Links",
		IsPublic: public,
	}
	_ = f.repo.Create(context.Background(), page)
	return page
}

// ── Public Page ──────────────────────────────────────────────────────────────

/*
TestService_PublicPage verifies the public lookup: links and social accounts
ride along, views are counted, and private pages 404.
*/
func TestService_PublicPage(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	owner := uuid.New()
	page := f.seedProfile(owner, "jane_doe", true)
	_ = f.repo.CreateLink(ctx, &profile.Link{ID: uuid.New(), ProfileID: page.ID, Title: "Blog", URL: "https://blog.example.com", IsActive: true})
	_ = f.repo.CreateLink(ctx, &profile.Link{ID: uuid.New(), ProfileID: page.ID, Title: "Old", URL: "https://old.example.com", IsActive: false})

	t.Run("public page with active links only", func(t *testing.T) {
		result, err := f.service.PublicPage(ctx, "jane_doe")
		require.NoError(t, err)

		assert.Equal(t, page.ID, result.Profile.ID)
		require.Len(t, result.Links, 1)
		assert.Equal(t, "Blog", result.Links[0].Title)

		views, _ := f.views.Views(ctx, page.ID)
		assert.Equal(t, int64(1), views)
	})

	t.Run("unknown slug", func(t *testing.T) {
		_, err := f.service.PublicPage(ctx, "ghost")
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "NOT_FOUND", appError.Code)
	})

	t.Run("private page is indistinguishable from missing", func(t *testing.T) {
		f.seedProfile(owner, "secret_page", false)

		_, err := f.service.PublicPage(ctx, "secret_page")
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "NOT_FOUND", appError.Code)
	})
}

// ── Profile Creation ─────────────────────────────────────────────────────────

/*
TestService_Create verifies tier gating, slug derivation, and slug conflicts.
*/
func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("free tier is capped at one profile", func(t *testing.T) {
		f := newFixture()
		owner := uuid.New()
		f.seedProfile(owner, "first", true)

		_, err := f.service.Create(ctx, owner, profile.CreateInput{Title: "Second Page"})
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "PREMIUM_REQUIRED", appError.Code)
	})

	t.Run("pro tier can add profiles", func(t *testing.T) {
		f := newFixture()
		owner := uuid.New()
		f.tiers.tiers[owner] = feature.TierPro
		f.seedProfile(owner, "first", true)

		page, err := f.service.Create(ctx, owner, profile.CreateInput{Title: "My Music Page"})
		require.NoError(t, err)

		// Slug derived from the title
		assert.Equal(t, "my-music-page", page.Slug)
		assert.Equal(t, "default", page.Theme)
	})

	t.Run("slug conflict", func(t *testing.T) {
		f := newFixture()
		owner := uuid.New()
		f.tiers.tiers[owner] = feature.TierPro
		f.seedProfile(uuid.New(), "taken", true)

		_, err := f.service.Create(ctx, owner, profile.CreateInput{Title: "Whatever", Slug: "taken"})
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "CONFLICT", appError.Code)
		assert.Equal(t, "Slug is already taken", appError.Message)
	})

	t.Run("custom css requires entitlement", func(t *testing.T) {
		f := newFixture()
		owner := uuid.New()

		_, err := f.service.Create(ctx, owner, profile.CreateInput{
			Title:     "Styled",
			CustomCSS: "body { background: black; }",
		})
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "PREMIUM_REQUIRED", appError.Code)
	})
}

// ── Profile Update ───────────────────────────────────────────────────────────

/*
TestService_Update verifies ownership enforcement and the patch semantics.
*/
func TestService_Update(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	owner := uuid.New()
	page := f.seedProfile(owner, "jane_doe", true)

	t.Run("owner can patch fields", func(t *testing.T) {
		newTitle := "Updated Title"
		hidden := false

		updated, err := f.service.Update(ctx, owner, page.ID, profile.UpdateInput{
			Title:    &newTitle,
			IsPublic: &hidden,
		})
		require.NoError(t, err)
		assert.Equal(t, "Updated Title", updated.Title)
		assert.False(t, updated.IsPublic)
		// Untouched field survives
		assert.Equal(t, "jane_doe", updated.Slug)
	})

	t.Run("non-owner is rejected", func(t *testing.T) {
		title := "Hijacked"
		_, err := f.service.Update(ctx, uuid.New(), page.ID, profile.UpdateInput{Title: &title})

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "FORBIDDEN", appError.Code)
	})

	t.Run("custom css gate on update", func(t *testing.T) {
		css := ".page { color: red; }"
		_, err := f.service.Update(ctx, owner, page.ID, profile.UpdateInput{CustomCSS: &css})

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "PREMIUM_REQUIRED", appError.Code)
	})
}

// ── Links ────────────────────────────────────────────────────────────────────

/*
TestService_CreateLink verifies the link ceiling, ownership, and display order.
*/
func TestService_CreateLink(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	owner := uuid.New()
	page := f.seedProfile(owner, "jane_doe", true)

	t.Run("links append in display order", func(t *testing.T) {
		first, err := f.service.CreateLink(ctx, owner, page.ID, profile.LinkInput{
			Title: "Blog", URL: "https://blog.example.com",
		})
		require.NoError(t, err)
		assert.Equal(t, 0, first.DisplayOrder)
		assert.True(t, first.IsActive)

		second, err := f.service.CreateLink(ctx, owner, page.ID, profile.LinkInput{
			Title: "Shop", URL: "https://shop.example.com",
		})
		require.NoError(t, err)
		assert.Equal(t, 1, second.DisplayOrder)
	})

	t.Run("free tier link ceiling", func(t *testing.T) {
		limits := feature.ForTier(feature.TierFree)
		for len(f.repo.links[page.ID]) < limits.LinksLimit {
			_, err := f.service.CreateLink(ctx, owner, page.ID, profile.LinkInput{
				Title: "Filler", URL: "https://example.com",
			})
			require.NoError(t, err)
		}

		_, err := f.service.CreateLink(ctx, owner, page.ID, profile.LinkInput{
			Title: "One Too Many", URL: "https://example.com",
		})
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "PREMIUM_REQUIRED", appError.Code)
	})

	t.Run("non-owner cannot add links", func(t *testing.T) {
		_, err := f.service.CreateLink(ctx, uuid.New(), page.ID, profile.LinkInput{
			Title: "Spam", URL: "https://spam.example.com",
		})
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "FORBIDDEN", appError.Code)
	})
}

/*
TestService_ListLinks verifies the owner's paginated management view.
*/
func TestService_ListLinks(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	owner := uuid.New()
	f.tiers.tiers[owner] = feature.TierPro
	page := f.seedProfile(owner, "jane_doe", true)

	for i := 0; i < 15; i++ {
		_, err := f.service.CreateLink(ctx, owner, page.ID, profile.LinkInput{
			Title: "Link", URL: "https://example.com",
		})
		require.NoError(t, err)
	}

	links, meta, err := f.service.ListLinks(ctx, owner, page.ID, pagination.Params{Page: 2, Limit: 10})
	require.NoError(t, err)

	assert.Len(t, links, 5)
	assert.Equal(t, 15, meta.Total)
	assert.Equal(t, 2, meta.TotalPages)

	// Hidden links are included in the management view
	f.repo.mu.Lock()
	f.repo.links[page.ID][0].IsActive = false
	f.repo.mu.Unlock()

	_, meta, err = f.service.ListLinks(ctx, owner, page.ID, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 15, meta.Total)
}
