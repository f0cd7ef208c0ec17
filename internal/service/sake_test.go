package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakenavi/sakenavi-server/internal/domain"
	apperrors "github.com/sakenavi/sakenavi-server/internal/errors"
)

func TestSakeService_Get(t *testing.T) {
	s := newTestStore(t)
	svc := NewSakeService(s, testLogger())
	ctx := context.Background()

	alice := ensureUser(t, s, "user-1", "alice")
	bob := ensureUser(t, s, "user-2", "bob")
	brewery := ensureBrewery(t, s, "旭鶴酒造")
	sake := ensureSake(t, s, brewery.ID, "旭鶴 純米")

	now := time.Now().UTC()
	ensureReviewAt(t, s, alice.ID, sake.ID, 5, now)
	ensureReviewAt(t, s, bob.ID, sake.ID, 4, now.Add(time.Second))

	detail, err := svc.Get(ctx, sake.ID)
	require.NoError(t, err)
	assert.Equal(t, sake.ID, detail.Sake.ID)
	require.NotNil(t, detail.AverageRating)
	assert.Equal(t, 4.5, *detail.AverageRating)
	require.Len(t, detail.Reviews, 2)
	assert.Equal(t, "bob", detail.Reviews[0].UserName, "newest first")

	_, err = svc.Get(ctx, 999)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound), "got %v", err)
}

func TestSakeService_Update_CustomOnly(t *testing.T) {
	s := newTestStore(t)
	svc := NewSakeService(s, testLogger())
	breweries := NewBreweryService(s, testLogger())
	ctx := context.Background()

	alice := ensureUser(t, s, "user-1", "alice")
	brewery := ensureBrewery(t, s, "旭鶴酒造")
	catalog := ensureSake(t, s, brewery.ID, "旭鶴 純米")

	custom, err := breweries.AddCustomSake(ctx, alice.ID, brewery.ID, AddCustomSakeInput{
		Name: "持ち込みの酒",
	})
	require.NoError(t, err)
	assert.True(t, custom.IsCustom)

	// Catalog rows are immutable through the API.
	_, err = svc.Update(ctx, catalog.ID, UpdateSakeInput{Name: "改名", Category: "清酒"})
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden), "got %v", err)

	updated, err := svc.Update(ctx, custom.ID, UpdateSakeInput{
		Name:      "改名した酒",
		Category:  "リキュール",
		IsLimited: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "改名した酒", updated.Name)
	assert.Equal(t, domain.CategoryLiqueur, updated.Category)
	assert.True(t, updated.IsLimited)
}

func TestSakeService_Update_Validation(t *testing.T) {
	s := newTestStore(t)
	svc := NewSakeService(s, testLogger())
	ctx := context.Background()

	brewery := ensureBrewery(t, s, "旭鶴酒造")
	sake := ensureSake(t, s, brewery.ID, "旭鶴 純米")

	_, err := svc.Update(ctx, sake.ID, UpdateSakeInput{Name: "  ", Category: "清酒"})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation), "empty name: got %v", err)

	_, err = svc.Update(ctx, sake.ID, UpdateSakeInput{Name: "x", Category: "ワイン"})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation), "bad category: got %v", err)

	price := 0
	_, err = svc.Update(ctx, sake.ID, UpdateSakeInput{Name: "x", Category: "清酒", PaidTastingPrice: &price})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation), "bad price: got %v", err)
}

func TestSakeService_Search_Pages(t *testing.T) {
	s := newTestStore(t)
	svc := NewSakeService(s, testLogger())
	ctx := context.Background()

	brewery := ensureBrewery(t, s, "旭鶴酒造")
	var ids []int64
	for _, name := range []string{"一", "二", "三"} {
		ids = append(ids, ensureSake(t, s, brewery.ID, "銘柄"+name).ID)
	}

	page, err := svc.Search(ctx, SearchSakesInput{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	require.NotNil(t, page.NextCursor)
	assert.Equal(t, ids[0], page.Items[0].ID)

	page, err = svc.Search(ctx, SearchSakesInput{Cursor: *page.NextCursor, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, ids[2], page.Items[0].ID)
	assert.Nil(t, page.NextCursor)

	_, err = svc.Search(ctx, SearchSakesInput{Cursor: "abc"})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation), "bad cursor: got %v", err)
}

func TestBreweryService_ListAndDetail(t *testing.T) {
	s := newTestStore(t)
	svc := NewBreweryService(s, testLogger())
	ctx := context.Background()

	alice := ensureUser(t, s, "user-1", "alice")
	brewery := ensureBrewery(t, s, "旭鶴酒造")
	sake := ensureSake(t, s, brewery.ID, "旭鶴 純米")
	ensureReviewAt(t, s, alice.ID, sake.ID, 4, time.Now().UTC())

	listings, err := svc.List(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	require.NotNil(t, listings[0].AverageRating)
	assert.Equal(t, 4.0, *listings[0].AverageRating)
	assert.True(t, listings[0].HasMyReview)

	detail, err := svc.Get(ctx, brewery.ID)
	require.NoError(t, err)
	assert.Equal(t, brewery.ID, detail.Brewery.ID)
	require.Len(t, detail.Sakes, 1)
	require.NotNil(t, detail.Sakes[0].AverageRating)

	_, err = svc.Get(ctx, 999)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound), "got %v", err)
}

func TestAverageRatingFollowsReviewLifecycle(t *testing.T) {
	s := newTestStore(t)
	sakes := NewSakeService(s, testLogger())
	reviews := NewReviewService(s, testLogger(), newCaptureNotifier())
	ctx := context.Background()

	alice := ensureUser(t, s, "user-1", "alice")
	bob := ensureUser(t, s, "user-2", "bob")
	brewery := ensureBrewery(t, s, "旭鶴酒造")
	sake := ensureSake(t, s, brewery.ID, "旭鶴 純米")

	avg := func() *float64 {
		detail, err := sakes.Get(ctx, sake.ID)
		require.NoError(t, err)
		return detail.AverageRating
	}

	// No reviews: average is absent, not zero.
	assert.Nil(t, avg())

	_, err := reviews.Create(ctx, alice.ID, sake.ID, CreateReviewInput{Rating: 5})
	require.NoError(t, err)
	require.NotNil(t, avg())
	assert.Equal(t, 5.0, *avg())

	bobReview, err := reviews.Create(ctx, bob.ID, sake.ID, CreateReviewInput{Rating: 3})
	require.NoError(t, err)
	assert.Equal(t, 4.0, *avg())

	require.NoError(t, reviews.Delete(ctx, bob.ID, bobReview.ID))
	assert.Equal(t, 5.0, *avg())
}
