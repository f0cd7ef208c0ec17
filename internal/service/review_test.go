package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/sakenavi/sakenavi-server/internal/errors"
)

func TestReviewService_Create(t *testing.T) {
	s := newTestStore(t)
	notifier := newCaptureNotifier()
	svc := NewReviewService(s, testLogger(), notifier)
	ctx := context.Background()

	alice := ensureUser(t, s, "user-1", "alice")
	brewery := ensureBrewery(t, s, "旭鶴酒造")
	sake := ensureSake(t, s, brewery.ID, "旭鶴 純米")

	comment := "ふくよかで旨い"
	review, err := svc.Create(ctx, alice.ID, sake.ID, CreateReviewInput{
		Rating:  4,
		Tags:    []string{"甘口"},
		Comment: &comment,
	})
	require.NoError(t, err)
	assert.NotZero(t, review.ID)

	select {
	case event := <-notifier.reviews:
		assert.Equal(t, "alice", event.UserName)
		assert.Equal(t, "旭鶴酒造", event.BreweryName)
		assert.Equal(t, "旭鶴 純米", event.SakeName)
		assert.Equal(t, 4, event.Rating)
	case <-time.After(time.Second):
		t.Fatal("expected a review notification")
	}
}

func TestReviewService_Create_Validation(t *testing.T) {
	s := newTestStore(t)
	svc := NewReviewService(s, testLogger(), newCaptureNotifier())
	ctx := context.Background()

	alice := ensureUser(t, s, "user-1", "alice")
	brewery := ensureBrewery(t, s, "旭鶴酒造")
	sake := ensureSake(t, s, brewery.ID, "旭鶴 純米")

	tests := []struct {
		name  string
		input CreateReviewInput
	}{
		{"rating too low", CreateReviewInput{Rating: 0}},
		{"rating too high", CreateReviewInput{Rating: 6}},
		{"unknown tag", CreateReviewInput{Rating: 3, Tags: []string{"激辛"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, alice.ID, sake.ID, tt.input)
			assert.True(t, apperrors.Is(err, apperrors.ErrValidation), "got %v", err)
		})
	}

	_, err := svc.Create(ctx, "ghost", sake.ID, CreateReviewInput{Rating: 3})
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound), "unknown user: got %v", err)

	_, err = svc.Create(ctx, alice.ID, 999, CreateReviewInput{Rating: 3})
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound), "unknown sake: got %v", err)
}

func TestReviewService_AuthorOnlyMutation(t *testing.T) {
	s := newTestStore(t)
	svc := NewReviewService(s, testLogger(), newCaptureNotifier())
	ctx := context.Background()

	alice := ensureUser(t, s, "user-1", "alice")
	bob := ensureUser(t, s, "user-2", "bob")
	brewery := ensureBrewery(t, s, "旭鶴酒造")
	sake := ensureSake(t, s, brewery.ID, "旭鶴 純米")
	review := ensureReviewAt(t, s, alice.ID, sake.ID, 5, time.Now().UTC())

	_, err := svc.Update(ctx, bob.ID, review.ID, CreateReviewInput{Rating: 1})
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden), "got %v", err)

	err = svc.Delete(ctx, bob.ID, review.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden), "got %v", err)

	updated, err := svc.Update(ctx, alice.ID, review.ID, CreateReviewInput{
		Rating: 2,
		Tags:   []string{"辛口"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Rating)

	require.NoError(t, svc.Delete(ctx, alice.ID, review.ID))
	err = svc.Delete(ctx, alice.ID, review.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound), "got %v", err)
}

func TestReviewService_Search_RatingCursor(t *testing.T) {
	s := newTestStore(t)
	svc := NewReviewService(s, testLogger(), newCaptureNotifier())
	ctx := context.Background()

	alice := ensureUser(t, s, "user-1", "alice")
	brewery := ensureBrewery(t, s, "旭鶴酒造")
	sake := ensureSake(t, s, brewery.ID, "旭鶴 純米")

	base := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	ensureReviewAt(t, s, alice.ID, sake.ID, 5, base)
	ensureReviewAt(t, s, alice.ID, sake.ID, 5, base.Add(time.Second))
	ensureReviewAt(t, s, alice.ID, sake.ID, 3, base.Add(2*time.Second))

	page, err := svc.Search(ctx, SearchReviewsInput{Sort: "rating", Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	require.NotNil(t, page.NextCursor)
	assert.Equal(t, 5, page.Items[0].Rating)
	assert.Equal(t, 5, page.Items[1].Rating)

	page, err = svc.Search(ctx, SearchReviewsInput{
		Sort:   "rating",
		Cursor: *page.NextCursor,
		Limit:  2,
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 3, page.Items[0].Rating)
	assert.Nil(t, page.NextCursor)
}

func TestReviewService_Search_InvalidInputs(t *testing.T) {
	s := newTestStore(t)
	svc := NewReviewService(s, testLogger(), newCaptureNotifier())
	ctx := context.Background()

	_, err := svc.Search(ctx, SearchReviewsInput{Sort: "oldest"})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation), "bad sort: got %v", err)

	_, err = svc.Search(ctx, SearchReviewsInput{Cursor: "not-a-timestamp"})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation), "bad cursor: got %v", err)

	_, err = svc.Search(ctx, SearchReviewsInput{Sort: "rating", Cursor: "9|2026-06-01 10:00:00.000"})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation), "bad rating cursor: got %v", err)
}

func TestReviewService_Search_LimitClamp(t *testing.T) {
	s := newTestStore(t)
	svc := NewReviewService(s, testLogger(), newCaptureNotifier())
	ctx := context.Background()

	alice := ensureUser(t, s, "user-1", "alice")
	brewery := ensureBrewery(t, s, "旭鶴酒造")
	sake := ensureSake(t, s, brewery.ID, "旭鶴 純米")

	base := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < reviewSearchDefaultLimit+5; i++ {
		ensureReviewAt(t, s, alice.ID, sake.ID, 3, base.Add(time.Duration(i)*time.Second))
	}

	page, err := svc.Search(ctx, SearchReviewsInput{})
	require.NoError(t, err)
	assert.Len(t, page.Items, reviewSearchDefaultLimit)
	assert.NotNil(t, page.NextCursor)
}
