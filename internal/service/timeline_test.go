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

func TestTimelineService_MergesNewestFirst(t *testing.T) {
	s := newTestStore(t)
	svc := NewTimelineService(s, testLogger())
	ctx := context.Background()

	alice := ensureUser(t, s, "user-1", "alice")
	brewery := ensureBrewery(t, s, "旭鶴酒造")
	sake := ensureSake(t, s, brewery.ID, "旭鶴 純米")

	base := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	review := ensureReviewAt(t, s, alice.ID, sake.ID, 5, base)
	note := ensureNoteAt(t, s, alice.ID, brewery.ID, "蔵の方が気さくだった", base.Add(time.Second))

	page, err := svc.List(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Nil(t, page.NextCursor)

	assert.Equal(t, domain.TimelineItemBreweryNote, page.Items[0].Type)
	assert.Equal(t, note.ID, page.Items[0].ID)
	assert.Equal(t, "蔵の方が気さくだった", page.Items[0].Content)

	assert.Equal(t, domain.TimelineItemReview, page.Items[1].Type)
	assert.Equal(t, review.ID, page.Items[1].ID)
	assert.Equal(t, "旭鶴 純米", page.Items[1].SakeName)
	assert.Equal(t, 5, page.Items[1].Rating)
	assert.Equal(t, "旭鶴酒造", page.Items[1].BreweryName)
}

func TestTimelineService_PagesConcatenate(t *testing.T) {
	s := newTestStore(t)
	svc := NewTimelineService(s, testLogger())
	ctx := context.Background()

	alice := ensureUser(t, s, "user-1", "alice")
	brewery := ensureBrewery(t, s, "旭鶴酒造")
	sake := ensureSake(t, s, brewery.ID, "旭鶴 純米")

	// Interleave the two streams at distinct timestamps.
	base := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		ensureReviewAt(t, s, alice.ID, sake.ID, 3, base.Add(time.Duration(2*i)*time.Second))
		ensureNoteAt(t, s, alice.ID, brewery.ID, "note", base.Add(time.Duration(2*i+1)*time.Second))
	}

	// Walking with limit=1 must reproduce the limit=6 page exactly.
	full, err := svc.List(ctx, "", 6)
	require.NoError(t, err)
	require.Len(t, full.Items, 6)

	var walked []domain.TimelineItem
	cursor := ""
	for {
		page, err := svc.List(ctx, cursor, 1)
		require.NoError(t, err)
		walked = append(walked, page.Items...)
		if page.NextCursor == nil {
			break
		}
		cursor = *page.NextCursor
	}

	require.Len(t, walked, 6)
	for i := range full.Items {
		assert.Equal(t, full.Items[i].Type, walked[i].Type, "item %d type", i)
		assert.Equal(t, full.Items[i].ID, walked[i].ID, "item %d id", i)
	}
}

func TestTimelineService_CursorExcludesBoundary(t *testing.T) {
	s := newTestStore(t)
	svc := NewTimelineService(s, testLogger())
	ctx := context.Background()

	alice := ensureUser(t, s, "user-1", "alice")
	brewery := ensureBrewery(t, s, "旭鶴酒造")
	sake := ensureSake(t, s, brewery.ID, "旭鶴 純米")

	base := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	ensureReviewAt(t, s, alice.ID, sake.ID, 4, base)
	ensureNoteAt(t, s, alice.ID, brewery.ID, "note", base.Add(time.Second))
	ensureReviewAt(t, s, alice.ID, sake.ID, 5, base.Add(2*time.Second))

	first, err := svc.List(ctx, "", 2)
	require.NoError(t, err)
	require.Len(t, first.Items, 2)
	require.NotNil(t, first.NextCursor)

	second, err := svc.List(ctx, *first.NextCursor, 2)
	require.NoError(t, err)
	require.Len(t, second.Items, 1)
	assert.Nil(t, second.NextCursor)

	// No overlap across the boundary.
	assert.NotEqual(t, first.Items[1].ID, second.Items[0].ID)
	assert.True(t, second.Items[0].CreatedAt.Before(first.Items[1].CreatedAt))
}

func TestTimelineService_InvalidCursor(t *testing.T) {
	s := newTestStore(t)
	svc := NewTimelineService(s, testLogger())

	_, err := svc.List(context.Background(), "yesterday", 10)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation), "got %v", err)
}

func TestTimelineService_DeterministicTieBreak(t *testing.T) {
	s := newTestStore(t)
	svc := NewTimelineService(s, testLogger())
	ctx := context.Background()

	alice := ensureUser(t, s, "user-1", "alice")
	brewery := ensureBrewery(t, s, "旭鶴酒造")
	sake := ensureSake(t, s, brewery.ID, "旭鶴 純米")

	// A review and a note sharing a timestamp must order the same way
	// on every call.
	at := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	ensureReviewAt(t, s, alice.ID, sake.ID, 4, at)
	ensureNoteAt(t, s, alice.ID, brewery.ID, "note", at)

	first, err := svc.List(ctx, "", 10)
	require.NoError(t, err)
	second, err := svc.List(ctx, "", 10)
	require.NoError(t, err)

	require.Len(t, first.Items, 2)
	assert.Equal(t, first.Items[0].Type, second.Items[0].Type)
	assert.Equal(t, first.Items[0].ID, second.Items[0].ID)
}
