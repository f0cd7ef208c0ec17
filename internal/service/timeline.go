package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/sakenavi/sakenavi-server/internal/domain"
	"github.com/sakenavi/sakenavi-server/internal/store"
)

const timelineDefaultLimit = 20

// TimelineService merges reviews and brewery notes into one activity feed.
type TimelineService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewTimelineService creates a new timeline service.
func NewTimelineService(store *store.Store, logger *slog.Logger) *TimelineService {
	return &TimelineService{
		store:  store,
		logger: logger,
	}
}

// TimelinePage is one page of the merged feed.
type TimelinePage struct {
	Items      []domain.TimelineItem
	NextCursor *string
}

// List returns the newest activity across both streams. Both streams
// are fetched past the same cursor, merged newest first, and cut to
// limit; the cursor is the created-at of the last returned item.
func (s *TimelineService) List(ctx context.Context, cursor string, limit int) (*TimelinePage, error) {
	if cursor != "" {
		var err error
		if cursor, err = parseCursorTime(cursor); err != nil {
			return nil, err
		}
	}
	limit = clampLimit(limit, timelineDefaultLimit)

	// Each stream alone could fill the page, so both fetch limit+1.
	reviews, err := s.store.ListReviewFeed(ctx, cursor, limit+1)
	if err != nil {
		return nil, fmt.Errorf("review feed: %w", err)
	}
	notes, err := s.store.ListNoteFeed(ctx, cursor, limit+1)
	if err != nil {
		return nil, fmt.Errorf("note feed: %w", err)
	}

	items := mergeFeeds(reviews, notes)

	page := &TimelinePage{Items: items}
	if len(items) > limit {
		page.Items = items[:limit]
		next := store.FormatTime(page.Items[limit-1].CreatedAt)
		page.NextCursor = &next
	}
	return page, nil
}

// mergeFeeds concatenates both streams and orders them newest first.
// Ordering compares storage-format timestamps so it agrees exactly with
// the per-stream SQL ordering; ties break on type then id so a page
// boundary lands identically on every call.
func mergeFeeds(reviews []*store.ReviewFeedRow, notes []*store.NoteFeedRow) []domain.TimelineItem {
	items := make([]domain.TimelineItem, 0, len(reviews)+len(notes))

	for _, r := range reviews {
		item := domain.TimelineItem{
			Type:             domain.TimelineItemReview,
			ID:               r.ReviewID,
			UserName:         r.UserName,
			CreatedAt:        r.CreatedAt,
			BreweryID:        r.BreweryID,
			BreweryName:      r.BreweryName,
			SakeID:           r.SakeID,
			SakeName:         r.SakeName,
			Rating:           r.Rating,
			Tags:             r.Tags,
			IsLimited:        r.IsLimited,
			PaidTastingPrice: r.PaidTastingPrice,
		}
		if r.Comment != nil {
			item.Comment = *r.Comment
		}
		items = append(items, item)
	}
	for _, n := range notes {
		items = append(items, domain.TimelineItem{
			Type:        domain.TimelineItemBreweryNote,
			ID:          n.NoteID,
			UserName:    n.UserName,
			CreatedAt:   n.CreatedAt,
			BreweryID:   n.BreweryID,
			BreweryName: n.BreweryName,
			Content:     n.Comment,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		a, b := store.FormatTime(items[i].CreatedAt), store.FormatTime(items[j].CreatedAt)
		if a != b {
			return a > b
		}
		if items[i].Type != items[j].Type {
			return items[i].Type < items[j].Type
		}
		return items[i].ID > items[j].ID
	})
	return items
}
