package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/sakenavi/sakenavi-server/internal/domain"
	apperrors "github.com/sakenavi/sakenavi-server/internal/errors"
	"github.com/sakenavi/sakenavi-server/internal/notify"
	"github.com/sakenavi/sakenavi-server/internal/store"
)

const reviewSearchDefaultLimit = 20

// ReviewService manages sake reviews and the review search index.
type ReviewService struct {
	store    *store.Store
	logger   *slog.Logger
	notifier notify.Notifier
}

// NewReviewService creates a new review service.
func NewReviewService(store *store.Store, logger *slog.Logger, notifier notify.Notifier) *ReviewService {
	return &ReviewService{
		store:    store,
		logger:   logger,
		notifier: notifier,
	}
}

// CreateReviewInput is the user-supplied shape of a review.
type CreateReviewInput struct {
	Rating  int
	Tags    []string
	Comment *string
}

// Create posts a review for a sake and announces it after the insert
// commits.
func (s *ReviewService) Create(ctx context.Context, userID string, sakeID int64, input CreateReviewInput) (*domain.Review, error) {
	if err := validateReviewInput(input); err != nil {
		return nil, err
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if apperrors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("ユーザーが見つかりません")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	sake, err := s.store.GetSake(ctx, sakeID)
	if err != nil {
		if apperrors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("お酒が見つかりません")
		}
		return nil, fmt.Errorf("get sake: %w", err)
	}
	brewery, err := s.store.GetBrewery(ctx, sake.BreweryID)
	if err != nil {
		return nil, fmt.Errorf("get brewery: %w", err)
	}

	review := &domain.Review{
		UserID:    userID,
		SakeID:    sakeID,
		Rating:    input.Rating,
		Tags:      input.Tags,
		Comment:   normalizeComment(input.Comment),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateReview(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	s.logger.Info("review posted",
		"review_id", review.ID,
		"sake_id", sakeID,
		"user_id", userID,
		"rating", input.Rating,
	)

	go s.notifier.ReviewPosted(notify.ReviewEvent{
		UserName:    user.Name,
		BreweryID:   brewery.ID,
		BreweryName: brewery.Name,
		SakeName:    sake.Name,
		Rating:      review.Rating,
		Tags:        review.Tags,
		Comment:     review.Comment,
	})

	return review, nil
}

// Update edits a review. Only the author may edit.
func (s *ReviewService) Update(ctx context.Context, userID string, reviewID int64, input CreateReviewInput) (*domain.Review, error) {
	if err := validateReviewInput(input); err != nil {
		return nil, err
	}

	review, err := s.getOwnedReview(ctx, userID, reviewID)
	if err != nil {
		return nil, err
	}

	review.Rating = input.Rating
	review.Tags = input.Tags
	review.Comment = normalizeComment(input.Comment)

	if err := s.store.UpdateReview(ctx, review); err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}
	return review, nil
}

// Delete removes a review. Only the author may delete.
func (s *ReviewService) Delete(ctx context.Context, userID string, reviewID int64) error {
	if _, err := s.getOwnedReview(ctx, userID, reviewID); err != nil {
		return err
	}
	if err := s.store.DeleteReview(ctx, reviewID); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	return nil
}

// SearchReviewsInput filters the review search.
type SearchReviewsInput struct {
	Sort   string
	Tags   []string
	UserID string
	Cursor string
	Limit  int
}

// ReviewSearchPage is one page of review search results.
type ReviewSearchPage struct {
	Items      []*store.ReviewSearchRow
	NextCursor *string
}

// Search pages through reviews. sort=latest orders by recency with a
// created-at cursor; sort=rating orders by rating then recency with a
// composite "rating|createdAt" cursor.
func (s *ReviewService) Search(ctx context.Context, input SearchReviewsInput) (*ReviewSearchPage, error) {
	sort := input.Sort
	if sort == "" {
		sort = store.ReviewSortLatest
	}
	if sort != store.ReviewSortLatest && sort != store.ReviewSortRating {
		return nil, apperrors.Validation(`sortは"rating"または"latest"を指定してください`)
	}
	if invalid := domain.InvalidTags(input.Tags); len(invalid) > 0 {
		return nil, apperrors.Validationf("無効なタグが含まれています: %s", strings.Join(invalid, ", "))
	}

	params := store.ReviewSearchParams{
		Tags:   input.Tags,
		UserID: input.UserID,
		Sort:   sort,
	}
	if input.Cursor != "" {
		var err error
		params.AfterRating, params.AfterCreatedAt, err = decodeReviewCursor(sort, input.Cursor)
		if err != nil {
			return nil, err
		}
	}
	limit := clampLimit(input.Limit, reviewSearchDefaultLimit)
	params.Limit = limit + 1

	rows, err := s.store.SearchReviews(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("search reviews: %w", err)
	}

	page := &ReviewSearchPage{Items: rows}
	if len(rows) > limit {
		page.Items = rows[:limit]
		last := page.Items[limit-1]
		cursor := encodeReviewCursor(sort, last.Rating, last.CreatedAt)
		page.NextCursor = &cursor
	}
	return page, nil
}

func (s *ReviewService) getOwnedReview(ctx context.Context, userID string, reviewID int64) (*domain.Review, error) {
	review, err := s.store.GetReview(ctx, reviewID)
	if err != nil {
		if apperrors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("レビューが見つかりません")
		}
		return nil, fmt.Errorf("get review: %w", err)
	}
	if review.UserID != userID {
		return nil, apperrors.Forbidden("この操作を行う権限がありません")
	}
	return review, nil
}

func validateReviewInput(input CreateReviewInput) error {
	if input.Rating < domain.MinRating || input.Rating > domain.MaxRating {
		return apperrors.Validation("評価は1-5の範囲で指定してください")
	}
	if invalid := domain.InvalidTags(input.Tags); len(invalid) > 0 {
		return apperrors.Validationf("無効なタグが含まれています: %s", strings.Join(invalid, ", "))
	}
	return nil
}

// normalizeComment trims the comment and maps empty to absent.
func normalizeComment(comment *string) *string {
	if comment == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*comment)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// encodeReviewCursor builds the continuation token for a sort order.
func encodeReviewCursor(sort string, rating int, createdAt time.Time) string {
	formatted := store.FormatTime(createdAt)
	if sort == store.ReviewSortRating {
		return strconv.Itoa(rating) + "|" + formatted
	}
	return formatted
}

func decodeReviewCursor(sort, cursor string) (rating int, createdAt string, err error) {
	if sort == store.ReviewSortRating {
		ratingPart, timePart, found := strings.Cut(cursor, "|")
		if !found {
			return 0, "", apperrors.Validation("無効なカーソルです")
		}
		rating, err = strconv.Atoi(ratingPart)
		if err != nil || rating < domain.MinRating || rating > domain.MaxRating {
			return 0, "", apperrors.Validation("無効なカーソルです")
		}
		createdAt, err = parseCursorTime(timePart)
		if err != nil {
			return 0, "", err
		}
		return rating, createdAt, nil
	}

	createdAt, err = parseCursorTime(cursor)
	if err != nil {
		return 0, "", err
	}
	return 0, createdAt, nil
}
