package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/sakenavi/sakenavi-server/internal/domain"
	apperrors "github.com/sakenavi/sakenavi-server/internal/errors"
	"github.com/sakenavi/sakenavi-server/internal/store"
)

const (
	sakeSearchDefaultLimit = 30
	searchMaxLimit         = 100
)

// SakeService serves sake detail, edits, and the catalog search.
type SakeService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewSakeService creates a new sake service.
func NewSakeService(store *store.Store, logger *slog.Logger) *SakeService {
	return &SakeService{
		store:  store,
		logger: logger,
	}
}

// SakeDetail is a sake with its reviews and average rating.
type SakeDetail struct {
	Sake          *domain.Sake
	AverageRating *float64
	Reviews       []*store.ReviewListing
}

// Get returns a sake, its reviews newest first, and the average rating.
func (s *SakeService) Get(ctx context.Context, sakeID int64) (*SakeDetail, error) {
	sake, err := s.getSake(ctx, sakeID)
	if err != nil {
		return nil, err
	}

	reviews, err := s.store.ListSakeReviews(ctx, sakeID)
	if err != nil {
		return nil, fmt.Errorf("list sake reviews: %w", err)
	}
	avg, err := s.store.SakeAverageRating(ctx, sakeID)
	if err != nil {
		return nil, fmt.Errorf("average rating: %w", err)
	}

	return &SakeDetail{Sake: sake, AverageRating: avg, Reviews: reviews}, nil
}

// UpdateSakeInput is the editable shape of a custom sake.
type UpdateSakeInput struct {
	Name             string
	Type             *string
	Category         string
	IsLimited        bool
	PaidTastingPrice *int
}

// Update edits a sake. Only user-contributed (custom) sakes are
// editable; catalog rows are immutable through the API.
func (s *SakeService) Update(ctx context.Context, sakeID int64, input UpdateSakeInput) (*domain.Sake, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.Validation("お酒の名前を入力してください")
	}
	category := domain.Category(input.Category)
	if !category.Valid() {
		return nil, apperrors.Validationf("無効なカテゴリです: %s", input.Category)
	}
	if input.PaidTastingPrice != nil && *input.PaidTastingPrice <= 0 {
		return nil, apperrors.Validation("有料試飲の価格は正の整数で指定してください")
	}

	sake, err := s.getSake(ctx, sakeID)
	if err != nil {
		return nil, err
	}
	if !sake.Editable() {
		return nil, apperrors.Forbidden("このお酒は編集できません")
	}

	sake.Name = name
	sake.Type = input.Type
	sake.Category = category
	sake.IsLimited = input.IsLimited
	sake.PaidTastingPrice = input.PaidTastingPrice

	if err := s.store.UpdateSake(ctx, sake); err != nil {
		return nil, fmt.Errorf("update sake: %w", err)
	}

	s.logger.Info("sake updated", "sake_id", sakeID)
	return sake, nil
}

// SearchSakesInput filters the catalog search.
type SearchSakesInput struct {
	Query           string
	Category        string
	LimitedOnly     bool
	PaidTastingOnly bool
	Cursor          string
	Limit           int
}

// SakeSearchPage is one page of catalog search results.
type SakeSearchPage struct {
	Items      []*store.SakeSearchRow
	NextCursor *string
}

// Search pages through the catalog ordered by sake id. The cursor is
// the id of the last item of the previous page.
func (s *SakeService) Search(ctx context.Context, input SearchSakesInput) (*SakeSearchPage, error) {
	if input.Category != "" && !domain.Category(input.Category).Valid() {
		return nil, apperrors.Validationf("無効なカテゴリです: %s", input.Category)
	}

	var afterID int64
	if input.Cursor != "" {
		var err error
		afterID, err = strconv.ParseInt(input.Cursor, 10, 64)
		if err != nil || afterID < 0 {
			return nil, apperrors.Validation("無効なカーソルです")
		}
	}
	limit := clampLimit(input.Limit, sakeSearchDefaultLimit)

	// One row past the page tells us whether a next page exists.
	rows, err := s.store.SearchSakes(ctx, store.SakeSearchParams{
		Query:           input.Query,
		Category:        domain.Category(input.Category),
		LimitedOnly:     input.LimitedOnly,
		PaidTastingOnly: input.PaidTastingOnly,
		AfterID:         afterID,
		Limit:           limit + 1,
	})
	if err != nil {
		return nil, fmt.Errorf("search sakes: %w", err)
	}

	page := &SakeSearchPage{Items: rows}
	if len(rows) > limit {
		page.Items = rows[:limit]
		cursor := strconv.FormatInt(page.Items[limit-1].ID, 10)
		page.NextCursor = &cursor
	}
	return page, nil
}

func (s *SakeService) getSake(ctx context.Context, sakeID int64) (*domain.Sake, error) {
	sake, err := s.store.GetSake(ctx, sakeID)
	if err != nil {
		if apperrors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("お酒が見つかりません")
		}
		return nil, fmt.Errorf("get sake: %w", err)
	}
	return sake, nil
}

// clampLimit applies the default and the shared upper bound.
func clampLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	if limit > searchMaxLimit {
		return searchMaxLimit
	}
	return limit
}

// parseCursorTime validates a created-at cursor against the storage
// time format and returns it unchanged.
func parseCursorTime(cursor string) (string, error) {
	if _, err := store.ParseTime(cursor); err != nil {
		return "", apperrors.Validation("無効なカーソルです")
	}
	return cursor, nil
}
