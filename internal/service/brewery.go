package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sakenavi/sakenavi-server/internal/domain"
	apperrors "github.com/sakenavi/sakenavi-server/internal/errors"
	"github.com/sakenavi/sakenavi-server/internal/store"
)

// BreweryService serves the venue map and brewery detail views.
type BreweryService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewBreweryService creates a new brewery service.
func NewBreweryService(store *store.Store, logger *slog.Logger) *BreweryService {
	return &BreweryService{
		store:  store,
		logger: logger,
	}
}

// List returns all breweries with their rolled-up average rating.
// viewerID marks breweries the viewer has already reviewed; it may be
// empty for anonymous map views.
func (s *BreweryService) List(ctx context.Context, viewerID string) ([]*store.BreweryListing, error) {
	listings, err := s.store.ListBreweries(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("list breweries: %w", err)
	}
	return listings, nil
}

// BreweryDetail is a brewery with its exhibited sakes.
type BreweryDetail struct {
	Brewery *domain.Brewery
	Sakes   []*store.BrewerySakeListing
}

// Get returns a brewery and its sakes with per-sake average ratings.
func (s *BreweryService) Get(ctx context.Context, breweryID int64) (*BreweryDetail, error) {
	brewery, err := s.getBrewery(ctx, breweryID)
	if err != nil {
		return nil, err
	}

	sakes, err := s.store.ListBrewerySakes(ctx, breweryID)
	if err != nil {
		return nil, fmt.Errorf("list brewery sakes: %w", err)
	}

	return &BreweryDetail{Brewery: brewery, Sakes: sakes}, nil
}

// AddCustomSakeInput is the user-supplied shape of a custom sake.
type AddCustomSakeInput struct {
	Name             string
	Type             *string
	Category         string
	IsLimited        bool
	PaidTastingPrice *int
}

// AddCustomSake registers a user-contributed sake under a brewery.
func (s *BreweryService) AddCustomSake(ctx context.Context, userID string, breweryID int64, input AddCustomSakeInput) (*domain.Sake, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.Validation("お酒の名前を入力してください")
	}

	category := domain.CategorySeishu
	if input.Category != "" {
		category = domain.Category(input.Category)
		if !category.Valid() {
			return nil, apperrors.Validationf("無効なカテゴリです: %s", input.Category)
		}
	}
	if input.PaidTastingPrice != nil && *input.PaidTastingPrice <= 0 {
		return nil, apperrors.Validation("有料試飲の価格は正の整数で指定してください")
	}

	if _, err := s.getBrewery(ctx, breweryID); err != nil {
		return nil, err
	}

	sake := &domain.Sake{
		BreweryID:        breweryID,
		Name:             name,
		Type:             input.Type,
		Category:         category,
		IsLimited:        input.IsLimited,
		IsCustom:         true,
		PaidTastingPrice: input.PaidTastingPrice,
		AddedBy:          &userID,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.store.CreateSake(ctx, sake); err != nil {
		return nil, fmt.Errorf("create sake: %w", err)
	}

	s.logger.Info("custom sake added",
		"sake_id", sake.ID,
		"brewery_id", breweryID,
		"added_by", userID,
	)
	return sake, nil
}

func (s *BreweryService) getBrewery(ctx context.Context, breweryID int64) (*domain.Brewery, error) {
	brewery, err := s.store.GetBrewery(ctx, breweryID)
	if err != nil {
		if apperrors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("酒蔵が見つかりません")
		}
		return nil, fmt.Errorf("get brewery: %w", err)
	}
	return brewery, nil
}
