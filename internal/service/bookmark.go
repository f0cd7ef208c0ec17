package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sakenavi/sakenavi-server/internal/domain"
	apperrors "github.com/sakenavi/sakenavi-server/internal/errors"
	"github.com/sakenavi/sakenavi-server/internal/store"
)

// BookmarkService manages per-user sake bookmarks.
type BookmarkService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewBookmarkService creates a new bookmark service.
func NewBookmarkService(store *store.Store, logger *slog.Logger) *BookmarkService {
	return &BookmarkService{
		store:  store,
		logger: logger,
	}
}

// List returns the user's bookmarks with sake and brewery display fields.
func (s *BookmarkService) List(ctx context.Context, userID string) ([]*store.BookmarkListing, error) {
	listings, err := s.store.ListBookmarks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	return listings, nil
}

// Add bookmarks a sake for the user. A second add of the same sake is
// a conflict, never a duplicate.
func (s *BookmarkService) Add(ctx context.Context, userID string, sakeID int64) (*domain.Bookmark, error) {
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		if apperrors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("ユーザーが見つかりません")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if _, err := s.store.GetSake(ctx, sakeID); err != nil {
		if apperrors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("お酒が見つかりません")
		}
		return nil, fmt.Errorf("get sake: %w", err)
	}

	bookmark := &domain.Bookmark{
		UserID:    userID,
		SakeID:    sakeID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateBookmark(ctx, bookmark); err != nil {
		if apperrors.Is(err, store.ErrAlreadyExists) {
			return nil, apperrors.Conflict("既にブックマークしています")
		}
		return nil, fmt.Errorf("create bookmark: %w", err)
	}

	s.logger.Info("bookmark added", "user_id", userID, "sake_id", sakeID)
	return bookmark, nil
}

// Remove deletes the user's bookmark of a sake.
func (s *BookmarkService) Remove(ctx context.Context, userID string, sakeID int64) error {
	if err := s.store.DeleteBookmark(ctx, userID, sakeID); err != nil {
		if apperrors.Is(err, store.ErrNotFound) {
			return apperrors.NotFound("ブックマークが見つかりません")
		}
		return fmt.Errorf("delete bookmark: %w", err)
	}
	return nil
}
