package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sakenavi/sakenavi-server/internal/domain"
	apperrors "github.com/sakenavi/sakenavi-server/internal/errors"
	"github.com/sakenavi/sakenavi-server/internal/notify"
	"github.com/sakenavi/sakenavi-server/internal/store"
)

// NoteService manages free-form brewery notes.
type NoteService struct {
	store    *store.Store
	logger   *slog.Logger
	notifier notify.Notifier
}

// NewNoteService creates a new brewery note service.
func NewNoteService(store *store.Store, logger *slog.Logger, notifier notify.Notifier) *NoteService {
	return &NoteService{
		store:    store,
		logger:   logger,
		notifier: notifier,
	}
}

// List returns a brewery's notes, newest first, with author names.
func (s *NoteService) List(ctx context.Context, breweryID int64) ([]*store.BreweryNoteListing, error) {
	if _, err := s.store.GetBrewery(ctx, breweryID); err != nil {
		if apperrors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("酒蔵が見つかりません")
		}
		return nil, fmt.Errorf("get brewery: %w", err)
	}

	notes, err := s.store.ListBreweryNotes(ctx, breweryID)
	if err != nil {
		return nil, fmt.Errorf("list brewery notes: %w", err)
	}
	return notes, nil
}

// Create posts a note to a brewery and announces it after the insert
// commits.
func (s *NoteService) Create(ctx context.Context, userID string, breweryID int64, content string) (*domain.BreweryNote, error) {
	content, err := validNoteContent(content)
	if err != nil {
		return nil, err
	}

	brewery, err := s.store.GetBrewery(ctx, breweryID)
	if err != nil {
		if apperrors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("酒蔵が見つかりません")
		}
		return nil, fmt.Errorf("get brewery: %w", err)
	}
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if apperrors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("ユーザーが見つかりません")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	note := &domain.BreweryNote{
		UserID:    userID,
		BreweryID: breweryID,
		Comment:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateBreweryNote(ctx, note); err != nil {
		return nil, fmt.Errorf("create brewery note: %w", err)
	}

	s.logger.Info("brewery note posted",
		"note_id", note.ID,
		"brewery_id", breweryID,
		"user_id", userID,
	)

	go s.notifier.NotePosted(notify.NoteEvent{
		UserName:    user.Name,
		BreweryID:   brewery.ID,
		BreweryName: brewery.Name,
		Comment:     content,
	})

	return note, nil
}

// Update edits a note's comment. Only the author may edit.
func (s *NoteService) Update(ctx context.Context, userID string, noteID int64, content string) (*domain.BreweryNote, error) {
	content, err := validNoteContent(content)
	if err != nil {
		return nil, err
	}

	note, err := s.getOwnedNote(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}

	note.Comment = content
	if err := s.store.UpdateBreweryNote(ctx, note); err != nil {
		return nil, fmt.Errorf("update brewery note: %w", err)
	}
	return note, nil
}

// Delete removes a note. Only the author may delete.
func (s *NoteService) Delete(ctx context.Context, userID string, noteID int64) error {
	if _, err := s.getOwnedNote(ctx, userID, noteID); err != nil {
		return err
	}
	if err := s.store.DeleteBreweryNote(ctx, noteID); err != nil {
		return fmt.Errorf("delete brewery note: %w", err)
	}
	return nil
}

func (s *NoteService) getOwnedNote(ctx context.Context, userID string, noteID int64) (*domain.BreweryNote, error) {
	note, err := s.store.GetBreweryNote(ctx, noteID)
	if err != nil {
		if apperrors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("ノートが見つかりません")
		}
		return nil, fmt.Errorf("get brewery note: %w", err)
	}
	if note.UserID != userID {
		return nil, apperrors.Forbidden("この操作を行う権限がありません")
	}
	return note, nil
}

func validNoteContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", apperrors.Validation("コメントを入力してください")
	}
	if len([]rune(content)) > domain.MaxNoteLength {
		return "", apperrors.Validationf("コメントは%d文字以内で入力してください", domain.MaxNoteLength)
	}
	return content, nil
}
