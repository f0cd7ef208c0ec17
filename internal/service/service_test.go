package service

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sakenavi/sakenavi-server/internal/domain"
	"github.com/sakenavi/sakenavi-server/internal/notify"
	"github.com/sakenavi/sakenavi-server/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := store.Open(dbPath, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// captureNotifier records events on channels so tests can wait for the
// post-commit goroutine.
type captureNotifier struct {
	reviews chan notify.ReviewEvent
	notes   chan notify.NoteEvent
}

func newCaptureNotifier() *captureNotifier {
	return &captureNotifier{
		reviews: make(chan notify.ReviewEvent, 8),
		notes:   make(chan notify.NoteEvent, 8),
	}
}

func (c *captureNotifier) ReviewPosted(event notify.ReviewEvent) { c.reviews <- event }
func (c *captureNotifier) NotePosted(event notify.NoteEvent)     { c.notes <- event }

func ensureUser(t *testing.T, s *store.Store, userID, name string) *domain.User {
	t.Helper()
	user := &domain.User{ID: userID, Name: name, CreatedAt: time.Now().UTC()}
	require.NoError(t, s.CreateUser(context.Background(), user))
	return user
}

func ensureBrewery(t *testing.T, s *store.Store, name string) *domain.Brewery {
	t.Helper()
	brewery := &domain.Brewery{Name: name, MapPositionX: 0.5, MapPositionY: 0.5}
	require.NoError(t, s.CreateBrewery(context.Background(), brewery))
	return brewery
}

func ensureSake(t *testing.T, s *store.Store, breweryID int64, name string) *domain.Sake {
	t.Helper()
	sake := &domain.Sake{
		BreweryID: breweryID,
		Name:      name,
		Category:  domain.CategorySeishu,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.CreateSake(context.Background(), sake))
	return sake
}

func ensureReviewAt(t *testing.T, s *store.Store, userID string, sakeID int64, rating int, at time.Time) *domain.Review {
	t.Helper()
	review := &domain.Review{
		UserID:    userID,
		SakeID:    sakeID,
		Rating:    rating,
		Tags:      []string{},
		CreatedAt: at,
	}
	require.NoError(t, s.CreateReview(context.Background(), review))
	return review
}

func ensureNoteAt(t *testing.T, s *store.Store, userID string, breweryID int64, comment string, at time.Time) *domain.BreweryNote {
	t.Helper()
	note := &domain.BreweryNote{
		UserID:    userID,
		BreweryID: breweryID,
		Comment:   comment,
		CreatedAt: at,
	}
	require.NoError(t, s.CreateBreweryNote(context.Background(), note))
	return note
}
