package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/sakenavi/sakenavi-server/internal/config"
	"github.com/sakenavi/sakenavi-server/internal/domain"
	"github.com/sakenavi/sakenavi-server/internal/id"
	"github.com/sakenavi/sakenavi-server/internal/notify"
	"github.com/sakenavi/sakenavi-server/internal/service"
	"github.com/sakenavi/sakenavi-server/internal/store"
)

// testServer wraps the API server with a humatest client and its store.
type testServer struct {
	*Server
	api humatest.TestAPI
	st  *store.Store
}

// newTestServer creates a fully wired server on a temp database.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)

	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	userService := service.NewUserService(st, logger)
	t.Cleanup(userService.Close)

	notifier := notify.Noop{}
	services := &Services{
		User:     userService,
		Brewery:  service.NewBreweryService(st, logger),
		Sake:     service.NewSakeService(st, logger),
		Review:   service.NewReviewService(st, logger, notifier),
		Note:     service.NewNoteService(st, logger, notifier),
		Bookmark: service.NewBookmarkService(st, logger),
		Timeline: service.NewTimelineService(st, logger),
	}

	s := NewServer(st, services, config.ServerConfig{AllowedOrigins: []string{"*"}}, logger)

	return &testServer{
		Server: s,
		api:    humatest.Wrap(t, s.api),
		st:     st,
	}
}

// testEnvelope mirrors the response envelope for decoding in tests.
type testEnvelope[T any] struct {
	V       int    `json:"v"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// decodeEnvelope unmarshals a recorded response into the envelope.
func decodeEnvelope[T any](t *testing.T, resp *httptest.ResponseRecorder) testEnvelope[T] {
	t.Helper()
	var envelope testEnvelope[T]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err, "undecodable response: %s", resp.Body.String())
	return envelope
}

// Seeding helpers write through the store directly so tests control
// timestamps and do not burn the registration rate limit.

func (ts *testServer) seedUser(t *testing.T, name string) *domain.User {
	t.Helper()
	user := &domain.User{
		ID:        id.NewUserID(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, ts.st.CreateUser(context.Background(), user))
	return user
}

func (ts *testServer) seedBrewery(t *testing.T, name string) *domain.Brewery {
	t.Helper()
	booth := 1
	brewery := &domain.Brewery{
		Name:         name,
		BoothNumber:  &booth,
		MapPositionX: 0.5,
		MapPositionY: 0.5,
	}
	require.NoError(t, ts.st.CreateBrewery(context.Background(), brewery))
	return brewery
}

func (ts *testServer) seedSake(t *testing.T, breweryID int64, name string) *domain.Sake {
	t.Helper()
	sake := &domain.Sake{
		BreweryID: breweryID,
		Name:      name,
		Category:  domain.CategorySeishu,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, ts.st.CreateSake(context.Background(), sake))
	return sake
}

func (ts *testServer) seedReviewAt(t *testing.T, userID string, sakeID int64, rating int, at time.Time) *domain.Review {
	t.Helper()
	review := &domain.Review{
		UserID:    userID,
		SakeID:    sakeID,
		Rating:    rating,
		Tags:      []string{},
		CreatedAt: at,
	}
	require.NoError(t, ts.st.CreateReview(context.Background(), review))
	return review
}

func (ts *testServer) seedNoteAt(t *testing.T, userID string, breweryID int64, comment string, at time.Time) *domain.BreweryNote {
	t.Helper()
	note := &domain.BreweryNote{
		UserID:    userID,
		BreweryID: breweryID,
		Comment:   comment,
		CreatedAt: at,
	}
	require.NoError(t, ts.st.CreateBreweryNote(context.Background(), note))
	return note
}

// asUser formats the identity header argument for humatest calls.
func asUser(userID string) string {
	return "X-User-Id: " + userID
}

// itoa renders a database ID for path building.
func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
