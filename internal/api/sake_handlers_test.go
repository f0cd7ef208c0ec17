package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/sakenavi/sakenavi-server/internal/errors"
)

func TestGetSake(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.seedUser(t, "alice")
	bob := ts.seedUser(t, "bob")
	brewery := ts.seedBrewery(t, "出羽桜酒造")
	sake := ts.seedSake(t, brewery.ID, "出羽桜 桜花吟醸")

	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	ts.seedReviewAt(t, alice.ID, sake.ID, 4, base)
	ts.seedReviewAt(t, bob.ID, sake.ID, 5, base.Add(time.Minute))

	resp := ts.api.Get("/api/sakes/" + itoa(sake.ID))
	require.Equal(t, http.StatusOK, resp.Code)

	envelope := decodeEnvelope[SakeDetailResponse](t, resp)
	assert.Equal(t, sake.ID, envelope.Data.SakeID)
	require.NotNil(t, envelope.Data.AverageRating)
	assert.InDelta(t, 4.5, *envelope.Data.AverageRating, 0.001)

	require.Len(t, envelope.Data.Reviews, 2)
	assert.Equal(t, "bob", envelope.Data.Reviews[0].UserName, "reviews should be newest first")
	assert.Equal(t, "alice", envelope.Data.Reviews[1].UserName)
}

func TestGetSake_NotFound(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.api.Get("/api/sakes/9999")
	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestUpdateSake(t *testing.T) {
	ts := newTestServer(t)
	user := ts.seedUser(t, "contributor")
	brewery := ts.seedBrewery(t, "風の森")

	// Custom sakes are editable by any registered user.
	resp := ts.api.Post("/api/breweries/"+itoa(brewery.ID)+"/sakes", asUser(user.ID), map[string]any{
		"name": "ALPHA 1",
	})
	require.Equal(t, http.StatusCreated, resp.Code)
	custom := decodeEnvelope[SakeResponse](t, resp)

	editor := ts.seedUser(t, "editor")
	resp = ts.api.Put("/api/sakes/"+itoa(custom.Data.SakeID), asUser(editor.ID), map[string]any{
		"name":      "ALPHA 2",
		"isLimited": true,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	updated := decodeEnvelope[SakeResponse](t, resp)
	assert.Equal(t, "ALPHA 2", updated.Data.Name)
	assert.True(t, updated.Data.IsLimited)
}

func TestUpdateSake_CatalogImmutable(t *testing.T) {
	ts := newTestServer(t)
	user := ts.seedUser(t, "editor")
	brewery := ts.seedBrewery(t, "菊正宗")
	seeded := ts.seedSake(t, brewery.ID, "菊正宗 上撰")

	resp := ts.api.Put("/api/sakes/"+itoa(seeded.ID), asUser(user.ID), map[string]any{
		"name": "改名",
	})
	require.Equal(t, http.StatusForbidden, resp.Code)

	envelope := decodeEnvelope[struct{}](t, resp)
	assert.Equal(t, string(apperrors.CodeForbidden), envelope.Code)
}

func TestSearchSakes(t *testing.T) {
	ts := newTestServer(t)
	brewery := ts.seedBrewery(t, "梅乃宿酒造")
	other := ts.seedBrewery(t, "白鶴酒造")
	ts.seedSake(t, brewery.ID, "梅乃宿 純米")
	ts.seedSake(t, brewery.ID, "梅乃宿 吟醸")
	ts.seedSake(t, other.ID, "白鶴 まる")

	t.Run("substring matches sake or brewery name", func(t *testing.T) {
		resp := ts.api.Get("/api/sakes?q=梅乃宿")
		require.Equal(t, http.StatusOK, resp.Code)
		envelope := decodeEnvelope[SakeSearchResponse](t, resp)
		assert.Len(t, envelope.Data.Items, 2)
		for _, item := range envelope.Data.Items {
			assert.Equal(t, "梅乃宿酒造", item.BreweryName)
		}
	})

	t.Run("pages by sake id", func(t *testing.T) {
		resp := ts.api.Get("/api/sakes?limit=2")
		require.Equal(t, http.StatusOK, resp.Code)
		first := decodeEnvelope[SakeSearchResponse](t, resp)
		require.Len(t, first.Data.Items, 2)
		require.NotNil(t, first.Data.NextCursor)

		resp = ts.api.Get("/api/sakes?limit=2&cursor=" + *first.Data.NextCursor)
		require.Equal(t, http.StatusOK, resp.Code)
		second := decodeEnvelope[SakeSearchResponse](t, resp)
		require.Len(t, second.Data.Items, 1)
		assert.Nil(t, second.Data.NextCursor)
		assert.Greater(t, second.Data.Items[0].SakeID, first.Data.Items[1].SakeID)
	})

	t.Run("invalid cursor", func(t *testing.T) {
		resp := ts.api.Get("/api/sakes?cursor=abc")
		require.Equal(t, http.StatusBadRequest, resp.Code)
	})
}

// TestAverageRatingLifecycle walks the rating aggregate through review
// creation, update, and deletion over HTTP.
func TestAverageRatingLifecycle(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.seedUser(t, "alice")
	bob := ts.seedUser(t, "bob")
	brewery := ts.seedBrewery(t, "黒龍酒造")
	sake := ts.seedSake(t, brewery.ID, "黒龍 石田屋")
	sakePath := "/api/sakes/" + itoa(sake.ID)

	averageRating := func() *float64 {
		resp := ts.api.Get(sakePath)
		require.Equal(t, http.StatusOK, resp.Code)
		return decodeEnvelope[SakeDetailResponse](t, resp).Data.AverageRating
	}

	assert.Nil(t, averageRating(), "no reviews means null, not zero")

	resp := ts.api.Post(sakePath+"/reviews", asUser(alice.ID), map[string]any{"rating": 5})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	require.NotNil(t, averageRating())
	assert.InDelta(t, 5.0, *averageRating(), 0.001)

	resp = ts.api.Post(sakePath+"/reviews", asUser(bob.ID), map[string]any{
		"rating":  3,
		"tags":    []string{"辛口"},
		"comment": "キレがある",
	})
	require.Equal(t, http.StatusCreated, resp.Code)
	bobReview := decodeEnvelope[ReviewResponse](t, resp)
	assert.InDelta(t, 4.0, *averageRating(), 0.001)

	resp = ts.api.Put(sakePath+"/reviews/"+itoa(bobReview.Data.ReviewID), asUser(bob.ID), map[string]any{"rating": 1})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.InDelta(t, 3.0, *averageRating(), 0.001)

	resp = ts.api.Delete(sakePath+"/reviews/"+itoa(bobReview.Data.ReviewID), asUser(bob.ID))
	require.Equal(t, http.StatusNoContent, resp.Code)
	assert.InDelta(t, 5.0, *averageRating(), 0.001)
}

func TestReviewMutations_AuthorOnly(t *testing.T) {
	ts := newTestServer(t)
	author := ts.seedUser(t, "author")
	other := ts.seedUser(t, "other")
	brewery := ts.seedBrewery(t, "醸し人九平次")
	sake := ts.seedSake(t, brewery.ID, "九平次 彼の地")
	review := ts.seedReviewAt(t, author.ID, sake.ID, 4, time.Now().UTC())
	path := "/api/sakes/" + itoa(sake.ID) + "/reviews/" + itoa(review.ID)

	resp := ts.api.Put(path, asUser(other.ID), map[string]any{"rating": 1})
	require.Equal(t, http.StatusForbidden, resp.Code)

	resp = ts.api.Delete(path, asUser(other.ID))
	require.Equal(t, http.StatusForbidden, resp.Code)

	resp = ts.api.Delete(path, asUser(author.ID))
	require.Equal(t, http.StatusNoContent, resp.Code)
}

func TestCreateReview_Validation(t *testing.T) {
	ts := newTestServer(t)
	user := ts.seedUser(t, "alice")
	brewery := ts.seedBrewery(t, "十四代")
	sake := ts.seedSake(t, brewery.ID, "十四代 本丸")
	path := "/api/sakes/" + itoa(sake.ID) + "/reviews"

	t.Run("rating out of range", func(t *testing.T) {
		resp := ts.api.Post(path, asUser(user.ID), map[string]any{"rating": 6})
		require.Equal(t, http.StatusBadRequest, resp.Code)
		envelope := decodeEnvelope[struct{}](t, resp)
		assert.Equal(t, string(apperrors.CodeValidation), envelope.Code)
	})

	t.Run("unknown tag", func(t *testing.T) {
		resp := ts.api.Post(path, asUser(user.ID), map[string]any{
			"rating": 3,
			"tags":   []string{"フルーティ"},
		})
		require.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("unknown sake", func(t *testing.T) {
		resp := ts.api.Post("/api/sakes/9999/reviews", asUser(user.ID), map[string]any{"rating": 3})
		require.Equal(t, http.StatusNotFound, resp.Code)
	})
}
