package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/sakenavi/sakenavi-server/internal/errors"
)

func TestBookmarks_Lifecycle(t *testing.T) {
	ts := newTestServer(t)
	user := ts.seedUser(t, "collector")
	brewery := ts.seedBrewery(t, "而今")
	first := ts.seedSake(t, brewery.ID, "而今 特別純米")
	second := ts.seedSake(t, brewery.ID, "而今 純米吟醸")

	resp := ts.api.Post("/api/bookmarks", asUser(user.ID), map[string]any{"sakeId": first.ID})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	created := decodeEnvelope[CreatedBookmarkResponse](t, resp)
	assert.Equal(t, first.ID, created.Data.SakeID)

	resp = ts.api.Post("/api/bookmarks", asUser(user.ID), map[string]any{"sakeId": second.ID})
	require.Equal(t, http.StatusCreated, resp.Code)

	t.Run("duplicate conflicts", func(t *testing.T) {
		resp := ts.api.Post("/api/bookmarks", asUser(user.ID), map[string]any{"sakeId": first.ID})
		require.Equal(t, http.StatusConflict, resp.Code)
		envelope := decodeEnvelope[struct{}](t, resp)
		assert.Equal(t, string(apperrors.CodeConflict), envelope.Code)
	})

	t.Run("list oldest first with joined fields", func(t *testing.T) {
		resp := ts.api.Get("/api/bookmarks", asUser(user.ID))
		require.Equal(t, http.StatusOK, resp.Code)
		envelope := decodeEnvelope[[]BookmarkResponse](t, resp)
		require.Len(t, envelope.Data, 2)

		assert.Equal(t, first.ID, envelope.Data[0].SakeID)
		assert.Equal(t, "而今 特別純米", envelope.Data[0].SakeName)
		assert.Equal(t, "而今", envelope.Data[0].BreweryName)
		assert.Equal(t, second.ID, envelope.Data[1].SakeID)
	})

	t.Run("delete then absent", func(t *testing.T) {
		resp := ts.api.Delete("/api/bookmarks/"+itoa(first.ID), asUser(user.ID))
		require.Equal(t, http.StatusNoContent, resp.Code)

		resp = ts.api.Delete("/api/bookmarks/"+itoa(first.ID), asUser(user.ID))
		require.Equal(t, http.StatusNotFound, resp.Code)

		resp = ts.api.Get("/api/bookmarks", asUser(user.ID))
		envelope := decodeEnvelope[[]BookmarkResponse](t, resp)
		assert.Len(t, envelope.Data, 1)
	})
}

func TestBookmarks_UnknownSake(t *testing.T) {
	ts := newTestServer(t)
	user := ts.seedUser(t, "collector")

	resp := ts.api.Post("/api/bookmarks", asUser(user.ID), map[string]any{"sakeId": 9999})
	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestBookmarks_RequireIdentity(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.api.Get("/api/bookmarks")
	require.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.api.Post("/api/bookmarks", map[string]any{"sakeId": 1})
	require.Equal(t, http.StatusUnauthorized, resp.Code)
}
