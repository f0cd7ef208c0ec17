package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerBookmarkRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBookmarks",
		Method:      http.MethodGet,
		Path:        "/api/bookmarks",
		Summary:     "List bookmarks",
		Description: "Returns the caller's bookmarked sakes, oldest first",
		Tags:        []string{"Bookmarks"},
	}, s.handleListBookmarks)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createBookmark",
		Method:        http.MethodPost,
		Path:          "/api/bookmarks",
		Summary:       "Create bookmark",
		Description:   "Bookmarks a sake for the caller",
		Tags:          []string{"Bookmarks"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateBookmark)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteBookmark",
		Method:      http.MethodDelete,
		Path:        "/api/bookmarks/{sakeId}",
		Summary:     "Delete bookmark",
		Description: "Removes the caller's bookmark on a sake",
		Tags:        []string{"Bookmarks"},
	}, s.handleDeleteBookmark)
}

// === DTOs ===

// ListBookmarksInput identifies the caller.
type ListBookmarksInput struct {
	UserID string `header:"X-User-Id" doc:"Caller's user ID"`
}

// BookmarkResponse contains bookmark data with joined sake display fields.
type BookmarkResponse struct {
	BookmarkID       int64     `json:"bookmarkId" doc:"Bookmark ID"`
	SakeID           int64     `json:"sakeId" doc:"Bookmarked sake ID"`
	SakeName         string    `json:"sakeName" doc:"Sake name"`
	SakeType         *string   `json:"sakeType" doc:"Free-form type"`
	Category         string    `json:"category" doc:"Sake category"`
	IsLimited        bool      `json:"isLimited" doc:"Limited pour"`
	PaidTastingPrice *int      `json:"paidTastingPrice" doc:"Paid tasting price in yen"`
	BreweryID        int64     `json:"breweryId" doc:"Brewery ID"`
	BreweryName      string    `json:"breweryName" doc:"Brewery name"`
	CreatedAt        time.Time `json:"createdAt" doc:"Bookmark time"`
}

// ListBookmarksOutput wraps the bookmark list for Huma.
type ListBookmarksOutput struct {
	Body []BookmarkResponse
}

// CreateBookmarkRequest is the request body for bookmarking a sake.
type CreateBookmarkRequest struct {
	SakeID int64 `json:"sakeId" validate:"required" doc:"Sake to bookmark"`
}

// CreateBookmarkInput wraps the bookmark request for Huma.
type CreateBookmarkInput struct {
	UserID string `header:"X-User-Id" doc:"Caller's user ID"`
	Body   CreateBookmarkRequest
}

// CreatedBookmarkResponse is the minimal shape of a new bookmark.
type CreatedBookmarkResponse struct {
	BookmarkID int64     `json:"bookmarkId" doc:"Bookmark ID"`
	SakeID     int64     `json:"sakeId" doc:"Bookmarked sake ID"`
	CreatedAt  time.Time `json:"createdAt" doc:"Bookmark time"`
}

// CreateBookmarkOutput wraps the new bookmark for Huma.
type CreateBookmarkOutput struct {
	Body CreatedBookmarkResponse
}

// DeleteBookmarkInput identifies a bookmark by its sake.
type DeleteBookmarkInput struct {
	UserID string `header:"X-User-Id" doc:"Caller's user ID"`
	SakeID int64  `path:"sakeId" doc:"Bookmarked sake ID"`
}

// === Handlers ===

func (s *Server) handleListBookmarks(ctx context.Context, input *ListBookmarksInput) (*ListBookmarksOutput, error) {
	user, err := s.requireUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	bookmarks, err := s.services.Bookmark.List(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	resp := make([]BookmarkResponse, len(bookmarks))
	for i, b := range bookmarks {
		resp[i] = BookmarkResponse{
			BookmarkID:       b.ID,
			SakeID:           b.SakeID,
			SakeName:         b.SakeName,
			SakeType:         b.SakeType,
			Category:         string(b.Category),
			IsLimited:        b.IsLimited,
			PaidTastingPrice: b.PaidTastingPrice,
			BreweryID:        b.BreweryID,
			BreweryName:      b.BreweryName,
			CreatedAt:        b.CreatedAt,
		}
	}

	return &ListBookmarksOutput{Body: resp}, nil
}

func (s *Server) handleCreateBookmark(ctx context.Context, input *CreateBookmarkInput) (*CreateBookmarkOutput, error) {
	user, err := s.requireUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	bookmark, err := s.services.Bookmark.Add(ctx, user.ID, input.Body.SakeID)
	if err != nil {
		return nil, err
	}

	return &CreateBookmarkOutput{
		Body: CreatedBookmarkResponse{
			BookmarkID: bookmark.ID,
			SakeID:     bookmark.SakeID,
			CreatedAt:  bookmark.CreatedAt,
		},
	}, nil
}

func (s *Server) handleDeleteBookmark(ctx context.Context, input *DeleteBookmarkInput) (*struct{}, error) {
	user, err := s.requireUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	if err := s.services.Bookmark.Remove(ctx, user.ID, input.SakeID); err != nil {
		return nil, err
	}

	return nil, nil
}
