package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/sakenavi/sakenavi-server/internal/service"
)

func (s *Server) registerReviewRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchReviews",
		Method:      http.MethodGet,
		Path:        "/api/reviews",
		Summary:     "Search reviews",
		Description: "Searches reviews by tags and author, sorted by recency or rating",
		Tags:        []string{"Reviews"},
	}, s.handleSearchReviews)
}

// === DTOs ===

// SearchReviewsInput contains review search parameters.
type SearchReviewsInput struct {
	Sort   string `query:"sort" doc:"Sort order: latest (default) or rating"`
	Tags   string `query:"tags" doc:"Comma-separated tags; results carry every listed tag"`
	UserID string `query:"userId" doc:"Filter to a single author"`
	Cursor string `query:"cursor" doc:"Pagination cursor from the previous page"`
	Limit  int    `query:"limit" doc:"Page size, default 20, max 100"`
}

// ReviewSearchItem is one review search result with joined display fields.
type ReviewSearchItem struct {
	ReviewResponse
	Sake    ReviewSearchSake    `json:"sake" doc:"Reviewed sake"`
	Brewery ReviewSearchBrewery `json:"brewery" doc:"Sake's brewery"`
}

// ReviewSearchSake is the sake summary embedded in search results.
type ReviewSearchSake struct {
	SakeID int64   `json:"sakeId" doc:"Sake ID"`
	Name   string  `json:"name" doc:"Sake name"`
	Type   *string `json:"type" doc:"Free-form type"`
}

// ReviewSearchBrewery is the brewery summary embedded in search results.
type ReviewSearchBrewery struct {
	BreweryID int64  `json:"breweryId" doc:"Brewery ID"`
	Name      string `json:"name" doc:"Brewery name"`
}

// ReviewSearchResponse is one page of review search results.
type ReviewSearchResponse struct {
	Items      []ReviewSearchItem `json:"items" doc:"Matching reviews"`
	NextCursor *string            `json:"nextCursor" doc:"Cursor for the next page, null on the last page"`
}

// SearchReviewsOutput wraps the search response for Huma.
type SearchReviewsOutput struct {
	Body ReviewSearchResponse
}

// === Handlers ===

func (s *Server) handleSearchReviews(ctx context.Context, input *SearchReviewsInput) (*SearchReviewsOutput, error) {
	var tags []string
	if input.Tags != "" {
		for _, tag := range strings.Split(input.Tags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
	}

	page, err := s.services.Review.Search(ctx, service.SearchReviewsInput{
		Sort:   input.Sort,
		Tags:   tags,
		UserID: input.UserID,
		Cursor: input.Cursor,
		Limit:  input.Limit,
	})
	if err != nil {
		return nil, err
	}

	items := make([]ReviewSearchItem, len(page.Items))
	for i, row := range page.Items {
		items[i] = ReviewSearchItem{
			ReviewResponse: reviewResponse(&row.Review),
			Sake: ReviewSearchSake{
				SakeID: row.SakeID,
				Name:   row.SakeName,
				Type:   row.SakeType,
			},
			Brewery: ReviewSearchBrewery{
				BreweryID: row.BreweryID,
				Name:      row.BreweryName,
			},
		}
		items[i].UserName = row.UserName
	}

	return &SearchReviewsOutput{
		Body: ReviewSearchResponse{
			Items:      items,
			NextCursor: page.NextCursor,
		},
	}, nil
}
