package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/sakenavi/sakenavi-server/internal/domain"
	"github.com/sakenavi/sakenavi-server/internal/service"
)

func (s *Server) registerSakeRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchSakes",
		Method:      http.MethodGet,
		Path:        "/api/sakes",
		Summary:     "Search sakes",
		Description: "Searches the catalog by name substring, category and tasting flags",
		Tags:        []string{"Sakes"},
	}, s.handleSearchSakes)

	huma.Register(s.api, huma.Operation{
		OperationID: "getSake",
		Method:      http.MethodGet,
		Path:        "/api/sakes/{id}",
		Summary:     "Get sake",
		Description: "Returns a sake with its reviews and average rating",
		Tags:        []string{"Sakes"},
	}, s.handleGetSake)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateSake",
		Method:      http.MethodPut,
		Path:        "/api/sakes/{id}",
		Summary:     "Update sake",
		Description: "Edits an attendee-submitted sake; catalog rows are immutable",
		Tags:        []string{"Sakes"},
	}, s.handleUpdateSake)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createReview",
		Method:        http.MethodPost,
		Path:          "/api/sakes/{id}/reviews",
		Summary:       "Create review",
		Description:   "Posts a star rating with optional tags and comment",
		Tags:          []string{"Reviews"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateReview)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateReview",
		Method:      http.MethodPut,
		Path:        "/api/sakes/{id}/reviews/{reviewId}",
		Summary:     "Update review",
		Description: "Edits a review; author only",
		Tags:        []string{"Reviews"},
	}, s.handleUpdateReview)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteReview",
		Method:      http.MethodDelete,
		Path:        "/api/sakes/{id}/reviews/{reviewId}",
		Summary:     "Delete review",
		Description: "Deletes a review; author only",
		Tags:        []string{"Reviews"},
	}, s.handleDeleteReview)
}

// sakeResponse maps a domain sake into its response shape.
func sakeResponse(sk *domain.Sake) SakeResponse {
	return SakeResponse{
		SakeID:           sk.ID,
		BreweryID:        sk.BreweryID,
		Name:             sk.Name,
		Type:             sk.Type,
		Category:         string(sk.Category),
		IsLimited:        sk.IsLimited,
		IsCustom:         sk.IsCustom,
		PaidTastingPrice: sk.PaidTastingPrice,
		AddedBy:          sk.AddedBy,
		CreatedAt:        sk.CreatedAt,
	}
}

// === DTOs ===

// SearchSakesInput contains catalog search parameters.
type SearchSakesInput struct {
	Query          string `query:"q" doc:"Case-sensitive substring matched against sake or brewery name"`
	Category       string `query:"category" doc:"Filter by category"`
	IsLimited      bool   `query:"isLimited" doc:"Only limited pours"`
	HasPaidTasting bool   `query:"hasPaidTasting" doc:"Only paid tastings"`
	Cursor         string `query:"cursor" doc:"Pagination cursor from the previous page"`
	Limit          int    `query:"limit" doc:"Page size, default 30, max 100"`
}

// SakeSearchItem is one catalog search result.
type SakeSearchItem struct {
	SakeResponse
	BreweryName string `json:"breweryName" doc:"Brewery name"`
}

// SakeSearchResponse is one page of catalog search results.
type SakeSearchResponse struct {
	Items      []SakeSearchItem `json:"items" doc:"Matching sakes in sake-id order"`
	NextCursor *string          `json:"nextCursor" doc:"Cursor for the next page, null on the last page"`
}

// SearchSakesOutput wraps the search response for Huma.
type SearchSakesOutput struct {
	Body SakeSearchResponse
}

// GetSakeInput identifies a sake.
type GetSakeInput struct {
	ID int64 `path:"id" doc:"Sake ID"`
}

// ReviewResponse contains review data in API responses.
type ReviewResponse struct {
	ReviewID  int64     `json:"reviewId" doc:"Review ID"`
	UserID    string    `json:"userId" doc:"Author's user ID"`
	UserName  string    `json:"userName,omitempty" doc:"Author's display name"`
	SakeID    int64     `json:"sakeId" doc:"Sake ID"`
	Rating    int       `json:"rating" doc:"Star rating, 1 to 5"`
	Tags      []string  `json:"tags" doc:"Tasting tags from the fixed vocabulary"`
	Comment   *string   `json:"comment" doc:"Free-form comment"`
	CreatedAt time.Time `json:"createdAt" doc:"Creation time"`
}

// SakeDetailResponse is a sake with its reviews.
type SakeDetailResponse struct {
	SakeResponse
	Reviews []ReviewResponse `json:"reviews" doc:"Reviews newest first"`
}

// SakeDetailOutput wraps the sake detail for Huma.
type SakeDetailOutput struct {
	Body SakeDetailResponse
}

// UpdateSakeRequest is the request body for editing a custom sake.
type UpdateSakeRequest struct {
	Name             string  `json:"name" validate:"required,max=100" doc:"Sake name"`
	Type             *string `json:"type,omitempty" validate:"omitempty,max=50" doc:"Free-form type"`
	Category         string  `json:"category,omitempty" doc:"Category"`
	IsLimited        bool    `json:"isLimited,omitempty" doc:"Limited pour"`
	PaidTastingPrice *int    `json:"paidTastingPrice,omitempty" doc:"Paid tasting price in yen"`
}

// UpdateSakeInput wraps the sake update request for Huma.
type UpdateSakeInput struct {
	UserID string `header:"X-User-Id" doc:"Caller's user ID"`
	ID     int64  `path:"id" doc:"Sake ID"`
	Body   UpdateSakeRequest
}

// ReviewRequest is the request body for creating or updating a review.
type ReviewRequest struct {
	Rating  int      `json:"rating" validate:"required,gte=1,lte=5" doc:"Star rating, 1 to 5"`
	Tags    []string `json:"tags,omitempty" doc:"Tasting tags from the fixed vocabulary"`
	Comment *string  `json:"comment,omitempty" validate:"omitempty,max=500" doc:"Free-form comment"`
}

// CreateReviewInput wraps the review creation request for Huma.
type CreateReviewInput struct {
	UserID string `header:"X-User-Id" doc:"Caller's user ID"`
	ID     int64  `path:"id" doc:"Sake ID"`
	Body   ReviewRequest
}

// ReviewOutput wraps a single review for Huma.
type ReviewOutput struct {
	Body ReviewResponse
}

// UpdateReviewInput wraps the review update request for Huma.
type UpdateReviewInput struct {
	UserID   string `header:"X-User-Id" doc:"Caller's user ID"`
	ID       int64  `path:"id" doc:"Sake ID"`
	ReviewID int64  `path:"reviewId" doc:"Review ID"`
	Body     ReviewRequest
}

// DeleteReviewInput identifies a review to delete.
type DeleteReviewInput struct {
	UserID   string `header:"X-User-Id" doc:"Caller's user ID"`
	ID       int64  `path:"id" doc:"Sake ID"`
	ReviewID int64  `path:"reviewId" doc:"Review ID"`
}

// === Handlers ===

func (s *Server) handleSearchSakes(ctx context.Context, input *SearchSakesInput) (*SearchSakesOutput, error) {
	page, err := s.services.Sake.Search(ctx, service.SearchSakesInput{
		Query:           input.Query,
		Category:        input.Category,
		LimitedOnly:     input.IsLimited,
		PaidTastingOnly: input.HasPaidTasting,
		Cursor:          input.Cursor,
		Limit:           input.Limit,
	})
	if err != nil {
		return nil, err
	}

	items := make([]SakeSearchItem, len(page.Items))
	for i, row := range page.Items {
		items[i] = SakeSearchItem{
			SakeResponse: sakeResponse(&row.Sake),
			BreweryName:  row.BreweryName,
		}
		items[i].AverageRating = row.AverageRating
	}

	return &SearchSakesOutput{
		Body: SakeSearchResponse{
			Items:      items,
			NextCursor: page.NextCursor,
		},
	}, nil
}

func (s *Server) handleGetSake(ctx context.Context, input *GetSakeInput) (*SakeDetailOutput, error) {
	detail, err := s.services.Sake.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	reviews := make([]ReviewResponse, len(detail.Reviews))
	for i, r := range detail.Reviews {
		reviews[i] = ReviewResponse{
			ReviewID:  r.ID,
			UserID:    r.UserID,
			UserName:  r.UserName,
			SakeID:    r.SakeID,
			Rating:    r.Rating,
			Tags:      r.Tags,
			Comment:   r.Comment,
			CreatedAt: r.CreatedAt,
		}
	}

	body := SakeDetailResponse{
		SakeResponse: sakeResponse(detail.Sake),
		Reviews:      reviews,
	}
	body.AverageRating = detail.AverageRating

	return &SakeDetailOutput{Body: body}, nil
}

func (s *Server) handleUpdateSake(ctx context.Context, input *UpdateSakeInput) (*SakeOutput, error) {
	// Any registered user may edit a custom sake; the service rejects
	// catalog rows.
	if _, err := s.requireUser(ctx, input.UserID); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	sake, err := s.services.Sake.Update(ctx, input.ID, service.UpdateSakeInput{
		Name:             input.Body.Name,
		Type:             input.Body.Type,
		Category:         input.Body.Category,
		IsLimited:        input.Body.IsLimited,
		PaidTastingPrice: input.Body.PaidTastingPrice,
	})
	if err != nil {
		return nil, err
	}

	return &SakeOutput{Body: sakeResponse(sake)}, nil
}

func (s *Server) handleCreateReview(ctx context.Context, input *CreateReviewInput) (*ReviewOutput, error) {
	user, err := s.requireUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	review, err := s.services.Review.Create(ctx, user.ID, input.ID, service.CreateReviewInput{
		Rating:  input.Body.Rating,
		Tags:    input.Body.Tags,
		Comment: input.Body.Comment,
	})
	if err != nil {
		return nil, err
	}

	return &ReviewOutput{Body: reviewResponse(review)}, nil
}

func (s *Server) handleUpdateReview(ctx context.Context, input *UpdateReviewInput) (*ReviewOutput, error) {
	user, err := s.requireUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	review, err := s.services.Review.Update(ctx, user.ID, input.ReviewID, service.CreateReviewInput{
		Rating:  input.Body.Rating,
		Tags:    input.Body.Tags,
		Comment: input.Body.Comment,
	})
	if err != nil {
		return nil, err
	}

	return &ReviewOutput{Body: reviewResponse(review)}, nil
}

func (s *Server) handleDeleteReview(ctx context.Context, input *DeleteReviewInput) (*struct{}, error) {
	user, err := s.requireUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	if err := s.services.Review.Delete(ctx, user.ID, input.ReviewID); err != nil {
		return nil, err
	}

	return nil, nil
}

// reviewResponse maps a domain review into its response shape.
func reviewResponse(r *domain.Review) ReviewResponse {
	return ReviewResponse{
		ReviewID:  r.ID,
		UserID:    r.UserID,
		SakeID:    r.SakeID,
		Rating:    r.Rating,
		Tags:      r.Tags,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}
