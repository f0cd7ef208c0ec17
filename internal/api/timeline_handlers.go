package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerTimelineRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getTimeline",
		Method:      http.MethodGet,
		Path:        "/api/timeline",
		Summary:     "Get timeline",
		Description: "Returns the merged review and note feed, newest first",
		Tags:        []string{"Timeline"},
	}, s.handleGetTimeline)
}

// === DTOs ===

// GetTimelineInput contains feed pagination parameters.
type GetTimelineInput struct {
	Cursor string `query:"cursor" doc:"Pagination cursor from the previous page"`
	Limit  int    `query:"limit" doc:"Page size, default 20, max 100"`
}

// TimelineItemResponse is one entry of the merged feed. Type selects
// which optional fields are populated.
type TimelineItemResponse struct {
	Type        string    `json:"type" doc:"Entry kind: review or brewery_note"`
	ID          int64     `json:"id" doc:"Review or note ID"`
	UserName    string    `json:"userName" doc:"Author's display name"`
	BreweryID   int64     `json:"breweryId" doc:"Brewery ID"`
	BreweryName string    `json:"breweryName" doc:"Brewery name"`
	CreatedAt   time.Time `json:"createdAt" doc:"Posting time"`

	SakeID           int64    `json:"sakeId,omitempty" doc:"Reviewed sake ID (reviews only)"`
	SakeName         string   `json:"sakeName,omitempty" doc:"Reviewed sake name (reviews only)"`
	Rating           int      `json:"rating,omitempty" doc:"Star rating (reviews only)"`
	Tags             []string `json:"tags,omitempty" doc:"Tasting tags (reviews only)"`
	Comment          string   `json:"comment,omitempty" doc:"Review comment (reviews only)"`
	IsLimited        bool     `json:"isLimited,omitempty" doc:"Limited pour (reviews only)"`
	PaidTastingPrice *int     `json:"paidTastingPrice,omitempty" doc:"Paid tasting price in yen (reviews only)"`

	Content string `json:"content,omitempty" doc:"Note text (notes only)"`
}

// TimelineResponse is one page of the merged feed.
type TimelineResponse struct {
	Items      []TimelineItemResponse `json:"items" doc:"Feed entries, newest first"`
	NextCursor *string                `json:"nextCursor" doc:"Cursor for the next page, null on the last page"`
}

// GetTimelineOutput wraps the timeline response for Huma.
type GetTimelineOutput struct {
	Body TimelineResponse
}

// === Handlers ===

func (s *Server) handleGetTimeline(ctx context.Context, input *GetTimelineInput) (*GetTimelineOutput, error) {
	page, err := s.services.Timeline.List(ctx, input.Cursor, input.Limit)
	if err != nil {
		return nil, err
	}

	items := make([]TimelineItemResponse, len(page.Items))
	for i, item := range page.Items {
		items[i] = TimelineItemResponse{
			Type:             string(item.Type),
			ID:               item.ID,
			UserName:         item.UserName,
			BreweryID:        item.BreweryID,
			BreweryName:      item.BreweryName,
			CreatedAt:        item.CreatedAt,
			SakeID:           item.SakeID,
			SakeName:         item.SakeName,
			Rating:           item.Rating,
			Tags:             item.Tags,
			Comment:          item.Comment,
			IsLimited:        item.IsLimited,
			PaidTastingPrice: item.PaidTastingPrice,
			Content:          item.Content,
		}
	}

	return &GetTimelineOutput{
		Body: TimelineResponse{
			Items:      items,
			NextCursor: page.NextCursor,
		},
	}, nil
}
