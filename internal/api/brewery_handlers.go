package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/sakenavi/sakenavi-server/internal/service"
)

func (s *Server) registerBreweryRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBreweries",
		Method:      http.MethodGet,
		Path:        "/api/breweries",
		Summary:     "List breweries",
		Description: "Returns all breweries with booth positions and average ratings",
		Tags:        []string{"Breweries"},
	}, s.handleListBreweries)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBrewery",
		Method:      http.MethodGet,
		Path:        "/api/breweries/{id}",
		Summary:     "Get brewery",
		Description: "Returns a brewery and its sakes, each with its average rating",
		Tags:        []string{"Breweries"},
	}, s.handleGetBrewery)

	huma.Register(s.api, huma.Operation{
		OperationID: "listBreweryNotes",
		Method:      http.MethodGet,
		Path:        "/api/breweries/{id}/notes",
		Summary:     "List brewery notes",
		Description: "Returns notes for a brewery, newest first",
		Tags:        []string{"Notes"},
	}, s.handleListBreweryNotes)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createBreweryNote",
		Method:        http.MethodPost,
		Path:          "/api/breweries/{id}/notes",
		Summary:       "Create brewery note",
		Description:   "Posts a free-form note on a brewery",
		Tags:          []string{"Notes"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateBreweryNote)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateBreweryNote",
		Method:      http.MethodPut,
		Path:        "/api/breweries/{id}/notes/{noteId}",
		Summary:     "Update brewery note",
		Description: "Edits a note; author only",
		Tags:        []string{"Notes"},
	}, s.handleUpdateBreweryNote)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteBreweryNote",
		Method:      http.MethodDelete,
		Path:        "/api/breweries/{id}/notes/{noteId}",
		Summary:     "Delete brewery note",
		Description: "Deletes a note; author only",
		Tags:        []string{"Notes"},
	}, s.handleDeleteBreweryNote)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createCustomSake",
		Method:        http.MethodPost,
		Path:          "/api/breweries/{id}/sakes",
		Summary:       "Add custom sake",
		Description:   "Adds an attendee-submitted sake to a brewery's booth",
		Tags:          []string{"Sakes"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateCustomSake)
}

// === DTOs ===

// BreweryResponse contains brewery data in API responses.
type BreweryResponse struct {
	BreweryID     int64    `json:"breweryId" doc:"Brewery ID"`
	Name          string   `json:"name" doc:"Brewery name"`
	BoothNumber   *int     `json:"boothNumber" doc:"Booth number on the venue floor plan"`
	MapPositionX  float64  `json:"mapPositionX" doc:"Horizontal map position"`
	MapPositionY  float64  `json:"mapPositionY" doc:"Vertical map position"`
	Area          *string  `json:"area" doc:"Venue area label"`
	AverageRating *float64 `json:"averageRating" doc:"Average rating over all reviews at this booth, null when none"`
	HasMyReview   *bool    `json:"hasMyReview,omitempty" doc:"Whether the caller has reviewed anything here; present only with X-User-Id"`
}

// ListBreweriesInput carries the optional caller identity.
type ListBreweriesInput struct {
	UserID string `header:"X-User-Id" doc:"Optional caller's user ID for hasMyReview"`
}

// ListBreweriesOutput wraps the brewery list for Huma.
type ListBreweriesOutput struct {
	Body []BreweryResponse
}

// GetBreweryInput identifies a brewery.
type GetBreweryInput struct {
	ID int64 `path:"id" doc:"Brewery ID"`
}

// SakeResponse contains sake data in API responses.
type SakeResponse struct {
	SakeID           int64     `json:"sakeId" doc:"Sake ID"`
	BreweryID        int64     `json:"breweryId" doc:"Brewery ID"`
	Name             string    `json:"name" doc:"Sake name"`
	Type             *string   `json:"type" doc:"Free-form type such as 純米大吟醸"`
	Category         string    `json:"category" doc:"Category: 清酒, リキュール, みりん or その他"`
	IsLimited        bool      `json:"isLimited" doc:"Limited/festival-only pour"`
	IsCustom         bool      `json:"isCustom" doc:"Submitted by an attendee rather than seeded"`
	PaidTastingPrice *int      `json:"paidTastingPrice" doc:"Paid tasting price in yen, null when included in admission"`
	AddedBy          *string   `json:"addedBy" doc:"Submitting user ID for custom sakes"`
	CreatedAt        time.Time `json:"createdAt" doc:"Creation time"`
	AverageRating    *float64  `json:"averageRating,omitempty" doc:"Average review rating, null when unreviewed"`
}

// BreweryDetailResponse is a brewery with its sakes.
type BreweryDetailResponse struct {
	BreweryResponse
	Sakes []SakeResponse `json:"sakes" doc:"Sakes poured at this booth"`
}

// BreweryDetailOutput wraps the brewery detail for Huma.
type BreweryDetailOutput struct {
	Body BreweryDetailResponse
}

// NoteResponse contains brewery note data in API responses.
type NoteResponse struct {
	NoteID    int64     `json:"noteId" doc:"Note ID"`
	UserID    string    `json:"userId" doc:"Author's user ID"`
	UserName  string    `json:"userName,omitempty" doc:"Author's display name"`
	BreweryID int64     `json:"breweryId" doc:"Brewery ID"`
	Comment   string    `json:"comment" doc:"Note text"`
	CreatedAt time.Time `json:"createdAt" doc:"Creation time"`
}

// ListBreweryNotesOutput wraps the note list for Huma.
type ListBreweryNotesOutput struct {
	Body []NoteResponse
}

// NoteRequest is the request body for creating or updating a note.
type NoteRequest struct {
	Content string `json:"content" validate:"required,max=500" doc:"Note text"`
}

// CreateBreweryNoteInput wraps the note creation request for Huma.
type CreateBreweryNoteInput struct {
	UserID string `header:"X-User-Id" doc:"Caller's user ID"`
	ID     int64  `path:"id" doc:"Brewery ID"`
	Body   NoteRequest
}

// NoteOutput wraps a single note for Huma.
type NoteOutput struct {
	Body NoteResponse
}

// UpdateBreweryNoteInput wraps the note update request for Huma.
type UpdateBreweryNoteInput struct {
	UserID string `header:"X-User-Id" doc:"Caller's user ID"`
	ID     int64  `path:"id" doc:"Brewery ID"`
	NoteID int64  `path:"noteId" doc:"Note ID"`
	Body   NoteRequest
}

// DeleteBreweryNoteInput identifies a note to delete.
type DeleteBreweryNoteInput struct {
	UserID string `header:"X-User-Id" doc:"Caller's user ID"`
	ID     int64  `path:"id" doc:"Brewery ID"`
	NoteID int64  `path:"noteId" doc:"Note ID"`
}

// CreateCustomSakeRequest is the request body for adding a custom sake.
type CreateCustomSakeRequest struct {
	Name             string  `json:"name" validate:"required,max=100" doc:"Sake name"`
	Type             *string `json:"type,omitempty" validate:"omitempty,max=50" doc:"Free-form type"`
	Category         string  `json:"category,omitempty" doc:"Category, defaults to 清酒"`
	IsLimited        bool    `json:"isLimited,omitempty" doc:"Limited pour"`
	PaidTastingPrice *int    `json:"paidTastingPrice,omitempty" doc:"Paid tasting price in yen"`
}

// CreateCustomSakeInput wraps the custom sake request for Huma.
type CreateCustomSakeInput struct {
	UserID string `header:"X-User-Id" doc:"Caller's user ID"`
	ID     int64  `path:"id" doc:"Brewery ID"`
	Body   CreateCustomSakeRequest
}

// SakeOutput wraps a single sake for Huma.
type SakeOutput struct {
	Body SakeResponse
}

// === Handlers ===

func (s *Server) handleListBreweries(ctx context.Context, input *ListBreweriesInput) (*ListBreweriesOutput, error) {
	// X-User-Id is optional here: anonymous visitors still see the map,
	// they just lose the hasMyReview flag.
	listings, err := s.services.Brewery.List(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	resp := make([]BreweryResponse, len(listings))
	for i, l := range listings {
		resp[i] = BreweryResponse{
			BreweryID:     l.ID,
			Name:          l.Name,
			BoothNumber:   l.BoothNumber,
			MapPositionX:  l.MapPositionX,
			MapPositionY:  l.MapPositionY,
			Area:          l.Area,
			AverageRating: l.AverageRating,
		}
		if input.UserID != "" {
			hasMyReview := l.HasMyReview
			resp[i].HasMyReview = &hasMyReview
		}
	}

	return &ListBreweriesOutput{Body: resp}, nil
}

func (s *Server) handleGetBrewery(ctx context.Context, input *GetBreweryInput) (*BreweryDetailOutput, error) {
	detail, err := s.services.Brewery.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	sakes := make([]SakeResponse, len(detail.Sakes))
	for i, sk := range detail.Sakes {
		sakes[i] = sakeResponse(&sk.Sake)
		sakes[i].AverageRating = sk.AverageRating
	}

	return &BreweryDetailOutput{
		Body: BreweryDetailResponse{
			BreweryResponse: BreweryResponse{
				BreweryID:    detail.Brewery.ID,
				Name:         detail.Brewery.Name,
				BoothNumber:  detail.Brewery.BoothNumber,
				MapPositionX: detail.Brewery.MapPositionX,
				MapPositionY: detail.Brewery.MapPositionY,
				Area:         detail.Brewery.Area,
			},
			Sakes: sakes,
		},
	}, nil
}

func (s *Server) handleListBreweryNotes(ctx context.Context, input *GetBreweryInput) (*ListBreweryNotesOutput, error) {
	notes, err := s.services.Note.List(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	resp := make([]NoteResponse, len(notes))
	for i, n := range notes {
		resp[i] = NoteResponse{
			NoteID:    n.ID,
			UserID:    n.UserID,
			UserName:  n.UserName,
			BreweryID: n.BreweryID,
			Comment:   n.Comment,
			CreatedAt: n.CreatedAt,
		}
	}

	return &ListBreweryNotesOutput{Body: resp}, nil
}

func (s *Server) handleCreateBreweryNote(ctx context.Context, input *CreateBreweryNoteInput) (*NoteOutput, error) {
	user, err := s.requireUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	note, err := s.services.Note.Create(ctx, user.ID, input.ID, input.Body.Content)
	if err != nil {
		return nil, err
	}

	return &NoteOutput{
		Body: NoteResponse{
			NoteID:    note.ID,
			UserID:    note.UserID,
			BreweryID: note.BreweryID,
			Comment:   note.Comment,
			CreatedAt: note.CreatedAt,
		},
	}, nil
}

func (s *Server) handleUpdateBreweryNote(ctx context.Context, input *UpdateBreweryNoteInput) (*NoteOutput, error) {
	user, err := s.requireUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	note, err := s.services.Note.Update(ctx, user.ID, input.NoteID, input.Body.Content)
	if err != nil {
		return nil, err
	}

	return &NoteOutput{
		Body: NoteResponse{
			NoteID:    note.ID,
			UserID:    note.UserID,
			BreweryID: note.BreweryID,
			Comment:   note.Comment,
			CreatedAt: note.CreatedAt,
		},
	}, nil
}

func (s *Server) handleDeleteBreweryNote(ctx context.Context, input *DeleteBreweryNoteInput) (*struct{}, error) {
	user, err := s.requireUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	if err := s.services.Note.Delete(ctx, user.ID, input.NoteID); err != nil {
		return nil, err
	}

	return nil, nil
}

func (s *Server) handleCreateCustomSake(ctx context.Context, input *CreateCustomSakeInput) (*SakeOutput, error) {
	user, err := s.requireUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	sake, err := s.services.Brewery.AddCustomSake(ctx, user.ID, input.ID, service.AddCustomSakeInput{
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
