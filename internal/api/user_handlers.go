package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "registerUser",
		Method:        http.MethodPost,
		Path:          "/api/users",
		Summary:       "Register user",
		Description:   "Registers a display name and returns the generated user ID",
		Tags:          []string{"Users"},
		DefaultStatus: http.StatusCreated,
	}, s.handleRegisterUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentUser",
		Method:      http.MethodGet,
		Path:        "/api/users/me",
		Summary:     "Get current user",
		Description: "Returns the user identified by the X-User-Id header",
		Tags:        []string{"Users"},
	}, s.handleGetCurrentUser)
}

// === DTOs ===

// RegisterUserRequest is the request body for registering a user.
type RegisterUserRequest struct {
	Name string `json:"name" validate:"required,max=30" doc:"Display name"`
}

// RegisterUserInput wraps the register request for Huma.
type RegisterUserInput struct {
	Body RegisterUserRequest
}

// UserResponse contains user data in API responses.
type UserResponse struct {
	ID        string    `json:"id" doc:"Opaque user ID; the client stores this as its whole identity"`
	Name      string    `json:"name" doc:"Display name"`
	CreatedAt time.Time `json:"createdAt" doc:"Registration time"`
}

// UserOutput wraps the user response for Huma.
type UserOutput struct {
	Body UserResponse
}

// GetCurrentUserInput identifies the caller.
type GetCurrentUserInput struct {
	UserID string `header:"X-User-Id" doc:"Caller's user ID"`
}

// === Handlers ===

func (s *Server) handleRegisterUser(ctx context.Context, input *RegisterUserInput) (*UserOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	user, err := s.services.User.Register(ctx, clientAddr(ctx), input.Body.Name)
	if err != nil {
		return nil, err
	}

	return &UserOutput{
		Body: UserResponse{
			ID:        user.ID,
			Name:      user.Name,
			CreatedAt: user.CreatedAt,
		},
	}, nil
}

func (s *Server) handleGetCurrentUser(ctx context.Context, input *GetCurrentUserInput) (*UserOutput, error) {
	user, err := s.requireUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	return &UserOutput{
		Body: UserResponse{
			ID:        user.ID,
			Name:      user.Name,
			CreatedAt: user.CreatedAt,
		},
	}, nil
}
