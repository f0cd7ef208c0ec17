// Package service provides the business logic layer for festival reviews,
// brewery notes, bookmarks, and the activity timeline.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sakenavi/sakenavi-server/internal/domain"
	apperrors "github.com/sakenavi/sakenavi-server/internal/errors"
	"github.com/sakenavi/sakenavi-server/internal/id"
	"github.com/sakenavi/sakenavi-server/internal/ratelimit"
	"github.com/sakenavi/sakenavi-server/internal/store"
)

const (
	// Registration throttle per client address.
	registerRPS   = 0.2
	registerBurst = 3
)

// UserService handles registration and identity lookups.
type UserService struct {
	store   *store.Store
	logger  *slog.Logger
	limiter *ratelimit.KeyedRateLimiter
}

// NewUserService creates a new user service.
func NewUserService(store *store.Store, logger *slog.Logger) *UserService {
	return &UserService{
		store:   store,
		logger:  logger,
		limiter: ratelimit.New(registerRPS, registerBurst),
	}
}

// Close releases the registration limiter.
func (s *UserService) Close() {
	s.limiter.Stop()
}

// Register creates a user with a unique display name. clientAddr keys
// the registration throttle.
func (s *UserService) Register(ctx context.Context, clientAddr, name string) (*domain.User, error) {
	if !s.limiter.Allow(clientAddr) {
		return nil, apperrors.RateLimited("登録リクエストが多すぎます。しばらくしてからお試しください")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.Validation("名前を入力してください")
	}
	if len([]rune(name)) > domain.MaxUserNameLength {
		return nil, apperrors.Validationf("名前は%d文字以内で入力してください", domain.MaxUserNameLength)
	}

	user := &domain.User{
		ID:        id.NewUserID(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if apperrors.Is(err, store.ErrAlreadyExists) {
			return nil, apperrors.Conflict("この名前は既に使用されています")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered",
		"user_id", user.ID,
		"name", user.Name,
	)
	return user, nil
}

// Get retrieves a user by ID.
func (s *UserService) Get(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if apperrors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("ユーザーが見つかりません")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}
