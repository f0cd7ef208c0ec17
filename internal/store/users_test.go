package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sakenavi/sakenavi-server/internal/domain"
)

func TestCreateAndGetUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := &domain.User{
		ID:        "a1b2c3d4e5f60718",
		Name:      "さけのみ太郎",
		CreatedAt: time.Now().UTC(),
	}
	if err := s.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	got, err := s.GetUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("ID: got %q, want %q", got.ID, user.ID)
	}
	if got.Name != user.Name {
		t.Errorf("Name: got %q, want %q", got.Name, user.Name)
	}
	if got.CreatedAt.Unix() != user.CreatedAt.Unix() {
		t.Errorf("CreatedAt: got %v, want %v", got.CreatedAt, user.CreatedAt)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetUser(context.Background(), "nonexistent")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateUser_DuplicateName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedUser(t, s, "user-1", "alice")

	dup := &domain.User{ID: "user-2", Name: "alice", CreatedAt: time.Now().UTC()}
	err := s.CreateUser(ctx, dup)
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestGetUserByName(t *testing.T) {
	s := newTestStore(t)

	seedUser(t, s, "user-1", "alice")

	got, err := s.GetUserByName(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GetUserByName: %v", err)
	}
	if got.ID != "user-1" {
		t.Errorf("ID: got %q, want %q", got.ID, "user-1")
	}

	_, err = s.GetUserByName(context.Background(), "bob")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
