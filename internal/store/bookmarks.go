package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/sakenavi/sakenavi-server/internal/domain"
)

// CreateBookmark inserts a bookmark and fills in the generated ID.
// Returns ErrAlreadyExists if the user already bookmarked the sake.
func (s *Store) CreateBookmark(ctx context.Context, bookmark *domain.Bookmark) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO bookmarks (user_id, sake_id, created_at)
		VALUES (?, ?, ?)`,
		bookmark.UserID,
		bookmark.SakeID,
		FormatTime(bookmark.CreatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrAlreadyExists
		}
		return err
	}
	bookmark.ID, err = res.LastInsertId()
	return err
}

// DeleteBookmark removes a user's bookmark of a sake.
// Returns ErrNotFound if there was no such bookmark.
func (s *Store) DeleteBookmark(ctx context.Context, userID string, sakeID int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM bookmarks WHERE user_id = ? AND sake_id = ?`,
		userID, sakeID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// BookmarkListing is a bookmark row with joined sake display fields.
type BookmarkListing struct {
	domain.Bookmark
	SakeName         string
	SakeType         *string
	Category         domain.Category
	IsLimited        bool
	PaidTastingPrice *int
	BreweryID        int64
	BreweryName      string
}

// ListBookmarks returns a user's bookmarks, oldest first.
func (s *Store) ListBookmarks(ctx context.Context, userID string) ([]*BookmarkListing, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT bm.bookmark_id, bm.user_id, bm.sake_id, bm.created_at,
			sk.name, sk.type, sk.category, sk.is_limited, sk.paid_tasting_price,
			sk.brewery_id, b.name
		FROM bookmarks bm
		INNER JOIN sakes sk ON sk.sake_id = bm.sake_id
		INNER JOIN breweries b ON b.brewery_id = sk.brewery_id
		WHERE bm.user_id = ?
		ORDER BY bm.created_at, bm.bookmark_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []*BookmarkListing
	for rows.Next() {
		var l BookmarkListing
		var (
			createdAt string
			sakeType  sql.NullString
			category  string
			isLimited int
			price     sql.NullInt64
		)

		err := rows.Scan(&l.ID, &l.UserID, &l.SakeID, &createdAt,
			&l.SakeName, &sakeType, &category, &isLimited, &price,
			&l.BreweryID, &l.BreweryName)
		if err != nil {
			return nil, err
		}

		l.SakeType = stringPtr(sakeType)
		l.Category = domain.Category(category)
		l.IsLimited = isLimited != 0
		l.PaidTastingPrice = intPtr(price)
		l.CreatedAt, err = parseTimeField(createdAt, "created_at")
		if err != nil {
			return nil, err
		}
		listings = append(listings, &l)
	}
	return listings, rows.Err()
}
