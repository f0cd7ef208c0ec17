package store

import (
	"context"
	"database/sql"
	"time"
)

// ReviewFeedRow is a review joined with everything the timeline renders.
type ReviewFeedRow struct {
	ReviewID         int64
	UserName         string
	SakeID           int64
	SakeName         string
	BreweryID        int64
	BreweryName      string
	Rating           int
	Tags             []string
	Comment          *string
	IsLimited        bool
	PaidTastingPrice *int
	CreatedAt        time.Time
}

// NoteFeedRow is a brewery note joined with everything the timeline renders.
type NoteFeedRow struct {
	NoteID      int64
	UserName    string
	BreweryID   int64
	BreweryName string
	Comment     string
	CreatedAt   time.Time
}

// ListReviewFeed returns the newest reviews across all sakes, at most
// limit rows strictly older than the before cursor (storage-format
// timestamp; empty means no bound).
func (s *Store) ListReviewFeed(ctx context.Context, before string, limit int) ([]*ReviewFeedRow, error) {
	query := `
		SELECT r.review_id, u.name, r.sake_id, sk.name, sk.brewery_id, b.name,
			r.rating, r.tags, r.comment, sk.is_limited, sk.paid_tasting_price, r.created_at
		FROM reviews r
		INNER JOIN users u ON u.user_id = r.user_id
		INNER JOIN sakes sk ON sk.sake_id = r.sake_id
		INNER JOIN breweries b ON b.brewery_id = sk.brewery_id`
	var args []any

	if before != "" {
		query += ` WHERE r.created_at < ?`
		args = append(args, before)
	}
	query += ` ORDER BY r.created_at DESC, r.review_id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var feed []*ReviewFeedRow
	for rows.Next() {
		var r ReviewFeedRow
		var (
			tags      string
			comment   sql.NullString
			isLimited int
			price     sql.NullInt64
			createdAt string
		)

		err := rows.Scan(&r.ReviewID, &r.UserName, &r.SakeID, &r.SakeName,
			&r.BreweryID, &r.BreweryName, &r.Rating, &tags, &comment,
			&isLimited, &price, &createdAt)
		if err != nil {
			return nil, err
		}

		r.Tags, err = decodeTags(tags)
		if err != nil {
			return nil, err
		}
		r.Comment = stringPtr(comment)
		r.IsLimited = isLimited != 0
		r.PaidTastingPrice = intPtr(price)
		r.CreatedAt, err = parseTimeField(createdAt, "created_at")
		if err != nil {
			return nil, err
		}
		feed = append(feed, &r)
	}
	return feed, rows.Err()
}

// ListNoteFeed returns the newest brewery notes, at most limit rows
// strictly older than the before cursor.
func (s *Store) ListNoteFeed(ctx context.Context, before string, limit int) ([]*NoteFeedRow, error) {
	query := `
		SELECT n.note_id, u.name, n.brewery_id, b.name, n.comment, n.created_at
		FROM brewery_notes n
		INNER JOIN users u ON u.user_id = n.user_id
		INNER JOIN breweries b ON b.brewery_id = n.brewery_id`
	var args []any

	if before != "" {
		query += ` WHERE n.created_at < ?`
		args = append(args, before)
	}
	query += ` ORDER BY n.created_at DESC, n.note_id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var feed []*NoteFeedRow
	for rows.Next() {
		var n NoteFeedRow
		var createdAt string

		err := rows.Scan(&n.NoteID, &n.UserName, &n.BreweryID, &n.BreweryName,
			&n.Comment, &createdAt)
		if err != nil {
			return nil, err
		}

		n.CreatedAt, err = parseTimeField(createdAt, "created_at")
		if err != nil {
			return nil, err
		}
		feed = append(feed, &n)
	}
	return feed, rows.Err()
}
