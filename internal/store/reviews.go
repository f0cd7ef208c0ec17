package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/sakenavi/sakenavi-server/internal/domain"
)

// encodeTags serializes a tag list as a JSON array for storage.
// A nil or empty list is stored as "[]" so json_each always works.
func encodeTags(tags []string) (string, error) {
	if len(tags) == 0 {
		return "[]", nil
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encoding tags: %w", err)
	}
	return string(raw), nil
}

func decodeTags(raw string) ([]string, error) {
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, fmt.Errorf("decoding tags: %w", err)
	}
	return tags, nil
}

// CreateReview inserts a review and fills in the generated ID.
func (s *Store) CreateReview(ctx context.Context, review *domain.Review) error {
	tags, err := encodeTags(review.Tags)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO reviews (user_id, sake_id, rating, tags, comment, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		review.UserID,
		review.SakeID,
		review.Rating,
		tags,
		nullableString(review.Comment),
		FormatTime(review.CreatedAt),
	)
	if err != nil {
		return err
	}
	review.ID, err = res.LastInsertId()
	return err
}

// GetReview retrieves a review by ID. Returns ErrNotFound if absent.
func (s *Store) GetReview(ctx context.Context, reviewID int64) (*domain.Review, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT review_id, user_id, sake_id, rating, tags, comment, created_at
		FROM reviews
		WHERE review_id = ?`, reviewID)

	review, err := scanReview(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return review, nil
}

// UpdateReview replaces the mutable fields of a review.
// Returns ErrNotFound if the review does not exist.
func (s *Store) UpdateReview(ctx context.Context, review *domain.Review) error {
	tags, err := encodeTags(review.Tags)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE reviews
		SET rating = ?, tags = ?, comment = ?
		WHERE review_id = ?`,
		review.Rating,
		tags,
		nullableString(review.Comment),
		review.ID,
	)
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

// DeleteReview removes a review. Returns ErrNotFound if absent.
func (s *Store) DeleteReview(ctx context.Context, reviewID int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM reviews WHERE review_id = ?`, reviewID)
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

// ReviewListing is a review row with the reviewer's display name.
type ReviewListing struct {
	domain.Review
	UserName string
}

// ListSakeReviews returns all reviews of a sake, newest first.
func (s *Store) ListSakeReviews(ctx context.Context, sakeID int64) ([]*ReviewListing, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.review_id, r.user_id, r.sake_id, r.rating, r.tags, r.comment, r.created_at,
			u.name
		FROM reviews r
		INNER JOIN users u ON u.user_id = r.user_id
		WHERE r.sake_id = ?
		ORDER BY r.created_at DESC, r.review_id DESC`, sakeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []*ReviewListing
	for rows.Next() {
		var l ReviewListing
		var (
			tags      string
			comment   sql.NullString
			createdAt string
		)

		err := rows.Scan(&l.ID, &l.UserID, &l.SakeID, &l.Rating, &tags,
			&comment, &createdAt, &l.UserName)
		if err != nil {
			return nil, err
		}

		l.Tags, err = decodeTags(tags)
		if err != nil {
			return nil, err
		}
		l.Comment = stringPtr(comment)
		l.CreatedAt, err = parseTimeField(createdAt, "created_at")
		if err != nil {
			return nil, err
		}
		listings = append(listings, &l)
	}
	return listings, rows.Err()
}

// SakeAverageRating returns the mean review rating of a sake, or nil
// when the sake has no reviews.
func (s *Store) SakeAverageRating(ctx context.Context, sakeID int64) (*float64, error) {
	var avg sql.NullFloat64
	err := s.db.QueryRowContext(ctx,
		`SELECT AVG(CAST(rating AS REAL)) FROM reviews WHERE sake_id = ?`,
		sakeID).Scan(&avg)
	if err != nil {
		return nil, err
	}
	return floatPtr(avg), nil
}

// Review search sort orders.
const (
	ReviewSortLatest = "latest"
	ReviewSortRating = "rating"
)

// ReviewSearchRow is a review search result with joined display fields.
type ReviewSearchRow struct {
	domain.Review
	UserName    string
	SakeName    string
	SakeType    *string
	BreweryID   int64
	BreweryName string
}

// ReviewSearchParams filters the review search.
type ReviewSearchParams struct {
	// Tags narrows to reviews carrying every listed tag.
	Tags []string
	// UserID narrows to a single reviewer when non-empty.
	UserID string
	// Sort is ReviewSortLatest or ReviewSortRating.
	Sort string
	// AfterCreatedAt is the exclusive created-at cursor in storage
	// format; empty means first page. Used by both sort orders.
	AfterCreatedAt string
	// AfterRating pairs with AfterCreatedAt for the rating sort.
	AfterRating int
	Limit       int
}

// SearchReviews returns reviews matching the filters, at most
// params.Limit rows past the cursor position.
//
// The latest sort orders by created_at descending. The rating sort
// orders by rating descending with created_at descending as the
// tie-break, so its cursor is the (rating, created_at) pair of the last
// row of the previous page.
func (s *Store) SearchReviews(ctx context.Context, params ReviewSearchParams) ([]*ReviewSearchRow, error) {
	query := `
		SELECT r.review_id, r.user_id, r.sake_id, r.rating, r.tags, r.comment, r.created_at,
			u.name, sk.name, sk.type, sk.brewery_id, b.name
		FROM reviews r
		INNER JOIN users u ON u.user_id = r.user_id
		INNER JOIN sakes sk ON sk.sake_id = r.sake_id
		INNER JOIN breweries b ON b.brewery_id = sk.brewery_id
		WHERE 1 = 1`
	var args []any

	for _, tag := range params.Tags {
		query += ` AND EXISTS (SELECT 1 FROM json_each(r.tags) WHERE json_each.value = ?)`
		args = append(args, tag)
	}
	if params.UserID != "" {
		query += ` AND r.user_id = ?`
		args = append(args, params.UserID)
	}

	switch params.Sort {
	case ReviewSortRating:
		if params.AfterCreatedAt != "" {
			query += ` AND (r.rating < ? OR (r.rating = ? AND r.created_at < ?))`
			args = append(args, params.AfterRating, params.AfterRating, params.AfterCreatedAt)
		}
		query += ` ORDER BY r.rating DESC, r.created_at DESC, r.review_id DESC`
	default:
		if params.AfterCreatedAt != "" {
			query += ` AND r.created_at < ?`
			args = append(args, params.AfterCreatedAt)
		}
		query += ` ORDER BY r.created_at DESC, r.review_id DESC`
	}

	query += ` LIMIT ?`
	args = append(args, params.Limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*ReviewSearchRow
	for rows.Next() {
		var r ReviewSearchRow
		var (
			tags      string
			comment   sql.NullString
			sakeType  sql.NullString
			createdAt string
		)

		err := rows.Scan(&r.ID, &r.UserID, &r.SakeID, &r.Rating, &tags, &comment,
			&createdAt, &r.UserName, &r.SakeName, &sakeType, &r.BreweryID, &r.BreweryName)
		if err != nil {
			return nil, err
		}
		r.SakeType = stringPtr(sakeType)

		r.Tags, err = decodeTags(tags)
		if err != nil {
			return nil, err
		}
		r.Comment = stringPtr(comment)
		r.CreatedAt, err = parseTimeField(createdAt, "created_at")
		if err != nil {
			return nil, err
		}
		results = append(results, &r)
	}
	return results, rows.Err()
}

func scanReview(row *sql.Row) (*domain.Review, error) {
	var review domain.Review
	var (
		tags      string
		comment   sql.NullString
		createdAt string
	)

	err := row.Scan(&review.ID, &review.UserID, &review.SakeID, &review.Rating,
		&tags, &comment, &createdAt)
	if err != nil {
		return nil, err
	}

	review.Tags, err = decodeTags(tags)
	if err != nil {
		return nil, err
	}
	review.Comment = stringPtr(comment)
	review.CreatedAt, err = parseTimeField(createdAt, "created_at")
	if err != nil {
		return nil, err
	}
	return &review, nil
}
