package store

import (
	"context"
	"database/sql"

	"github.com/sakenavi/sakenavi-server/internal/domain"
)

// BreweryListing is a brewery row for the map view, carrying the rolled-up
// average rating over every review of every sake at the booth and whether
// the requesting user has reviewed anything there.
type BreweryListing struct {
	domain.Brewery
	AverageRating *float64
	HasMyReview   bool
}

// CreateBrewery inserts a brewery. Used by the seeder only; the API
// surface treats breweries as read-only reference data.
func (s *Store) CreateBrewery(ctx context.Context, b *domain.Brewery) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO breweries (name, booth_number, map_position_x, map_position_y, area)
		VALUES (?, ?, ?, ?, ?)`,
		b.Name, nullableInt(b.BoothNumber), b.MapPositionX, b.MapPositionY, nullableString(b.Area))
	if err != nil {
		return err
	}
	b.ID, err = res.LastInsertId()
	return err
}

// GetBrewery retrieves a brewery by ID. Returns ErrNotFound if absent.
func (s *Store) GetBrewery(ctx context.Context, breweryID int64) (*domain.Brewery, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT brewery_id, name, booth_number, map_position_x, map_position_y, area
		FROM breweries WHERE brewery_id = ?`, breweryID)

	var b domain.Brewery
	var boothNumber sql.NullInt64
	var area sql.NullString

	err := row.Scan(&b.ID, &b.Name, &boothNumber, &b.MapPositionX, &b.MapPositionY, &area)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	b.BoothNumber = intPtr(boothNumber)
	b.Area = stringPtr(area)
	return &b, nil
}

// GetBreweryByName retrieves a brewery by exact name. Used by the seeder
// to keep reruns idempotent. Returns ErrNotFound if absent.
func (s *Store) GetBreweryByName(ctx context.Context, name string) (*domain.Brewery, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT brewery_id, name, booth_number, map_position_x, map_position_y, area
		FROM breweries WHERE name = ?`, name)

	var b domain.Brewery
	var boothNumber sql.NullInt64
	var area sql.NullString

	err := row.Scan(&b.ID, &b.Name, &boothNumber, &b.MapPositionX, &b.MapPositionY, &area)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	b.BoothNumber = intPtr(boothNumber)
	b.Area = stringPtr(area)
	return &b, nil
}

// ListBreweries returns every brewery with its average rating computed
// across all reviews of its sakes. The average is recomputed per read so
// a review add or delete is visible immediately. When userID is non-empty,
// HasMyReview reports whether that user has reviewed any sake at the booth.
func (s *Store) ListBreweries(ctx context.Context, userID string) ([]*BreweryListing, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT b.brewery_id, b.name, b.booth_number, b.map_position_x, b.map_position_y, b.area,
			(SELECT AVG(CAST(r.rating AS REAL))
			 FROM reviews r
			 INNER JOIN sakes sk ON sk.sake_id = r.sake_id
			 WHERE sk.brewery_id = b.brewery_id) AS average_rating,
			EXISTS (SELECT 1
			 FROM reviews r
			 INNER JOIN sakes sk ON sk.sake_id = r.sake_id
			 WHERE sk.brewery_id = b.brewery_id AND r.user_id = ?) AS has_my_review
		FROM breweries b
		ORDER BY b.brewery_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []*BreweryListing
	for rows.Next() {
		var l BreweryListing
		var boothNumber sql.NullInt64
		var area sql.NullString
		var avg sql.NullFloat64
		var hasMyReview int

		err := rows.Scan(&l.ID, &l.Name, &boothNumber, &l.MapPositionX, &l.MapPositionY,
			&area, &avg, &hasMyReview)
		if err != nil {
			return nil, err
		}

		l.BoothNumber = intPtr(boothNumber)
		l.Area = stringPtr(area)
		l.AverageRating = floatPtr(avg)
		l.HasMyReview = hasMyReview != 0
		listings = append(listings, &l)
	}
	return listings, rows.Err()
}
