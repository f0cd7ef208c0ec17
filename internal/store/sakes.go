package store

import (
	"context"
	"database/sql"

	"github.com/sakenavi/sakenavi-server/internal/domain"
)

// sakeColumns is the ordered list of columns selected in sake queries.
// Must match the scan order in scanSake.
const sakeColumns = `sake_id, brewery_id, name, type, category,
	is_limited, is_custom, paid_tasting_price, added_by, created_at`

// scanSake scans a sql.Row (or sql.Rows via its Scan method) into a domain.Sake.
func scanSake(scanner interface{ Scan(dest ...any) error }) (*domain.Sake, error) {
	var sake domain.Sake
	var (
		sakeType  sql.NullString
		category  string
		isLimited int
		isCustom  int
		price     sql.NullInt64
		addedBy   sql.NullString
		createdAt string
	)

	err := scanner.Scan(
		&sake.ID,
		&sake.BreweryID,
		&sake.Name,
		&sakeType,
		&category,
		&isLimited,
		&isCustom,
		&price,
		&addedBy,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	sake.Type = stringPtr(sakeType)
	sake.Category = domain.Category(category)
	sake.IsLimited = isLimited != 0
	sake.IsCustom = isCustom != 0
	sake.PaidTastingPrice = intPtr(price)
	sake.AddedBy = stringPtr(addedBy)

	sake.CreatedAt, err = parseTimeField(createdAt, "created_at")
	if err != nil {
		return nil, err
	}
	return &sake, nil
}

// CreateSake inserts a sake and fills in the generated ID.
func (s *Store) CreateSake(ctx context.Context, sake *domain.Sake) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO sakes (brewery_id, name, type, category, is_limited, is_custom,
			paid_tasting_price, added_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sake.BreweryID,
		sake.Name,
		nullableString(sake.Type),
		string(sake.Category),
		boolToInt(sake.IsLimited),
		boolToInt(sake.IsCustom),
		nullableInt(sake.PaidTastingPrice),
		nullableString(sake.AddedBy),
		FormatTime(sake.CreatedAt),
	)
	if err != nil {
		return err
	}
	sake.ID, err = res.LastInsertId()
	return err
}

// GetSake retrieves a sake by ID. Returns ErrNotFound if absent.
func (s *Store) GetSake(ctx context.Context, sakeID int64) (*domain.Sake, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sakeColumns+` FROM sakes WHERE sake_id = ?`, sakeID)

	sake, err := scanSake(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return sake, nil
}

// UpdateSake updates the editable fields of a sake.
// Returns ErrNotFound if the sake does not exist.
func (s *Store) UpdateSake(ctx context.Context, sake *domain.Sake) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE sakes
		SET name = ?, type = ?, category = ?, is_limited = ?, paid_tasting_price = ?
		WHERE sake_id = ?`,
		sake.Name,
		nullableString(sake.Type),
		string(sake.Category),
		boolToInt(sake.IsLimited),
		nullableInt(sake.PaidTastingPrice),
		sake.ID,
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

// BrewerySakeListing is a sake row for the brewery detail view.
type BrewerySakeListing struct {
	domain.Sake
	AverageRating *float64
}

// ListBrewerySakes returns the sakes of a brewery, each with its average
// review rating (null when unreviewed).
func (s *Store) ListBrewerySakes(ctx context.Context, breweryID int64) ([]*BrewerySakeListing, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+sakeColumns+`,
			(SELECT AVG(CAST(r.rating AS REAL)) FROM reviews r WHERE r.sake_id = sakes.sake_id)
		FROM sakes
		WHERE brewery_id = ?
		ORDER BY sake_id`, breweryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []*BrewerySakeListing
	for rows.Next() {
		l, err := scanSakeListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

// SakeSearchRow is a sake search result with joined display fields.
type SakeSearchRow struct {
	domain.Sake
	BreweryName   string
	AverageRating *float64
}

// SakeSearchParams filters the sake search.
type SakeSearchParams struct {
	// Query is matched as a case-sensitive substring against the sake
	// name or the brewery name.
	Query           string
	Category        domain.Category
	LimitedOnly     bool
	PaidTastingOnly bool
	// AfterID is the exclusive sake-id cursor; zero means first page.
	AfterID int64
	// Limit is the maximum number of rows to return.
	Limit int
}

// SearchSakes returns sakes matching the filters ordered by sake_id
// ascending, at most params.Limit rows starting after params.AfterID.
func (s *Store) SearchSakes(ctx context.Context, params SakeSearchParams) ([]*SakeSearchRow, error) {
	query := `
		SELECT sk.sake_id, sk.brewery_id, sk.name, sk.type, sk.category,
			sk.is_limited, sk.is_custom, sk.paid_tasting_price, sk.added_by, sk.created_at,
			b.name,
			(SELECT AVG(CAST(r.rating AS REAL)) FROM reviews r WHERE r.sake_id = sk.sake_id)
		FROM sakes sk
		INNER JOIN breweries b ON b.brewery_id = sk.brewery_id
		WHERE sk.sake_id > ?`
	args := []any{params.AfterID}

	if params.Query != "" {
		// instr is case-sensitive, unlike LIKE. The search contract is an
		// exact substring match.
		query += ` AND (instr(sk.name, ?) > 0 OR instr(b.name, ?) > 0)`
		args = append(args, params.Query, params.Query)
	}
	if params.Category != "" {
		query += ` AND sk.category = ?`
		args = append(args, string(params.Category))
	}
	if params.LimitedOnly {
		query += ` AND sk.is_limited = 1`
	}
	if params.PaidTastingOnly {
		query += ` AND sk.paid_tasting_price IS NOT NULL`
	}

	query += ` ORDER BY sk.sake_id LIMIT ?`
	args = append(args, params.Limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*SakeSearchRow
	for rows.Next() {
		var r SakeSearchRow
		var (
			sakeType  sql.NullString
			category  string
			isLimited int
			isCustom  int
			price     sql.NullInt64
			addedBy   sql.NullString
			createdAt string
			avg       sql.NullFloat64
		)

		err := rows.Scan(&r.ID, &r.BreweryID, &r.Name, &sakeType, &category,
			&isLimited, &isCustom, &price, &addedBy, &createdAt, &r.BreweryName, &avg)
		if err != nil {
			return nil, err
		}

		r.Type = stringPtr(sakeType)
		r.Category = domain.Category(category)
		r.IsLimited = isLimited != 0
		r.IsCustom = isCustom != 0
		r.PaidTastingPrice = intPtr(price)
		r.AddedBy = stringPtr(addedBy)
		r.AverageRating = floatPtr(avg)

		r.CreatedAt, err = parseTimeField(createdAt, "created_at")
		if err != nil {
			return nil, err
		}
		results = append(results, &r)
	}
	return results, rows.Err()
}

func scanSakeListing(rows *sql.Rows) (*BrewerySakeListing, error) {
	var l BrewerySakeListing
	var (
		sakeType  sql.NullString
		category  string
		isLimited int
		isCustom  int
		price     sql.NullInt64
		addedBy   sql.NullString
		createdAt string
		avg       sql.NullFloat64
	)

	err := rows.Scan(&l.ID, &l.BreweryID, &l.Name, &sakeType, &category,
		&isLimited, &isCustom, &price, &addedBy, &createdAt, &avg)
	if err != nil {
		return nil, err
	}

	l.Type = stringPtr(sakeType)
	l.Category = domain.Category(category)
	l.IsLimited = isLimited != 0
	l.IsCustom = isCustom != 0
	l.PaidTastingPrice = intPtr(price)
	l.AddedBy = stringPtr(addedBy)
	l.AverageRating = floatPtr(avg)

	l.CreatedAt, err = parseTimeField(createdAt, "created_at")
	if err != nil {
		return nil, err
	}
	return &l, nil
}
