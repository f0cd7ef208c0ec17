package store

import (
	"context"
	"database/sql"

	"github.com/sakenavi/sakenavi-server/internal/domain"
)

// CreateBreweryNote inserts a note and fills in the generated ID.
func (s *Store) CreateBreweryNote(ctx context.Context, note *domain.BreweryNote) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO brewery_notes (user_id, brewery_id, comment, created_at)
		VALUES (?, ?, ?, ?)`,
		note.UserID,
		note.BreweryID,
		note.Comment,
		FormatTime(note.CreatedAt),
	)
	if err != nil {
		return err
	}
	note.ID, err = res.LastInsertId()
	return err
}

// GetBreweryNote retrieves a note by ID. Returns ErrNotFound if absent.
func (s *Store) GetBreweryNote(ctx context.Context, noteID int64) (*domain.BreweryNote, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT note_id, user_id, brewery_id, comment, created_at
		FROM brewery_notes
		WHERE note_id = ?`, noteID)

	var note domain.BreweryNote
	var createdAt string
	err := row.Scan(&note.ID, &note.UserID, &note.BreweryID, &note.Comment, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	note.CreatedAt, err = parseTimeField(createdAt, "created_at")
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// UpdateBreweryNote replaces the comment of a note.
// Returns ErrNotFound if the note does not exist.
func (s *Store) UpdateBreweryNote(ctx context.Context, note *domain.BreweryNote) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE brewery_notes SET comment = ? WHERE note_id = ?`,
		note.Comment, note.ID)
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

// DeleteBreweryNote removes a note. Returns ErrNotFound if absent.
func (s *Store) DeleteBreweryNote(ctx context.Context, noteID int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM brewery_notes WHERE note_id = ?`, noteID)
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

// BreweryNoteListing is a note row with the author's display name.
type BreweryNoteListing struct {
	domain.BreweryNote
	UserName string
}

// ListBreweryNotes returns all notes of a brewery, newest first.
func (s *Store) ListBreweryNotes(ctx context.Context, breweryID int64) ([]*BreweryNoteListing, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT n.note_id, n.user_id, n.brewery_id, n.comment, n.created_at,
			u.name
		FROM brewery_notes n
		INNER JOIN users u ON u.user_id = n.user_id
		WHERE n.brewery_id = ?
		ORDER BY n.created_at DESC, n.note_id DESC`, breweryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []*BreweryNoteListing
	for rows.Next() {
		var l BreweryNoteListing
		var createdAt string

		err := rows.Scan(&l.ID, &l.UserID, &l.BreweryID, &l.Comment, &createdAt, &l.UserName)
		if err != nil {
			return nil, err
		}

		l.CreatedAt, err = parseTimeField(createdAt, "created_at")
		if err != nil {
			return nil, err
		}
		listings = append(listings, &l)
	}
	return listings, rows.Err()
}
