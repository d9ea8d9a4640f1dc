package sqlite

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"

	"github.com/abhie-lp/recipe-app-api/internal/domain"
	"github.com/abhie-lp/recipe-app-api/internal/store"
)

// tagColumns is the ordered list of columns selected in tag queries.
// Must match the scan order in scanTag.
const tagColumns = `id, name, user_id, created_at, updated_at`

// scanTag scans a sql.Row (or sql.Rows via its Scan method) into a domain.Tag.
func scanTag(scanner interface{ Scan(dest ...any) error }) (*domain.Tag, error) {
	var t domain.Tag

	var (
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&t.ID,
		&t.Name,
		&t.UserID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	t.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// CreateTag inserts a new tag and assigns its server-generated ID.
func (s *Store) CreateTag(ctx context.Context, t *domain.Tag) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO tags (name, user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?)`,
		t.Name,
		t.UserID,
		formatTime(t.CreatedAt),
		formatTime(t.UpdatedAt),
	)
	if err != nil {
		return err
	}

	t.ID, err = res.LastInsertId()
	return err
}

// GetTag retrieves a tag by ID, scoped to its owner.
// Returns store.ErrNotFound when the tag does not exist or belongs to
// another user.
func (s *Store) GetTag(ctx context.Context, userID, id int64) (*domain.Tag, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE id = ? AND user_id = ?`, id, userID)

	t, err := scanTag(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// GetTagsByIDs returns the subset of the given tag ids owned by userID.
// Callers compare the result length against len(ids) to detect foreign or
// unknown references.
func (s *Store) GetTagsByIDs(ctx context.Context, userID int64, ids []int64) ([]*domain.Tag, error) {
	if len(ids) == 0 {
		return []*domain.Tag{}, nil
	}

	query, args, err := qb.
		Select(tagColumns).
		From("tags").
		Where(sq.Eq{"user_id": userID, "id": ids}).
		OrderBy("name DESC").
		ToSql()
	if err != nil {
		return nil, err
	}

	return s.queryTags(ctx, query, args...)
}

// ListTags returns the user's tags ordered by descending name.
// With assignedOnly, only tags linked to at least one recipe are returned.
func (s *Store) ListTags(ctx context.Context, userID int64, assignedOnly bool) ([]*domain.Tag, error) {
	q := qb.
		Select(tagColumns).
		From("tags").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("name DESC")

	if assignedOnly {
		q = q.Where("id IN (SELECT tag_id FROM recipe_tags)")
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	return s.queryTags(ctx, query, args...)
}

// UpdateTag updates a tag's name, scoped to its owner.
// Returns store.ErrNotFound when the tag does not exist or belongs to
// another user.
func (s *Store) UpdateTag(ctx context.Context, t *domain.Tag) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE tags SET name = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		t.Name,
		formatTime(t.UpdatedAt),
		t.ID,
		t.UserID,
	)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteTag removes a tag and its recipe links, scoped to its owner.
// Returns store.ErrNotFound when the tag does not exist or belongs to
// another user.
func (s *Store) DeleteTag(ctx context.Context, userID, id int64) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM tags WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// queryTags runs a tag query and scans all rows.
func (s *Store) queryTags(ctx context.Context, query string, args ...any) ([]*domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []*domain.Tag{}
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tags, nil
}
