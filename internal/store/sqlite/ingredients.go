package sqlite

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"

	"github.com/abhie-lp/recipe-app-api/internal/domain"
	"github.com/abhie-lp/recipe-app-api/internal/store"
)

const ingredientColumns = `id, name, user_id, created_at, updated_at`

func scanIngredient(scanner interface{ Scan(dest ...any) error }) (*domain.Ingredient, error) {
	var ing domain.Ingredient

	var (
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&ing.ID,
		&ing.Name,
		&ing.UserID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	ing.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	ing.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &ing, nil
}

// CreateIngredient inserts a new ingredient and assigns its server-generated ID.
func (s *Store) CreateIngredient(ctx context.Context, ing *domain.Ingredient) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO ingredients (name, user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?)`,
		ing.Name,
		ing.UserID,
		formatTime(ing.CreatedAt),
		formatTime(ing.UpdatedAt),
	)
	if err != nil {
		return err
	}

	ing.ID, err = res.LastInsertId()
	return err
}

// GetIngredient retrieves an ingredient by ID, scoped to its owner.
func (s *Store) GetIngredient(ctx context.Context, userID, id int64) (*domain.Ingredient, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+ingredientColumns+` FROM ingredients WHERE id = ? AND user_id = ?`, id, userID)

	ing, err := scanIngredient(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return ing, nil
}

// GetIngredientsByIDs returns the subset of the given ingredient ids owned
// by userID.
func (s *Store) GetIngredientsByIDs(ctx context.Context, userID int64, ids []int64) ([]*domain.Ingredient, error) {
	if len(ids) == 0 {
		return []*domain.Ingredient{}, nil
	}

	query, args, err := qb.
		Select(ingredientColumns).
		From("ingredients").
		Where(sq.Eq{"user_id": userID, "id": ids}).
		OrderBy("name DESC").
		ToSql()
	if err != nil {
		return nil, err
	}

	return s.queryIngredients(ctx, query, args...)
}

// ListIngredients returns the user's ingredients ordered by descending name.
// With assignedOnly, only ingredients linked to at least one recipe are
// returned.
func (s *Store) ListIngredients(ctx context.Context, userID int64, assignedOnly bool) ([]*domain.Ingredient, error) {
	q := qb.
		Select(ingredientColumns).
		From("ingredients").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("name DESC")

	if assignedOnly {
		q = q.Where("id IN (SELECT ingredient_id FROM recipe_ingredients)")
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	return s.queryIngredients(ctx, query, args...)
}

// UpdateIngredient updates an ingredient's name, scoped to its owner.
func (s *Store) UpdateIngredient(ctx context.Context, ing *domain.Ingredient) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE ingredients SET name = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		ing.Name,
		formatTime(ing.UpdatedAt),
		ing.ID,
		ing.UserID,
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

// DeleteIngredient removes an ingredient and its recipe links, scoped to
// its owner.
func (s *Store) DeleteIngredient(ctx context.Context, userID, id int64) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM ingredients WHERE id = ? AND user_id = ?`, id, userID)
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

func (s *Store) queryIngredients(ctx context.Context, query string, args ...any) ([]*domain.Ingredient, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ingredients := []*domain.Ingredient{}
	for rows.Next() {
		ing, err := scanIngredient(rows)
		if err != nil {
			return nil, err
		}
		ingredients = append(ingredients, ing)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ingredients, nil
}
