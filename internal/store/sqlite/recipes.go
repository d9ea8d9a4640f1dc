package sqlite

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"

	"github.com/abhie-lp/recipe-app-api/internal/domain"
	"github.com/abhie-lp/recipe-app-api/internal/store"
)

const recipeColumns = `id, title, time_minutes, price, link, image, image_blur_hash, user_id, created_at, updated_at`

func scanRecipe(scanner interface{ Scan(dest ...any) error }) (*domain.Recipe, error) {
	var r domain.Recipe

	var (
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&r.ID,
		&r.Title,
		&r.TimeMinutes,
		&r.Price,
		&r.Link,
		&r.Image,
		&r.ImageBlurHash,
		&r.UserID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	r.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &r, nil
}

// CreateRecipe inserts a recipe along with its tag and ingredient links in
// a single transaction and assigns the recipe's server-generated ID.
func (s *Store) CreateRecipe(ctx context.Context, r *domain.Recipe, tagIDs, ingredientIDs []int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO recipes (title, time_minutes, price, link, image, image_blur_hash, user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Title,
		r.TimeMinutes,
		r.Price,
		r.Link,
		r.Image,
		r.ImageBlurHash,
		r.UserID,
		formatTime(r.CreatedAt),
		formatTime(r.UpdatedAt),
	)
	if err != nil {
		return err
	}

	r.ID, err = res.LastInsertId()
	if err != nil {
		return err
	}

	if err := insertRecipeLinks(ctx, tx, r.ID, tagIDs, ingredientIDs); err != nil {
		return err
	}

	return tx.Commit()
}

// GetRecipe retrieves a recipe with its tags and ingredients, scoped to
// its owner. Returns store.ErrNotFound when the recipe does not exist or
// belongs to another user.
func (s *Store) GetRecipe(ctx context.Context, userID, id int64) (*domain.Recipe, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes WHERE id = ? AND user_id = ?`, id, userID)

	r, err := scanRecipe(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.loadRecipeLinks(ctx, []*domain.Recipe{r}); err != nil {
		return nil, err
	}

	return r, nil
}

// ListRecipes returns the user's recipes, newest first, with tags and
// ingredients attached. Filter ids narrow the result to recipes linked to
// any of the given tags and any of the given ingredients.
func (s *Store) ListRecipes(ctx context.Context, userID int64, filter store.RecipeFilter) ([]*domain.Recipe, error) {
	q := qb.
		Select(recipeColumns).
		From("recipes").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("id DESC")

	if len(filter.TagIDs) > 0 {
		q = q.Where(sq.Expr(
			"id IN (SELECT recipe_id FROM recipe_tags WHERE tag_id IN ("+sq.Placeholders(len(filter.TagIDs))+"))",
			int64Args(filter.TagIDs)...,
		))
	}
	if len(filter.IngredientIDs) > 0 {
		q = q.Where(sq.Expr(
			"id IN (SELECT recipe_id FROM recipe_ingredients WHERE ingredient_id IN ("+sq.Placeholders(len(filter.IngredientIDs))+"))",
			int64Args(filter.IngredientIDs)...,
		))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recipes := []*domain.Recipe{}
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.loadRecipeLinks(ctx, recipes); err != nil {
		return nil, err
	}

	return recipes, nil
}

// ListAllRecipes returns every recipe across all users with tag and
// ingredient links attached. It exists for rebuilding the search index.
func (s *Store) ListAllRecipes(ctx context.Context) ([]*domain.Recipe, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recipes := []*domain.Recipe{}
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.loadRecipeLinks(ctx, recipes); err != nil {
		return nil, err
	}

	return recipes, nil
}

// UpdateRecipe updates a recipe's fields and, when tagIDs or ingredientIDs
// is non-nil, replaces the corresponding link set. A nil slice leaves the
// existing links untouched. Returns store.ErrNotFound when the recipe does
// not exist or belongs to another user.
func (s *Store) UpdateRecipe(ctx context.Context, r *domain.Recipe, tagIDs, ingredientIDs []int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE recipes
		SET title = ?, time_minutes = ?, price = ?, link = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		r.Title,
		r.TimeMinutes,
		r.Price,
		r.Link,
		formatTime(r.UpdatedAt),
		r.ID,
		r.UserID,
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

	if tagIDs != nil {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM recipe_tags WHERE recipe_id = ?`, r.ID); err != nil {
			return err
		}
		if err := insertRecipeLinks(ctx, tx, r.ID, tagIDs, nil); err != nil {
			return err
		}
	}
	if ingredientIDs != nil {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM recipe_ingredients WHERE recipe_id = ?`, r.ID); err != nil {
			return err
		}
		if err := insertRecipeLinks(ctx, tx, r.ID, nil, ingredientIDs); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SetRecipeImage records the stored image filename and blur hash for a
// recipe, scoped to its owner.
func (s *Store) SetRecipeImage(ctx context.Context, userID, id int64, filename, blurHash string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE recipes SET image = ?, image_blur_hash = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		filename,
		blurHash,
		formatTime(nowUTC()),
		id,
		userID,
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

// DeleteRecipe removes a recipe and its links, scoped to its owner.
func (s *Store) DeleteRecipe(ctx context.Context, userID, id int64) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM recipes WHERE id = ? AND user_id = ?`, id, userID)
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

// insertRecipeLinks adds m2m rows for the recipe. Links are a set, so a
// repeated id in the input collapses to a single row.
func insertRecipeLinks(ctx context.Context, tx *sql.Tx, recipeID int64, tagIDs, ingredientIDs []int64) error {
	for _, tagID := range tagIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO recipe_tags (recipe_id, tag_id) VALUES (?, ?)`,
			recipeID, tagID); err != nil {
			return err
		}
	}
	for _, ingredientID := range ingredientIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO recipe_ingredients (recipe_id, ingredient_id) VALUES (?, ?)`,
			recipeID, ingredientID); err != nil {
			return err
		}
	}
	return nil
}

// loadRecipeLinks batch-loads tags and ingredients for the given recipes.
func (s *Store) loadRecipeLinks(ctx context.Context, recipes []*domain.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}

	byID := make(map[int64]*domain.Recipe, len(recipes))
	ids := make([]int64, 0, len(recipes))
	for _, r := range recipes {
		r.Tags = []*domain.Tag{}
		r.Ingredients = []*domain.Ingredient{}
		byID[r.ID] = r
		ids = append(ids, r.ID)
	}

	query, args, err := qb.
		Select("rt.recipe_id, t.id, t.name, t.user_id, t.created_at, t.updated_at").
		From("recipe_tags rt").
		Join("tags t ON t.id = rt.tag_id").
		Where(sq.Eq{"rt.recipe_id": ids}).
		OrderBy("t.name DESC").
		ToSql()
	if err != nil {
		return err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			recipeID  int64
			t         domain.Tag
			createdAt string
			updatedAt string
		)
		if err := rows.Scan(&recipeID, &t.ID, &t.Name, &t.UserID, &createdAt, &updatedAt); err != nil {
			return err
		}
		if t.CreatedAt, err = parseTime(createdAt); err != nil {
			return err
		}
		if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return err
		}
		if r, ok := byID[recipeID]; ok {
			r.Tags = append(r.Tags, &t)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	query, args, err = qb.
		Select("ri.recipe_id, i.id, i.name, i.user_id, i.created_at, i.updated_at").
		From("recipe_ingredients ri").
		Join("ingredients i ON i.id = ri.ingredient_id").
		Where(sq.Eq{"ri.recipe_id": ids}).
		OrderBy("i.name DESC").
		ToSql()
	if err != nil {
		return err
	}

	ingRows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer ingRows.Close()

	for ingRows.Next() {
		var (
			recipeID  int64
			ing       domain.Ingredient
			createdAt string
			updatedAt string
		)
		if err := ingRows.Scan(&recipeID, &ing.ID, &ing.Name, &ing.UserID, &createdAt, &updatedAt); err != nil {
			return err
		}
		if ing.CreatedAt, err = parseTime(createdAt); err != nil {
			return err
		}
		if ing.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return err
		}
		if r, ok := byID[recipeID]; ok {
			r.Ingredients = append(r.Ingredients, &ing)
		}
	}
	return ingRows.Err()
}
