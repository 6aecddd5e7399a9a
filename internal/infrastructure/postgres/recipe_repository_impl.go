package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/cornucopia-api/internal/domain/entity"
	"github.com/oksasatya/cornucopia-api/internal/domain/repository"
)

const recipeColumns = `id, profile_id, description, ingredients, instructions, cook_time, prep_time,
	recipe_name, recipe_pic_uri, categories, comments, upvotes, created`

type RecipeRepository struct {
	refs
	pool *pgxpool.Pool
}

func NewRecipeRepository(pool *pgxpool.Pool) *RecipeRepository {
	return &RecipeRepository{
		pool: pool,
		refs: refs{pool: pool, table: "recipes", columns: map[repository.RefField]string{
			repository.RefComments: "comments",
			repository.RefUpvotes:  "upvotes",
		}},
	}
}

func scanRecipe(row pgx.Row) (*entity.Recipe, error) {
	rc := &entity.Recipe{}
	if err := row.Scan(&rc.ID, &rc.ProfileID, &rc.Description, &rc.Ingredients, &rc.Instructions,
		&rc.CookTime, &rc.PrepTime, &rc.RecipeName, &rc.RecipePicURI, &rc.Categories,
		&rc.Comments, &rc.Upvotes, &rc.Created); err != nil {
		return nil, mapErr(err)
	}
	rc.Normalize()
	return rc, nil
}

func collectRecipes(rows pgx.Rows, err error) ([]entity.Recipe, error) {
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Recipe, error) {
		rc, err := scanRecipe(row)
		if err != nil {
			return entity.Recipe{}, err
		}
		return *rc, nil
	})
}

func (r *RecipeRepository) Create(ctx context.Context, rc *entity.Recipe) error {
	rc.Normalize()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO recipes (id, profile_id, description, ingredients, instructions, cook_time, prep_time,
			recipe_name, recipe_pic_uri, categories, comments, upvotes, created)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, rc.ID, rc.ProfileID, rc.Description, rc.Ingredients, rc.Instructions, rc.CookTime, rc.PrepTime,
		rc.RecipeName, rc.RecipePicURI, rc.Categories, rc.Comments, rc.Upvotes, rc.Created)
	return mapErr(err)
}

func (r *RecipeRepository) GetByID(ctx context.Context, id string) (*entity.Recipe, error) {
	return scanRecipe(r.pool.QueryRow(ctx, `SELECT `+recipeColumns+` FROM recipes WHERE id = $1`, id))
}

func (r *RecipeRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.Recipe, error) {
	if len(ids) == 0 {
		return []entity.Recipe{}, nil
	}
	found, err := collectRecipes(r.pool.Query(ctx, `SELECT `+recipeColumns+` FROM recipes WHERE id = ANY($1)`, ids))
	if err != nil {
		return nil, err
	}
	return orderByIDs(ids, found, func(rc entity.Recipe) string { return rc.ID }), nil
}

func (r *RecipeRepository) Update(ctx context.Context, id string, patch entity.RecipePatch) (*entity.Recipe, error) {
	var s setList
	if patch.Description != nil {
		s.add("description", *patch.Description)
	}
	if patch.Ingredients != nil {
		s.add("ingredients", *patch.Ingredients)
	}
	if patch.Instructions != nil {
		s.add("instructions", *patch.Instructions)
	}
	if patch.CookTime != nil {
		s.add("cook_time", *patch.CookTime)
	}
	if patch.PrepTime != nil {
		s.add("prep_time", *patch.PrepTime)
	}
	if patch.RecipeName != nil {
		s.add("recipe_name", *patch.RecipeName)
	}
	if patch.RecipePicURI != nil {
		s.add("recipe_pic_uri", *patch.RecipePicURI)
	}
	if patch.Categories != nil {
		s.add("categories", *patch.Categories)
	}
	if s.empty() {
		return r.GetByID(ctx, id)
	}
	q, args := s.update("recipes", id, recipeColumns)
	return scanRecipe(r.pool.QueryRow(ctx, q, args...))
}

func (r *RecipeRepository) SetPicURI(ctx context.Context, id string, uri *string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE recipes SET recipe_pic_uri = $2 WHERE id = $1`, id, uri)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *RecipeRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM recipes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *RecipeRepository) DeleteByProfile(ctx context.Context, profileID string) ([]entity.Recipe, error) {
	return collectRecipes(r.pool.Query(ctx, `DELETE FROM recipes WHERE profile_id = $1 RETURNING `+recipeColumns, profileID))
}

var _ repository.RecipeRepository = (*RecipeRepository)(nil)
