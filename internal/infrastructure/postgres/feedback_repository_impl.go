package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/cornucopia-api/internal/domain/entity"
	"github.com/oksasatya/cornucopia-api/internal/domain/repository"
)

// Comments and upvotes share a table shape: id, author, recipe, text, created.

const (
	commentColumns = `id, commenter_profile_id, recipe_id, comment, created`
	upvoteColumns  = `id, voter_profile_id, recipe_id, upvote, created`
)

type CommentRepository struct {
	pool *pgxpool.Pool
}

func NewCommentRepository(pool *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{pool: pool}
}

func scanComment(row pgx.Row) (*entity.Comment, error) {
	c := &entity.Comment{}
	if err := row.Scan(&c.ID, &c.CommenterProfileID, &c.RecipeID, &c.Comment, &c.Created); err != nil {
		return nil, mapErr(err)
	}
	return c, nil
}

func collectComments(rows pgx.Rows, err error) ([]entity.Comment, error) {
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Comment, error) {
		c, err := scanComment(row)
		if err != nil {
			return entity.Comment{}, err
		}
		return *c, nil
	})
}

func (r *CommentRepository) Create(ctx context.Context, c *entity.Comment) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO comments (id, commenter_profile_id, recipe_id, comment, created)
		VALUES ($1, $2, $3, $4, $5)
	`, c.ID, c.CommenterProfileID, c.RecipeID, c.Comment, c.Created)
	return mapErr(err)
}

func (r *CommentRepository) GetByID(ctx context.Context, id string) (*entity.Comment, error) {
	return scanComment(r.pool.QueryRow(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = $1`, id))
}

func (r *CommentRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.Comment, error) {
	if len(ids) == 0 {
		return []entity.Comment{}, nil
	}
	found, err := collectComments(r.pool.Query(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = ANY($1)`, ids))
	if err != nil {
		return nil, err
	}
	return orderByIDs(ids, found, func(c entity.Comment) string { return c.ID }), nil
}

func (r *CommentRepository) Update(ctx context.Context, id string, patch entity.CommentPatch) (*entity.Comment, error) {
	if patch.Comment == nil {
		return r.GetByID(ctx, id)
	}
	return scanComment(r.pool.QueryRow(ctx,
		`UPDATE comments SET comment = $2 WHERE id = $1 RETURNING `+commentColumns, id, *patch.Comment))
}

func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *CommentRepository) DeleteByCommenter(ctx context.Context, profileID string) ([]entity.Comment, error) {
	return collectComments(r.pool.Query(ctx,
		`DELETE FROM comments WHERE commenter_profile_id = $1 RETURNING `+commentColumns, profileID))
}

func (r *CommentRepository) DeleteByRecipe(ctx context.Context, recipeID string) ([]entity.Comment, error) {
	return collectComments(r.pool.Query(ctx,
		`DELETE FROM comments WHERE recipe_id = $1 RETURNING `+commentColumns, recipeID))
}

type UpvoteRepository struct {
	pool *pgxpool.Pool
}

func NewUpvoteRepository(pool *pgxpool.Pool) *UpvoteRepository {
	return &UpvoteRepository{pool: pool}
}

func scanUpvote(row pgx.Row) (*entity.Upvote, error) {
	u := &entity.Upvote{}
	if err := row.Scan(&u.ID, &u.VoterProfileID, &u.RecipeID, &u.Upvote, &u.Created); err != nil {
		return nil, mapErr(err)
	}
	return u, nil
}

func collectUpvotes(rows pgx.Rows, err error) ([]entity.Upvote, error) {
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Upvote, error) {
		u, err := scanUpvote(row)
		if err != nil {
			return entity.Upvote{}, err
		}
		return *u, nil
	})
}

func (r *UpvoteRepository) Create(ctx context.Context, u *entity.Upvote) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO upvotes (id, voter_profile_id, recipe_id, upvote, created)
		VALUES ($1, $2, $3, $4, $5)
	`, u.ID, u.VoterProfileID, u.RecipeID, u.Upvote, u.Created)
	return mapErr(err)
}

func (r *UpvoteRepository) GetByID(ctx context.Context, id string) (*entity.Upvote, error) {
	return scanUpvote(r.pool.QueryRow(ctx, `SELECT `+upvoteColumns+` FROM upvotes WHERE id = $1`, id))
}

func (r *UpvoteRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.Upvote, error) {
	if len(ids) == 0 {
		return []entity.Upvote{}, nil
	}
	found, err := collectUpvotes(r.pool.Query(ctx, `SELECT `+upvoteColumns+` FROM upvotes WHERE id = ANY($1)`, ids))
	if err != nil {
		return nil, err
	}
	return orderByIDs(ids, found, func(u entity.Upvote) string { return u.ID }), nil
}

func (r *UpvoteRepository) Update(ctx context.Context, id string, patch entity.UpvotePatch) (*entity.Upvote, error) {
	if patch.Upvote == nil {
		return r.GetByID(ctx, id)
	}
	return scanUpvote(r.pool.QueryRow(ctx,
		`UPDATE upvotes SET upvote = $2 WHERE id = $1 RETURNING `+upvoteColumns, id, *patch.Upvote))
}

func (r *UpvoteRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM upvotes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UpvoteRepository) DeleteByVoter(ctx context.Context, profileID string) ([]entity.Upvote, error) {
	return collectUpvotes(r.pool.Query(ctx,
		`DELETE FROM upvotes WHERE voter_profile_id = $1 RETURNING `+upvoteColumns, profileID))
}

func (r *UpvoteRepository) DeleteByRecipe(ctx context.Context, recipeID string) ([]entity.Upvote, error) {
	return collectUpvotes(r.pool.Query(ctx,
		`DELETE FROM upvotes WHERE recipe_id = $1 RETURNING `+upvoteColumns, recipeID))
}

var (
	_ repository.CommentRepository = (*CommentRepository)(nil)
	_ repository.UpvoteRepository  = (*UpvoteRepository)(nil)
)
