package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/cornucopia-api/internal/domain/entity"
	"github.com/oksasatya/cornucopia-api/internal/domain/repository"
)

const profileColumns = `id, user_id, name, profile_pic_uri, recipes, comments, upvotes, created`

type ProfileRepository struct {
	refs
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{
		pool: pool,
		refs: refs{pool: pool, table: "profiles", columns: map[repository.RefField]string{
			repository.RefRecipes:  "recipes",
			repository.RefComments: "comments",
			repository.RefUpvotes:  "upvotes",
		}},
	}
}

func scanProfile(row pgx.Row) (*entity.Profile, error) {
	p := &entity.Profile{}
	if err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.ProfilePicURI, &p.Recipes, &p.Comments, &p.Upvotes, &p.Created); err != nil {
		return nil, mapErr(err)
	}
	p.Normalize()
	return p, nil
}

func (r *ProfileRepository) Create(ctx context.Context, p *entity.Profile) error {
	p.Normalize()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO profiles (id, user_id, name, profile_pic_uri, recipes, comments, upvotes, created)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, p.ID, p.UserID, p.Name, p.ProfilePicURI, p.Recipes, p.Comments, p.Upvotes, p.Created)
	return mapErr(err)
}

func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*entity.Profile, error) {
	return scanProfile(r.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id))
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*entity.Profile, error) {
	return scanProfile(r.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`, userID))
}

func (r *ProfileRepository) List(ctx context.Context) ([]entity.Profile, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+profileColumns+` FROM profiles ORDER BY created, id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Profile, error) {
		p, err := scanProfile(row)
		if err != nil {
			return entity.Profile{}, err
		}
		return *p, nil
	})
}

func (r *ProfileRepository) Update(ctx context.Context, id string, patch entity.ProfilePatch) (*entity.Profile, error) {
	var s setList
	if patch.Name != nil {
		s.add("name", *patch.Name)
	}
	if patch.ProfilePicURI != nil {
		s.add("profile_pic_uri", *patch.ProfilePicURI)
	}
	if s.empty() {
		return r.GetByID(ctx, id)
	}
	q, args := s.update("profiles", id, profileColumns)
	return scanProfile(r.pool.QueryRow(ctx, q, args...))
}

func (r *ProfileRepository) SetPicURI(ctx context.Context, id string, uri *string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE profiles SET profile_pic_uri = $2 WHERE id = $1`, id, uri)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ProfileRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.ProfileRepository = (*ProfileRepository)(nil)
