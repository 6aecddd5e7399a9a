package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/cornucopia-api/internal/domain/entity"
	"github.com/oksasatya/cornucopia-api/internal/domain/repository"
)

const picColumns = `id, owner_id, owner_kind, image_uri, object_key, created`

type PicRepository struct {
	pool *pgxpool.Pool
}

func NewPicRepository(pool *pgxpool.Pool) *PicRepository {
	return &PicRepository{pool: pool}
}

func scanPic(row pgx.Row) (*entity.Pic, error) {
	p := &entity.Pic{}
	var kind string
	if err := row.Scan(&p.ID, &p.OwnerID, &kind, &p.ImageURI, &p.ObjectKey, &p.Created); err != nil {
		return nil, mapErr(err)
	}
	p.OwnerKind = entity.OwnerKind(kind)
	return p, nil
}

func collectPics(rows pgx.Rows, err error) ([]entity.Pic, error) {
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Pic, error) {
		p, err := scanPic(row)
		if err != nil {
			return entity.Pic{}, err
		}
		return *p, nil
	})
}

func (r *PicRepository) Create(ctx context.Context, p *entity.Pic) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO pics (id, owner_id, owner_kind, image_uri, object_key, created)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, p.ID, p.OwnerID, string(p.OwnerKind), p.ImageURI, p.ObjectKey, p.Created)
	return mapErr(err)
}

func (r *PicRepository) GetByID(ctx context.Context, id string) (*entity.Pic, error) {
	return scanPic(r.pool.QueryRow(ctx, `SELECT `+picColumns+` FROM pics WHERE id = $1`, id))
}

func (r *PicRepository) ListByOwner(ctx context.Context, ownerID string) ([]entity.Pic, error) {
	return collectPics(r.pool.Query(ctx,
		`SELECT `+picColumns+` FROM pics WHERE owner_id = $1 ORDER BY created, id`, ownerID))
}

func (r *PicRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM pics WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PicRepository) DeleteByOwners(ctx context.Context, ownerIDs []string) ([]entity.Pic, error) {
	if len(ownerIDs) == 0 {
		return nil, nil
	}
	return collectPics(r.pool.Query(ctx,
		`DELETE FROM pics WHERE owner_id = ANY($1) RETURNING `+picColumns, ownerIDs))
}

var _ repository.PicRepository = (*PicRepository)(nil)
