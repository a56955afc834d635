package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"shopfront/internal/domain"
)

type BrandRepo struct{ db sqlx.ExtContext }

func NewBrandRepo(db sqlx.ExtContext) *BrandRepo { return &BrandRepo{db: db} }

func (r *BrandRepo) List(ctx context.Context) ([]domain.Brand, error) {
	out := []domain.Brand{}
	err := sqlx.SelectContext(ctx, r.db, &out, `
	  SELECT id, name, COALESCE(country,'') AS country
	  FROM brands
	  ORDER BY name
	`)
	return out, err
}

func (r *BrandRepo) Create(ctx context.Context, name, country string) (domain.Brand, error) {
	var b domain.Brand
	err := sqlx.GetContext(ctx, r.db, &b, r.db.Rebind(`
	  INSERT INTO brands(name, country) VALUES(?, ?)
	  RETURNING id, name, COALESCE(country,'') AS country
	`), name, country)
	return b, err
}

func (r *BrandRepo) Update(ctx context.Context, id int64, name string, country *string) (domain.Brand, error) {
	var b domain.Brand
	err := sqlx.GetContext(ctx, r.db, &b, r.db.Rebind(`
	  UPDATE brands SET name = ?, country = COALESCE(?, country)
	  WHERE id = ?
	  RETURNING id, name, COALESCE(country,'') AS country
	`), name, country, id)
	return b, notFound(err, "brand")
}

func (r *BrandRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM brands WHERE id = ?`), id)
	if err != nil {
		return err
	}
	return mustAffect(res, "brand")
}
