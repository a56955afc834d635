package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"shopfront/internal/domain"
)

type CategoryRepo struct{ db sqlx.ExtContext }

func NewCategoryRepo(db sqlx.ExtContext) *CategoryRepo { return &CategoryRepo{db: db} }

func (r *CategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	out := []domain.Category{}
	err := sqlx.SelectContext(ctx, r.db, &out, `
	  SELECT id, name, COALESCE(description,'') AS description
	  FROM categories
	  ORDER BY name
	`)
	return out, err
}

func (r *CategoryRepo) Create(ctx context.Context, name, description string) (domain.Category, error) {
	var c domain.Category
	err := sqlx.GetContext(ctx, r.db, &c, r.db.Rebind(`
	  INSERT INTO categories(name, description) VALUES(?, ?)
	  RETURNING id, name, COALESCE(description,'') AS description
	`), name, description)
	return c, err
}

func (r *CategoryRepo) Update(ctx context.Context, id int64, name string, description *string) (domain.Category, error) {
	var c domain.Category
	err := sqlx.GetContext(ctx, r.db, &c, r.db.Rebind(`
	  UPDATE categories SET name = ?, description = COALESCE(?, description)
	  WHERE id = ?
	  RETURNING id, name, COALESCE(description,'') AS description
	`), name, description, id)
	return c, notFound(err, "category")
}

func (r *CategoryRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM categories WHERE id = ?`), id)
	if err != nil {
		return err
	}
	return mustAffect(res, "category")
}
