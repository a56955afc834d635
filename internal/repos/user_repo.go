package repos

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"shopfront/internal/domain"
)

type UserRepo struct{ db sqlx.ExtContext }

func NewUserRepo(db sqlx.ExtContext) *UserRepo { return &UserRepo{db: db} }

const userCols = `id, username, email, password_hash, is_admin, CAST(created_at AS TEXT) AS created_at`

func (r *UserRepo) ByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := sqlx.GetContext(ctx, r.db, &u, r.db.Rebind(`SELECT `+userCols+` FROM users WHERE LOWER(email)=LOWER(?)`), email)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return &u, nil
}

func (r *UserRepo) ByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	err := sqlx.GetContext(ctx, r.db, &u, r.db.Rebind(`SELECT `+userCols+` FROM users WHERE id=?`), id)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return &u, nil
}

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	out := []domain.User{}
	err := sqlx.SelectContext(ctx, r.db, &out, `SELECT `+userCols+` FROM users ORDER BY id`)
	return out, err
}

// Create inserts a user; a taken email surfaces as a conflict.
func (r *UserRepo) Create(ctx context.Context, username, email, hash string) (*domain.User, error) {
	var u domain.User
	err := sqlx.GetContext(ctx, r.db, &u, r.db.Rebind(`
		INSERT INTO users(username, email, password_hash, is_admin)
		VALUES(?, ?, ?, ?)
		RETURNING `+userCols), username, email, hash, false)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: email already registered", domain.ErrConflict)
		}
		return nil, err
	}
	return &u, nil
}

// UserPatch carries optional profile changes; nil fields are left untouched.
type UserPatch struct {
	Username *string
	Email    *string
	Hash     *string
}

func (r *UserRepo) Update(ctx context.Context, id int64, p UserPatch) (*domain.User, error) {
	var u domain.User
	err := sqlx.GetContext(ctx, r.db, &u, r.db.Rebind(`
		UPDATE users SET
		  username = COALESCE(?, username),
		  email = COALESCE(?, email),
		  password_hash = COALESCE(?, password_hash)
		WHERE id = ?
		RETURNING `+userCols), p.Username, p.Email, p.Hash, id)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: email already registered", domain.ErrConflict)
		}
		return nil, notFound(err, "user")
	}
	return &u, nil
}

func (r *UserRepo) SetAdmin(ctx context.Context, id int64, isAdmin bool) (*domain.User, error) {
	var u domain.User
	err := sqlx.GetContext(ctx, r.db, &u, r.db.Rebind(`UPDATE users SET is_admin = ? WHERE id = ? RETURNING `+userCols), isAdmin, id)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return &u, nil
}
