package services

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"shopfront/internal/domain"
	"shopfront/internal/repos"
)

type UserService struct {
	Users *repos.UserRepo
}

func NewUserService(users *repos.UserRepo) *UserService { return &UserService{Users: users} }

// ProfileUpdate holds optional profile changes; Password is plain text.
type ProfileUpdate struct {
	Username *string
	Email    *string
	Password *string
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) { return s.Users.List(ctx) }

// Get returns the user when the caller is that user or an admin.
func (s *UserService) Get(ctx context.Context, caller domain.Identity, id int64) (*domain.User, error) {
	if caller.UserID != id && !caller.IsAdmin {
		return nil, domain.ErrAccessDenied
	}
	return s.Users.ByID(ctx, id)
}

func (s *UserService) Update(ctx context.Context, caller domain.Identity, id int64, p ProfileUpdate) (*domain.User, error) {
	if caller.UserID != id && !caller.IsAdmin {
		return nil, domain.ErrAccessDenied
	}
	patch := repos.UserPatch{}
	if p.Username != nil {
		name := strings.TrimSpace(*p.Username)
		patch.Username = &name
	}
	if p.Email != nil {
		email := normalizeEmail(*p.Email)
		patch.Email = &email
	}
	if p.Password != nil {
		h, err := bcrypt.GenerateFromPassword([]byte(*p.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		hash := string(h)
		patch.Hash = &hash
	}
	return s.Users.Update(ctx, id, patch)
}

// SetAdmin changes the single role flag of a user.
func (s *UserService) SetAdmin(ctx context.Context, id int64, isAdmin bool) (*domain.User, error) {
	return s.Users.SetAdmin(ctx, id, isAdmin)
}
