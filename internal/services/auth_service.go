package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"shopfront/internal/domain"
	"shopfront/internal/repos"
)

// Claims is the JWT payload; the subject holds the user id.
type Claims struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

type AuthService struct {
	Users  *repos.UserRepo
	Secret []byte
	TTL    time.Duration
}

func NewAuthService(users *repos.UserRepo, secret string, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &AuthService{Users: users, Secret: []byte(secret), TTL: ttl}
}

// Register creates a non-admin account and returns it with a fresh token.
// Input format is validated by the caller.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.User, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}
	u, err := s.Users.Create(ctx, strings.TrimSpace(username), normalizeEmail(email), string(hash))
	if err != nil {
		return nil, "", err
	}
	tok, err := s.Issue(u)
	if err != nil {
		return nil, "", err
	}
	return u, tok, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	u, err := s.Users.ByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", domain.ErrBadCreds
		}
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, "", domain.ErrBadCreds
	}
	tok, err := s.Issue(u)
	if err != nil {
		return nil, "", err
	}
	return u, tok, nil
}

// Issue signs an HS256 token for u.
func (s *AuthService) Issue(u *domain.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: u.Username,
		Email:    u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(u.ID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
}

// Parse verifies the token and returns the user id it was issued for.
func (s *AuthService) Parse(token string) (int64, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return s.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad subject", domain.ErrUnauthenticated)
	}
	return id, nil
}

// CurrentUser resolves a token to the stored user, so role changes apply
// to tokens issued before them.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	id, err := s.Parse(token)
	if err != nil {
		return nil, err
	}
	u, err := s.Users.ByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: user no longer exists", domain.ErrUnauthenticated)
	}
	return u, err
}

func normalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
