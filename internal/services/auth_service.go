package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"shopledger/internal/domain"
	"shopledger/internal/repos"
)

var ErrBadCreds = errors.New("invalid email or password")

type AuthService struct {
	Users *repos.UserRepo
}

func NewAuthService(users *repos.UserRepo) *AuthService { return &AuthService{Users: users} }

type RegisterInput struct {
	Email     string
	Password  string
	ShopName  string
	OwnerName string
	Mobile    string
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.Shopkeeper, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := domain.Shopkeeper{
		ID:        uuid.NewString(),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		ShopName:  in.ShopName,
		OwnerName: in.OwnerName,
		Mobile:    in.Mobile,
		Hash:      string(h),
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repos.ErrConflict) {
			return nil, domain.Duplicate("email already registered")
		}
		return nil, domain.StoreFailure(err)
	}
	return &u, nil
}

// Login verifies credentials and opens a session; the returned token is the
// bearer credential for later requests.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.Shopkeeper, error) {
	u, err := s.Users.ByEmail(ctx, email)
	if err != nil {
		return "", nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return "", nil, ErrBadCreds
	}
	token := uuid.NewString()
	if err := s.Users.BindSession(ctx, token, u.ID); err != nil {
		return "", nil, domain.StoreFailure(err)
	}
	return token, u, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.Users.UnbindSession(ctx, token)
}

func (s *AuthService) CurrentUser(ctx context.Context, token string) (*domain.Shopkeeper, error) {
	return s.Users.SessionUser(ctx, token)
}

// Profile resolves a shopkeeper's public display identity.
func (s *AuthService) Profile(ctx context.Context, id string) (domain.Profile, error) {
	u, err := s.Users.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Profile{}, domain.NotFound("shopkeeper not found")
		}
		return domain.Profile{}, domain.StoreFailure(err)
	}
	return u.Profile(), nil
}
