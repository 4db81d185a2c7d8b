package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"addressbook/internal/auth"
	"addressbook/internal/cache"
	apperrors "addressbook/internal/errors"
	"addressbook/internal/model"
	"addressbook/internal/repository"
)

// AuthService handles registration, login and identity resolution.
type AuthService interface {
	Register(ctx context.Context, email, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (accessToken string, user *model.User, err error)
	ResolveIdentity(ctx context.Context, subject string) (*model.User, error)
	TokenTTL() time.Duration
}

type authService struct {
	users       repository.UserRepository
	hasher      auth.PasswordHasher
	tokens      *auth.TokenService
	cache       *cache.Client
	identityTTL time.Duration
	// dummyHash is compared against on unknown emails so a miss costs as much as a wrong password.
	dummyHash string
}

var _ auth.IdentityResolver = (*authService)(nil)

// NewAuthService creates a new authentication service.
func NewAuthService(
	users repository.UserRepository,
	hasher auth.PasswordHasher,
	tokens *auth.TokenService,
	cache *cache.Client,
	identityTTL time.Duration,
) AuthService {
	dummy, _ := hasher.Hash("addressbook-dummy-password")
	return &authService{
		users:       users,
		hasher:      hasher,
		tokens:      tokens,
		cache:       cache,
		identityTTL: identityTTL,
		dummyHash:   dummy,
	}
}

func (s *authService) identityKey(email string) string {
	return "identity:" + email
}

// Register creates a new identity with a hashed password.
func (s *authService) Register(ctx context.Context, email, password string) (*model.User, error) {
	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return nil, apperrors.ErrConflict
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrConflict
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Login verifies credentials and issues an access token. Unknown email and
// wrong password are reported identically.
func (s *authService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, fmt.Errorf("find user: %w", err)
		}
		s.hasher.Verify(password, s.dummyHash)
		return "", nil, apperrors.ErrInvalidCredentials
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		return "", nil, fmt.Errorf("issue access token: %w", err)
	}
	return token, user, nil
}

// ResolveIdentity returns the identity a token subject refers to, reading
// through the identity cache.
func (s *authService) ResolveIdentity(ctx context.Context, subject string) (*model.User, error) {
	var cached model.User
	if s.cache.GetJSON(ctx, s.identityKey(subject), &cached) && cached.ID != 0 {
		return &cached, nil
	}

	user, err := s.users.FindByEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUnauthenticated
		}
		return nil, fmt.Errorf("resolve identity: %w", err)
	}

	s.cache.SetJSON(ctx, s.identityKey(subject), user, s.identityTTL)
	return user, nil
}

func (s *authService) TokenTTL() time.Duration {
	return s.tokens.TTL()
}
