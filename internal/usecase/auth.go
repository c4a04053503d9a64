package usecase

import (
	"context"
	"errors"
	"strings"

	domainErrors "github.com/tomasvalko/minimart/internal/domain/errors"
	"github.com/tomasvalko/minimart/internal/domain/model"
	"github.com/tomasvalko/minimart/internal/domain/repository"
	pkgAuth "github.com/tomasvalko/minimart/internal/pkg/auth"
)

// AuthUseCase handles user lifecycle and token management.
type AuthUseCase struct {
	users  repository.UserRepository
	hasher pkgAuth.PasswordHasher
	tokens pkgAuth.Strategy
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(users repository.UserRepository, hasher pkgAuth.PasswordHasher, strategy pkgAuth.Strategy) *AuthUseCase {
	return &AuthUseCase{users: users, hasher: hasher, tokens: strategy}
}

// Register creates a new user with username/password.
func (u *AuthUseCase) Register(ctx context.Context, username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, domainErrors.ErrInvalidCredentials
	}

	hash, err := u.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	usr, err := u.users.Create(ctx, username, hash)
	if err != nil {
		return nil, err
	}

	return usr, nil
}

// Authenticate validates credentials and returns a signed token.
func (u *AuthUseCase) Authenticate(ctx context.Context, username, password string) (*model.User, string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	usr, err := u.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := u.hasher.Compare(usr.PasswordHash, password); err != nil {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	token, err := u.tokens.IssueToken(pkgAuth.Claims{UserID: usr.ID, Username: usr.Username})
	if err != nil {
		return nil, "", err
	}

	return usr, token, nil
}

// ParseToken extracts the identity claim from provided token.
func (u *AuthUseCase) ParseToken(token string) (*pkgAuth.Claims, error) {
	if token == "" {
		return nil, pkgAuth.ErrInvalidToken
	}
	return u.tokens.ParseToken(token)
}

// GetByUsername fetches user by display name.
func (u *AuthUseCase) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return u.users.GetByUsername(ctx, username)
}

// List returns all registered users.
func (u *AuthUseCase) List(ctx context.Context) ([]model.User, error) {
	return u.users.List(ctx)
}

// Update changes username and/or password of an existing user. Nil fields
// are left untouched.
func (u *AuthUseCase) Update(ctx context.Context, id int64, username, password *string) (*model.User, error) {
	if username != nil {
		trimmed := strings.TrimSpace(*username)
		if trimmed == "" {
			return nil, domainErrors.ErrInvalidCredentials
		}
		username = &trimmed
	}

	var passwordHash *string
	if password != nil {
		if *password == "" {
			return nil, domainErrors.ErrInvalidCredentials
		}
		hash, err := u.hasher.Hash(*password)
		if err != nil {
			return nil, err
		}
		passwordHash = &hash
	}

	return u.users.Update(ctx, id, username, passwordHash)
}

// Delete removes a user by display name.
func (u *AuthUseCase) Delete(ctx context.Context, username string) error {
	return u.users.Delete(ctx, username)
}
