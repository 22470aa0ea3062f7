package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hellchat/internal/domain"
	"hellchat/internal/security"
)

// AuthService handles registration, login, logout and profile edits.
type AuthService struct {
	users  domain.UserRepository
	tokens *security.TokenService // nil when bearer tokens are disabled
	hash   *security.PasswordHasher
}

func NewAuthService(users domain.UserRepository, tokens *security.TokenService, hash *security.PasswordHasher) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		hash:   hash,
	}
}

type RegisterInput struct {
	Username string
	Password string
	Nickname string
}

type LoginInput struct {
	Username string
	Password string
}

type AuthResult struct {
	User        *domain.User
	AccessToken string
	TokenType   string
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", domain.ErrInvalidInput)
	}

	if _, err := s.users.GetByUsername(ctx, in.Username); err == nil {
		return nil, domain.ErrConflict
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("check username: %w", err)
	}

	hashed, err := s.hash.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	nickname := strings.TrimSpace(in.Nickname)
	if nickname == "" {
		nickname = in.Username
	}
	user := &domain.User{
		Username:     in.Username,
		PasswordHash: hashed,
		Nickname:     nickname,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, domain.ErrConstraintViolation) {
			return nil, domain.ErrConflict
		}
		return nil, err
	}
	return s.issue(user)
}

// Login checks credentials and marks the user online. Unknown usernames and
// wrong passwords both yield ErrUnauthorized.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(in.Username))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := s.hash.Verify(in.Password, user.PasswordHash); err != nil {
		return nil, domain.ErrUnauthorized
	}

	if err := s.users.SetOnlineStatus(ctx, user.ID, true); err != nil {
		return nil, fmt.Errorf("set online: %w", err)
	}
	user.Online = true
	return s.issue(user)
}

func (s *AuthService) Logout(ctx context.Context, userID int64) error {
	return s.users.SetOnlineStatus(ctx, userID, false)
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, p domain.ProfileUpdate) (*domain.User, error) {
	if p.Nickname != nil {
		nick := strings.TrimSpace(*p.Nickname)
		p.Nickname = &nick
	}
	return s.users.UpdateProfile(ctx, userID, p)
}

// Authenticate resolves a bearer token to a user id.
func (s *AuthService) Authenticate(token string) (int64, error) {
	if s.tokens == nil {
		return 0, domain.ErrUnauthorized
	}
	id, err := s.tokens.UserID(token)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}
	return id, nil
}

func (s *AuthService) TokensEnabled() bool {
	return s.tokens != nil
}

func (s *AuthService) issue(user *domain.User) (*AuthResult, error) {
	res := &AuthResult{User: user}
	if s.tokens == nil {
		return res, nil
	}
	token, err := s.tokens.CreateForUser(user.ID)
	if err != nil {
		return nil, fmt.Errorf("create token: %w", err)
	}
	res.AccessToken = token
	res.TokenType = "bearer"
	return res, nil
}
