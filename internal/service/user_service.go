package service

import (
	"context"
	"strings"

	"hellchat/internal/domain"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

// UserService provides user lookups.
type UserService struct {
	users domain.UserRepository
}

func NewUserService(users domain.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// Search matches query against usernames and nicknames. An empty query
// lists users alphabetically.
func (s *UserService) Search(ctx context.Context, query string, limit int) ([]*domain.User, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	users, err := s.users.Search(ctx, strings.TrimSpace(query), limit)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []*domain.User{}
	}
	return users, nil
}
