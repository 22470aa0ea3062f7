package service

import (
	"context"
	"fmt"
	"strings"

	"hellchat/internal/domain"
)

type GroupService struct {
	groups domain.GroupRepository
}

func NewGroupService(groups domain.GroupRepository) *GroupService {
	return &GroupService{groups: groups}
}

// CreateGroup creates the group with the creator as its only member.
func (s *GroupService) CreateGroup(ctx context.Context, creatorID int64, name, description string) (*domain.GroupSummary, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: group name is required", domain.ErrInvalidInput)
	}
	g := &domain.Group{
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatorID:   creatorID,
	}
	if err := s.groups.Create(ctx, g); err != nil {
		return nil, err
	}
	return &domain.GroupSummary{Group: *g, MemberCount: 1, IsGroup: true}, nil
}

// AddMember is idempotent.
func (s *GroupService) AddMember(ctx context.Context, groupID, memberID int64) error {
	if groupID <= 0 || memberID <= 0 {
		return fmt.Errorf("%w: group_id and member_id are required", domain.ErrInvalidInput)
	}
	return s.groups.AddMember(ctx, groupID, memberID)
}

func (s *GroupService) ListGroupsForUser(ctx context.Context, userID int64) ([]*domain.GroupSummary, error) {
	groups, err := s.groups.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if groups == nil {
		groups = []*domain.GroupSummary{}
	}
	return groups, nil
}

// GetGroup returns ErrNotFound for an unknown id.
func (s *GroupService) GetGroup(ctx context.Context, groupID int64) (*domain.Group, error) {
	return s.groups.GetByID(ctx, groupID)
}
