package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/chatterhq/chatter/internal/domain"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Fixed-message group errors.
var (
	ErrGroupNotFound  = errors.New("Group not found")
	ErrGroupNameTaken = errors.New("Group name must be unique")
)

// GroupService composes the group store with creation defaults.
type GroupService struct {
	groups domain.GroupRepository
	logger *slog.Logger
}

// NewGroupService creates a new group service.
func NewGroupService(groups domain.GroupRepository, logger *slog.Logger) *GroupService {
	if logger == nil {
		logger = slog.Default()
	}

	return &GroupService{
		groups: groups,
		logger: logger,
	}
}

// Create stores a new group. The creator is inserted as the sole initial
// member with the Manager role and a fresh chat-room id is assigned.
func (s *GroupService) Create(ctx context.Context, creator primitive.ObjectID, name, description string) (*domain.Group, error) {
	group := &domain.Group{
		Name:        name,
		Description: description,
		Users: []domain.GroupMember{
			{User: creator, Role: domain.GroupRoleManager},
		},
		ChatRoom: uuid.NewString(),
		Posts:    []primitive.ObjectID{},
	}
	if err := s.groups.Create(ctx, group); err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			return nil, ErrGroupNameTaken
		}
		return nil, err
	}

	s.logger.Info("group created",
		slog.String("group_id", group.ID.Hex()),
		slog.String("name", group.Name),
		slog.String("creator", creator.Hex()),
	)
	return group, nil
}

// GetByID loads a group by id.
func (s *GroupService) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Group, error) {
	group, err := s.groups.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	return group, nil
}

// GetAllByUserID returns the groups the user belongs to. No matches is an
// empty slice; callers decide on messaging.
func (s *GroupService) GetAllByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Group, error) {
	return s.groups.ListByUser(ctx, userID)
}
