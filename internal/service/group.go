package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/Gopher0727/StudyGroup/internal/domain"
	"github.com/Gopher0727/StudyGroup/internal/metrics"
	"github.com/Gopher0727/StudyGroup/internal/pkg/logger"
	"github.com/Gopher0727/StudyGroup/internal/store"
)

// IGroupService defines study group management operations
type IGroupService interface {
	CreateGroup(ctx context.Context, params domain.GroupParams, creator *domain.User) (*domain.StudyGroup, error)
	JoinGroup(ctx context.Context, groupID string, user *domain.User) error
	LeaveGroup(ctx context.Context, groupID string, user *domain.User) error
	Members(ctx context.Context, groupID string) ([]string, error)
	UserGroups(ctx context.Context, user *domain.User) ([]*domain.StudyGroup, error)
	ListGroups(ctx context.Context) ([]*domain.StudyGroup, error)
}

type GroupService struct {
	store   store.Store
	log     *logger.Logger
	metrics *metrics.Metrics
}

// NewGroupService returns a group service backed by s. m may be nil.
func NewGroupService(s store.Store, log *logger.Logger, m *metrics.Metrics) IGroupService {
	return &GroupService{store: s, log: log.Named("group_service"), metrics: m}
}

// CreateGroup validates params against the store's catalog and existing
// names, then stores the group with creator as its only member.
func (s *GroupService) CreateGroup(ctx context.Context, params domain.GroupParams, creator *domain.User) (*domain.StudyGroup, error) {
	if creator == nil {
		return nil, report(ctx, s.log, s.metrics, "create_group", domain.ErrMissingUser, zap.String("name", params.Name))
	}

	nameTaken := func(name string) (bool, error) {
		return s.store.GroupNameExists(ctx, name)
	}
	group, err := domain.NewStudyGroup(params, s.store.Catalog(), nameTaken)
	if err != nil {
		return nil, report(ctx, s.log, s.metrics, "create_group", err, zap.String("name", params.Name), userField(creator))
	}

	if err := s.store.CreateStudyGroup(ctx, group, creator.ID); err != nil {
		return nil, report(ctx, s.log, s.metrics, "create_group", err, zap.String("group_id", group.ID), userField(creator))
	}

	s.metrics.Observe("create_group", nil)
	s.log.InfoContext(ctx, "study group created",
		zap.String("group_id", group.ID),
		zap.String("name", group.Name),
		zap.String("course", group.Course),
		zap.String("location", group.Location),
		zap.Int("max_size", group.MaxSize),
		userField(creator),
	)
	return group, nil
}

func (s *GroupService) JoinGroup(ctx context.Context, groupID string, user *domain.User) error {
	if user == nil {
		return report(ctx, s.log, s.metrics, "join_group", domain.ErrMissingUser, zap.String("group_id", groupID))
	}
	if _, err := s.store.GetStudyGroup(ctx, groupID); err != nil {
		return report(ctx, s.log, s.metrics, "join_group", err, zap.String("group_id", groupID), userField(user))
	}
	if err := s.store.AddMember(ctx, groupID, user.ID); err != nil {
		return report(ctx, s.log, s.metrics, "join_group", err, zap.String("group_id", groupID), userField(user))
	}

	s.metrics.Observe("join_group", nil)
	s.log.InfoContext(ctx, "joined study group", zap.String("group_id", groupID), userField(user))
	return nil
}

func (s *GroupService) LeaveGroup(ctx context.Context, groupID string, user *domain.User) error {
	if user == nil {
		return report(ctx, s.log, s.metrics, "leave_group", domain.ErrMissingUser, zap.String("group_id", groupID))
	}
	if _, err := s.store.GetStudyGroup(ctx, groupID); err != nil {
		return report(ctx, s.log, s.metrics, "leave_group", err, zap.String("group_id", groupID), userField(user))
	}
	if err := s.store.RemoveMember(ctx, groupID, user.ID); err != nil {
		return report(ctx, s.log, s.metrics, "leave_group", err, zap.String("group_id", groupID), userField(user))
	}

	s.metrics.Observe("leave_group", nil)
	s.log.InfoContext(ctx, "left study group", zap.String("group_id", groupID), userField(user))
	return nil
}

func (s *GroupService) Members(ctx context.Context, groupID string) ([]string, error) {
	members, err := s.store.Members(ctx, groupID)
	if err != nil {
		return nil, report(ctx, s.log, s.metrics, "members", err, zap.String("group_id", groupID))
	}
	return members, nil
}

func (s *GroupService) UserGroups(ctx context.Context, user *domain.User) ([]*domain.StudyGroup, error) {
	if user == nil {
		return nil, report(ctx, s.log, s.metrics, "user_groups", domain.ErrMissingUser)
	}
	groups, err := s.store.UserGroups(ctx, user.ID)
	if err != nil {
		return nil, report(ctx, s.log, s.metrics, "user_groups", err, userField(user))
	}
	return groups, nil
}

func (s *GroupService) ListGroups(ctx context.Context) ([]*domain.StudyGroup, error) {
	groups, err := s.store.ListStudyGroups(ctx)
	if err != nil {
		return nil, report(ctx, s.log, s.metrics, "list_groups", err)
	}
	return groups, nil
}
