package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Gopher0727/StudyGroup/internal/domain"
	"github.com/Gopher0727/StudyGroup/internal/metrics"
	"github.com/Gopher0727/StudyGroup/internal/pkg/logger"
	"github.com/Gopher0727/StudyGroup/internal/store"
)

// IUserService defines registration and credential lookup.
type IUserService interface {
	Register(ctx context.Context, name, password, email string) (*domain.User, error)
	Authenticate(ctx context.Context, name, password string) (bool, error)
}

type UserService struct {
	store   store.Store
	log     *logger.Logger
	metrics *metrics.Metrics
}

// NewUserService returns a user service backed by s. m may be nil.
func NewUserService(s store.Store, log *logger.Logger, m *metrics.Metrics) IUserService {
	return &UserService{store: s, log: log.Named("user_service"), metrics: m}
}

// Register validates the user and records it with its credentials.
func (s *UserService) Register(ctx context.Context, name, password, email string) (*domain.User, error) {
	user, err := domain.NewUser(name, password, email)
	if err != nil {
		return nil, report(ctx, s.log, s.metrics, "register", err, zap.String("name", name))
	}

	saved, err := s.store.SaveUser(ctx, user)
	if err != nil {
		return nil, report(ctx, s.log, s.metrics, "register", fmt.Errorf("failed to save user: %w", err), userField(user))
	}
	if !saved {
		return nil, report(ctx, s.log, s.metrics, "register", fmt.Errorf("user %s already registered", user.ID), userField(user))
	}

	s.metrics.Observe("register", nil)
	s.log.InfoContext(ctx, "user registered", userField(user), zap.String("name", user.Name))
	return user, nil
}

// Authenticate checks name and password against the stored credentials.
func (s *UserService) Authenticate(ctx context.Context, name, password string) (bool, error) {
	ok, err := s.store.CheckCredentials(ctx, name, password)
	if err != nil {
		return false, report(ctx, s.log, s.metrics, "authenticate", err, zap.String("name", name))
	}
	s.metrics.Observe("authenticate", nil)
	return ok, nil
}
