package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Gopher0727/StudyGroup/internal/domain"
	"github.com/Gopher0727/StudyGroup/internal/metrics"
	"github.com/Gopher0727/StudyGroup/internal/notify"
	"github.com/Gopher0727/StudyGroup/internal/pkg/logger"
	"github.com/Gopher0727/StudyGroup/internal/store"
)

// IDGenerator hands out time-ordered message IDs.
type IDGenerator interface {
	NextID() (int64, error)
}

// IMessageService defines direct and group messaging.
type IMessageService interface {
	SendDirect(ctx context.Context, sender, recipient *domain.User, content string) (*domain.Message, error)
	SendGroup(ctx context.Context, sender *domain.User, group *domain.StudyGroup, content string) (*domain.Message, error)
	MessagesFor(ctx context.Context, user *domain.User) ([]*domain.Message, error)
}

type MessageService struct {
	store    store.Store
	ids      IDGenerator
	notifier notify.Notifier
	log      *logger.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

// NewMessageService wires the store, the ID source and an optional notifier.
// A nil notifier disables notification.
func NewMessageService(s store.Store, ids IDGenerator, notifier notify.Notifier, log *logger.Logger, m *metrics.Metrics) IMessageService {
	if notifier == nil {
		notifier = notify.Noop{}
	}
	return &MessageService{
		store:    s,
		ids:      ids,
		notifier: notifier,
		log:      log.Named("message_service"),
		metrics:  m,
		now:      time.Now,
	}
}

func (s *MessageService) SendDirect(ctx context.Context, sender, recipient *domain.User, content string) (*domain.Message, error) {
	fields := []zap.Field{userField(sender)}
	if recipient != nil {
		fields = append(fields, zap.String("recipient_id", recipient.ID))
	}

	id, err := s.ids.NextID()
	if err != nil {
		return nil, report(ctx, s.log, s.metrics, "send_direct", fmt.Errorf("failed to generate message id: %w", err), fields...)
	}
	msg, err := domain.NewDirectMessage(id, sender, recipient, content, s.now())
	if err != nil {
		return nil, report(ctx, s.log, s.metrics, "send_direct", err, fields...)
	}
	if err := s.deliver(ctx, sender, msg); err != nil {
		return nil, report(ctx, s.log, s.metrics, "send_direct", err, fields...)
	}
	s.metrics.Observe("send_direct", nil)
	return msg, nil
}

func (s *MessageService) SendGroup(ctx context.Context, sender *domain.User, group *domain.StudyGroup, content string) (*domain.Message, error) {
	fields := []zap.Field{userField(sender)}
	if group != nil {
		fields = append(fields, zap.String("group_id", group.ID))
	}

	if sender != nil && group.Valid() {
		isMember, err := s.store.IsMember(ctx, group.ID, sender.ID)
		if err != nil {
			return nil, report(ctx, s.log, s.metrics, "send_group", err, fields...)
		}
		if !isMember {
			return nil, report(ctx, s.log, s.metrics, "send_group", domain.ErrNotMember, fields...)
		}
	}

	id, err := s.ids.NextID()
	if err != nil {
		return nil, report(ctx, s.log, s.metrics, "send_group", fmt.Errorf("failed to generate message id: %w", err), fields...)
	}
	msg, err := domain.NewGroupMessage(id, sender, group, content, s.now())
	if err != nil {
		return nil, report(ctx, s.log, s.metrics, "send_group", err, fields...)
	}
	if err := s.deliver(ctx, sender, msg); err != nil {
		return nil, report(ctx, s.log, s.metrics, "send_group", err, fields...)
	}
	s.metrics.Observe("send_group", nil)
	return msg, nil
}

// deliver stores msg and then hands it to the notifier. A notifier failure
// is logged and does not fail the send.
func (s *MessageService) deliver(ctx context.Context, sender *domain.User, msg *domain.Message) error {
	saved, err := s.store.SaveMessage(ctx, sender, msg)
	if err != nil {
		return err
	}
	if !saved {
		return errors.New("message was not stored")
	}

	s.metrics.MessageStored(msg.Kind())
	s.log.DebugContext(ctx, "message stored",
		zap.Int64("message_id", msg.ID),
		zap.String("kind", string(msg.Kind())),
	)

	if err := s.notifier.Publish(ctx, msg); err != nil {
		s.metrics.NotifyFailed()
		s.log.WarnContext(ctx, "failed to publish message",
			zap.Int64("message_id", msg.ID),
			zap.Error(err),
		)
	}
	return nil
}

func (s *MessageService) MessagesFor(ctx context.Context, user *domain.User) ([]*domain.Message, error) {
	messages, err := s.store.MessagesForUser(ctx, user)
	if err != nil {
		return nil, report(ctx, s.log, s.metrics, "messages_for", err, userField(user))
	}
	return messages, nil
}
