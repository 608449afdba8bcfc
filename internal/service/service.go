// Package service orchestrates validated creation and mutation of users,
// study groups and messages on top of a store.Store.
package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/Gopher0727/StudyGroup/internal/domain"
	"github.com/Gopher0727/StudyGroup/internal/metrics"
	"github.com/Gopher0727/StudyGroup/internal/pkg/logger"
)

// report counts and logs err as a rejection or as a failure and hands it back.
func report(ctx context.Context, log *logger.Logger, m *metrics.Metrics, op string, err error, fields ...zap.Field) error {
	m.Observe(op, err)
	if domain.IsRejection(err) {
		log.Rejected(ctx, op, err, fields...)
		return err
	}
	log.ErrorContext(ctx, "operation failed", append(fields, zap.String("op", op), zap.Error(err))...)
	return err
}

func userField(u *domain.User) zap.Field {
	if u == nil {
		return zap.Skip()
	}
	return zap.String("user_id", u.ID)
}
