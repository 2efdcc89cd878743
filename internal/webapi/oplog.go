package webapi

import (
	"context"

	"github.com/harunoki/parkres/pkg/booking"
	"go.uber.org/zap"
)

// zapOperationLogger forwards domain operation callbacks to zap.
type zapOperationLogger struct {
	logger *zap.Logger
}

func (operationLogger zapOperationLogger) LogOperation(_ context.Context, entry booking.OperationLog) {
	fields := []zap.Field{
		zap.String("operation", entry.Operation),
		zap.String("status", entry.Status),
	}
	if entry.Subject != "" {
		fields = append(fields, zap.String("subject", entry.Subject))
	}
	if entry.EntityID != 0 {
		fields = append(fields, zap.Int64("entity_id", entry.EntityID))
	}
	if entry.Error != nil {
		fields = append(fields, zap.Error(entry.Error))
		operationLogger.logger.Warn("booking operation failed", fields...)
		return
	}
	operationLogger.logger.Info("booking operation", fields...)
}
