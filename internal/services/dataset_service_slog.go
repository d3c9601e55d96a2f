package services

import (
	"context"
	"log/slog"
)

// logDataError logs a failed dataset operation. The trace id comes from ctx
// through the logger's handler.
func (s *DatasetService) logDataError(ctx context.Context, action, message string, attrs ...slog.Attr) {
	all := make([]slog.Attr, 0, len(attrs)+1)
	all = append(all, slog.String("action", action))
	all = append(all, attrs...)
	s.logger.LogAttrs(ctx, slog.LevelError, message, all...)
}
