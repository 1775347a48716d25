package logging

import (
	"context"
	"selfadmin/internal/core/domain/logging"

	"go.uber.org/zap"
)

type ZapLogger struct {
	logger *zap.Logger
}

func NewZapLogger() *ZapLogger {
	logger, err := zap.NewProduction(zap.AddCallerSkip(1))
	if err != nil {
		panic("Could not create Zap logger.")
	}
	return &ZapLogger{logger: logger}
}

func (l *ZapLogger) Sync() {
	l.logger.Sync()
}

func (l *ZapLogger) Debug(ctx context.Context, msg string, entries ...logging.LogEntry) {
	l.logger.Debug(msg, fields(entries...)...)
}

func (l *ZapLogger) Info(ctx context.Context, msg string, entries ...logging.LogEntry) {
	l.logger.Info(msg, fields(entries...)...)
}

func (l *ZapLogger) Warning(ctx context.Context, msg string, entries ...logging.LogEntry) {
	l.logger.Warn(msg, fields(entries...)...)
}

func (l *ZapLogger) Error(ctx context.Context, msg string, entries ...logging.LogEntry) {
	l.logger.Error(msg, fields(entries...)...)
}

func fields(entries ...logging.LogEntry) []zap.Field {
	fs := make([]zap.Field, 0, len(entries))
	for _, e := range entries {
		fs = append(fs, zap.Any(e.Key, e.Value))
	}
	return fs
}
