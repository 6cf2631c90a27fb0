package logger

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	ProductionMode  = "production"
	DevelopmentMode = "development"
)

// New builds a JSON logger for production and a colored console logger
// otherwise.
func New(mode string) (*zap.Logger, error) {
	var config zap.Config
	if mode == ProductionMode {
		config = zap.NewProductionConfig()
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return config.Build()
}

type ctxKey string

var RequestIDKey ctxKey = "request_id"
var UserIDKey ctxKey = "user_id"

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

func WithUserID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, UserIDKey, id)
}

// FromContext decorates l with the request and user ids carried by ctx.
func FromContext(ctx context.Context, l *zap.Logger) *zap.Logger {
	if l == nil {
		l = zap.NewNop()
	}
	if ctx == nil {
		return l
	}
	var fields []zap.Field
	if id, ok := ctx.Value(RequestIDKey).(string); ok && id != "" {
		fields = append(fields, zap.String(string(RequestIDKey), id))
	}
	if id, ok := ctx.Value(UserIDKey).(int64); ok && id != 0 {
		fields = append(fields, zap.Int64(string(UserIDKey), id))
	}
	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}
