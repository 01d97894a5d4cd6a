package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldUpstream is the structured log field key naming the upstream service.
	FieldUpstream = "upstream"
	// FieldModel is the structured log field key for the text model identifier.
	FieldModel = "model"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts key/value pairs into zap fields. Keys and values are
// trimmed, and entries that end up empty are dropped.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields attaches the fields to the logger, substituting a no-op logger
// when nil is passed.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// WithUpstream tags the logger with the upstream service every entry relates
// to, plus the model identifier when the upstream is a text generator.
func WithUpstream(logger *zap.Logger, service, model string) *zap.Logger {
	return WithFields(logger, StringFields(
		StringField{Key: FieldUpstream, Value: service},
		StringField{Key: FieldModel, Value: model},
	)...)
}
