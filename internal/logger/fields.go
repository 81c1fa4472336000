package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldSource is the structured log field key for a job source ("remotive", "greenhouse:stripe").
	FieldSource = "source"
	// FieldProvider is the structured log field key for the embedding provider name.
	FieldProvider = "embedder_provider"
	// FieldModel is the structured log field key for the embedding model identifier.
	FieldModel = "embedder_model"
	// FieldSession is the structured log field key for the session id.
	FieldSession = "session_id"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
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

// WithFields safely attaches the provided fields to the logger.
// If the logger is nil or no fields are supplied, the input logger is returned
// unchanged, defaulting to a no-op logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// SourceFields returns the field naming a job source.
func SourceFields(source string) []zap.Field {
	return StringFields(StringField{Key: FieldSource, Value: source})
}

// EmbedderFields returns standard zap fields that describe the embedding provider and model.
// Empty values are ignored to keep log entries compact when information is missing.
func EmbedderFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}

// WithEmbedderFields attaches the embedder fields to the provided logger.
// If the logger is nil, a no-op logger is created to avoid panics.
func WithEmbedderFields(logger *zap.Logger, provider, model string) *zap.Logger {
	return WithFields(logger, EmbedderFields(provider, model)...)
}
