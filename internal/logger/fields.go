package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	FieldJobID       = "job_id"
	FieldRequesterID = "requester_id"
	FieldMatchID     = "match_id"
	FieldReviewerID  = "reviewer_id"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts key/value pairs into zap fields, trimming whitespace
// and omitting entries with empty keys or values.
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

// WithFields attaches fields to the logger, defaulting to a no-op logger
// when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	logger = OrNop(logger)
	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// JobFields describes a matching run. Zero ids are omitted.
func JobFields(jobID, requesterID int64) []zap.Field {
	fields := make([]zap.Field, 0, 2)
	if jobID != 0 {
		fields = append(fields, zap.Int64(FieldJobID, jobID))
	}
	if requesterID != 0 {
		fields = append(fields, zap.Int64(FieldRequesterID, requesterID))
	}
	return fields
}

// MatchFields describes a recruiter action on a single match.
func MatchFields(matchID string, reviewerID int64) []zap.Field {
	fields := StringFields(StringField{Key: FieldMatchID, Value: matchID})
	if reviewerID != 0 {
		fields = append(fields, zap.Int64(FieldReviewerID, reviewerID))
	}
	return fields
}
