package service

import (
	"github.com/Baaaki/restaurant-directory/internal/apperr"
	"github.com/Baaaki/restaurant-directory/internal/audit"
	"github.com/Baaaki/restaurant-directory/internal/utils"
	"github.com/Baaaki/restaurant-directory/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// parseID treats a malformed id like an unknown one.
func parseID(id, notFound string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil || parsed == uuid.Nil {
		return uuid.Nil, apperr.NotFound(notFound)
	}
	return parsed, nil
}

// logFailure logs client mistakes at Warn and store failures at Error.
func logFailure(msg string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err))
	if apperr.Is(err, apperr.KindStoreUnavailable) {
		logger.Log.Error(msg, fields...)
		return
	}
	logger.Log.Warn(msg, fields...)
}

// record writes an audit entry. The mutation has already committed, so a
// journal failure is logged and not returned.
func record(recorder audit.Recorder, op string, actor *utils.Claims, target uuid.UUID) {
	entry := audit.Entry{Op: op, TargetID: target.String()}
	if actor != nil {
		entry.ActorID = actor.UserID.String()
	}
	if err := recorder.Record(entry); err != nil {
		logger.Log.Error("Failed to record audit entry",
			zap.String("op", op),
			zap.String("target_id", entry.TargetID),
			zap.Error(err),
		)
	}
}

func orDiscard(recorder audit.Recorder) audit.Recorder {
	if recorder == nil {
		return audit.Discard{}
	}
	return recorder
}
