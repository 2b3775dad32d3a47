// Package activity appends the immutable activity-log entries that accompany
// every successful write.
package activity

import (
	"context"
	"time"

	"go.uber.org/zap"

	"assetdesk/internal/enrich"
	"assetdesk/internal/gateway"
	"assetdesk/internal/synccache"
)

type Recorder struct {
	gw     gateway.Gateway
	cache  *synccache.Cache
	logger *zap.Logger
	now    func() time.Time
}

func NewRecorder(gw gateway.Gateway, cache *synccache.Cache, logger *zap.Logger) *Recorder {
	return &Recorder{
		gw:     gw,
		cache:  cache,
		logger: logger,
		now:    time.Now,
	}
}

// Record writes one entry and folds it into the mirror. The mutation it
// describes already succeeded, so a failure here is logged and swallowed
// rather than failing the caller retroactively.
func (r *Recorder) Record(ctx context.Context, action, entryType, details string, assetID, userID *string) {
	row := gateway.Row{
		"action":    action,
		"type":      entryType,
		"details":   details,
		"timestamp": r.now().UTC().Format(time.RFC3339),
	}
	if assetID != nil {
		row["asset_id"] = *assetID
	}
	if userID != nil {
		row["user_id"] = *userID
	}

	inserted, err := r.gw.Insert(ctx, gateway.TableActivityLog, row)
	if err != nil {
		r.logger.Warn("failed to persist activity entry",
			zap.String("action", action), zap.Error(err))
		return
	}

	entry, err := enrich.ActivityFromRow(inserted)
	if err != nil {
		r.logger.Warn("activity entry came back malformed", zap.Error(err))
		return
	}
	r.cache.PrependActivity(entry)
}
