package cron

import (
	"context"
	"log/slog"
	"time"
)

// UploadPurgeJobName is the registry name of the upload retention job
const UploadPurgeJobName = "purge-uploads"

// Purger removes stored files past a retention age
type Purger interface {
	PurgeOlderThan(ctx context.Context, age time.Duration) (int, error)
}

// UploadPurgeJob deletes uploaded statements older than retention
func UploadPurgeJob(p Purger, retention time.Duration, logger *slog.Logger) Job {
	return func(ctx context.Context) error {
		n, err := p.PurgeOlderThan(ctx, retention)
		if err != nil {
			return err
		}
		if n > 0 {
			logger.Info("purged expired uploads",
				slog.Int("files", n),
				slog.Duration("retention", retention),
			)
		}
		return nil
	}
}
