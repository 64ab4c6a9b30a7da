package scheduler

import (
	"github.com/robfig/cron/v3"

	"github.com/mateusz58/catalog-staging/internal/app/service"
	"github.com/mateusz58/catalog-staging/pkg/logger"
)

// SessionJanitor periodically drops staging sessions whose form was
// abandoned without a submit.
type SessionJanitor struct {
	cron     *cron.Cron
	registry *service.SessionRegistry
	schedule string
}

// NewSessionJanitor creates a janitor sweeping the registry on the given
// cron schedule.
func NewSessionJanitor(registry *service.SessionRegistry, schedule string) *SessionJanitor {
	return &SessionJanitor{
		cron:     cron.New(),
		registry: registry,
		schedule: schedule,
	}
}

// Start registers the sweep job and starts the scheduler.
func (j *SessionJanitor) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		removed := j.registry.SweepExpired()
		logger.Debug("Session sweep finished", map[string]interface{}{
			"removed": removed,
		})
	})
	if err != nil {
		logger.Error("Failed to register session sweep job", err, map[string]interface{}{
			"schedule": j.schedule,
		})
		return err
	}

	j.cron.Start()
	logger.Info("Session janitor started", map[string]interface{}{
		"schedule": j.schedule,
	})
	return nil
}

// Stop halts the scheduler.
func (j *SessionJanitor) Stop() {
	j.cron.Stop()
	logger.Info("Session janitor stopped", nil)
}
