package cron

import (
	"fmt"
	log "log/slog"
)

// InitCron 注册驻留任务并启动调度引擎
func InitCron(mgr *Manager) error {
	if err := mgr.RegisterJobs(); err != nil {
		return fmt.Errorf("failed to register cron jobs: %w", err)
	}
	mgr.Start()
	log.Info("Cron Jobs started", "jobs", len(mgr.engine.Entries()))
	return nil
}
