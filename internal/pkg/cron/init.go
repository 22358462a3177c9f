package cron

import (
	log "log/slog"
	"time"
)

// InitCron 注册并启动任务，打印每个任务的下次执行时间
func InitCron(mgr *Manager) error {
	if err := mgr.RegisterJobs(); err != nil {
		return err
	}
	mgr.Start()
	now := time.Now()
	for _, e := range mgr.engine.Entries() {
		log.Info("cron job scheduled", "entry", e.ID, "next", e.Schedule.Next(now))
	}
	return nil
}
