package cron

import (
	"Abode/internal/api/config"
	"Abode/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine          *cron.Cron
	cfg             config.CronConfig
	viewCountJob    *job.ViewCountJob
	recencyPruneJob *job.RecencyPruneJob
}

func NewCronManager(cfg config.CronConfig, viewCountJob *job.ViewCountJob, recencyPruneJob *job.RecencyPruneJob) *Manager {
	return &Manager{
		engine:          cron.New(cron.WithSeconds()),
		cfg:             cfg,
		viewCountJob:    viewCountJob,
		recencyPruneJob: recencyPruneJob,
	}
}

// RegisterJobs 注册定时任务，spec 为空时跳过
func (s *Manager) RegisterJobs() error {
	jobs := []struct {
		name string
		spec string
		job  cron.Job
	}{
		{"view_count", s.cfg.ViewCountSpec, s.viewCountJob},
		{"recency_prune", s.cfg.RecencyPruneSpec, s.recencyPruneJob},
	}
	for _, j := range jobs {
		if j.spec == "" {
			log.Warn("cron job disabled", "job", j.name)
			continue
		}
		if _, err := s.engine.AddJob(j.spec, cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(j.job)); err != nil {
			return err
		}
		log.Info("cron job registered", "job", j.name, "spec", j.spec)
	}
	return nil
}

// Entries 已注册任务数
func (s *Manager) Entries() int {
	return len(s.engine.Entries())
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	<-s.engine.Stop().Done()
}
