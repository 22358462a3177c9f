package cron

import (
	"Abode/internal/api/config"
	"Abode/internal/job"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterJobs(t *testing.T) {
	mgr := NewCronManager(config.CronConfig{
		ViewCountSpec:    "0 */5 * * * *",
		RecencyPruneSpec: "@daily",
	}, &job.ViewCountJob{}, &job.RecencyPruneJob{})

	require.NoError(t, mgr.RegisterJobs())
	assert.Equal(t, 2, mgr.Entries())
}

func TestRegisterJobsSkipsEmptySpec(t *testing.T) {
	mgr := NewCronManager(config.CronConfig{ViewCountSpec: "0 */5 * * * *"}, &job.ViewCountJob{}, &job.RecencyPruneJob{})

	require.NoError(t, mgr.RegisterJobs())
	assert.Equal(t, 1, mgr.Entries())
}

func TestRegisterJobsRejectsBadSpec(t *testing.T) {
	mgr := NewCronManager(config.CronConfig{ViewCountSpec: "every now and then"}, &job.ViewCountJob{}, &job.RecencyPruneJob{})

	assert.Error(t, mgr.RegisterJobs())
}
