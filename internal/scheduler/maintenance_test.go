package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/consultorio/internal/config"
	"github.com/mrlokans/consultorio/internal/tasks"
)

type recordingQueue struct {
	mu    sync.Mutex
	tasks []backlite.Task
	err   error
}

func (q *recordingQueue) Enqueue(task backlite.Task) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return "", q.err
	}
	q.tasks = append(q.tasks, task)
	return "task-1", nil
}

func TestValidateSchedule(t *testing.T) {
	assert.NoError(t, ValidateSchedule("0 3 * * *"))
	assert.NoError(t, ValidateSchedule("*/30 * * * *"))
	assert.Error(t, ValidateSchedule("every day"))
	assert.Error(t, ValidateSchedule("0 0 3 * * *"))
}

func TestMaintenanceScheduler_StartRegistersJobs(t *testing.T) {
	s := NewMaintenanceScheduler(&recordingQueue{}, config.Maintenance{
		Enabled:              true,
		AuditCleanupSchedule: "0 3 * * *",
		DiagnosticsSchedule:  "*/30 * * * *",
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, s.Start(ctx))
	defer s.Stop()

	assert.True(t, s.IsRunning())
	jobs := s.Jobs()
	require.Len(t, jobs, 2)
	assert.Equal(t, "cleanup_audit_events", jobs[0].Name)
	assert.Equal(t, "run_diagnostics", jobs[1].Name)
	assert.False(t, jobs[0].NextRun.IsZero())
}

func TestMaintenanceScheduler_Disabled(t *testing.T) {
	s := NewMaintenanceScheduler(&recordingQueue{}, config.Maintenance{AuditCleanupSchedule: "0 3 * * *"})
	require.NoError(t, s.Start(context.Background()))
	assert.False(t, s.IsRunning())
	assert.Empty(t, s.Jobs())
}

func TestMaintenanceScheduler_InvalidSchedule(t *testing.T) {
	s := NewMaintenanceScheduler(&recordingQueue{}, config.Maintenance{Enabled: true, DiagnosticsSchedule: "soon"})
	assert.Error(t, s.Start(context.Background()))
	assert.False(t, s.IsRunning())
}

func TestMaintenanceScheduler_RunNow(t *testing.T) {
	q := &recordingQueue{}
	s := NewMaintenanceScheduler(q, config.Maintenance{AuditRetentionDays: 30})

	id, err := s.RunNow("cleanup_audit_events")
	require.NoError(t, err)
	assert.Equal(t, "task-1", id)

	_, err = s.RunNow("run_diagnostics")
	require.NoError(t, err)

	require.Len(t, q.tasks, 2)
	assert.Equal(t, tasks.CleanupAuditEventsTask{RetentionDays: 30}, q.tasks[0])
	assert.Equal(t, tasks.RunDiagnosticsTask{Trigger: "admin"}, q.tasks[1])

	_, err = s.RunNow("reindex")
	assert.Error(t, err)

	q.err = errors.New("queue closed")
	_, err = s.RunNow("run_diagnostics")
	assert.ErrorContains(t, err, "queue closed")
}
