package tasks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/consultorio/internal/config"
	"github.com/mrlokans/consultorio/internal/diagnostics"
)

func testConfig(t *testing.T) config.Tasks {
	t.Helper()
	return config.Tasks{
		Enabled: true,
		Workers: 1,
		DBPath:  filepath.Join(t.TempDir(), "tasks.db"),
	}
}

func TestNewClient(t *testing.T) {
	cfg := testConfig(t)

	client, err := NewClient(cfg)
	require.NoError(t, err)
	require.NotNil(t, client)

	_, err = os.Stat(cfg.DBPath)
	assert.NoError(t, err, "tasks database should be created")

	assert.NoError(t, client.Close())
}

func TestClientStartStop(t *testing.T) {
	client, err := NewClient(testConfig(t))
	require.NoError(t, err)
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go client.Start(ctx)
	time.Sleep(50 * time.Millisecond)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()

	assert.True(t, client.Stop(stopCtx), "stop should succeed gracefully")
}

type fakeCleaner struct {
	retention time.Duration
	deleted   int64
	err       error
}

func (f *fakeCleaner) DeleteOldEvents(ctx context.Context, retention time.Duration) (int64, error) {
	f.retention = retention
	return f.deleted, f.err
}

func TestCleanupAuditEventsProcessor(t *testing.T) {
	t.Run("default retention", func(t *testing.T) {
		cleaner := &fakeCleaner{deleted: 4}
		err := CleanupAuditEventsProcessor(cleaner)(context.Background(), CleanupAuditEventsTask{})
		require.NoError(t, err)
		assert.Equal(t, 90*24*time.Hour, cleaner.retention)
	})

	t.Run("explicit retention", func(t *testing.T) {
		cleaner := &fakeCleaner{}
		err := CleanupAuditEventsProcessor(cleaner)(context.Background(), CleanupAuditEventsTask{RetentionDays: 7})
		require.NoError(t, err)
		assert.Equal(t, 7*24*time.Hour, cleaner.retention)
	})

	t.Run("cleaner failure", func(t *testing.T) {
		err := CleanupAuditEventsProcessor(&fakeCleaner{err: errors.New("locked")})(context.Background(), CleanupAuditEventsTask{})
		assert.ErrorContains(t, err, "locked")
	})

	t.Run("no cleaner", func(t *testing.T) {
		assert.Error(t, CleanupAuditEventsProcessor(nil)(context.Background(), CleanupAuditEventsTask{}))
	})
}

type fakeProber struct{ report diagnostics.Report }

func (f fakeProber) Run(ctx context.Context) diagnostics.Report { return f.report }

func TestRunDiagnosticsProcessor(t *testing.T) {
	healthy := diagnostics.Report{Connected: true, Tables: []diagnostics.TableStatus{{Name: "members", Exists: true}}}
	missing := diagnostics.Report{Connected: true, Tables: []diagnostics.TableStatus{{Name: "orders", Exists: false}}}
	down := diagnostics.Report{Error: "connection refused"}

	var monitor diagnostics.Monitor

	require.NoError(t, RunDiagnosticsProcessor(fakeProber{healthy}, &monitor)(context.Background(), RunDiagnosticsTask{Trigger: "admin"}))
	last, ok := monitor.Last()
	require.True(t, ok)
	assert.True(t, last.Healthy())

	err := RunDiagnosticsProcessor(fakeProber{missing}, &monitor)(context.Background(), RunDiagnosticsTask{})
	assert.ErrorContains(t, err, "orders")
	last, _ = monitor.Last()
	assert.Equal(t, []string{"orders"}, last.Missing())

	err = RunDiagnosticsProcessor(fakeProber{down}, &monitor)(context.Background(), RunDiagnosticsTask{})
	assert.ErrorContains(t, err, "connection refused")
}

func TestTaskConfigs(t *testing.T) {
	cfg := CleanupAuditEventsTask{}.Config()
	assert.Equal(t, "cleanup_audit_events", cfg.Name)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.NotNil(t, cfg.Retention)

	cfg = RunDiagnosticsTask{}.Config()
	assert.Equal(t, "run_diagnostics", cfg.Name)
	assert.Equal(t, 1, cfg.MaxAttempts)
}

func TestTaskEnqueue(t *testing.T) {
	client, err := NewClient(testConfig(t))
	require.NoError(t, err)
	defer client.Close()

	executed := make(chan string, 1)
	client.Register(backlite.NewQueue(func(ctx context.Context, task RunDiagnosticsTask) error {
		executed <- task.Trigger
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	ids, err := client.Add(RunDiagnosticsTask{Trigger: "admin"}).Save()
	require.NoError(t, err)
	assert.Len(t, ids, 1)

	select {
	case val := <-executed:
		assert.Equal(t, "admin", val)
	case <-time.After(5 * time.Second):
		t.Fatal("task was not executed within timeout")
	}
}
