package tasks

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/consultorio/internal/diagnostics"
)

// Prober runs one connectivity and schema check.
type Prober interface {
	Run(ctx context.Context) diagnostics.Report
}

// Recorder stores the outcome of a run for the admin diagnostics screen.
type Recorder interface {
	Record(r diagnostics.Report)
}

// RunDiagnosticsTask checks backend connectivity and table presence.
// Trigger records who asked for it ("schedule" or "admin").
type RunDiagnosticsTask struct {
	Trigger string `json:"trigger"`
}

func (t RunDiagnosticsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "run_diagnostics",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     30 * time.Second,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// RunDiagnosticsProcessor records every report. An unhealthy report fails
// the task so it is kept with its data.
func RunDiagnosticsProcessor(prober Prober, recorder Recorder) backlite.QueueProcessor[RunDiagnosticsTask] {
	return func(ctx context.Context, task RunDiagnosticsTask) error {
		if prober == nil {
			return fmt.Errorf("diagnostics probe not configured")
		}

		report := prober.Run(ctx)
		if recorder != nil {
			recorder.Record(report)
		}

		if !report.Connected {
			log.Printf("[TASK] Diagnostics (%s): backend unreachable: %s", task.Trigger, report.Error)
			return fmt.Errorf("backend unreachable: %s", report.Error)
		}
		if missing := report.Missing(); len(missing) > 0 {
			log.Printf("[TASK] Diagnostics (%s): missing tables: %s", task.Trigger, strings.Join(missing, ", "))
			return fmt.Errorf("missing tables: %s", strings.Join(missing, ", "))
		}

		log.Printf("[TASK] Diagnostics (%s): ok, %d tables, latency %s", task.Trigger, len(report.Tables), report.Latency)
		return nil
	}
}

func NewRunDiagnosticsQueue(prober Prober, recorder Recorder) backlite.Queue {
	return backlite.NewQueue(RunDiagnosticsProcessor(prober, recorder))
}
