package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/consultorio/internal/diagnostics"
	"github.com/mrlokans/consultorio/internal/scheduler"
)

// MaintenanceScheduler lists and triggers the periodic maintenance jobs.
type MaintenanceScheduler interface {
	Jobs() []scheduler.Job
	RunNow(name string) (string, error)
}

// TaskStatusReader looks up background task status.
type TaskStatusReader interface {
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
}

type DiagnosticsController struct {
	probe     *diagnostics.Probe
	monitor   *diagnostics.Monitor
	scheduler MaintenanceScheduler
	tasks     TaskStatusReader
}

func NewDiagnosticsController(probe *diagnostics.Probe, monitor *diagnostics.Monitor, sched MaintenanceScheduler, tasks TaskStatusReader) *DiagnosticsController {
	if monitor == nil {
		monitor = &diagnostics.Monitor{}
	}
	return &DiagnosticsController{probe: probe, monitor: monitor, scheduler: sched, tasks: tasks}
}

// Status handles GET /api/admin/diagnostics. It runs the probe now and
// includes the last scheduled report and the maintenance jobs.
func (dc *DiagnosticsController) Status(c *gin.Context) {
	report := dc.probe.Run(c.Request.Context())

	resp := gin.H{
		"healthy": report.Healthy(),
		"report":  report,
		"missing": report.Missing(),
	}
	if last, ok := dc.monitor.Last(); ok {
		resp["last_scheduled"] = last
	}
	if dc.scheduler != nil {
		resp["jobs"] = dc.scheduler.Jobs()
	}
	c.JSON(http.StatusOK, resp)
}

// Run handles POST /api/admin/diagnostics/run. The check is enqueued when a
// task queue is available and run inline otherwise.
func (dc *DiagnosticsController) Run(c *gin.Context) {
	if dc.scheduler != nil {
		id, err := dc.scheduler.RunNow("run_diagnostics")
		if err != nil {
			respondInternalError(c, err, "enqueue diagnostics")
			return
		}
		respondAccepted(c, "task enqueued", gin.H{"task_id": id, "type": "run_diagnostics"})
		return
	}

	report := dc.probe.Run(c.Request.Context())
	dc.monitor.Record(report)
	c.JSON(http.StatusOK, gin.H{"healthy": report.Healthy(), "report": report})
}

// RunJob handles POST /api/admin/maintenance/:job/run.
func (dc *DiagnosticsController) RunJob(c *gin.Context) {
	if dc.scheduler == nil {
		respondError(c, http.StatusServiceUnavailable, "task queue is disabled")
		return
	}
	job := c.Param("job")
	id, err := dc.scheduler.RunNow(job)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	respondAccepted(c, "task enqueued", gin.H{"task_id": id, "type": job})
}

// TaskStatus handles GET /api/admin/tasks/:id
func (dc *DiagnosticsController) TaskStatus(c *gin.Context) {
	if dc.tasks == nil {
		respondError(c, http.StatusServiceUnavailable, "task queue is disabled")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	taskID := c.Param("id")
	status, err := dc.tasks.Status(ctx, taskID)
	if err != nil {
		respondInternalError(c, err, "task status")
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": taskID, "status": taskStatusToString(status)})
}

func taskStatusToString(status backlite.TaskStatus) string {
	switch status {
	case backlite.TaskStatusPending:
		return "pending"
	case backlite.TaskStatusRunning:
		return "running"
	case backlite.TaskStatusSuccess:
		return "success"
	case backlite.TaskStatusFailure:
		return "failure"
	case backlite.TaskStatusNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}
