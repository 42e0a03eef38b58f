// Package diagnostics checks that the backend answers and that every table
// the application uses exists.
package diagnostics

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

// Backend is the part of the database client a probe needs.
type Backend interface {
	Ping(ctx context.Context) error
	HasTable(name string) bool
}

type TableStatus struct {
	Name   string `json:"name"`
	Exists bool   `json:"exists"`
}

type Report struct {
	Connected bool          `json:"connected"`
	Latency   time.Duration `json:"latency_ns"`
	Error     string        `json:"error,omitempty"`
	Tables    []TableStatus `json:"tables"`
	CheckedAt time.Time     `json:"checked_at"`
}

// Healthy is true when the backend answered and no table is missing.
func (r Report) Healthy() bool {
	return r.Connected && len(r.Missing()) == 0
}

func (r Report) Missing() []string {
	var missing []string
	for _, t := range r.Tables {
		if !t.Exists {
			missing = append(missing, t.Name)
		}
	}
	return missing
}

// Print writes a human readable report, one line per table.
func (r Report) Print(w io.Writer) {
	if r.Connected {
		fmt.Fprintf(w, "connection: ok (%s)\n", r.Latency.Round(time.Microsecond))
	} else {
		fmt.Fprintf(w, "connection: FAILED: %s\n", r.Error)
	}
	for _, t := range r.Tables {
		status := "ok"
		if !t.Exists {
			status = "MISSING"
		}
		fmt.Fprintf(w, "table %-20s %s\n", t.Name, status)
	}
}

type Probe struct {
	backend Backend
	tables  []string
}

func NewProbe(backend Backend, tables []string) *Probe {
	return &Probe{backend: backend, tables: tables}
}

// Run pings the backend and, if it answers, checks each table. Table checks
// are skipped when the ping fails and every table is reported missing.
func (p *Probe) Run(ctx context.Context) Report {
	r := Report{CheckedAt: time.Now()}

	start := time.Now()
	err := p.backend.Ping(ctx)
	r.Latency = time.Since(start)
	if err != nil {
		r.Error = err.Error()
	} else {
		r.Connected = true
	}

	r.Tables = make([]TableStatus, len(p.tables))
	for i, name := range p.tables {
		r.Tables[i] = TableStatus{Name: name, Exists: r.Connected && p.backend.HasTable(name)}
	}
	return r
}

// Monitor keeps the most recent report produced by a scheduled run.
type Monitor struct {
	mu   sync.RWMutex
	last *Report
}

func (m *Monitor) Record(r Report) {
	m.mu.Lock()
	m.last = &r
	m.mu.Unlock()
}

// Last returns the latest recorded report, if any.
func (m *Monitor) Last() (Report, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.last == nil {
		return Report{}, false
	}
	return *m.last, true
}
