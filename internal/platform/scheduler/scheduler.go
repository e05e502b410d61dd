// Package scheduler runs a job once per day at a fixed local hour.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	clockport "github.com/family-archive/family-tree-api/internal/ports/out/clock"
)

// Job is a unit of scheduled work. Errors are logged, never fatal: a failed
// run must not stop subsequent runs.
type Job func(ctx context.Context) error

type Daily struct {
	name string
	hour int
	clk  clockport.Clock
	job  Job
}

// NewDaily schedules job to run every day at the given local hour.
func NewDaily(name string, hour int, clk clockport.Clock, job Job) *Daily {
	return &Daily{name: name, hour: hour, clk: clk, job: job}
}

// Run blocks until ctx is cancelled, firing the job at each daily boundary.
func (d *Daily) Run(ctx context.Context) {
	for {
		wait := d.untilNextRun()
		slog.Info("scheduled next run", "job", d.name, "in", wait.Round(time.Second).String())

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		start := d.clk.Now()
		if err := d.job(ctx); err != nil {
			slog.Error("scheduled job failed", "job", d.name, "error", err)
		} else {
			slog.Info("scheduled job finished", "job", d.name, "took", d.clk.Now().Sub(start).Round(time.Millisecond).String())
		}
	}
}

func (d *Daily) untilNextRun() time.Duration {
	now := d.clk.Now()
	next := time.Date(now.Year(), now.Month(), now.Day(), d.hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}
