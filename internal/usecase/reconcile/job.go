// Package reconcile reports books whose available counter drifted outside
// [0, quantity]. Reject restores copies without clamping, so an over-restored
// book shows up here rather than failing the workflow.
package reconcile

import (
	"context"
	"log/slog"
	"time"

	"library-backend/internal/domain/book"

	"github.com/robfig/cron/v3"
)

type Finding struct {
	BookID    string `json:"book_id"`
	Title     string `json:"title"`
	Quantity  int    `json:"quantity"`
	Available int    `json:"available"`
}

type Job struct {
	books   book.Repository
	timeout time.Duration
	cron    *cron.Cron
}

func NewJob(books book.Repository) *Job {
	return &Job{books: books, timeout: 30 * time.Second}
}

// Run scans once and logs every inconsistent book at Warn.
func (j *Job) Run(ctx context.Context) ([]Finding, error) {
	bad, err := j.books.ListInconsistent(ctx)
	if err != nil {
		slog.Error("reconcile scan failed", "err", err)
		return nil, err
	}
	out := make([]Finding, 0, len(bad))
	for _, b := range bad {
		slog.Warn("inventory inconsistent",
			"book_id", b.ID, "title", b.Title,
			"quantity", b.Quantity, "available", b.Available)
		out = append(out, Finding{BookID: b.ID, Title: b.Title, Quantity: b.Quantity, Available: b.Available})
	}
	slog.Info("reconcile finished", "inconsistent", len(out))
	return out, nil
}

// Start schedules Run with a standard cron spec or descriptor such as
// "@every 1h". Stop must be called to release the scheduler.
func (j *Job) Start(spec string) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(spec, j.tick); err != nil {
		return err
	}
	j.cron = c
	c.Start()
	slog.Info("reconcile scheduled", "spec", spec)
	return nil
}

func (j *Job) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()
	_, _ = j.Run(ctx)
}

// Stop waits for a running scan to finish.
func (j *Job) Stop() {
	if j.cron == nil {
		return
	}
	<-j.cron.Stop().Done()
}
