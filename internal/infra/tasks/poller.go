// Package tasks runs the deferred-task poller. A cron schedule fires the
// poll; each poll drains every due task, dispatching by kind.
package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"stayhub/internal/app/policies"
	apptasks "stayhub/internal/app/tasks"
)

const maxAttempts = 5

var ErrPollerNotConfigured = errors.New("tasks: poller missing dependencies")

type Poller struct {
	Queue    apptasks.Queue
	Notifier policies.Notifier
	Spec     string
	Backoff  time.Duration
	Logger   *slog.Logger

	cron *cron.Cron
}

// Start registers the poll job and launches the cron scheduler.
func (p *Poller) Start(ctx context.Context) error {
	if p.Queue == nil || p.Notifier == nil {
		return ErrPollerNotConfigured
	}
	spec := p.Spec
	if spec == "" {
		spec = "@every 1m"
	}
	p.cron = cron.New()
	if _, err := p.cron.AddFunc(spec, func() { p.poll(ctx) }); err != nil {
		return fmt.Errorf("tasks: bad poll spec %q: %w", spec, err)
	}
	p.cron.Start()
	return nil
}

// Stop halts the scheduler and waits for a running poll to finish.
func (p *Poller) Stop() {
	if p.cron == nil {
		return
	}
	<-p.cron.Stop().Done()
}

func (p *Poller) poll(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		task, err := p.Queue.Claim(ctx, time.Now())
		if err != nil {
			p.log().Error("task claim failed", "error", err)
			return
		}
		if task == nil {
			return
		}
		p.process(ctx, task)
	}
}

func (p *Poller) process(ctx context.Context, task *apptasks.Task) {
	err := p.dispatch(ctx, task)
	if err == nil {
		if err := p.Queue.MarkDone(ctx, task.ID); err != nil {
			p.log().Error("task done mark failed", "task_id", task.ID, "error", err)
		}
		return
	}
	if task.Attempts+1 >= maxAttempts {
		p.log().Error("task dropped after retries", "task_id", task.ID, "kind", task.Kind, "error", err)
		if err := p.Queue.MarkDone(ctx, task.ID); err != nil {
			p.log().Error("task done mark failed", "task_id", task.ID, "error", err)
		}
		return
	}
	retryAt := time.Now().Add(p.backoff())
	if err := p.Queue.MarkFailed(ctx, task.ID, retryAt, err.Error()); err != nil {
		p.log().Error("task retry mark failed", "task_id", task.ID, "error", err)
	}
}

func (p *Poller) dispatch(ctx context.Context, task *apptasks.Task) error {
	switch task.Kind {
	case apptasks.KindReviewRequest:
		var payload apptasks.ReviewRequestPayload
		if err := json.Unmarshal(task.Payload, &payload); err != nil {
			return err
		}
		return p.Notifier.Send(ctx, payload.RenterID, "review_request", payload)
	default:
		return fmt.Errorf("tasks: unknown kind %q", task.Kind)
	}
}

func (p *Poller) backoff() time.Duration {
	if p.Backoff > 0 {
		return p.Backoff
	}
	return 10 * time.Minute
}

func (p *Poller) log() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}
