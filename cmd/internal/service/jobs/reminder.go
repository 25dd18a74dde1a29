package jobs

import (
	"context"
	"time"

	"remino/cmd/internal/domain/entity"

	"github.com/labstack/gommon/log"
)

// ReminderWindow is how far ahead of now a pending task is considered due soon.
const ReminderWindow = 24 * time.Hour

type TaskRepository interface {
	FindPendingDueBetween(from, to int64) ([]*entity.Task, error)
}

type Reminder interface {
	RemindTask(ctx context.Context, task *entity.Task) error
}

// SweepResult summarizes one sweep.
type SweepResult struct {
	Due    int
	Sent   int
	Failed int
}

// ReminderSweep mails the owner of every incomplete task due within the next day.
//
// Nothing records which tasks were already reminded, a task stays in the window
// and is reminded again on every sweep until completed or past due.
type ReminderSweep struct {
	tasks    TaskRepository
	reminder Reminder
	hour     int
}

func NewReminderSweep(tasks TaskRepository, reminder Reminder, hour int) *ReminderSweep {
	return &ReminderSweep{
		tasks:    tasks,
		reminder: reminder,
		hour:     hour,
	}
}

// Sweep runs one pass over the tasks due in [now, now+ReminderWindow]. A failed
// reminder is logged and does not stop the remaining ones, only a failed query
// aborts the sweep.
func (r *ReminderSweep) Sweep(ctx context.Context, now time.Time) (*SweepResult, error) {
	from := now.UTC().UnixMilli()
	to := now.UTC().Add(ReminderWindow).UnixMilli()

	tasks, err := r.tasks.FindPendingDueBetween(from, to)
	if err != nil {
		return nil, err
	}

	res := &SweepResult{Due: len(tasks)}
	for _, task := range tasks {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		if err := r.reminder.RemindTask(ctx, task); err != nil {
			log.Errorf("Reminder: failed to remind task %d: %v", task.ID, err)
			res.Failed++
			continue
		}
		res.Sent++
	}

	log.Infof("Reminder: %d due, %d sent, %d failed", res.Due, res.Sent, res.Failed)
	return res, nil
}

// Start sweeps once a day at the configured UTC hour until ctx is done.
func (r *ReminderSweep) Start(ctx context.Context) {
	log.Infof("Reminder cron started, runs daily at %02d:00 UTC", r.hour)

	for {
		next := NextRun(time.Now(), r.hour)
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			log.Info("Stopping reminder cron...")
			return
		case <-timer.C:
			if _, err := r.Sweep(ctx, time.Now()); err != nil {
				log.Errorf("Reminder: sweep failed: %v", err)
			}
		}
	}
}

// NextRun returns the first instant strictly after now at hour:00 UTC.
func NextRun(now time.Time, hour int) time.Time {
	now = now.UTC()
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
