package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"remino/cmd/internal/domain/entity"
	"remino/cmd/internal/domain/events"
	"remino/cmd/internal/infrastructure/mail"
	"remino/cmd/internal/utils"

	"github.com/labstack/gommon/log"
)

// Notifier turns domain events and reminders into mails.
type Notifier struct {
	Sender  mail.Sender
	SiteURL string
}

func NewNotifier(sender mail.Sender, siteURL string) *Notifier {
	return &Notifier{
		Sender:  sender,
		SiteURL: strings.TrimRight(siteURL, "/"),
	}
}

// Subscribe registers the notifier on the sharing events of bus.
func (n *Notifier) Subscribe(bus *events.Bus) {
	bus.Subscribe(events.EventNoteShared, n.onNoteShared)
	bus.Subscribe(events.EventTaskShared, n.onTaskShared)
}

func (n *Notifier) onNoteShared(ctx context.Context, evt events.Event) error {
	e, ok := evt.(*events.NoteShared)
	if !ok {
		return fmt.Errorf("unexpected event %T", evt)
	}
	return n.notifyShared(ctx, "note", "notes", &e.SharedPayload)
}

func (n *Notifier) onTaskShared(ctx context.Context, evt events.Event) error {
	e, ok := evt.(*events.TaskShared)
	if !ok {
		return fmt.Errorf("unexpected event %T", evt)
	}
	return n.notifyShared(ctx, "task", "tasks", &e.SharedPayload)
}

// notifyShared mails every recipient, one failure does not prevent the others.
func (n *Notifier) notifyShared(ctx context.Context, kind, path string, p *events.SharedPayload) error {
	link := n.Link(path, p.EntityID)
	subject := fmt.Sprintf("%s shared a %s with you", p.OwnerName, kind)

	var errs []error
	for _, r := range p.Recipients {
		body := fmt.Sprintf("Hello %s,\n\n%s shared the %s \"%s\" with you.\n\nOpen it here: %s\n",
			r.Username, p.OwnerName, kind, p.Title, link)

		err := n.Sender.Send(ctx, &mail.Message{To: r.Email, Subject: subject, Body: body})
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RemindTask mails the owner of task that it is due soon.
func (n *Notifier) RemindTask(ctx context.Context, task *entity.Task) error {
	if task.User.Email == "" {
		return fmt.Errorf("task %d: owner %d has no email", task.ID, task.UserID)
	}

	due := time.UnixMilli(task.DueDate).UTC().Format(utils.EpochLayout)
	body := fmt.Sprintf("Hello %s,\n\nThis is a reminder that your task \"%s\" is due on %s UTC.\n\nView the task: %s\n",
		task.User.Username, task.Title, due, n.Link("tasks", task.ID))

	msg := &mail.Message{
		To:      task.User.Email,
		Subject: fmt.Sprintf("Reminder: Task '%s' is due soon", task.Title),
		Body:    body,
	}

	if err := n.Sender.Send(ctx, msg); err != nil {
		return err
	}

	log.Debugf("reminder for task %d sent to %s", task.ID, task.User.Email)
	return nil
}

// Link builds the public URL of an entity, e.g. https://site/notes/42/.
func (n *Notifier) Link(path string, id int64) string {
	return fmt.Sprintf("%s/%s/%d/", n.SiteURL, path, id)
}
