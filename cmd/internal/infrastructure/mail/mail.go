// Package mail delivers plain text notifications to a single recipient.
package mail

import (
	"context"
	"errors"

	"github.com/labstack/gommon/log"
)

// ErrDispatch wraps every delivery failure.
var ErrDispatch = errors.New("mail: dispatch failed")

type Message struct {
	To      string
	Subject string
	Body    string
}

type Sender interface {
	Send(ctx context.Context, msg *Message) error
}

// LogSender only writes messages to the log, handy for development.
type LogSender struct{}

func NewLogSender() *LogSender {
	return &LogSender{}
}

func (l *LogSender) Send(_ context.Context, msg *Message) error {
	log.Infof("mail to %s: %s\n%s", msg.To, msg.Subject, msg.Body)
	return nil
}
