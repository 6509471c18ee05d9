// Package notify delivers outbound messages about new comments.
package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

const (
	CommentSubject = "New comment"
	DefaultFrom    = "blogicum@ya.ru"
)

type Message struct {
	From    string
	To      []string
	Subject string
	Body    string
}

// CommentMessage builds the notification sent to recipients when username
// comments with text.
func CommentMessage(from string, to []string, username, text string) Message {
	if from == "" {
		from = DefaultFrom
	}
	return Message{
		From:    from,
		To:      to,
		Subject: CommentSubject,
		Body:    fmt.Sprintf("%s left a new comment.\nComment text: %s", username, text),
	}
}

type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// Multi fans a message out to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, msg Message) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogNotifier writes messages to the log instead of sending them. It is the
// fallback when no transport is configured.
type LogNotifier struct {
	Log *logrus.Logger
}

func (n LogNotifier) Notify(_ context.Context, msg Message) error {
	n.Log.WithFields(logrus.Fields{
		"from":       msg.From,
		"recipients": len(msg.To),
		"subject":    msg.Subject,
	}).Info(msg.Body)
	return nil
}
