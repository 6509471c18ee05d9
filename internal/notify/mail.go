package notify

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strings"
	"time"
)

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Mailer sends messages through an SMTP relay, one envelope for all
// recipients with the list hidden from each of them.
type Mailer struct {
	addr string
	auth smtp.Auth
	send sendFunc
	now  func() time.Time
}

func NewMailer(host, port, username, password string) *Mailer {
	var a smtp.Auth
	if username != "" {
		a = smtp.PlainAuth("", username, password, host)
	}
	return &Mailer{
		addr: net.JoinHostPort(host, port),
		auth: a,
		send: smtp.SendMail,
		now:  time.Now,
	}
}

func (m *Mailer) Notify(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return nil
	}

	done := make(chan error, 1)
	go func() {
		done <- m.send(m.addr, m.auth, msg.From, msg.To, m.compose(msg))
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Mailer) compose(msg Message) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", msg.From)
	fmt.Fprintf(&b, "To: undisclosed-recipients:;\r\n")
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&b, "Date: %s\r\n", m.now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("Content-Transfer-Encoding: 8bit\r\n\r\n")
	b.WriteString(strings.ReplaceAll(msg.Body, "\n", "\r\n"))
	b.WriteString("\r\n")
	return b.Bytes()
}
