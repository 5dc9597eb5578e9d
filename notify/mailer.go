package notify

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

type Mailer struct {
	from string
	to   []string
	send func(*gomail.Message) error
}

func NewMailer(host string, port int, user, password, from string, to []string) *Mailer {
	dialer := gomail.NewDialer(host, port, user, password)
	return &Mailer{
		from: from,
		to:   to,
		send: dialer.DialAndSend,
	}
}

func (m *Mailer) message(n Notification) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", m.to...)
	msg.SetHeader("Subject", n.Subject)
	if n.HTML != "" {
		msg.SetBody("text/html", n.HTML)
		if n.Text != "" {
			msg.AddAlternative("text/plain", n.Text)
		}
	} else {
		msg.SetBody("text/plain", n.Text)
	}
	return msg
}

func (m *Mailer) Notify(_ context.Context, n Notification) error {
	if n.Subject == "" || len(m.to) == 0 {
		return nil
	}
	if err := m.send(m.message(n)); err != nil {
		return fmt.Errorf("send mail %q: %w", n.Subject, err)
	}
	return nil
}
