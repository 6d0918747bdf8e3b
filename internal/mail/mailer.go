// Package mail provides the synchronous email transport used for
// verification messages. Dispatch happens on the request path; a transport
// failure surfaces directly to the caller with no retry.
package mail

import (
	"fmt"

	gomail "gopkg.in/gomail.v2"
)

// Mailer sends a single plain-text message.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer sends mail through an SMTP relay.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer creates a mailer for the given relay.
func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// Send dials the relay and sends the message.
func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
