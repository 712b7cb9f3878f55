// Package mail email-канал уведомлений: Mailgun или SMTP.
package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/mailgun/mailgun-go/v3"
	"gopkg.in/gomail.v2"
)

// Email готовое к отправке письмо.
type Email struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

type Sender interface {
	Send(ctx context.Context, email Email) error
}

const sendTimeout = 30 * time.Second

// MailgunSender отправка через Mailgun API.
type MailgunSender struct {
	mg   mailgun.Mailgun
	from string
}

func NewMailgunSender(domain, apiKey, from string) *MailgunSender {
	return &MailgunSender{mg: mailgun.NewMailgun(domain, apiKey), from: from}
}

func (s *MailgunSender) Send(ctx context.Context, email Email) error {
	message := s.mg.NewMessage(s.from, email.Subject, email.Text, email.To)
	if email.HTML != "" {
		message.SetHtml(email.HTML)
	}

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	if _, _, err := s.mg.Send(ctx, message); err != nil {
		return fmt.Errorf("mail: mailgun: %w", err)
	}
	return nil
}

// SMTPSender отправка через SMTP-сервер.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(host string, port int, user, password, from string) *SMTPSender {
	d := gomail.NewDialer(host, port, user, password)
	d.TLSConfig = &tls.Config{ServerName: host, MinVersion: tls.VersionTLS12}
	return &SMTPSender{dialer: d, from: from}
}

// Send не прерывается по ctx: gomail работает синхронно, поэтому проверяем отмену до соединения.
func (s *SMTPSender) Send(ctx context.Context, email Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email.To)
	m.SetHeader("Subject", email.Subject)
	m.SetBody("text/plain", email.Text)
	if email.HTML != "" {
		m.AddAlternative("text/html", email.HTML)
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("mail: smtp: %w", err)
	}
	return nil
}
