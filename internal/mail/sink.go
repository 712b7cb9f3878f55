package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/ignatzorin/freelance-orders/internal/domain/repository"
	"github.com/ignatzorin/freelance-orders/internal/notify"
)

var letter = template.Must(template.New("letter").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #222;">
  <h2>{{.Title}}</h2>
  <p>{{.Body}}</p>
  {{if .URL}}<p><a href="{{.URL}}">Открыть на платформе</a></p>{{end}}
  <p style="color: #888; font-size: 12px;">Письмо отправлено автоматически, отвечать на него не нужно.</p>
</body>
</html>`))

// Sink доставляет уведомления на email получателя. Реализует notify.Sink.
type Sink struct {
	sender  Sender
	users   repository.UserRepository
	baseURL string
}

func NewSink(sender Sender, users repository.UserRepository, baseURL string) *Sink {
	return &Sink{sender: sender, users: users, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *Sink) Name() string { return "mail" }

// Deliver пропускает пользователей без адреса.
func (s *Sink) Deliver(ctx context.Context, msg notify.Message) error {
	u, err := s.users.FindByID(ctx, msg.UserID)
	if err != nil {
		return fmt.Errorf("mail: получатель %s: %w", msg.UserID, err)
	}
	if u.Email == "" {
		return nil
	}

	email, err := s.render(u.Email, msg)
	if err != nil {
		return err
	}
	return s.sender.Send(ctx, email)
}

func (s *Sink) render(to string, msg notify.Message) (Email, error) {
	url := ""
	if msg.Link != "" {
		url = s.baseURL + msg.Link
	}

	var buf bytes.Buffer
	data := struct{ Title, Body, URL string }{msg.Title, msg.Body, url}
	if err := letter.Execute(&buf, data); err != nil {
		return Email{}, fmt.Errorf("mail: шаблон письма: %w", err)
	}

	text := msg.Body
	if url != "" {
		text += "\n\n" + url
	}
	return Email{To: to, Subject: msg.Title, Text: text, HTML: buf.String()}, nil
}
