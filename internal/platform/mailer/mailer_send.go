package mailer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mailersend/mailersend-go"
)

type Mailer struct {
	client  *mailersend.Mailersend
	from    mailersend.From
	Enabled bool
}

func NewMailer(apiKey, fromName, fromEmail string) *Mailer {
	m := &Mailer{
		Enabled: apiKey != "" && fromEmail != "",
		from: mailersend.From{
			Name:  fromName,
			Email: fromEmail,
		},
	}
	if m.Enabled {
		m.client = mailersend.NewMailersend(apiKey)
	}
	return m
}

func (m *Mailer) Send(toEmail, toName, subject, text, html string) (string, error) {
	if !m.Enabled {
		return "", errors.New("mailer disabled (missing MAILERSEND_API_KEY or SMTP_FROM)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	msg := m.client.Email.NewMessage()
	msg.SetFrom(m.from)
	msg.SetRecipients([]mailersend.Recipient{{Name: toName, Email: toEmail}})
	msg.SetSubject(subject)
	if strings.TrimSpace(text) != "" {
		msg.SetText(text)
	}
	if strings.TrimSpace(html) != "" {
		msg.SetHTML(html)
	}

	res, err := m.client.Email.Send(ctx, msg)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(res.Body)
		return "", fmt.Errorf("mailersend error: status=%d body=%s", res.StatusCode, strings.TrimSpace(string(body)))
	}
	// MailerSend uses X-Message-Id
	return res.Header.Get("X-Message-Id"), nil
}

func (m *Mailer) SendBookingReceived(toEmail, toName, service string) error {
	subject := "We received your HomeBuddy booking request"
	text := fmt.Sprintf("Hi %s, we received your request for %s. Our team will call you shortly to confirm.", toName, service)
	html := fmt.Sprintf(`<p>Hi %s,</p><p>We received your request for <b>%s</b>. Our team will call you shortly to confirm.</p>`, toName, service)
	_, err := m.Send(toEmail, toName, subject, text, html)
	return err
}

func (m *Mailer) SendNewMessageNotification(staffEmail, fromName, fromEmail string) error {
	subject := "New contact message on HomeBuddy"
	text := fmt.Sprintf("New message from %s (%s). Check the admin dashboard.", fromName, fromEmail)
	html := fmt.Sprintf(`<p>New message from <b>%s</b> (%s).</p><p>Check the admin dashboard.</p>`, fromName, fromEmail)
	_, err := m.Send(staffEmail, "", subject, text, html)
	return err
}

var _ Service = (*Mailer)(nil)
