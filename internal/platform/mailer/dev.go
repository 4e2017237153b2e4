package mailer

import (
	"github.com/homebuddy/homebuddy-api/pkg/logger"
)

// DevMailer logs mail instead of sending it.
type DevMailer struct{}

func NewDevMailer() *DevMailer {
	return &DevMailer{}
}

func (d *DevMailer) Send(toEmail, toName, subject, text, html string) (string, error) {
	logger.Info("[DEV MAIL]",
		"to", toEmail,
		"name", toName,
		"subject", subject,
		"text", text,
	)
	return "dev", nil
}

func (d *DevMailer) SendBookingReceived(toEmail, toName, service string) error {
	_, err := d.Send(toEmail, toName, "We received your HomeBuddy booking request", service, "")
	return err
}

func (d *DevMailer) SendNewMessageNotification(staffEmail, fromName, fromEmail string) error {
	_, err := d.Send(staffEmail, "", "New contact message on HomeBuddy", fromName+" <"+fromEmail+">", "")
	return err
}

var _ Service = (*DevMailer)(nil)
