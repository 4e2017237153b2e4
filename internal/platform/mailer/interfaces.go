package mailer

type Service interface {
	Send(toEmail, toName, subject, text, html string) (string, error)
	SendBookingReceived(toEmail, toName, service string) error
	SendNewMessageNotification(staffEmail, fromName, fromEmail string) error
}
