package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Sender delivers listing notification emails.
type Sender interface {
	SendStatusChanged(toEmail, listingTitle, status string) error
}

// Mailer sends through a single SMTP account.
type Mailer struct {
	host     string
	port     int
	from     string
	password string
}

func New(host string, port int, from, password string) *Mailer {
	return &Mailer{host: host, port: port, from: from, password: password}
}

func (m *Mailer) SendStatusChanged(toEmail, listingTitle, status string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", toEmail)

	switch status {
	case "ACTIVE":
		msg.SetHeader("Subject", "Your listing is live")
		msg.SetBody("text/plain", "Your listing '"+listingTitle+"' has been approved and is now visible to buyers.")
	case "REJECTED":
		msg.SetHeader("Subject", "Your listing was rejected")
		msg.SetBody("text/plain", "Your listing '"+listingTitle+"' was rejected during review. Please update it and resubmit.")
	default:
		msg.SetHeader("Subject", "Listing status update")
		msg.SetBody("text/plain", fmt.Sprintf("The status of your listing '%s' changed to %s.", listingTitle, status))
	}

	d := gomail.NewDialer(m.host, m.port, m.from, m.password)
	return d.DialAndSend(msg)
}
