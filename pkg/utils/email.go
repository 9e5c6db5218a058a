package utils

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer sends multipart emails over SMTP with STARTTLS auth. When the SMTP
// settings are incomplete the mailer is unconfigured and Send reports that
// instead of attempting delivery.
type Mailer struct {
	host     string
	port     string
	username string
	password string
	from     string
}

func NewMailer(host, port, username, password, from string) *Mailer {
	return &Mailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (m *Mailer) Configured() bool {
	return m.host != "" && m.username != "" && m.password != "" && m.from != ""
}

// Send delivers an email with a plain-text body and an HTML alternative.
func (m *Mailer) Send(to, subject, text, html string) error {
	if !m.Configured() {
		return fmt.Errorf("SMTP not configured")
	}

	const boundary = "urbix-alt-boundary"

	headers := map[string]string{
		"From":         fmt.Sprintf("UrbiX <%s>", m.from),
		"To":           to,
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": fmt.Sprintf("multipart/alternative; boundary=%q", boundary),
	}

	var msg strings.Builder
	for key, value := range headers {
		fmt.Fprintf(&msg, "%s: %s\r\n", key, value)
	}
	msg.WriteString("\r\n")

	fmt.Fprintf(&msg, "--%s\r\n", boundary)
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	msg.WriteString(text)
	msg.WriteString("\r\n")

	fmt.Fprintf(&msg, "--%s\r\n", boundary)
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	msg.WriteString(html)
	msg.WriteString("\r\n")

	fmt.Fprintf(&msg, "--%s--\r\n", boundary)

	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	return smtp.SendMail(m.host+":"+m.port, auth, m.from, []string{to}, []byte(msg.String()))
}
