// Package service contains supporting services that sit between the HTTP
// handlers and the database
package service

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

const sendTimeout = 10 * time.Second

// Mailer delivers account activation mails. Delivery is best-effort: a
// transport failure is reported as false and never as an error, so a broken
// SMTP setup can't fail a registration.
type Mailer struct {
	Host     string
	Port     int
	Email    string
	Password string
}

func NewMailer(host string, port int, email, password string) *Mailer {
	return &Mailer{
		Host:     host,
		Port:     port,
		Email:    email,
		Password: password,
	}
}

// SendActivation mails the activation link to the given address. Returns
// whether delivery succeeded.
func (s *Mailer) SendActivation(to, username, link string) bool {
	if s.Email == "" || s.Password == "" {
		zap.L().Warn("SMTP credentials not configured, skipping activation mail", zap.String("to", to))
		return false
	}

	if to == s.Email {
		return false
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.Email)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Discover Lisboa - Account validation")
	m.SetBody("text/html", fmt.Sprintf(
		"<p>Hello <strong>%s</strong>,</p>"+
			"<p>Thanks for registering. Click <a href='%s'>here</a> to validate your account, "+
			"or paste this link into your browser:</p><p>%s</p>"+
			"<p>This link expires in 24 hours. If you didn't register, ignore this mail.</p>",
		username, link, link))

	d := gomail.NewDialer(s.Host, s.Port, s.Email, s.Password)

	// DialAndSend has no context support so the timeout is enforced from the
	// outside. The goroutine is left to finish on its own if it fires
	done := make(chan error, 1)
	go func() {
		done <- d.DialAndSend(m)
	}()

	select {
	case err := <-done:
		if err != nil {
			zap.L().Warn("Failed to send activation mail", zap.Error(err), zap.String("to", to))
			return false
		}
	case <-time.After(sendTimeout):
		zap.L().Warn("Activation mail send timed out", zap.String("to", to))
		return false
	}

	return true
}
