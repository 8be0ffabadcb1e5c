// Package mail sends formatted notification messages over SMTP. All sends
// are fire-and-forget from the services' perspective: callers dispatch on a
// goroutine and failures are logged, never propagated.
package mail

import (
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

type Mailer interface {
	SendSignupOTP(email, otp string) error
	SendPasswordResetOTP(email, otp string) error
	SendWelcome(email, name string) error
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (m *SMTPMailer) send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)
	return m.dialer.DialAndSend(msg)
}

func (m *SMTPMailer) SendSignupOTP(email, otp string) error {
	return m.send(email, "EPool - Verification Code", signupOTPTemplate(otp))
}

func (m *SMTPMailer) SendPasswordResetOTP(email, otp string) error {
	return m.send(email, "EPool - Password Reset", passwordResetTemplate(otp))
}

func (m *SMTPMailer) SendWelcome(email, name string) error {
	return m.send(email, "Welcome to EPool", welcomeTemplate(name))
}

// DevConsoleMailer logs instead of sending, for local runs without SMTP.
type DevConsoleMailer struct{}

func (DevConsoleMailer) SendSignupOTP(email, otp string) error {
	zap.L().Info("[DEV-EMAIL] signup otp", zap.String("email", email), zap.String("otp", otp))
	return nil
}

func (DevConsoleMailer) SendPasswordResetOTP(email, otp string) error {
	zap.L().Info("[DEV-EMAIL] password reset otp", zap.String("email", email), zap.String("otp", otp))
	return nil
}

func (DevConsoleMailer) SendWelcome(email, name string) error {
	zap.L().Info("[DEV-EMAIL] welcome", zap.String("email", email), zap.String("name", name))
	return nil
}
