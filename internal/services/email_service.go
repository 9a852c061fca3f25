package services

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type EmailService interface {
	SendTaskerApprovedEmail(email, fullName string) error
	SendTaskerRejectedEmail(email, fullName, reason string) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

func (s *emailService) SendTaskerApprovedEmail(email, fullName string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Your tasker application was approved")

	body := fmt.Sprintf(`
		<h2>Congratulations, %s!</h2>
		<p>Your application to work as a tasker on Sira has been approved.</p>
		<p>Switch to tasker mode in the app to start browsing open tasks.</p>
		<p>Best regards,<br>The Sira Team</p>
	`, fullName)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send approval email: %w", err)
	}

	return nil
}

func (s *emailService) SendTaskerRejectedEmail(email, fullName, reason string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Update on your tasker application")

	body := fmt.Sprintf(`
		<h3>Hello, %s</h3>
		<p>We reviewed your tasker application and could not approve it this time.</p>
		<p>Reason: <strong>%s</strong></p>
		<p>You are welcome to apply again once the issue is addressed.</p>
	`, fullName, reason)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send rejection email: %w", err)
	}

	return nil
}
