package services

import (
	"fmt"
	"log"
	"time"

	"gopkg.in/gomail.v2"

	"campusmarket/internal/config"
)

type CodePurpose string

const (
	PurposeVerification CodePurpose = "verification"
	PurposeReset        CodePurpose = "reset"
)

// EmailService delivers verification codes out of band. Delivery is
// best-effort: callers record the outcome but never fail the primary
// operation on a send error.
type EmailService interface {
	SendCode(toEmail, name, code string, purpose CodePurpose) error
}

type emailService struct {
	dialer  *gomail.Dialer
	from    string
	timeout time.Duration
	dryRun  bool
}

func NewEmailService(cfg config.EmailConfig) EmailService {
	return &emailService{
		dialer:  gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:    cfg.FromEmail,
		timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		dryRun:  cfg.DryRun,
	}
}

func (s *emailService) SendCode(toEmail, name, code string, purpose CodePurpose) error {
	if s.dryRun {
		log.Printf("[email][send] dry-run: to=%s purpose=%s code=%s", toEmail, purpose, code)
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Your Verification Code")
	m.SetBody("text/html", codeBody(name, code, purpose))

	// DialAndSend blocks on the SMTP conversation; a broken relay must not
	// stall the request, so the send is bounded by the configured timeout.
	done := make(chan error, 1)
	go func() { done <- s.dialer.DialAndSend(m) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send %s email: %w", purpose, err)
		}
		return nil
	case <-time.After(s.timeout):
		return fmt.Errorf("send %s email: timed out after %s", purpose, s.timeout)
	}
}

func codeBody(name, code string, purpose CodePurpose) string {
	intro := "Thank you for joining the Campus Pre-owned Market. To complete your registration, please use the verification code below:"
	outro := "Enter this code on the verification screen to activate your account."
	if purpose == PurposeReset {
		intro = "We received a request to reset the password for your Campus Pre-owned Market account. Please use the code below:"
		outro = "Enter this code on the password reset screen to choose a new password."
	}
	// Codes are valid for 15 minutes; an older template claimed 2, the
	// server-side TTL is what counts.
	return fmt.Sprintf(`
		<h2>Hello, %s!</h2>
		<p>%s</p>
		<p style="font-size:28px;letter-spacing:6px;font-family:monospace"><strong>%s</strong></p>
		<p>This code expires in 15 minutes.</p>
		<p>%s</p>
		<p>If you did not request this, you can ignore this email.</p>
	`, name, intro, code, outro)
}
