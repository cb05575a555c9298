package email

import (
	"fmt"

	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"
)

// Config holds SMTP parameters. An empty Host disables sending entirely,
// which keeps local development working without a mail server.
type Config struct {
	Host      string
	Port      int
	User      string
	Password  string
	FromEmail string
	FromName  string
}

type Service struct {
	cfg Config
	log *zap.Logger
}

func NewService(cfg Config, log *zap.Logger) *Service {
	return &Service{cfg: cfg, log: log}
}

func (s *Service) send(to, subject, htmlBody string) error {
	if s.cfg.Host == "" || s.cfg.User == "" {
		s.log.Info("email not configured, skipping send", zap.String("to", to))
		return nil
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.cfg.FromEmail, s.cfg.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.User, s.cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}
	return nil
}

func (s *Service) SendVerificationCode(to, name, code string) error {
	return s.send(to, "Email verification - LearnHub LMS", renderCodeTemplate(
		name,
		"Confirm your email address",
		"Use this code to verify your email address. It expires shortly, so enter it soon.",
		code,
	))
}

func (s *Service) SendPasswordReset(to, name, code string) error {
	return s.send(to, "Password recovery - LearnHub LMS", renderCodeTemplate(
		name,
		"Reset your password",
		"Use this code to reset your password. If you did not request a reset, you can ignore this email.",
		code,
	))
}

func (s *Service) SendWelcome(to, name string) error {
	return s.send(to, "Welcome to LearnHub LMS!", renderWelcomeTemplate(name))
}
