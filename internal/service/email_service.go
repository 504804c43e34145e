package service

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/rudoxe/Tunegie-sub001/internal/config"
)

// EmailSender abstracts outbound email so services can be tested
// without a real SendGrid account.
type EmailSender interface {
	SendPasswordResetEmail(toEmail, toName, token string) error
}

// EmailService sends transactional email through SendGrid.
type EmailService struct {
	apiKey       string
	fromAddress  string
	fromName     string
	resetURLBase string
}

// NewEmailService creates a new EmailService from the application config.
func NewEmailService(cfg *config.EmailSettings) (*EmailService, error) {
	if cfg.SendGridAPIKey == "" {
		return nil, fmt.Errorf("SENDGRID_API_KEY is not set")
	}
	if cfg.ResetURLBase == "" {
		return nil, fmt.Errorf("RESET_URL_BASE is not set")
	}
	return &EmailService{
		apiKey:       cfg.SendGridAPIKey,
		fromAddress:  cfg.FromAddress,
		fromName:     cfg.FromName,
		resetURLBase: cfg.ResetURLBase,
	}, nil
}

// LogOnlyEmailSender writes reset tokens to the application log instead of
// sending email. It exists so development environments without SendGrid
// credentials can still exercise the password reset flow.
type LogOnlyEmailSender struct{}

// SendPasswordResetEmail logs the reset token instead of delivering it.
func (s *LogOnlyEmailSender) SendPasswordResetEmail(toEmail, toName, token string) error {
	log.Warn().
		Str("email", toEmail).
		Str("token", token).
		Msg("Email delivery not configured, logging reset token instead")
	return nil
}

// SendPasswordResetEmail sends a password reset email to the specified user.
func (s *EmailService) SendPasswordResetEmail(toEmail, toName, token string) error {
	resetURL := fmt.Sprintf("%s?token=%s", s.resetURLBase, token)

	from := mail.NewEmail(s.fromName, s.fromAddress)
	to := mail.NewEmail(toName, toEmail)
	subject := "Password Reset Request"
	plainTextContent := fmt.Sprintf("Please use the following link to reset your password: %s", resetURL)
	htmlContent := fmt.Sprintf("<strong>Please use the following link to reset your password:</strong> <a href=%q>Reset Password</a>", resetURL)
	message := mail.NewSingleEmail(from, subject, to, plainTextContent, htmlContent)

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		log.Error().Err(err).Msg("Failed to send password reset email")
		return err
	}

	log.Info().Int("status_code", response.StatusCode).Msg("Password reset email sent")
	return nil
}
