package email

import (
	"crypto/rand"
	"crypto/tls"
	"fmt"
	"math/big"
	"net/smtp"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// EmailService defines the interface for email operations
type EmailService interface {
	SendPasswordSetEmail(toEmail, toName, token string) error
	SendContactEmail(fromName, fromEmail, subject, message string) error
}

// SMTPConfig holds configuration for SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	// ContactEmail receives contact-us messages
	ContactEmail string
	UseTLS       bool
	BaseURL      string // Base URL for the application
}

// EmailServiceImpl implements EmailService
type EmailServiceImpl struct {
	config SMTPConfig
	logger zerolog.Logger
}

// NewEmailService creates a new EmailService
func NewEmailService(config SMTPConfig, logger zerolog.Logger) EmailService {
	return &EmailServiceImpl{
		config: config,
		logger: logger,
	}
}

// SendPasswordSetEmail sends a mentor the one-time link for setting
// their account password.
func (s *EmailServiceImpl) SendPasswordSetEmail(toEmail, toName, token string) error {
	setPasswordURL := fmt.Sprintf("%s/set-password?token=%s", s.config.BaseURL, token)

	// Without SMTP credentials, log the link instead of sending (development mode)
	if s.config.Username == "" || s.config.Password == "" {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("token", token).
			Str("setPasswordURL", setPasswordURL).
			Msg("SMTP credentials not configured - password set email not sent. Use the token/URL above for testing.")
		return nil
	}

	subject := "Activate Your Mentor Account - Student 360"

	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">Welcome to Student 360!</h2>
				<p>Hello %s,</p>
				<p>A mentor account has been created for you. To activate it, please set your password by clicking the button below:</p>

				<div style="text-align: center; margin: 30px 0;">
					<a href="%s" style="background-color: #4a86e8; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; font-weight: bold;">Set Password</a>
				</div>

				<p>This link will expire in 48 hours.</p>

				<p>If you were not expecting this email, please ignore it.</p>

				<p>Best regards,<br>The Student 360 Team</p>
			</div>
		</body>
		</html>
	`, toName, setPasswordURL)

	return s.sendHTMLEmail(toEmail, subject, body)
}

// SendContactEmail forwards a contact-us message to the configured inbox
func (s *EmailServiceImpl) SendContactEmail(fromName, fromEmail, subject, message string) error {
	if s.config.Username == "" || s.config.Password == "" {
		s.logger.Warn().
			Str("fromEmail", fromEmail).
			Str("subject", subject).
			Msg("SMTP credentials not configured - contact email not sent.")
		return nil
	}

	to := s.config.ContactEmail
	if to == "" {
		to = s.config.FromEmail
	}

	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">New contact message</h2>
				<p><strong>From:</strong> %s &lt;%s&gt;</p>
				<p><strong>Subject:</strong> %s</p>
				<hr>
				<p>%s</p>
			</div>
		</body>
		</html>
	`, fromName, fromEmail, subject, message)

	return s.sendHTMLEmail(to, "Contact: "+subject, body)
}

// sendHTMLEmail sends an HTML email
func (s *EmailServiceImpl) sendHTMLEmail(toEmail, subject, htmlBody string) error {
	auth := smtp.PlainAuth(
		"",
		s.config.Username,
		s.config.Password,
		s.config.Host,
	)

	headers := make(map[string]string)
	headers["From"] = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail)
	headers["To"] = toEmail
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"

	message := ""
	for key, value := range headers {
		message += fmt.Sprintf("%s: %s\r\n", key, value)
	}
	message += "\r\n" + htmlBody

	serverAddress := s.config.Host + ":" + strconv.Itoa(s.config.Port)

	if s.config.UseTLS {
		tlsConfig := &tls.Config{
			InsecureSkipVerify: true,
			ServerName:         s.config.Host,
		}

		conn, err := tls.Dial("tcp", serverAddress, tlsConfig)
		if err != nil {
			s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to connect to SMTP server")
			return fmt.Errorf("failed to connect to SMTP server: %w", err)
		}
		defer conn.Close()

		client, err := smtp.NewClient(conn, s.config.Host)
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to create SMTP client")
			return fmt.Errorf("failed to create SMTP client: %w", err)
		}
		defer client.Quit()

		if err = client.Auth(auth); err != nil {
			s.logger.Error().Err(err).Msg("SMTP authentication failed")
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}

		if err = client.Mail(s.config.FromEmail); err != nil {
			return fmt.Errorf("failed to set sender: %w", err)
		}
		if err = client.Rcpt(toEmail); err != nil {
			return fmt.Errorf("failed to set recipient: %w", err)
		}

		w, err := client.Data()
		if err != nil {
			return fmt.Errorf("failed to get data writer: %w", err)
		}
		if _, err = w.Write([]byte(message)); err != nil {
			return fmt.Errorf("failed to write email message: %w", err)
		}
		if err = w.Close(); err != nil {
			return fmt.Errorf("failed to close data writer: %w", err)
		}

		return nil
	}

	// Simple SMTP without TLS
	err := smtp.SendMail(
		serverAddress,
		auth,
		s.config.FromEmail,
		[]string{toEmail},
		[]byte(message),
	)
	if err != nil {
		s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// GeneratePasswordSetToken generates a random one-time token
func GeneratePasswordSetToken() (string, error) {
	const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, 32)

	var err error
	for i := range result {
		var n *big.Int
		n, err = rand.Int(rand.Reader, big.NewInt(int64(len(chars))))
		if err != nil {
			// Fall back to a time-based pick but record the error
			result[i] = chars[int(time.Now().UnixNano()%int64(len(chars)))]
		} else {
			result[i] = chars[n.Int64()]
		}
	}

	if err != nil {
		return string(result), fmt.Errorf("secure random generation partially failed: %w", err)
	}

	return string(result), nil
}
