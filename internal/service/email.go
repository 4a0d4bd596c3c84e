package service

import (
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/myportfolify/backend/config"
	"github.com/myportfolify/backend/internal/models"
)

type EmailService struct {
	smtpHost     string
	smtpPort     string
	smtpUsername string
	smtpPassword string
	fromEmail    string
	fromName     string
	frontendURL  string
	backendURL   string
	logger       *zap.Logger
}

var _ IEmailService = (*EmailService)(nil)

func NewEmailService(cfg *config.Config, logger *zap.Logger) *EmailService {
	return &EmailService{
		smtpHost:     cfg.SMTPHost,
		smtpPort:     cfg.SMTPPort,
		smtpUsername: cfg.SMTPUsername,
		smtpPassword: cfg.SMTPPassword,
		fromEmail:    cfg.EmailFrom,
		fromName:     cfg.EmailFromName,
		frontendURL:  cfg.FrontendURL,
		backendURL:   cfg.BackendURL,
		logger:       logger,
	}
}

func (s *EmailService) SendEmail(to, subject, textBody, htmlBody string) error {
	// If SMTP is not configured, log the email instead
	if s.smtpHost == "" || s.smtpPort == "" {
		s.logger.Info("SMTP not configured, logging email instead",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.String("body", textBody),
		)
		return nil
	}

	auth := smtp.PlainAuth("", s.smtpUsername, s.smtpPassword, s.smtpHost)

	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	msg := []byte(fmt.Sprintf("To: %s\r\n"+
		"From: %s\r\n"+
		"Subject: %s\r\n"+
		"Content-Type: text/html; charset=UTF-8\r\n"+
		"\r\n"+
		"%s\r\n", to, from, subject, htmlBody))

	addr := fmt.Sprintf("%s:%s", s.smtpHost, s.smtpPort)
	if err := smtp.SendMail(addr, auth, s.fromEmail, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

func (s *EmailService) SendVerificationEmail(user *models.User, token string) error {
	subject := "Complete Your MyPortfolify Registration"
	verifyLink := fmt.Sprintf("%s/verify-email/%s", s.backendURL, token)
	name := localPart(user.Email)

	textBody := fmt.Sprintf("Hi %s!\n\nWelcome to MyPortfolify! To get started, please verify your email address by clicking the link below:\n\n%s\n\nThis link will expire in 24 hours. If you didn't request this, please ignore this email.\n\nThanks,\nThe MyPortfolify Team", name, verifyLink)

	return s.SendEmail(user.Email, subject, textBody, s.buildVerificationEmailBody(name, verifyLink))
}

func (s *EmailService) SendPasswordResetEmail(user *models.User, token string) error {
	subject := "Password Reset Request for Your MyPortfolify Account"
	resetLink := fmt.Sprintf("%s/reset-password/%s", s.frontendURL, token)

	textBody := fmt.Sprintf("Hi there,\n\nWe received a request to reset your MyPortfolify password. Click the link below to proceed:\n\n%s\n\nThis link expires in 1 hour for security reasons.\n\nIf you didn't request this, please ignore this email or contact support.\n\n- The MyPortfolify Team", resetLink)

	return s.SendEmail(user.Email, subject, textBody, s.buildPasswordResetEmailBody(resetLink))
}

func (s *EmailService) buildVerificationEmailBody(name, verifyLink string) string {
	return fmt.Sprintf(`
<div style="font-family: 'Segoe UI', Roboto, Helvetica, Arial, sans-serif; max-width: 600px; margin: 0 auto; color: #333;">
	<div style="background-color: #f8f9fa; padding: 30px; border-radius: 8px;">
		<div style="text-align: center; margin-bottom: 25px;">
			<h1 style="color: #2c3e50; font-size: 24px; margin: 0;">MyPortfolify</h1>
		</div>

		<div style="background-color: white; padding: 30px; border-radius: 5px; box-shadow: 0 2px 10px rgba(0,0,0,0.05);">
			<h2 style="color: #2c3e50; font-size: 20px; margin-top: 0;">Welcome to MyPortfolify!</h2>
			<p style="line-height: 1.6;">Hi %s,</p>
			<p style="line-height: 1.6;">Thank you for creating an account. Please verify your email address to complete your registration and start building your portfolio.</p>

			<div style="text-align: center; margin: 30px 0;">
				<a href="%s" style="display: inline-block; padding: 12px 24px; background-color: #4f46e5; color: white; text-decoration: none; border-radius: 4px; font-weight: 500; font-size: 16px;">Verify Email Address</a>
			</div>

			<p style="line-height: 1.6; font-size: 14px; color: #666;">This verification link will expire in 24 hours. If you didn't create a MyPortfolify account, you can safely ignore this email.</p>
		</div>

		<div style="margin-top: 30px; text-align: center; font-size: 12px; color: #777;">
			<p>&copy; %d MyPortfolify. All rights reserved.</p>
			<p style="margin-bottom: 0;">If you're having trouble with the button above, copy and paste this URL into your browser:</p>
			<p style="word-break: break-all;">%s</p>
		</div>
	</div>
</div>
	`, name, verifyLink, time.Now().Year(), verifyLink)
}

func (s *EmailService) buildPasswordResetEmailBody(resetLink string) string {
	return fmt.Sprintf(`
<div style="font-family: 'Segoe UI', Roboto, 'Helvetica Neue', sans-serif; max-width: 600px; margin: 0 auto; color: #333;">
	<div style="background-color: #f8fafc; padding: 30px; border-radius: 8px;">
		<div style="text-align: center; margin-bottom: 20px;">
			<h1 style="color: #2c3e50; margin: 0; font-size: 22px;">MyPortfolify</h1>
			<p style="color: #64748b; font-size: 14px; margin-top: 5px;">Portfolio Management</p>
		</div>

		<div style="background: white; padding: 30px; border-radius: 8px; box-shadow: 0 1px 3px rgba(0,0,0,0.05);">
			<h2 style="color: #1e293b; font-size: 18px; margin-top: 0;">Password Reset Request</h2>
			<p style="line-height: 1.6;">We received a request to reset the password for your account.</p>

			<div style="text-align: center; margin: 25px 0;">
				<a href="%s" style="display: inline-block; padding: 12px 24px; background-color: #6366f1; color: white; text-decoration: none; border-radius: 6px; font-weight: 500; font-size: 15px;">Reset Password</a>
			</div>

			<p style="font-size: 14px; color: #64748b; line-height: 1.5;">
				<strong>Important:</strong> This link will expire in 1 hour for security reasons.
				If you didn't request a password reset, please secure your account by contacting support.
			</p>
		</div>

		<div style="margin-top: 30px; text-align: center; font-size: 12px; color: #94a3b8;">
			<p>&copy; %d MyPortfolify. All rights reserved.</p>
			<p style="margin: 5px 0;">For your security, do not share this email with anyone.</p>
			<p>If the button doesn't work, copy this URL to your browser:<br>
				<span style="word-break: break-all; color: #475569;">%s</span>
			</p>
		</div>
	</div>
</div>
	`, resetLink, time.Now().Year(), resetLink)
}

// localPart returns the part of an email address before the @, used as the
// greeting name and the default display name for new profiles.
func localPart(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}
