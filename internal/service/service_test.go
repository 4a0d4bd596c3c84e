package service_test

import (
	"sync"

	"github.com/myportfolify/backend/internal/models"
)

// fakeMailer records the last token sent per address instead of talking to an
// SMTP server.
type fakeMailer struct {
	mu                 sync.Mutex
	verificationTokens map[string]string
	resetTokens        map[string]string
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{
		verificationTokens: make(map[string]string),
		resetTokens:        make(map[string]string),
	}
}

func (m *fakeMailer) SendVerificationEmail(user *models.User, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.verificationTokens[user.Email] = token
	return nil
}

func (m *fakeMailer) SendPasswordResetEmail(user *models.User, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetTokens[user.Email] = token
	return nil
}

func (m *fakeMailer) SendEmail(to, subject, textBody, htmlBody string) error {
	return nil
}

func (m *fakeMailer) verificationToken(email string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.verificationTokens[email]
}

func (m *fakeMailer) resetToken(email string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resetTokens[email]
}
