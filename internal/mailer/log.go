// Package mailer contains reset-link delivery collaborators. Real SMTP
// delivery is deliberately out of scope; the log mailer writes the link to
// the application log so operators can hand it out while the reset flow
// still surfaces the token to the caller.
package mailer

import (
	"context"

	"github.com/alumnihub/membership-server/internal/logger"
	"github.com/alumnihub/membership-server/internal/model"
)

var _ model.ResetMailer = (*LogMailer)(nil)

// LogMailer logs the reset link instead of sending mail.
type LogMailer struct {
	baseURL string
	logger  *logger.Logger
}

// NewLogMailer creates a mailer that logs links rooted at baseURL.
func NewLogMailer(baseURL string, logger *logger.Logger) *LogMailer {
	return &LogMailer{baseURL: baseURL, logger: logger}
}

// Deliver logs the reset link for the email. It never fails.
func (m *LogMailer) Deliver(_ context.Context, email, token string) error {
	m.logger.Info("password reset link issued",
		"email", email,
		"link", m.baseURL+"/reset-password?token="+token)
	return nil
}
