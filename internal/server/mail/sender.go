// Package mail delivers verification codes to account owners out-of-band.
//
// Delivery runs after the code is already persisted; a failed send never
// rolls the code back. Implementations report transport failures by
// wrapping common.ErrDeliveryFailed so callers can tell "state committed,
// mail lost" apart from everything else.
package mail

import (
	"context"
	"fmt"

	"github.com/dmatveev/authd/internal/common"
	"github.com/dmatveev/authd/internal/logging"
	"github.com/dmatveev/authd/internal/server/models"
)

// Sender delivers the pending verification code of the given account.
type Sender interface {
	SendVerificationCode(ctx context.Context, u *models.User) error
}

// LogSender writes the code to the log instead of sending mail. Intended
// for development setups without a SendGrid key.
type LogSender struct {
	logger logging.Logger
}

func NewLogSender(l logging.Logger) *LogSender {
	return &LogSender{logger: l.With("module", "mail_log_sender")}
}

func (s *LogSender) SendVerificationCode(ctx context.Context, u *models.User) error {
	if u.VerificationCode == nil {
		return fmt.Errorf("%w: no pending code for %s", common.ErrDeliveryFailed, u.Email)
	}
	s.logger.Info(ctx, "verification code issued", "email", u.Email, "code", *u.VerificationCode)
	return nil
}
