package mail

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmatveev/authd/internal/common"
	"github.com/dmatveev/authd/internal/logging"
	"github.com/dmatveev/authd/internal/server/models"
)

func pendingUser() *models.User {
	code := "654321"
	exp := time.Now().Add(5 * time.Minute)
	return &models.User{
		Email:                     "a@x.com",
		Username:                  "alice",
		VerificationCode:          &code,
		VerificationCodeExpiresAt: &exp,
	}
}

func TestLogSender_LogsCode(t *testing.T) {
	var buf bytes.Buffer
	l := logging.NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	s := NewLogSender(l)
	require.NoError(t, s.SendVerificationCode(context.Background(), pendingUser()))

	out := buf.String()
	require.True(t, strings.Contains(out, "654321"), "expected code in log output:\n%s", out)
	require.True(t, strings.Contains(out, "a@x.com"), "expected email in log output:\n%s", out)
}

func TestLogSender_NoPendingCode(t *testing.T) {
	var buf bytes.Buffer
	l := logging.NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	s := NewLogSender(l)
	err := s.SendVerificationCode(context.Background(), &models.User{Email: "a@x.com"})
	require.ErrorIs(t, err, common.ErrDeliveryFailed)
}
