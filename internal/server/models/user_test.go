package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{"user", RoleUser, false},
		{"admin", RoleAdmin, false},
		{"Admin", RoleAdmin, false},
		{"USER", RoleUser, false},
		{"root", RoleUser, true},
		{"", RoleUser, true},
	}

	for _, tc := range tests {
		got, err := ParseRole(tc.in)
		if tc.wantErr {
			require.Error(t, err, "input %q", tc.in)
			continue
		}
		require.NoError(t, err, "input %q", tc.in)
		require.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestRole_StringRoundTrip(t *testing.T) {
	for _, r := range []Role{RoleUser, RoleAdmin} {
		back, err := ParseRole(r.String())
		require.NoError(t, err)
		require.Equal(t, r, back)
	}
}

func TestUser_PendingVerification(t *testing.T) {
	u := &User{}
	require.False(t, u.PendingVerification())

	code := "123456"
	exp := time.Now().Add(5 * time.Minute)
	u.VerificationCode = &code
	u.VerificationCodeExpiresAt = &exp
	require.True(t, u.PendingVerification())
}
