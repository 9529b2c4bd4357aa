package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmatveev/authd/internal/common"
)

func TestIssuer_RoundTrip(t *testing.T) {
	i := NewIssuer([]byte("secret"), time.Hour)

	token, err := i.IssueToken("user-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := i.UserID(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", userID)
}

func TestIssuer_WrongSecret(t *testing.T) {
	token, err := NewIssuer([]byte("secret-a"), time.Hour).IssueToken("user-1")
	require.NoError(t, err)

	_, err = NewIssuer([]byte("secret-b"), time.Hour).UserID(token)
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestIssuer_Expired(t *testing.T) {
	i := NewIssuer([]byte("secret"), -time.Minute)

	token, err := i.IssueToken("user-1")
	require.NoError(t, err)

	_, err = i.UserID(token)
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestIssuer_Garbage(t *testing.T) {
	i := NewIssuer([]byte("secret"), time.Hour)

	_, err := i.UserID("not.a.token")
	require.ErrorIs(t, err, common.ErrInvalidToken)
}
