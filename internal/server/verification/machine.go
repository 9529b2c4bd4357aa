package verification

import (
	"time"

	"github.com/dmatveev/authd/internal/common"
	"github.com/dmatveev/authd/internal/server/models"
)

// DefaultTTL is the verification window measured from issuance. The window
// is fixed; consuming attempts do not extend it.
const DefaultTTL = 5 * time.Minute

// Machine governs the pending/verified state of an account. It mutates the
// account in memory only; persisting the result and notifying the user are
// sequenced by the caller.
type Machine struct {
	ttl time.Duration
	now func() time.Time
}

func NewMachine(ttl time.Duration) *Machine {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Machine{ttl: ttl, now: time.Now}
}

// Issue puts the account into the pending state with a fresh code expiring
// at now + TTL. Any previously issued code is overwritten and becomes
// permanently invalid at this point.
func (m *Machine) Issue(u *models.User) error {
	code, err := GenerateCode()
	if err != nil {
		return err
	}
	expires := m.now().Add(m.ttl)
	u.VerificationCode = &code
	u.VerificationCodeExpiresAt = &expires
	return nil
}

// Consume validates submitted against the pending code and, on success,
// marks the account verified and clears both code fields in one step.
//
// The expiry boundary is strict: at the exact expiry instant the code is
// already dead (ErrCodeExpired). A wrong code, or any code when none is
// pending, fails with ErrCodeMismatch; this is also what makes a replay of
// an already-consumed code fail, since the stored code is gone by then.
// Failed attempts leave the account untouched.
func (m *Machine) Consume(u *models.User, submitted string) error {
	if u.VerificationCodeExpiresAt != nil && !m.now().Before(*u.VerificationCodeExpiresAt) {
		return common.ErrCodeExpired
	}
	if u.VerificationCode == nil || *u.VerificationCode != submitted {
		return common.ErrCodeMismatch
	}

	u.Verified = true
	u.VerificationCode = nil
	u.VerificationCodeExpiresAt = nil
	return nil
}
