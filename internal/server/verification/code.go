// Package verification implements the verification-code lifecycle: secure
// code generation and the pending/verified state transitions of an account.
package verification

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
)

const (
	codeMin  = 100000
	codeSpan = 900000
)

// GenerateCode returns a 6-digit decimal code drawn uniformly from
// [100000, 999999]. The range guarantees the string is always exactly six
// digits, so codes never get truncated by a leading zero. Codes guard
// account ownership, so the source must be crypto/rand, never math/rand.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpan))
	if err != nil {
		return "", fmt.Errorf("reading entropy: %w", err)
	}
	return strconv.FormatInt(n.Int64()+codeMin, 10), nil
}
