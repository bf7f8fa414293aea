package tickets

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// newOnlineCode builds a TK-<year>-<4 digits> code, e.g. TK-2026-0892.
func newOnlineCode(now time.Time) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", fmt.Errorf("failed to generate ticket code: %w", err)
	}
	return fmt.Sprintf("TK-%d-%04d", now.Year(), n.Int64()), nil
}

// newManualCode builds an MT-<unix millis> code for box-office tickets.
// attempt bumps the timestamp so back-to-back issuance never collides.
func newManualCode(now time.Time, attempt int) string {
	return fmt.Sprintf("MT-%d", now.UnixMilli()+int64(attempt))
}
