package wire

import "github.com/google/uuid"

// NewReceiptID mints an idempotency key for a fraud-proof submission
// receipt, so a substrate-level retry after a timeout (§7 "External
// failures") is recognized as resubmission of the same proof rather than a
// new one.
func NewReceiptID() string {
	return uuid.NewString()
}
