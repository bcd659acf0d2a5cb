package domain

import "time"

// Status represents the derived scholarship status of a student.
// It is computed on every read and never stored: "expired" depends on
// the wall clock relative to the contract expiration date.
type Status string

const (
	StatusRevoked  Status = "revoked"
	StatusExpired  Status = "expired"
	StatusVerified Status = "verified"
	StatusPending  Status = "pending"
)

// DeriveStatus derives the display status from a student's raw fields.
// Precedence is strict: revocation wins over expiration, expiration wins
// over verification. Expiration only counts when strictly before now.
func DeriveStatus(isRevoked bool, contractExpiration, dateVerified *time.Time, now time.Time) Status {
	if isRevoked {
		return StatusRevoked
	}
	if contractExpiration != nil && contractExpiration.Before(now) {
		return StatusExpired
	}
	if dateVerified != nil {
		return StatusVerified
	}
	return StatusPending
}
