package models

import "time"

// EmailVerification is a row of the email_verifications table.
type EmailVerification struct {
	ID        int64     `db:"id"`
	Email     string    `db:"email"`
	Code      string    `db:"code"`
	CreatedAt time.Time `db:"created_at"`
	ExpiresAt time.Time `db:"expires_at"`
	Verified  bool      `db:"verified"`
	Attempts  int       `db:"attempts"`
}
