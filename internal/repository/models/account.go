package models

import (
	"database/sql"
	"time"
)

// Account is a row of the "User" table.
type Account struct {
	ID           string         `db:"id"`
	Name         string         `db:"name"`
	Category     string         `db:"category"`
	Email        string         `db:"email"`
	Grade        string         `db:"grade"`
	AlarmTime    sql.NullString `db:"alarm_time"`
	PasswordHash string         `db:"password_hash"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}
