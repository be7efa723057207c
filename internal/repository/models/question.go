package models

import (
	"database/sql"
	"time"
)

// Question is a row of the "Question" table.
type Question struct {
	ID         string         `db:"id"`
	Question   string         `db:"question"`
	Category   sql.NullString `db:"category"`
	Company    sql.NullString `db:"company"`
	QuestionAt sql.NullInt64  `db:"question_at"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}
