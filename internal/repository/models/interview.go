package models

import (
	"database/sql"
	"time"
)

// Interview is a row of the "Interview" table. The primary key is
// (created_at, user_id, question_id).
type Interview struct {
	CreatedAt  time.Time      `db:"created_at"`
	UserID     string         `db:"user_id"`
	QuestionID string         `db:"question_id"`
	Answer     string         `db:"answer"`
	Score      sql.NullInt64  `db:"score"`
	Feedback   sql.NullString `db:"feedback"`
	GroupID    sql.NullString `db:"group_id"`
}
