package persistence

import "time"

// sessionRowID is the primary key of the only session row
const sessionRowID = 1

// SessionModel represents the sessions table.
// The client holds at most one session, so the table has at most one row.
type SessionModel struct {
	ID        int       `gorm:"column:id;primaryKey"`
	Username  string    `gorm:"column:username"`
	Token     string    `gorm:"column:token;not null"`
	PlanetID  string    `gorm:"column:planet_id;not null"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (SessionModel) TableName() string {
	return "sessions"
}
