package models

import "time"

// UnknownUserName is shown when an activity has no resolvable author.
const UnknownUserName = "Unknown User"

// Activity is an append-only audit row.
type Activity struct {
	ID        int64     `gorm:"primaryKey"`
	Action    string    `gorm:"type:text;not null"`
	UserID    *int64    `gorm:"index"`
	UserName  *string   `gorm:"size:100"`
	CreatedAt time.Time `gorm:"index"`
	User      *User     `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:SET NULL"`
}

// TableName returns the database table name for the Activity model.
func (Activity) TableName() string {
	return "activities"
}

// ActivityView is an activity resolved against the users table.
type ActivityView struct {
	ID        int64     `json:"id"`
	Action    string    `json:"action"`
	UserID    *int64    `json:"user_id"`
	UserName  string    `json:"user_name"`
	UserEmail *string   `json:"user_email"`
	CreatedAt time.Time `json:"created_at"`
}

// TaskStats is the dashboard status rollup.
type TaskStats struct {
	TotalTasks int64 `json:"totalTasks"`
	Todo       int64 `json:"todo"`
	InProgress int64 `json:"inProgress"`
	Completed  int64 `json:"completed"`
}

// UserStats is the admin account rollup.
type UserStats struct {
	TotalUsers  int64 `json:"totalUsers"`
	Admins      int64 `json:"admins"`
	Users       int64 `json:"users"`
	NewThisWeek int64 `json:"newThisWeek"`
}
