package models

import "time"

// TeamRole is a user's role inside a single team.
type TeamRole string

const (
	TeamRoleOwner  TeamRole = "owner"
	TeamRoleAdmin  TeamRole = "admin"
	TeamRoleMember TeamRole = "member"
)

// Valid reports whether r is a known membership role.
func (r TeamRole) Valid() bool {
	switch r {
	case TeamRoleOwner, TeamRoleAdmin, TeamRoleMember:
		return true
	}
	return false
}

// CanManage reports whether the role may add or remove members.
func (r TeamRole) CanManage() bool {
	return r == TeamRoleOwner || r == TeamRoleAdmin
}

// Team groups users and scopes task visibility.
type Team struct {
	ID          int64     `json:"team_id" gorm:"column:team_id;primaryKey"`
	TeamName    string    `json:"team_name" gorm:"size:100;not null"`
	Description string    `json:"description" gorm:"type:text"`
	AccentColor string    `json:"accent_color" gorm:"size:20"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName returns the database table name for the Team model.
func (Team) TableName() string {
	return "teams"
}

// TeamMember links a user to a team with a role. The composite primary key
// allows at most one role per user per team.
type TeamMember struct {
	TeamID int64    `json:"team_id" gorm:"primaryKey;autoIncrement:false"`
	UserID int64    `json:"user_id" gorm:"primaryKey;autoIncrement:false;index"`
	Role   TeamRole `json:"role" gorm:"size:20;not null;default:member"`
	Team   *Team    `json:"-" gorm:"foreignKey:TeamID;references:ID;constraint:OnDelete:CASCADE"`
	User   *User    `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name for the TeamMember model.
func (TeamMember) TableName() string {
	return "team_members"
}

// MemberView is a team member resolved to user details.
type MemberView struct {
	TeamID int64    `json:"-"`
	ID     int64    `json:"id"`
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Role   TeamRole `json:"role"`
}

// TeamView is a team with its resolved member list.
type TeamView struct {
	Team
	Members []MemberView `json:"members"`
}
