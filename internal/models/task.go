package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TaskStatus is a Kanban column.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "TODO"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusDone       TaskStatus = "DONE"
)

// Valid reports whether s is a known status.
func (s TaskStatus) Valid() bool {
	return s == StatusTodo || s == StatusInProgress || s == StatusDone
}

// TaskPriority orders work inside a column.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
)

// Valid reports whether p is a known priority.
func (p TaskPriority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// MaxTitleLength bounds task titles, matching the column size.
const MaxTitleLength = 255

// Task is the persisted task row. Tags are stored comma-joined.
type Task struct {
	ID          int64        `gorm:"primaryKey"`
	Title       string       `gorm:"size:255;not null"`
	Description string       `gorm:"type:text"`
	Status      TaskStatus   `gorm:"size:20;not null;default:TODO;index"`
	Priority    TaskPriority `gorm:"size:20;not null;default:MEDIUM"`
	TeamID      *int64       `gorm:"index"`
	AssigneeID  *int64       `gorm:"index"`
	Tags        string       `gorm:"size:1024;not null;default:''"`
	DueDate     *string      `gorm:"size:64"`
	IsCompleted bool         `gorm:"not null;default:false"`
	CreatedAt   time.Time
	Team        *Team `gorm:"foreignKey:TeamID;references:ID;constraint:OnDelete:SET NULL"`
	Assignee    *User `gorm:"foreignKey:AssigneeID;references:ID;constraint:OnDelete:SET NULL"`
}

// TableName returns the database table name for the Task model.
func (Task) TableName() string {
	return "tasks"
}

// TaskView is a task joined with assignee and team names, as returned to
// clients.
type TaskView struct {
	ID           int64        `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Status       TaskStatus   `json:"status"`
	Priority     TaskPriority `json:"priority"`
	TeamID       *int64       `json:"team_id"`
	AssigneeID   *int64       `json:"assignee_id"`
	Tags         []string     `json:"tags"`
	DueDate      *string      `json:"due_date"`
	IsCompleted  bool         `json:"is_completed"`
	CreatedAt    time.Time    `json:"created_at"`
	AssigneeName *string      `json:"assignee_name"`
	TeamName     *string      `json:"team_name"`
}

// TaskFilter narrows a task listing. Nil fields are not applied.
type TaskFilter struct {
	TeamID     *int64
	AssigneeID *int64
	Status     *TaskStatus
}

// EncodeTags joins tags into the stored comma form, dropping blanks.
func EncodeTags(tags []string) string {
	cleaned := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		cleaned = append(cleaned, tag)
	}
	return strings.Join(cleaned, ",")
}

// DecodeTags splits the stored comma form. An empty string yields an empty,
// non-nil slice.
func DecodeTags(stored string) []string {
	tags := []string{}
	for _, tag := range strings.Split(stored, ",") {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// NullableID is a JSON field that distinguishes "absent" from "null".
// Absent leaves Set false; null or "" sets Set with Valid false.
type NullableID struct {
	Set   bool
	Valid bool
	Value int64
}

// UnmarshalJSON accepts a number, a numeric string, "" or null.
func (n *NullableID) UnmarshalJSON(data []byte) error {
	n.Set = true
	n.Valid = false
	n.Value = 0

	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var raw string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return nil
		}
	} else {
		raw = string(data)
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q", raw)
	}
	n.Valid = true
	n.Value = id
	return nil
}

// Ptr returns the id as a pointer, nil when null.
func (n NullableID) Ptr() *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}

// NullableString is a JSON string field that distinguishes "absent" from
// "null".
type NullableString struct {
	Set   bool
	Valid bool
	Value string
}

// UnmarshalJSON accepts a string or null.
func (n *NullableString) UnmarshalJSON(data []byte) error {
	n.Set = true
	n.Valid = false
	n.Value = ""

	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(data, &n.Value); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

// Ptr returns the value as a pointer, nil when null.
func (n NullableString) Ptr() *string {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}
