package task

import (
	"time"
)

// Priority represents the urgency of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ValidPriority reports whether p is one of the enumerated priorities.
func ValidPriority(p string) bool {
	switch Priority(p) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Status represents the state of a task or sub-task.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// ValidStatus reports whether s is one of the enumerated states.
func ValidStatus(s string) bool {
	switch Status(s) {
	case StatusTodo, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// MaxSubTasks is the maximum number of sub-tasks a task may hold.
const MaxSubTasks = 10

// MaxTitleLen is the maximum task title length in characters.
const MaxTitleLen = 20

// Task is a user-owned unit of work with embedded sub-tasks.
type Task struct {
	ID          string     `gorm:"primaryKey;type:text"`
	Title       string     `gorm:"not null;type:text"`
	Description string     `gorm:"type:text"`
	Priority    Priority   `gorm:"not null;default:medium;type:text"`
	Status      Status     `gorm:"not null;default:todo;type:text"`
	DueDate     *time.Time `gorm:"index"`
	UserID      string     `gorm:"index;not null;type:text"`
	SubTasks    []SubTask  `gorm:"foreignKey:TaskID"`
	CreatedAt   time.Time  `gorm:"index"`
	UpdatedAt   time.Time
	CompletedAt *time.Time
}

// TableName returns the table name for the Task entity.
func (Task) TableName() string {
	return "tasks"
}

// SubTask is a checklist item owned by a task. It has no existence
// outside its parent; all access goes through the parent task.
type SubTask struct {
	ID        string `gorm:"primaryKey;type:text"`
	TaskID    string `gorm:"index;not null;type:text"`
	Title     string `gorm:"not null;type:text"`
	Status    Status `gorm:"not null;default:todo;type:text"`
	Position  int    `gorm:"not null"`
	CreatedAt time.Time
}

// TableName returns the table name for the SubTask entity.
func (SubTask) TableName() string {
	return "sub_tasks"
}
