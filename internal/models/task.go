package models

import (
	"time"
)

type Task struct {
	ID          uint64    `gorm:"primarykey" json:"task_id"`
	Name        string    `gorm:"type:varchar(200);not null" json:"task_name"`
	Description *string   `gorm:"type:text" json:"task_description"`
	DueDate     *Date     `json:"task_due_date"`
	CreatorID   uint64    `gorm:"not null" json:"task_creator"`
	Priority    *Priority `json:"priority"`
	Completed   bool      `gorm:"not null;default:false" json:"completed"`
	CreatedAt   time.Time `json:"created"`
	UpdatedAt   time.Time `json:"modified"`

	// Relations
	Creator   User   `gorm:"foreignKey:CreatorID;constraint:OnDelete:CASCADE" json:"-"`
	Assignees []User `gorm:"many2many:task_assignments" json:"-"`
}

// AssigneeIDs returns the ids of the preloaded assignees.
func (t *Task) AssigneeIDs() []uint64 {
	ids := make([]uint64, 0, len(t.Assignees))
	for _, u := range t.Assignees {
		ids = append(ids, u.ID)
	}
	return ids
}

// IsAssigned reports whether userID is among the preloaded assignees.
func (t *Task) IsAssigned(userID uint64) bool {
	for _, u := range t.Assignees {
		if u.ID == userID {
			return true
		}
	}
	return false
}
