package models

import (
	"time"
)

type TaskComment struct {
	ID        uint64    `gorm:"primarykey" json:"comment_id"`
	TaskID    uint64    `gorm:"not null" json:"task_id"`
	CreatorID uint64    `gorm:"not null" json:"comment_creator"`
	Comment   string    `gorm:"type:text;not null" json:"comment"`
	CreatedAt time.Time `json:"created"`
	UpdatedAt time.Time `json:"modified"`

	// Relations
	Task    Task `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"-"`
	Creator User `gorm:"foreignKey:CreatorID;constraint:OnDelete:CASCADE" json:"-"`
}
