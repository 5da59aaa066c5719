package models

import (
	"time"
)

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Username     string    `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"type:varchar(254);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Role         Role      `gorm:"type:varchar(20);not null" json:"role"`
	IsSuperuser  bool      `gorm:"not null;default:false" json:"-"`
	CreatedAt    time.Time `json:"date_joined"`
	UpdatedAt    time.Time `json:"-"`
}
