package models

import (
	"time"

	"gorm.io/gorm"
)

// UserType represents the type of user
type UserType string

const (
	UserTypeAdmin     UserType = "Admin"
	UserTypeCollector UserType = "Cobrador"
)

// User is a back-office user (administrator or street collector).
type User struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Name         string   `gorm:"type:varchar(255)" json:"name"`
	Email        string   `gorm:"type:varchar(255);uniqueIndex" json:"email"`
	PasswordHash string   `gorm:"type:varchar(255)" json:"-"`
	UserType     UserType `gorm:"type:varchar(20);default:'Cobrador'" json:"user_type"`
}
