package models

import (
	"time"

	"gorm.io/gorm"
)

// Client is a borrower. Only the minimum needed to own credits lives
// here; the full client file is managed elsewhere.
type Client struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Name     string `gorm:"type:varchar(255)" json:"name"`
	Document string `gorm:"type:varchar(50);uniqueIndex" json:"document"`
	Phone    string `gorm:"type:varchar(50)" json:"phone"`
	Address  string `gorm:"type:varchar(255)" json:"address"`

	Credits []Credit `gorm:"foreignKey:ClientID" json:"credits,omitempty"`
}
