package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Name      string     `gorm:"default:''"`
	Email     string     `gorm:"unique;not null"`
	Mobile    string     `gorm:"default:''"`
	Role      string     `gorm:"default:'USER'"` // USER, ADMIN, SUPER-ADMIN
	LastLogin *time.Time `json:"lastLogin"`
	IsDeleted bool       `gorm:"default:false"`
}
