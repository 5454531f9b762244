// Package model holds the persistence representations of domain entities.
package model

import (
	"time"
)

// UserModel mirrors the 'users' table. IDs are UUIDs generated by the repository.
// The email index is intentionally non-unique: duplicate registrations are stored as-is.
type UserModel struct {
	ID           string    `gorm:"type:uuid;primaryKey"`
	FirstName    string    `gorm:"type:varchar(255)"`
	LastName     string    `gorm:"type:varchar(255)"`
	Email        string    `gorm:"type:varchar(255);index"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	PhoneNumber  string    `gorm:"type:varchar(64)"`
	CreatedAt    time.Time `gorm:"index"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}
