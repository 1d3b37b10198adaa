// Package model holds the gorm table mappings for persisted accounts.
package model

import (
	"time"

	"github.com/google/uuid"
)

// ProviderAccountModel mirrors the 'providers' table. IDs are UUIDv7 assigned by the repository.
type ProviderAccountModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name           string    `gorm:"type:text;not null"`
	Email          string    `gorm:"type:varchar(255);uniqueIndex:uq_providers_email;not null"`
	PasswordHash   string    `gorm:"type:varchar(72);not null"`
	Specialization string    `gorm:"type:text;not null"`
	Approved       bool      `gorm:"not null;default:false"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName explicitly sets the table name for GORM.
func (ProviderAccountModel) TableName() string {
	return "providers"
}

// RecipientAccountModel mirrors the 'recipients' table.
type RecipientAccountModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"type:text;not null"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex:uq_recipients_email;not null"`
	PasswordHash string    `gorm:"type:varchar(72);not null"`
	Age          int       `gorm:"not null;check:chk_recipients_age,age >= 0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (RecipientAccountModel) TableName() string {
	return "recipients"
}

// AllModels lists every table the service owns, in migration order.
func AllModels() []any {
	return []any{&ProviderAccountModel{}, &RecipientAccountModel{}}
}
