package models

import (
	"time"

	"gorm.io/datatypes"
)

// SessionRecord: сохранённая сессия консоли (вместо localStorage браузера).
// Токены хранятся только в зашифрованном виде.
type SessionRecord struct {
	ID        uint      `gorm:"primaryKey"`
	Slot      string    `gorm:"uniqueIndex;size:64;not null"` // одна активная сессия на слот
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time

	SealedAccessToken  []byte `gorm:"not null"`
	SealedRefreshToken []byte

	Username                string         `gorm:"size:255"`
	UserEmail               string         `gorm:"size:255"`
	UserRole                datatypes.JSON // бэкенд отдаёт произвольный JSON
	OrganizationName        string         `gorm:"size:255"`
	OrganizationType        string         `gorm:"size:64"`
	TaxIdentificationNumber string         `gorm:"size:64"`
	ProfilePicURL           string         `gorm:"size:1024"`
	LogoURL                 string         `gorm:"size:1024"`
	StaffRole               string         `gorm:"size:64"`
	Department              string         `gorm:"size:128"`
}
