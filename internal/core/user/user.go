package user

import (
	"time"

	"github.com/gofrs/uuid"
)

// User is a registered student. StudentID is the identity callers present;
// ID is the internal key other entities reference.
type User struct {
	ID        uuid.UUID  `gorm:"primary_key;type:char(36)"`
	StudentID int64      `gorm:"uniqueIndex;not null"`
	Nickname  string     `gorm:"type:varchar(64);uniqueIndex;not null"`
	Password  string     `gorm:"not null"`
	PushToken string     `gorm:"type:varchar(255)"` // FCM registration token, captured at login
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
	DeletedAt *time.Time `gorm:"index"`
}
