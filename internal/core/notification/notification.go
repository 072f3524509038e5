package notification

import (
	"time"

	"github.com/gofrs/uuid"
)

// Record is a delivered push notification kept as history.
type Record struct {
	ID        uuid.UUID `gorm:"primary_key;type:char(36)"`
	UserID    uuid.UUID `gorm:"type:char(36);not null;index"`
	Type      string    `gorm:"type:varchar(20);not null"` // originating domain
	TargetID  uuid.UUID `gorm:"type:char(36);not null"`
	Title     string    `gorm:"type:varchar(255)"`
	Body      string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
}

func (Record) TableName() string { return "notification_records" }

// Message is a pending notification waiting in the queue.
type Message struct {
	RecipientID uuid.UUID `json:"recipient_id"`
	Type        string    `json:"type"`
	TargetID    uuid.UUID `json:"target_id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
}
