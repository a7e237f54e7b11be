package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SyncNotification is an admin-facing message about asynchronous catalog
// propagation, e.g. which products were included in a batch update.
type SyncNotification struct {
	ID        string    `json:"id" gorm:"type:uuid;primary_key"`
	Title     string    `json:"title" gorm:"not null"`
	Body      string    `json:"body" gorm:"not null"`
	IsRead    bool      `json:"is_read" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
}

func (n *SyncNotification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return nil
}
