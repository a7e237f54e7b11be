package notify

import (
	"pinsync/internal/logger"
	"pinsync/internal/models"

	"gorm.io/gorm"
)

// Notifier persists admin-facing notifications about background sync work.
type Notifier struct {
	db     *gorm.DB
	logger *logger.Logger
}

func New(db *gorm.DB, logger *logger.Logger) *Notifier {
	return &Notifier{db: db, logger: logger}
}

// Notify records one notification. Failures are logged, not propagated:
// a notification must never break the operation it describes.
func (n *Notifier) Notify(title, body string) {
	notification := &models.SyncNotification{
		Title: title,
		Body:  body,
	}
	if err := n.db.Create(notification).Error; err != nil {
		n.logger.Error("notify: failed to save notification: %v", err)
	}
}

// List returns the most recent notifications, newest first.
func (n *Notifier) List(limit int) ([]models.SyncNotification, error) {
	var notifications []models.SyncNotification
	err := n.db.Order("created_at desc").Limit(limit).Find(&notifications).Error
	return notifications, err
}
