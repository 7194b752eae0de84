package db

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Delivery is one handled webhook event. Rows are only written, never read
// back by the bot.
type Delivery struct {
	ID          uint   `gorm:"primaryKey"`
	RequestID   string `gorm:"size:64;index"`
	EventKind   string `gorm:"size:16"`
	SourceID    string `gorm:"size:64;index"`
	Payload     string `gorm:"type:text"`
	Replies     int
	FailedSends int
	CreatedAt   time.Time
}

// Journal writes deliveries. A nil Journal drops them.
type Journal struct {
	db *gorm.DB
}

func NewJournal(database *gorm.DB) *Journal {
	return &Journal{db: database}
}

func (j *Journal) Record(d *Delivery) error {
	if j == nil || j.db == nil {
		return nil
	}
	if err := j.db.Create(d).Error; err != nil {
		return fmt.Errorf("record delivery %s: %w", d.RequestID, err)
	}
	return nil
}
