package models

import (
	"time"
)

// Rating is a single 1-10 score a user gave to one content object. The
// composite unique index is what makes submissions upsert instead of
// piling up duplicate rows.
type Rating struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Kind      Kind      `gorm:"type:varchar(20);not null;uniqueIndex:idx_rating_identity" json:"kind"`
	EntityID  uint      `gorm:"not null;uniqueIndex:idx_rating_identity" json:"entity_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_rating_identity;index" json:"user_id"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Score     int       `gorm:"not null;check:score >= 1 AND score <= 10" json:"score"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
