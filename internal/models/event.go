package models

import (
	"time"
)

// Event is a community happening. Unlike announcements, archival here is a
// plain boolean; the listing engine normalizes both representations.
type Event struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	EventDate   time.Time `gorm:"not null;index" json:"event_date"`
	Location    string    `gorm:"size:100;not null;index" json:"location"`
	Description string    `gorm:"size:500;not null" json:"description"`
	Image       string    `json:"image"`
	CreatorID   *uint     `gorm:"index" json:"creator_id"`
	Creator     *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	IsArchived  bool      `gorm:"default:false" json:"is_archived"`
	IsVerified  bool      `gorm:"default:false" json:"is_verified"`
	IsPinned    bool      `gorm:"default:false" json:"is_pinned"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (e *Event) ContentKind() Kind { return KindEvent }
func (e *Event) ContentID() uint   { return e.ID }
func (e *Event) OwnerID() *uint    { return e.CreatorID }

func (e *Event) Archived() bool     { return e.IsArchived }
func (e *Event) SetArchived(v bool) { e.IsArchived = v }

func (e *Event) Verified() bool     { return e.IsVerified }
func (e *Event) SetVerified(v bool) { e.IsVerified = v }

func (e *Event) CreatorName() string {
	if e.Creator == nil {
		return "anonim"
	}
	return e.Creator.Username
}
