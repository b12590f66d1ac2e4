package models

import (
	"time"
)

// Announcement is a rental listing. Archival is represented by a nullable
// timestamp: a set ArchiveDate means archived.
type Announcement struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"size:50;not null" json:"title"`
	Place       string     `gorm:"size:50;not null;index" json:"place"`
	Rooms       uint       `gorm:"not null" json:"rooms"`
	Price       float64    `gorm:"type:numeric(10,2);not null" json:"price"`
	Description string     `gorm:"type:text;not null" json:"description"`
	Banner      string     `json:"banner"` // media store path, never bytes
	CreatorID   *uint      `gorm:"index" json:"creator_id"`
	Creator     *User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	ArchiveDate *time.Time `json:"archive_date"`
	IsVerified  bool       `gorm:"default:false" json:"is_verified"`
	IsPinned    bool       `gorm:"default:false" json:"is_pinned"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (a *Announcement) ContentKind() Kind { return KindAnnouncement }
func (a *Announcement) ContentID() uint   { return a.ID }
func (a *Announcement) OwnerID() *uint    { return a.CreatorID }

func (a *Announcement) Archived() bool { return a.ArchiveDate != nil }

func (a *Announcement) SetArchived(v bool) {
	if !v {
		a.ArchiveDate = nil
		return
	}
	if a.ArchiveDate == nil {
		now := time.Now()
		a.ArchiveDate = &now
	}
}

func (a *Announcement) Verified() bool     { return a.IsVerified }
func (a *Announcement) SetVerified(v bool) { a.IsVerified = v }

// CreatorName returns the creator's username, or "anonim" for
// announcements submitted without an account.
func (a *Announcement) CreatorName() string {
	if a.Creator == nil {
		return "anonim"
	}
	return a.Creator.Username
}
