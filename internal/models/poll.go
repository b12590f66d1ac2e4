package models

import (
	"time"
)

// Poll shares the timestamp archival representation with announcements.
// Polls take no ratings or comments; they only flow through the listing
// engine and the archival lifecycle.
type Poll struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Question    string     `gorm:"type:text;not null" json:"question"`
	EndDate     time.Time  `gorm:"not null;index" json:"end_date"`
	ArchiveDate *time.Time `json:"archive_date"`
	CreatorID   uint       `gorm:"not null;index" json:"creator_id"`
	Creator     *User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	CreatedAt   time.Time  `json:"created_at"`

	Choices []Choice `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"choices,omitempty"`
}

func (p *Poll) OwnerID() *uint { return &p.CreatorID }

func (p *Poll) Archived() bool { return p.ArchiveDate != nil }

func (p *Poll) SetArchived(v bool) {
	if !v {
		p.ArchiveDate = nil
		return
	}
	if p.ArchiveDate == nil {
		now := time.Now()
		p.ArchiveDate = &now
	}
}

type Choice struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	PollID uint   `gorm:"not null;index" json:"poll_id"`
	Text   string `gorm:"size:200;not null" json:"text"`
}

// PollVote records one user's choice in one poll; the unique index keeps
// it to a single vote per (poll, user).
type PollVote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PollID    uint      `gorm:"not null;uniqueIndex:idx_poll_vote_identity;index" json:"poll_id"`
	Poll      *Poll     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	ChoiceID  uint      `gorm:"not null;index" json:"choice_id"`
	Choice    *Choice   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_poll_vote_identity" json:"user_id"`
	User      *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
