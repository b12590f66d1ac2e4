package models

import (
	"time"
)

// MaxCommentLength is the upper bound on comment content, in runes.
const MaxCommentLength = 500

type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Kind      Kind      `gorm:"type:varchar(20);not null;index:idx_comment_entity" json:"kind"`
	EntityID  uint      `gorm:"not null;index:idx_comment_entity" json:"entity_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	ParentID  *uint     `gorm:"index" json:"parent_id"` // nil for top-level comments
	Content   string    `gorm:"size:500;not null" json:"content"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsReply reports whether this comment sits under another comment. Replies
// can never be reply targets themselves; the comment tree is one level deep.
func (c *Comment) IsReply() bool {
	return c.ParentID != nil
}
