package models

import (
	"time"
)

// Gallery groups photos under a slug. Galleries have no moderation or
// archival lifecycle; creation already requires a logged-in user.
type Gallery struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:100;not null" json:"title"`
	Description string    `gorm:"size:500;not null" json:"description"`
	Slug        string    `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Thumbnail   string    `json:"thumbnail"`
	CreatorID   uint      `gorm:"not null;index" json:"creator_id"`
	Creator     *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (g *Gallery) ContentKind() Kind { return KindGallery }
func (g *Gallery) ContentID() uint   { return g.ID }
func (g *Gallery) OwnerID() *uint    { return &g.CreatorID }

// Photo belongs to exactly one gallery but is a rateable, commentable
// entity in its own right.
type Photo struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	GalleryID   uint      `gorm:"not null;index" json:"gallery_id"`
	Gallery     *Gallery  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Title       string    `gorm:"size:100;not null" json:"title"`
	Image       string    `gorm:"not null" json:"image"`
	Description string    `gorm:"size:500" json:"description"`
	UploadedAt  time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}

func (p *Photo) ContentKind() Kind { return KindPhoto }
func (p *Photo) ContentID() uint   { return p.ID }

// OwnerID resolves through the parent gallery when it is loaded; photo
// permissions follow gallery ownership.
func (p *Photo) OwnerID() *uint {
	if p.Gallery == nil {
		return nil
	}
	return &p.Gallery.CreatorID
}
