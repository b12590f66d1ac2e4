package content

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"osiedle/internal/models"
)

// Resolver maps a (kind, id) pair to the concrete content row. The kind
// set is closed: the switch below is the whole registry, so a comment or
// rating can never be anchored to a type this package does not know.
type Resolver struct {
	db *gorm.DB
}

func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{db: db}
}

// Resolve returns the entity behind (kind, id), or ErrNotFound when the
// kind is unregistered or the row does not exist.
func (r *Resolver) Resolve(kind models.Kind, id uint) (models.Entity, error) {
	switch kind {
	case models.KindAnnouncement:
		var a models.Announcement
		return &a, r.first(&a, kind, id)
	case models.KindEvent:
		var e models.Event
		return &e, r.first(&e, kind, id)
	case models.KindGallery:
		var g models.Gallery
		return &g, r.first(&g, kind, id)
	case models.KindPhoto:
		var p models.Photo
		// The parent gallery carries photo ownership.
		err := r.db.Preload("Gallery").First(&p, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &p, fmt.Errorf("%w: %s %d", ErrNotFound, kind, id)
		}
		return &p, err
	default:
		return nil, fmt.Errorf("%w: unknown content kind %q", ErrNotFound, kind)
	}
}

func (r *Resolver) first(dest any, kind models.Kind, id uint) error {
	err := r.db.First(dest, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s %d", ErrNotFound, kind, id)
	}
	return err
}

// Delete removes an entity together with every rating and comment anchored
// to it. Ratings and comments are owned by the entity; leaving them behind
// would orphan rows no listing could ever reach again. Deleting a gallery
// also sweeps its photos and their attachments.
func (r *Resolver) Delete(e models.Entity) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if g, ok := e.(*models.Gallery); ok {
			var photoIDs []uint
			if err := tx.Model(&models.Photo{}).Where("gallery_id = ?", g.ID).Pluck("id", &photoIDs).Error; err != nil {
				return err
			}
			if len(photoIDs) > 0 {
				if err := deleteAttachments(tx, models.KindPhoto, photoIDs); err != nil {
					return err
				}
				if err := tx.Delete(&models.Photo{}, photoIDs).Error; err != nil {
					return err
				}
			}
		}
		if err := deleteAttachments(tx, e.ContentKind(), []uint{e.ContentID()}); err != nil {
			return err
		}
		return tx.Delete(e).Error
	})
}

func deleteAttachments(tx *gorm.DB, kind models.Kind, ids []uint) error {
	if err := tx.Where("kind = ? AND entity_id IN ?", kind, ids).Delete(&models.Rating{}).Error; err != nil {
		return err
	}
	return tx.Where("kind = ? AND entity_id IN ?", kind, ids).Delete(&models.Comment{}).Error
}
