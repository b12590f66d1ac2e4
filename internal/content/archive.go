package content

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"osiedle/internal/models"
)

// Lifecycle drives the shared verification/archival state machine:
// unverified -> verified -> (archived <-> unarchived). Deletion is a
// separate, terminal operation handled by the resolver.
type Lifecycle struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewLifecycle(db *gorm.DB, log *zap.Logger) *Lifecycle {
	return &Lifecycle{db: db, log: log}
}

// Verify publishes an unverified entity. The admin gate lives at the
// route level; verifying twice is a no-op.
func (l *Lifecycle) Verify(target models.Verifiable) error {
	if target.Verified() {
		return nil
	}
	target.SetVerified(true)
	if err := l.db.Save(target).Error; err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	return nil
}

// Archive moves a verified entity into its archive. Only the owner may
// archive; archiving an already-archived entity is a no-op, so the
// periodic sweep can call this blindly.
func (l *Lifecycle) Archive(target models.Archivable, userID uint) error {
	if err := l.ownerCheck(target, userID); err != nil {
		return err
	}
	if target.Archived() {
		return nil
	}
	target.SetArchived(true)
	if err := l.db.Save(target).Error; err != nil {
		return fmt.Errorf("archive: %w", err)
	}
	l.log.Info("archived", zap.Uint("user_id", userID))
	return nil
}

// Unarchive is the reverse toggle, with the same ownership rule.
func (l *Lifecycle) Unarchive(target models.Archivable, userID uint) error {
	if err := l.ownerCheck(target, userID); err != nil {
		return err
	}
	if !target.Archived() {
		return nil
	}
	target.SetArchived(false)
	if err := l.db.Save(target).Error; err != nil {
		return fmt.Errorf("unarchive: %w", err)
	}
	return nil
}

func (l *Lifecycle) ownerCheck(target models.Archivable, userID uint) error {
	owner := target.OwnerID()
	if userID == 0 || owner == nil || *owner != userID {
		return fmt.Errorf("%w: only the owner may change archive state", ErrPermissionDenied)
	}
	if v, ok := target.(models.Verifiable); ok && !v.Verified() {
		return fmt.Errorf("%w: entity is not verified yet", ErrValidation)
	}
	return nil
}
