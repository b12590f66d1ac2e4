package content

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"osiedle/internal/models"
)

// CommentTree manages top-level comments and their flat replies. Nesting
// is exactly one level deep: a reply is attached to the same entity as its
// parent and can never be replied to itself.
type CommentTree struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewCommentTree(db *gorm.DB, log *zap.Logger) *CommentTree {
	return &CommentTree{db: db, log: log}
}

// Node is one top-level comment with its active replies.
type Node struct {
	models.Comment
	Replies []models.Comment `json:"replies"`
}

func validateContent(content string) error {
	if content == "" {
		return fmt.Errorf("%w: comment content must not be empty", ErrValidation)
	}
	if utf8.RuneCountInString(content) > models.MaxCommentLength {
		return fmt.Errorf("%w: comment content exceeds %d characters", ErrValidation, models.MaxCommentLength)
	}
	return nil
}

// Add creates a top-level comment on an entity.
func (t *CommentTree) Add(e models.Entity, userID uint, content string) (*models.Comment, error) {
	if err := validateContent(content); err != nil {
		return nil, err
	}
	comment := models.Comment{
		Kind:     e.ContentKind(),
		EntityID: e.ContentID(),
		UserID:   userID,
		Content:  content,
		IsActive: true,
	}
	if err := t.db.Create(&comment).Error; err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	t.log.Info("comment added",
		zap.String("kind", string(comment.Kind)),
		zap.Uint("entity_id", comment.EntityID),
		zap.Uint("comment_id", comment.ID))
	return &comment, nil
}

// Reply creates a reply under a top-level comment. The reply inherits the
// parent's entity anchor; it is attached to the content object, not to the
// comment row. Replying to a reply is rejected to keep the tree one level
// deep.
func (t *CommentTree) Reply(parentID, userID uint, content string) (*models.Comment, error) {
	if err := validateContent(content); err != nil {
		return nil, err
	}
	var parent models.Comment
	if err := t.db.First(&parent, parentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: comment %d", ErrNotFound, parentID)
		}
		return nil, err
	}
	if parent.IsReply() {
		return nil, fmt.Errorf("%w: cannot reply to a reply", ErrValidation)
	}
	reply := models.Comment{
		Kind:     parent.Kind,
		EntityID: parent.EntityID,
		UserID:   userID,
		ParentID: &parent.ID,
		Content:  content,
		IsActive: true,
	}
	if err := t.db.Create(&reply).Error; err != nil {
		return nil, fmt.Errorf("create reply: %w", err)
	}
	return &reply, nil
}

// Edit replaces a comment's content. Only the author may edit.
func (t *CommentTree) Edit(commentID, userID uint, content string) (*models.Comment, error) {
	if err := validateContent(content); err != nil {
		return nil, err
	}
	comment, err := t.get(commentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != userID {
		return nil, fmt.Errorf("%w: only the author may edit a comment", ErrPermissionDenied)
	}
	comment.Content = content
	if err := t.db.Save(comment).Error; err != nil {
		return nil, fmt.Errorf("edit comment: %w", err)
	}
	return comment, nil
}

// Deactivate soft-hides a comment from listings without deleting the row.
// Its replies stay independently visible through Replies.
func (t *CommentTree) Deactivate(commentID, userID uint, isAdmin bool) error {
	comment, err := t.get(commentID)
	if err != nil {
		return err
	}
	if comment.UserID != userID && !isAdmin {
		return fmt.Errorf("%w: only the author may deactivate a comment", ErrPermissionDenied)
	}
	return t.db.Model(comment).Update("is_active", false).Error
}

// Delete hard-deletes a comment and, for a top-level comment, its replies.
// Distinct from Deactivate, which is the moderation soft-hide.
func (t *CommentTree) Delete(commentID, userID uint, isAdmin bool) error {
	comment, err := t.get(commentID)
	if err != nil {
		return err
	}
	if comment.UserID != userID && !isAdmin {
		return fmt.Errorf("%w: only the author may delete a comment", ErrPermissionDenied)
	}
	return t.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("parent_id = ?", comment.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(comment).Error
	})
}

// ListTopLevel returns the entity's active top-level comments newest
// first, each carrying its active replies in insertion order.
func (t *CommentTree) ListTopLevel(e models.Entity) ([]Node, error) {
	var tops []models.Comment
	err := t.db.Preload("User").
		Where("kind = ? AND entity_id = ? AND parent_id IS NULL AND is_active = ?",
			e.ContentKind(), e.ContentID(), true).
		Order("created_at DESC").
		Find(&tops).Error
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	if len(tops) == 0 {
		return []Node{}, nil
	}

	parentIDs := make([]uint, len(tops))
	for i, c := range tops {
		parentIDs[i] = c.ID
	}
	var replies []models.Comment
	err = t.db.Preload("User").
		Where("parent_id IN ? AND is_active = ?", parentIDs, true).
		Order("id ASC").
		Find(&replies).Error
	if err != nil {
		return nil, fmt.Errorf("list replies: %w", err)
	}

	byParent := make(map[uint][]models.Comment)
	for _, r := range replies {
		byParent[*r.ParentID] = append(byParent[*r.ParentID], r)
	}
	nodes := make([]Node, len(tops))
	for i, c := range tops {
		rs := byParent[c.ID]
		if rs == nil {
			rs = []models.Comment{}
		}
		nodes[i] = Node{Comment: c, Replies: rs}
	}
	return nodes, nil
}

// Replies returns a comment's active replies in insertion order. The
// parent's own active flag is not consulted; a deactivated comment keeps
// its replies queryable.
func (t *CommentTree) Replies(parentID uint) ([]models.Comment, error) {
	var replies []models.Comment
	err := t.db.Preload("User").
		Where("parent_id = ? AND is_active = ?", parentID, true).
		Order("id ASC").
		Find(&replies).Error
	return replies, err
}

// Count reports all comments attached to an entity, replies included.
func (t *CommentTree) Count(e models.Entity) (int64, error) {
	var count int64
	err := t.db.Model(&models.Comment{}).
		Where("kind = ? AND entity_id = ?", e.ContentKind(), e.ContentID()).
		Count(&count).Error
	return count, err
}

func (t *CommentTree) get(commentID uint) (*models.Comment, error) {
	var comment models.Comment
	if err := t.db.First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: comment %d", ErrNotFound, commentID)
		}
		return nil, err
	}
	return &comment, nil
}
