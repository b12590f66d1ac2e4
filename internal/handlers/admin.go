package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"osiedle/internal/content"
	"osiedle/internal/middleware"
	"osiedle/internal/models"
	"osiedle/internal/utils"
)

// AdminHandler covers the moderation surface: publishing unverified
// submissions, pinning content to the homepage and hiding comments.
type AdminHandler struct {
	db        *gorm.DB
	log       *zap.Logger
	lifecycle *content.Lifecycle
	comments  *content.CommentTree
}

func NewAdminHandler(db *gorm.DB, log *zap.Logger) *AdminHandler {
	return &AdminHandler{
		db:        db,
		log:       log,
		lifecycle: content.NewLifecycle(db, log),
		comments:  content.NewCommentTree(db, log),
	}
}

// PendingQueue lists unverified announcements and events awaiting review,
// oldest first so nothing starves at the back of the queue.
func (h *AdminHandler) PendingQueue(c *gin.Context) {
	var announcements []models.Announcement
	h.db.Preload("Creator").Where("is_verified = ?", false).Order("created_at ASC").Find(&announcements)

	var events []models.Event
	h.db.Preload("Creator").Where("is_verified = ?", false).Order("created_at ASC").Find(&events)

	c.JSON(http.StatusOK, gin.H{"announcements": announcements, "events": events})
}

func (h *AdminHandler) VerifyAnnouncement(c *gin.Context) {
	var announcement models.Announcement
	if err := h.db.First(&announcement, c.Param("id")).Error; err != nil {
		respondError(c, h.log, err)
		return
	}
	if err := h.lifecycle.Verify(&announcement); err != nil {
		respondError(c, h.log, err)
		return
	}
	h.log.Info("announcement verified",
		zap.Uint("announcement_id", announcement.ID),
		zap.Uint("admin_id", middleware.CurrentUserID(c)))
	respondMessage(c, http.StatusOK, "Announcement has been verified.")
}

func (h *AdminHandler) VerifyEvent(c *gin.Context) {
	var event models.Event
	if err := h.db.First(&event, c.Param("id")).Error; err != nil {
		respondError(c, h.log, err)
		return
	}
	if err := h.lifecycle.Verify(&event); err != nil {
		respondError(c, h.log, err)
		return
	}
	h.log.Info("event verified",
		zap.Uint("event_id", event.ID),
		zap.Uint("admin_id", middleware.CurrentUserID(c)))
	respondMessage(c, http.StatusOK, "Event has been verified.")
}

func (h *AdminHandler) TogglePinAnnouncement(c *gin.Context) {
	var announcement models.Announcement
	if err := h.db.First(&announcement, c.Param("id")).Error; err != nil {
		respondError(c, h.log, err)
		return
	}
	announcement.IsPinned = !announcement.IsPinned
	if err := h.db.Model(&announcement).Update("is_pinned", announcement.IsPinned).Error; err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.GetCache().Delete("home:1:1")
	message := "Announcement has been pinned."
	if !announcement.IsPinned {
		message = "Announcement has been unpinned."
	}
	respondMessage(c, http.StatusOK, message)
}

func (h *AdminHandler) TogglePinEvent(c *gin.Context) {
	var event models.Event
	if err := h.db.First(&event, c.Param("id")).Error; err != nil {
		respondError(c, h.log, err)
		return
	}
	event.IsPinned = !event.IsPinned
	if err := h.db.Model(&event).Update("is_pinned", event.IsPinned).Error; err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.GetCache().Delete("home:1:1")
	message := "Event has been pinned."
	if !event.IsPinned {
		message = "Event has been unpinned."
	}
	respondMessage(c, http.StatusOK, message)
}

// HideComment is the moderation path for comments: the row stays so
// replies keep their anchor, but it disappears from listings.
func (h *AdminHandler) HideComment(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	if err := h.comments.Deactivate(utils.StringToUint(c.Param("id")), user.ID, true); err != nil {
		respondError(c, h.log, err)
		return
	}
	respondMessage(c, http.StatusOK, "Comment has been hidden.")
}
