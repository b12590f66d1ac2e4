package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"osiedle/internal/listing"
	"osiedle/internal/models"
	"osiedle/internal/utils"
)

const homePerPage = 5

// HomeHandler renders the landing carousels: pinned upcoming events and
// pinned announcements, five per page. Pages are cached briefly since
// the homepage is the hottest read path.
type HomeHandler struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewHomeHandler(db *gorm.DB, log *zap.Logger) *HomeHandler {
	return &HomeHandler{db: db, log: log}
}

type homeSection[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	TotalPages int   `json:"total_pages"`
	TotalCount int64 `json:"total_count"`
}

func (h *HomeHandler) Index(c *gin.Context) {
	eventPage := utils.StringToInt(c.DefaultQuery("event_page", "1"))
	announcementPage := utils.StringToInt(c.DefaultQuery("announcement_page", "1"))

	cacheKey := fmt.Sprintf("home:%d:%d", eventPage, announcementPage)
	if cached := utils.GetCache().Get(cacheKey); cached != nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	events := h.pinnedEvents(eventPage)
	announcements := h.pinnedAnnouncements(announcementPage)

	payload := gin.H{"events": events, "announcements": announcements}
	utils.GetCache().Set(cacheKey, payload, 1*time.Minute)
	c.JSON(http.StatusOK, payload)
}

func (h *HomeHandler) pinnedEvents(page int) homeSection[models.Event] {
	filter := func() *gorm.DB {
		return h.db.Model(&models.Event{}).
			Where("is_pinned = ? AND is_verified = ? AND is_archived = ?", true, true, false)
	}

	var total int64
	filter().Count(&total)

	page = listing.ClampPage(page, total, homePerPage)

	var events []models.Event
	filter().Order("event_date ASC").
		Offset((page - 1) * homePerPage).Limit(homePerPage).
		Find(&events)

	return homeSection[models.Event]{
		Items:      events,
		Page:       page,
		TotalPages: listing.TotalPages(total, homePerPage),
		TotalCount: total,
	}
}

func (h *HomeHandler) pinnedAnnouncements(page int) homeSection[models.Announcement] {
	filter := func() *gorm.DB {
		return h.db.Model(&models.Announcement{}).
			Where("is_pinned = ? AND is_verified = ? AND archive_date IS NULL", true, true)
	}

	var total int64
	filter().Count(&total)

	page = listing.ClampPage(page, total, homePerPage)

	var announcements []models.Announcement
	filter().Preload("Creator").Order("created_at DESC").
		Offset((page - 1) * homePerPage).Limit(homePerPage).
		Find(&announcements)

	return homeSection[models.Announcement]{
		Items:      announcements,
		Page:       page,
		TotalPages: listing.TotalPages(total, homePerPage),
		TotalCount: total,
	}
}
