package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"osiedle/internal/content"
	"osiedle/internal/listing"
	"osiedle/internal/middleware"
	"osiedle/internal/models"
	"osiedle/internal/utils"
)

// eventModule mirrors announcementModule with the boolean archival
// representation and event-specific sorts.
var eventModule = listing.Module{
	SearchColumns: []string{"name", "description", "location"},
	FacetColumn:   "location",
	Sorts: map[string]string{
		"event_date":  "event_date ASC",
		"-event_date": "event_date DESC",
		"created_at":  "created_at ASC",
		"-created_at": "created_at DESC",
		"updated_at":  "updated_at ASC",
		"-updated_at": "updated_at DESC",
	},
	DefaultSort:    "-event_date",
	VerifiedColumn: "is_verified",
	ArchivedExpr:   "is_archived",
	CreatorColumn:  "creator_id",
	PerPage:        10,
}

type EventHandler struct {
	db        *gorm.DB
	log       *zap.Logger
	lifecycle *content.Lifecycle
	resolver  *content.Resolver
	ratings   *content.RatingLedger
	comments  *content.CommentTree
}

func NewEventHandler(db *gorm.DB, log *zap.Logger) *EventHandler {
	return &EventHandler{
		db:        db,
		log:       log,
		lifecycle: content.NewLifecycle(db, log),
		resolver:  content.NewResolver(db),
		ratings:   content.NewRatingLedger(db, log),
		comments:  content.NewCommentTree(db, log),
	}
}

func (h *EventHandler) List(c *gin.Context) {
	page, err := listing.Run[models.Event](h.db, eventModule, listingQuery(c, "location"), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *EventHandler) Detail(c *gin.Context) {
	var event models.Event
	if err := h.db.Preload("Creator").First(&event, c.Param("id")).Error; err != nil {
		respondError(c, h.log, err)
		return
	}

	summary, err := h.ratings.Summary(&event, middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	comments, err := h.comments.ListTopLevel(&event)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"event":            event,
		"creator_name":     event.CreatorName(),
		"description_html": utils.RenderMarkdown(event.Description),
		"rating":           summary,
		"comments":         comments,
	})
}

type eventRequest struct {
	Name        string    `json:"name" binding:"required,max=100"`
	EventDate   time.Time `json:"event_date" binding:"required"`
	Location    string    `json:"location" binding:"required,max=100"`
	Description string    `json:"description" binding:"required,max=500"`
	Image       string    `json:"image"`
}

func (h *EventHandler) Create(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event := models.Event{
		Name:        req.Name,
		EventDate:   req.EventDate,
		Location:    req.Location,
		Description: req.Description,
		Image:       req.Image,
	}

	message := "Thank you for the submission. The event will be published once an administrator verifies it."
	if user, ok := middleware.CurrentUser(c); ok {
		event.CreatorID = &user.ID
		event.IsVerified = true
		message = "Event has been added."
	}

	if err := h.db.Create(&event).Error; err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"event": event, "message": message})
}

func (h *EventHandler) Update(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var event models.Event
	if err := h.db.First(&event, c.Param("id")).Error; err != nil {
		respondError(c, h.log, err)
		return
	}
	if event.CreatorID == nil || *event.CreatorID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the creator may edit this event"})
		return
	}

	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event.Name = req.Name
	event.EventDate = req.EventDate
	event.Location = req.Location
	event.Description = req.Description
	event.Image = req.Image

	if err := h.db.Save(&event).Error; err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": event})
}

func (h *EventHandler) Delete(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var event models.Event
	if err := h.db.First(&event, c.Param("id")).Error; err != nil {
		respondError(c, h.log, err)
		return
	}
	owner := event.CreatorID != nil && *event.CreatorID == user.ID
	if !owner && !user.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the creator may delete this event"})
		return
	}

	if err := h.resolver.Delete(&event); err != nil {
		respondError(c, h.log, err)
		return
	}
	respondMessage(c, http.StatusOK, "Event has been deleted.")
}

func (h *EventHandler) ToggleArchive(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var event models.Event
	if err := h.db.First(&event, c.Param("id")).Error; err != nil {
		respondError(c, h.log, err)
		return
	}

	var err error
	message := "Event has been archived."
	if event.Archived() {
		err = h.lifecycle.Unarchive(&event, user.ID)
		message = "Event has been unarchived."
	} else {
		err = h.lifecycle.Archive(&event, user.ID)
	}
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondMessage(c, http.StatusOK, message)
}
