package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"osiedle/internal/content"
	"osiedle/internal/listing"
	"osiedle/internal/middleware"
	"osiedle/internal/models"
	"osiedle/internal/utils"
)

// announcementModule parameterizes the shared listing pipeline for
// announcements: timestamp-based archival, place facet, price/rooms sorts.
var announcementModule = listing.Module{
	SearchColumns:  []string{"title", "description", "place"},
	FacetColumn:    "place",
	Sorts: map[string]string{
		"date":   "created_at ASC",
		"-date":  "created_at DESC",
		"price":  "price ASC",
		"-price": "price DESC",
		"rooms":  "rooms ASC",
		"-rooms": "rooms DESC",
	},
	DefaultSort:    "-date",
	VerifiedColumn: "is_verified",
	ArchivedExpr:   "archive_date IS NOT NULL",
	CreatorColumn:  "creator_id",
	PerPage:        10,
}

type AnnouncementHandler struct {
	db        *gorm.DB
	log       *zap.Logger
	lifecycle *content.Lifecycle
	resolver  *content.Resolver
	ratings   *content.RatingLedger
	comments  *content.CommentTree
}

func NewAnnouncementHandler(db *gorm.DB, log *zap.Logger) *AnnouncementHandler {
	return &AnnouncementHandler{
		db:        db,
		log:       log,
		lifecycle: content.NewLifecycle(db, log),
		resolver:  content.NewResolver(db),
		ratings:   content.NewRatingLedger(db, log),
		comments:  content.NewCommentTree(db, log),
	}
}

func listingQuery(c *gin.Context, facetParam string) listing.Query {
	return listing.Query{
		Scope:   listing.Scope(c.DefaultQuery("scope", string(listing.ScopeNonArchived))),
		Keyword: c.Query("keyword"),
		Facet:   c.Query(facetParam),
		SortKey: c.Query("sort_by"),
		Page:    utils.StringToInt(c.DefaultQuery("page", "1")),
	}
}

func (h *AnnouncementHandler) List(c *gin.Context) {
	page, err := listing.Run[models.Announcement](h.db, announcementModule, listingQuery(c, "place"), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *AnnouncementHandler) Detail(c *gin.Context) {
	var announcement models.Announcement
	if err := h.db.Preload("Creator").First(&announcement, c.Param("id")).Error; err != nil {
		respondError(c, h.log, err)
		return
	}

	summary, err := h.ratings.Summary(&announcement, middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	comments, err := h.comments.ListTopLevel(&announcement)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"announcement":     announcement,
		"creator_name":     announcement.CreatorName(),
		"description_html": utils.RenderMarkdown(announcement.Description),
		"rating":           summary,
		"comments":         comments,
	})
}

type announcementRequest struct {
	Title       string  `json:"title" binding:"required,max=50"`
	Place       string  `json:"place" binding:"required,max=50"`
	Rooms       uint    `json:"rooms" binding:"required"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Description string  `json:"description" binding:"required"`
	Banner      string  `json:"banner"`
}

// Create accepts anonymous submissions. Anonymous announcements wait for
// administrator verification; a logged-in creator's go live immediately.
func (h *AnnouncementHandler) Create(c *gin.Context) {
	var req announcementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	announcement := models.Announcement{
		Title:       req.Title,
		Place:       req.Place,
		Rooms:       req.Rooms,
		Price:       req.Price,
		Description: req.Description,
		Banner:      req.Banner,
	}

	message := "Announcement is awaiting verification by the administrators."
	if user, ok := middleware.CurrentUser(c); ok {
		announcement.CreatorID = &user.ID
		announcement.IsVerified = true
		message = "Announcement has been added."
	}

	if err := h.db.Create(&announcement).Error; err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"announcement": announcement, "message": message})
}

func (h *AnnouncementHandler) Update(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var announcement models.Announcement
	if err := h.db.First(&announcement, c.Param("id")).Error; err != nil {
		respondError(c, h.log, err)
		return
	}
	if announcement.CreatorID == nil || *announcement.CreatorID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the creator may edit this announcement"})
		return
	}

	var req announcementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	announcement.Title = req.Title
	announcement.Place = req.Place
	announcement.Rooms = req.Rooms
	announcement.Price = req.Price
	announcement.Description = req.Description
	announcement.Banner = req.Banner

	if err := h.db.Save(&announcement).Error; err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"announcement": announcement})
}

// Delete hard-deletes the announcement and, through the resolver, every
// rating and comment attached to it.
func (h *AnnouncementHandler) Delete(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var announcement models.Announcement
	if err := h.db.First(&announcement, c.Param("id")).Error; err != nil {
		respondError(c, h.log, err)
		return
	}
	owner := announcement.CreatorID != nil && *announcement.CreatorID == user.ID
	if !owner && !user.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the creator may delete this announcement"})
		return
	}

	if err := h.resolver.Delete(&announcement); err != nil {
		respondError(c, h.log, err)
		return
	}
	respondMessage(c, http.StatusOK, "Announcement has been deleted.")
}

// ToggleArchive flips the archive timestamp the way the owner-facing
// archive button does: archived announcements come back, active ones go
// into the archive.
func (h *AnnouncementHandler) ToggleArchive(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var announcement models.Announcement
	if err := h.db.First(&announcement, c.Param("id")).Error; err != nil {
		respondError(c, h.log, err)
		return
	}

	var err error
	message := "Announcement has been archived."
	if announcement.Archived() {
		err = h.lifecycle.Unarchive(&announcement, user.ID)
		message = "Announcement has been unarchived."
	} else {
		err = h.lifecycle.Archive(&announcement, user.ID)
	}
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondMessage(c, http.StatusOK, message)
}
