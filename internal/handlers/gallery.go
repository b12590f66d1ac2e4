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

const photosPerPage = 4

// galleryModule has no verification or archival lifecycle and no facet
// dropdown; the pipeline skips what a module leaves unset.
var galleryModule = listing.Module{
	SearchColumns: []string{"title", "description"},
	Sorts: map[string]string{
		"created_at":  "created_at ASC",
		"-created_at": "created_at DESC",
		"-updated_at": "updated_at DESC",
	},
	DefaultSort:   "-created_at",
	CreatorColumn: "creator_id",
	PerPage:       10,
}

type GalleryHandler struct {
	db       *gorm.DB
	log      *zap.Logger
	resolver *content.Resolver
	ratings  *content.RatingLedger
	comments *content.CommentTree
}

func NewGalleryHandler(db *gorm.DB, log *zap.Logger) *GalleryHandler {
	return &GalleryHandler{
		db:       db,
		log:      log,
		resolver: content.NewResolver(db),
		ratings:  content.NewRatingLedger(db, log),
		comments: content.NewCommentTree(db, log),
	}
}

func (h *GalleryHandler) List(c *gin.Context) {
	q := listingQuery(c, "")
	if q.Scope == listing.ScopeNonArchived {
		// Galleries know only all/mine.
		q.Scope = listing.ScopeAll
	}
	page, err := listing.Run[models.Gallery](h.db, galleryModule, q, middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Detail returns the gallery with one page of its photos (4 per page),
// plus the gallery's own comments and rating summary.
func (h *GalleryHandler) Detail(c *gin.Context) {
	var gallery models.Gallery
	if err := h.db.Preload("Creator").Where("slug = ?", c.Param("slug")).First(&gallery).Error; err != nil {
		respondError(c, h.log, err)
		return
	}

	var total int64
	h.db.Model(&models.Photo{}).Where("gallery_id = ?", gallery.ID).Count(&total)
	totalPages := listing.TotalPages(total, photosPerPage)
	page := listing.ClampPage(utils.StringToInt(c.DefaultQuery("page", "1")), total, photosPerPage)

	photos := []models.Photo{}
	h.db.Where("gallery_id = ?", gallery.ID).
		Order("uploaded_at DESC").
		Limit(photosPerPage).
		Offset((page - 1) * photosPerPage).
		Find(&photos)

	summary, err := h.ratings.Summary(&gallery, middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	comments, err := h.comments.ListTopLevel(&gallery)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"gallery":     gallery,
		"photos":      photos,
		"page":        page,
		"total_pages": totalPages,
		"rating":      summary,
		"comments":    comments,
	})
}

type galleryRequest struct {
	Title       string `json:"title" binding:"required,max=100"`
	Description string `json:"description" binding:"required,max=500"`
	Thumbnail   string `json:"thumbnail"`
}

func (h *GalleryHandler) Create(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req galleryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	gallery := models.Gallery{
		Title:       req.Title,
		Description: req.Description,
		Slug:        utils.Slugify(req.Title),
		Thumbnail:   req.Thumbnail,
		CreatorID:   user.ID,
	}
	if err := h.db.Create(&gallery).Error; err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"gallery": gallery})
}

func (h *GalleryHandler) Update(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var gallery models.Gallery
	if err := h.db.Where("slug = ?", c.Param("slug")).First(&gallery).Error; err != nil {
		respondError(c, h.log, err)
		return
	}
	if gallery.CreatorID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the creator may edit this gallery"})
		return
	}

	var req galleryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	gallery.Title = req.Title
	gallery.Description = req.Description
	gallery.Thumbnail = req.Thumbnail

	if err := h.db.Save(&gallery).Error; err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"gallery": gallery})
}

func (h *GalleryHandler) Delete(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var gallery models.Gallery
	if err := h.db.Where("slug = ?", c.Param("slug")).First(&gallery).Error; err != nil {
		respondError(c, h.log, err)
		return
	}
	if gallery.CreatorID != user.ID && !user.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the creator may delete this gallery"})
		return
	}

	// Resolver delete also sweeps the photos and their attachments.
	if err := h.resolver.Delete(&gallery); err != nil {
		respondError(c, h.log, err)
		return
	}
	respondMessage(c, http.StatusOK, "Gallery has been deleted.")
}

type photoRequest struct {
	Title       string `json:"title" binding:"required,max=100"`
	Image       string `json:"image" binding:"required"`
	Description string `json:"description" binding:"max=500"`
}

func (h *GalleryHandler) AddPhoto(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var gallery models.Gallery
	if err := h.db.Where("slug = ?", c.Param("slug")).First(&gallery).Error; err != nil {
		respondError(c, h.log, err)
		return
	}
	if gallery.CreatorID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the creator may add photos"})
		return
	}

	var req photoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	photo := models.Photo{
		GalleryID:   gallery.ID,
		Title:       req.Title,
		Image:       req.Image,
		Description: req.Description,
	}
	if err := h.db.Create(&photo).Error; err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"photo": photo})
}

func (h *GalleryHandler) DeletePhoto(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var photo models.Photo
	if err := h.db.Preload("Gallery").First(&photo, c.Param("id")).Error; err != nil {
		respondError(c, h.log, err)
		return
	}
	owner := photo.OwnerID()
	if owner == nil || *owner != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the gallery creator may delete photos"})
		return
	}

	if err := h.resolver.Delete(&photo); err != nil {
		respondError(c, h.log, err)
		return
	}
	respondMessage(c, http.StatusOK, "Photo has been deleted.")
}
