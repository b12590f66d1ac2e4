package handlers

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"osiedle/internal/content"
	"osiedle/internal/middleware"
	"osiedle/internal/models"
	"osiedle/internal/utils"
)

// EngagementHandler serves ratings and comments for any attachable
// content kind. Routes address targets as /content/:kind/:id so a single
// handler covers announcements, events, galleries and photos.
type EngagementHandler struct {
	db       *gorm.DB
	log      *zap.Logger
	resolver *content.Resolver
	ratings  *content.RatingLedger
	comments *content.CommentTree
}

func NewEngagementHandler(db *gorm.DB, log *zap.Logger) *EngagementHandler {
	return &EngagementHandler{
		db:       db,
		log:      log,
		resolver: content.NewResolver(db),
		ratings:  content.NewRatingLedger(db, log),
		comments: content.NewCommentTree(db, log),
	}
}

// target resolves the :kind/:id pair from the URL, rejecting unknown
// kinds and missing rows before any write happens.
func (h *EngagementHandler) target(c *gin.Context) (models.Entity, bool) {
	kind := models.Kind(c.Param("kind"))
	entity, err := h.resolver.Resolve(kind, utils.StringToUint(c.Param("id")))
	if err != nil {
		respondError(c, h.log, err)
		return nil, false
	}
	return entity, true
}

type ratingRequest struct {
	Score int `json:"score" binding:"required"`
}

func (h *EngagementHandler) SubmitRating(c *gin.Context) {
	entity, ok := h.target(c)
	if !ok {
		return
	}
	user, _ := middleware.CurrentUser(c)

	var req ratingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.ratings.Submit(entity, user.ID, req.Score)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if created {
		respondMessage(c, http.StatusCreated, "Thank you for rating!")
		return
	}
	respondMessage(c, http.StatusOK, "Your rating has been updated.")
}

func (h *EngagementHandler) RatingSummary(c *gin.Context) {
	entity, ok := h.target(c)
	if !ok {
		return
	}
	summary, err := h.ratings.Summary(entity, middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *EngagementHandler) DeleteRating(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	if err := h.ratings.Delete(utils.StringToUint(c.Param("id")), user.ID, user.IsAdmin()); err != nil {
		respondError(c, h.log, err)
		return
	}
	respondMessage(c, http.StatusOK, "Rating has been removed.")
}

type commentRequest struct {
	Content string `json:"content" binding:"required"`
}

// commentView decorates a comment with its rendered body. Content is
// markdown on the wire and sanitized HTML on the way out.
type commentView struct {
	models.Comment
	ContentHTML template.HTML `json:"content_html"`
	Replies     []commentView `json:"replies,omitempty"`
}

func renderComment(cm models.Comment, replies []models.Comment) commentView {
	view := commentView{Comment: cm, ContentHTML: utils.RenderMarkdown(cm.Content)}
	for _, r := range replies {
		view.Replies = append(view.Replies, renderComment(r, nil))
	}
	return view
}

func (h *EngagementHandler) ListComments(c *gin.Context) {
	entity, ok := h.target(c)
	if !ok {
		return
	}
	nodes, err := h.comments.ListTopLevel(entity)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	views := make([]commentView, len(nodes))
	for i, n := range nodes {
		views[i] = renderComment(n.Comment, n.Replies)
	}
	c.JSON(http.StatusOK, gin.H{"comments": views})
}

func (h *EngagementHandler) AddComment(c *gin.Context) {
	entity, ok := h.target(c)
	if !ok {
		return
	}
	user, _ := middleware.CurrentUser(c)

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.comments.Add(entity, user.ID, req.Content)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comment": renderComment(*comment, nil)})
}

func (h *EngagementHandler) AddReply(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply, err := h.comments.Reply(utils.StringToUint(c.Param("id")), user.ID, req.Content)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comment": renderComment(*reply, nil)})
}

func (h *EngagementHandler) EditComment(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.comments.Edit(utils.StringToUint(c.Param("id")), user.ID, req.Content)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comment": renderComment(*comment, nil)})
}

// DeleteComment soft-hides by default; the author or an admin can pass
// ?hard=true to remove the thread permanently.
func (h *EngagementHandler) DeleteComment(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	id := utils.StringToUint(c.Param("id"))

	if c.Query("hard") == "true" {
		if err := h.comments.Delete(id, user.ID, user.IsAdmin()); err != nil {
			respondError(c, h.log, err)
			return
		}
		respondMessage(c, http.StatusOK, "Comment has been deleted.")
		return
	}

	if err := h.comments.Deactivate(id, user.ID, user.IsAdmin()); err != nil {
		respondError(c, h.log, err)
		return
	}
	respondMessage(c, http.StatusOK, "Comment has been hidden.")
}

func (h *EngagementHandler) ListReplies(c *gin.Context) {
	replies, err := h.comments.Replies(utils.StringToUint(c.Param("id")))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	views := make([]commentView, len(replies))
	for i, r := range replies {
		views[i] = renderComment(r, nil)
	}
	c.JSON(http.StatusOK, gin.H{"comments": views})
}
