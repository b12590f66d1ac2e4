package handlers

import (
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"osiedle/internal/content"
	"osiedle/internal/listing"
	"osiedle/internal/middleware"
	"osiedle/internal/models"
)

// pollModule: timestamp archival like announcements, no verification step
// (polls can only be created by logged-in users), no facet.
var pollModule = listing.Module{
	SearchColumns: []string{"question"},
	Sorts: map[string]string{
		"created_at":  "created_at ASC",
		"-created_at": "created_at DESC",
		"end_date":    "end_date ASC",
		"-end_date":   "end_date DESC",
	},
	DefaultSort:   "-created_at",
	ArchivedExpr:  "archive_date IS NOT NULL",
	CreatorColumn: "creator_id",
	PerPage:       10,
}

type PollHandler struct {
	db        *gorm.DB
	log       *zap.Logger
	lifecycle *content.Lifecycle
}

func NewPollHandler(db *gorm.DB, log *zap.Logger) *PollHandler {
	return &PollHandler{
		db:        db,
		log:       log,
		lifecycle: content.NewLifecycle(db, log),
	}
}

func (h *PollHandler) List(c *gin.Context) {
	page, err := listing.Run[models.Poll](h.db, pollModule, listingQuery(c, ""), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	// Preload choices and the viewer's voted flag for the page in two
	// batch queries instead of one per poll.
	ids := make([]uint, len(page.Items))
	for i := range page.Items {
		ids[i] = page.Items[i].ID
	}
	if len(ids) > 0 {
		var choices []models.Choice
		h.db.Where("poll_id IN ?", ids).Order("id ASC").Find(&choices)
		byPoll := make(map[uint][]models.Choice)
		for _, ch := range choices {
			byPoll[ch.PollID] = append(byPoll[ch.PollID], ch)
		}
		for i := range page.Items {
			page.Items[i].Choices = byPoll[page.Items[i].ID]
		}
	}

	voted := map[uint]bool{}
	if viewerID := middleware.CurrentUserID(c); viewerID != 0 && len(ids) > 0 {
		var votes []models.PollVote
		h.db.Where("poll_id IN ? AND user_id = ?", ids, viewerID).Find(&votes)
		for _, v := range votes {
			voted[v.PollID] = true
		}
	}

	c.JSON(http.StatusOK, gin.H{"polls": page, "voted": voted})
}

func (h *PollHandler) Detail(c *gin.Context) {
	var poll models.Poll
	if err := h.db.Preload("Choices").First(&poll, c.Param("id")).Error; err != nil {
		respondError(c, h.log, err)
		return
	}

	hasVoted := false
	if viewerID := middleware.CurrentUserID(c); viewerID != 0 {
		var count int64
		h.db.Model(&models.PollVote{}).Where("poll_id = ? AND user_id = ?", poll.ID, viewerID).Count(&count)
		hasVoted = count > 0
	}

	c.JSON(http.StatusOK, gin.H{"poll": poll, "has_voted": hasVoted})
}

type voteRequest struct {
	ChoiceID uint `json:"choice_id" binding:"required"`
}

// Vote records one choice per user per poll. Closed (archived) polls and
// repeat votes are rejected.
func (h *PollHandler) Vote(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var poll models.Poll
	if err := h.db.First(&poll, c.Param("id")).Error; err != nil {
		respondError(c, h.log, err)
		return
	}
	if poll.Archived() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "poll is already closed"})
		return
	}

	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var choice models.Choice
	err := h.db.Where("id = ? AND poll_id = ?", req.ChoiceID, poll.ID).First(&choice).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid choice"})
		return
	}
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	var existing int64
	h.db.Model(&models.PollVote{}).Where("poll_id = ? AND user_id = ?", poll.ID, user.ID).Count(&existing)
	if existing > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "you have already voted in this poll"})
		return
	}

	vote := models.PollVote{PollID: poll.ID, ChoiceID: choice.ID, UserID: user.ID}
	if err := h.db.Create(&vote).Error; err != nil {
		respondError(c, h.log, err)
		return
	}
	respondMessage(c, http.StatusCreated, "Your vote has been recorded.")
}

type choiceResult struct {
	models.Choice
	Votes      int64   `json:"votes"`
	Percentage float64 `json:"percentage"`
}

func (h *PollHandler) Results(c *gin.Context) {
	var poll models.Poll
	if err := h.db.Preload("Choices").First(&poll, c.Param("id")).Error; err != nil {
		respondError(c, h.log, err)
		return
	}

	var total int64
	h.db.Model(&models.PollVote{}).Where("poll_id = ?", poll.ID).Count(&total)

	results := make([]choiceResult, len(poll.Choices))
	for i, ch := range poll.Choices {
		var votes int64
		h.db.Model(&models.PollVote{}).Where("choice_id = ?", ch.ID).Count(&votes)
		pct := 0.0
		if total > 0 {
			pct = math.Round(float64(votes)/float64(total)*1000) / 10
		}
		results[i] = choiceResult{Choice: ch, Votes: votes, Percentage: pct}
	}

	c.JSON(http.StatusOK, gin.H{"poll": poll, "choices": results, "total_votes": total})
}

type pollRequest struct {
	Question string    `json:"question" binding:"required"`
	EndDate  time.Time `json:"end_date" binding:"required"`
	Choices  []string  `json:"choices" binding:"required,min=2,dive,required,max=200"`
}

func (h *PollHandler) Create(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req pollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	poll := models.Poll{
		Question:  req.Question,
		EndDate:   req.EndDate,
		CreatorID: user.ID,
	}
	for _, text := range req.Choices {
		poll.Choices = append(poll.Choices, models.Choice{Text: text})
	}

	if err := h.db.Create(&poll).Error; err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"poll": poll})
}

func (h *PollHandler) Delete(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var poll models.Poll
	if err := h.db.First(&poll, c.Param("id")).Error; err != nil {
		respondError(c, h.log, err)
		return
	}
	if poll.CreatorID != user.ID && !user.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the creator may delete this poll"})
		return
	}

	if err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("poll_id = ?", poll.ID).Delete(&models.PollVote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("poll_id = ?", poll.ID).Delete(&models.Choice{}).Error; err != nil {
			return err
		}
		return tx.Delete(&poll).Error
	}); err != nil {
		respondError(c, h.log, err)
		return
	}
	respondMessage(c, http.StatusOK, "Poll has been deleted.")
}

func (h *PollHandler) ToggleArchive(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var poll models.Poll
	if err := h.db.First(&poll, c.Param("id")).Error; err != nil {
		respondError(c, h.log, err)
		return
	}

	var err error
	message := "Poll has been closed."
	if poll.Archived() {
		err = h.lifecycle.Unarchive(&poll, user.ID)
		message = "Poll has been reopened."
	} else {
		err = h.lifecycle.Archive(&poll, user.ID)
	}
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondMessage(c, http.StatusOK, message)
}
