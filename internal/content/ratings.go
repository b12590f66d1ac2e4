package content

import (
	"database/sql"
	"fmt"
	"math"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"osiedle/internal/models"
)

// RatingLedger keeps one score per (entity, user) and aggregates at read
// time; submitting never recomputes anything beyond the row write.
type RatingLedger struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewRatingLedger(db *gorm.DB, log *zap.Logger) *RatingLedger {
	return &RatingLedger{db: db, log: log}
}

// Submit records score for (entity, user). A first submission inserts, a
// repeat overwrites the existing row in place. Returns whether a new row
// was created, so callers can pick between "thanks for rating" and
// "rating updated" feedback.
func (l *RatingLedger) Submit(e models.Entity, userID uint, score int) (bool, error) {
	if score < 1 || score > 10 {
		return false, fmt.Errorf("%w: score must be between 1 and 10", ErrValidation)
	}

	rating := models.Rating{
		Kind:     e.ContentKind(),
		EntityID: e.ContentID(),
		UserID:   userID,
		Score:    score,
	}
	// Insert-or-skip under the uniqueness index, then overwrite on the
	// skip path. Concurrent submissions from the same user race safely to
	// a single row; the newest score wins.
	res := l.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "kind"}, {Name: "entity_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(&rating)
	if res.Error != nil {
		return false, fmt.Errorf("submit rating: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		l.log.Info("rating created",
			zap.String("kind", string(rating.Kind)),
			zap.Uint("entity_id", rating.EntityID),
			zap.Uint("user_id", userID))
		return true, nil
	}

	err := l.db.Model(&models.Rating{}).
		Where("kind = ? AND entity_id = ? AND user_id = ?", rating.Kind, rating.EntityID, userID).
		Update("score", score).Error
	if err != nil {
		return false, fmt.Errorf("update rating: %w", err)
	}
	return false, nil
}

// Average returns the mean score rounded to one decimal place, or nil when
// the entity has no ratings. Callers must keep "no ratings" distinct from
// an average of zero.
func (l *RatingLedger) Average(e models.Entity) (*float64, error) {
	row := l.db.Model(&models.Rating{}).
		Where("kind = ? AND entity_id = ?", e.ContentKind(), e.ContentID()).
		Select("AVG(score)").Row()

	var avg sql.NullFloat64
	if err := row.Scan(&avg); err != nil {
		return nil, fmt.Errorf("average rating: %w", err)
	}
	if !avg.Valid {
		return nil, nil
	}
	rounded := math.Round(avg.Float64*10) / 10
	return &rounded, nil
}

// UserRating returns the user's own score, or nil if they have not rated.
func (l *RatingLedger) UserRating(e models.Entity, userID uint) (*int, error) {
	if userID == 0 {
		return nil, nil
	}
	var rating models.Rating
	err := l.db.Where("kind = ? AND entity_id = ? AND user_id = ?",
		e.ContentKind(), e.ContentID(), userID).First(&rating).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("user rating: %w", err)
	}
	return &rating.Score, nil
}

func (l *RatingLedger) Count(e models.Entity) (int64, error) {
	var count int64
	err := l.db.Model(&models.Rating{}).
		Where("kind = ? AND entity_id = ?", e.ContentKind(), e.ContentID()).
		Count(&count).Error
	return count, err
}

// Delete removes a rating row. Only its author may remove it unless the
// caller is an administrator.
func (l *RatingLedger) Delete(ratingID, userID uint, isAdmin bool) error {
	var rating models.Rating
	if err := l.db.First(&rating, ratingID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fmt.Errorf("%w: rating %d", ErrNotFound, ratingID)
		}
		return err
	}
	if rating.UserID != userID && !isAdmin {
		return fmt.Errorf("%w: only the author may delete a rating", ErrPermissionDenied)
	}
	return l.db.Delete(&rating).Error
}

// Stars is the 10-icon star breakdown derived from an average.
type Stars struct {
	Full  int  `json:"full"`
	Half  bool `json:"half"`
	Empty int  `json:"empty"`
}

// StarsFor maps an average onto the display rule: full = floor, half icon
// when the fraction reaches 0.5. No ratings renders as ten empty stars,
// not as an error.
func StarsFor(avg *float64) Stars {
	if avg == nil {
		return Stars{Full: 0, Half: false, Empty: 10}
	}
	full := int(*avg)
	half := *avg-float64(full) >= 0.5
	empty := 10 - full
	if half {
		empty--
	}
	return Stars{Full: full, Half: half, Empty: empty}
}

// Summary bundles everything a detail view shows about an entity's
// ratings. ViewerScore is nil for anonymous viewers and for viewers who
// have not rated.
type Summary struct {
	Average     *float64 `json:"average"`
	Count       int64    `json:"count"`
	ViewerScore *int     `json:"viewer_score"`
	Stars       Stars    `json:"stars"`
}

func (l *RatingLedger) Summary(e models.Entity, viewerID uint) (*Summary, error) {
	avg, err := l.Average(e)
	if err != nil {
		return nil, err
	}
	count, err := l.Count(e)
	if err != nil {
		return nil, err
	}
	viewer, err := l.UserRating(e, viewerID)
	if err != nil {
		return nil, err
	}
	return &Summary{
		Average:     avg,
		Count:       count,
		ViewerScore: viewer,
		Stars:       StarsFor(avg),
	}, nil
}
