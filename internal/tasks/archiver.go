package tasks

import (
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"osiedle/internal/models"
)

// Archiver is the periodic sweep that closes content whose date has
// passed: events after their event date, polls after their end date.
// Both updates are idempotent, so an overlapping or repeated run is
// harmless.
type Archiver struct {
	db   *gorm.DB
	log  *zap.Logger
	cron *cron.Cron
}

func NewArchiver(db *gorm.DB, log *zap.Logger) *Archiver {
	return &Archiver{db: db, log: log, cron: cron.New()}
}

// Start registers the sweep on the configured schedule and runs it once
// immediately so a restart catches up on anything missed while down.
func (a *Archiver) Start() error {
	schedule := os.Getenv("ARCHIVE_SCHEDULE")
	if schedule == "" {
		schedule = "@hourly"
	}
	if _, err := a.cron.AddFunc(schedule, a.Sweep); err != nil {
		return err
	}
	a.cron.Start()
	a.log.Info("archiver started", zap.String("schedule", schedule))
	go a.Sweep()
	return nil
}

func (a *Archiver) Stop() {
	ctx := a.cron.Stop()
	<-ctx.Done()
}

// Sweep archives past events and closes ended polls in two bulk updates.
func (a *Archiver) Sweep() {
	start := time.Now()
	now := time.Now()

	events := a.db.Model(&models.Event{}).
		Where("event_date < ? AND is_archived = ?", now, false).
		Update("is_archived", true)
	if events.Error != nil {
		a.log.Error("archive past events", zap.Error(events.Error))
	}

	polls := a.db.Model(&models.Poll{}).
		Where("end_date < ? AND archive_date IS NULL", now).
		Update("archive_date", now)
	if polls.Error != nil {
		a.log.Error("close ended polls", zap.Error(polls.Error))
	}

	a.log.Info("archive sweep finished",
		zap.Int64("events_archived", events.RowsAffected),
		zap.Int64("polls_closed", polls.RowsAffected),
		zap.Duration("took", time.Since(start)))
}
