package content

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"osiedle/internal/db"
	"osiedle/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.Migrate(gdb))
	return gdb
}

func createUser(t *testing.T, gdb *gorm.DB, username string) models.User {
	t.Helper()
	user := models.User{Username: username, Email: username + "@example.com", Role: models.RoleUser}
	require.NoError(t, gdb.Create(&user).Error)
	return user
}

func createAnnouncement(t *testing.T, gdb *gorm.DB, creatorID *uint) *models.Announcement {
	t.Helper()
	a := models.Announcement{
		Title:       "Two rooms near the park",
		Place:       "Mokotow",
		Rooms:       2,
		Price:       2500,
		Description: "Sunny flat, second floor.",
		CreatorID:   creatorID,
		IsVerified:  true,
	}
	require.NoError(t, gdb.Create(&a).Error)
	return &a
}

func createEvent(t *testing.T, gdb *gorm.DB, creatorID *uint) *models.Event {
	t.Helper()
	e := models.Event{
		Name:        "Spring cleanup",
		EventDate:   time.Now().Add(48 * time.Hour),
		Location:    "Community Hall",
		Description: "Bring gloves.",
		CreatorID:   creatorID,
		IsVerified:  true,
	}
	require.NoError(t, gdb.Create(&e).Error)
	return &e
}

func createGallery(t *testing.T, gdb *gorm.DB, creatorID uint) *models.Gallery {
	t.Helper()
	g := models.Gallery{
		Title:       "Summer picnic",
		Description: "Photos from the yard.",
		Slug:        "summer-picnic",
		CreatorID:   creatorID,
	}
	require.NoError(t, gdb.Create(&g).Error)
	return &g
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
