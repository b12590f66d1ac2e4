package router

import (
	"os"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"osiedle/internal/handlers"
	"osiedle/internal/middleware"
)

// New builds the gin engine with the session store and every route
// registered. Read routes are public; writes require a session, and the
// moderation surface requires the admin role on top.
func New(db *gorm.DB, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = "osiedle-dev-secret"
	}
	store := cookie.NewStore([]byte(secret))
	r.Use(sessions.Sessions("osiedle_session", store))
	r.Use(middleware.LoadUser(db))

	homeHandler := handlers.NewHomeHandler(db, log)
	announcementHandler := handlers.NewAnnouncementHandler(db, log)
	eventHandler := handlers.NewEventHandler(db, log)
	galleryHandler := handlers.NewGalleryHandler(db, log)
	pollHandler := handlers.NewPollHandler(db, log)
	engagementHandler := handlers.NewEngagementHandler(db, log)
	adminHandler := handlers.NewAdminHandler(db, log)

	// Public routes
	r.GET("/", homeHandler.Index)

	r.GET("/announcements", announcementHandler.List)
	r.GET("/announcements/:id", announcementHandler.Detail)
	r.POST("/announcements", announcementHandler.Create) // anonymous submissions land unverified

	r.GET("/events", eventHandler.List)
	r.GET("/events/:id", eventHandler.Detail)
	r.POST("/events", eventHandler.Create)

	r.GET("/galleries", galleryHandler.List)
	r.GET("/galleries/:slug", galleryHandler.Detail)

	r.GET("/polls", pollHandler.List)
	r.GET("/polls/:id", pollHandler.Detail)
	r.GET("/polls/:id/results", pollHandler.Results)

	r.GET("/content/:kind/:id/ratings", engagementHandler.RatingSummary)
	r.GET("/content/:kind/:id/comments", engagementHandler.ListComments)
	r.GET("/comments/:id/replies", engagementHandler.ListReplies)

	// Protected routes
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.PUT("/announcements/:id", announcementHandler.Update)
		authorized.DELETE("/announcements/:id", announcementHandler.Delete)
		authorized.POST("/announcements/:id/archive", announcementHandler.ToggleArchive)

		authorized.PUT("/events/:id", eventHandler.Update)
		authorized.DELETE("/events/:id", eventHandler.Delete)
		authorized.POST("/events/:id/archive", eventHandler.ToggleArchive)

		authorized.POST("/galleries", galleryHandler.Create)
		authorized.PUT("/galleries/:slug", galleryHandler.Update)
		authorized.DELETE("/galleries/:slug", galleryHandler.Delete)
		authorized.POST("/galleries/:slug/photos", galleryHandler.AddPhoto)
		authorized.DELETE("/photos/:id", galleryHandler.DeletePhoto)

		authorized.POST("/polls", pollHandler.Create)
		authorized.POST("/polls/:id/vote", pollHandler.Vote)
		authorized.DELETE("/polls/:id", pollHandler.Delete)
		authorized.POST("/polls/:id/archive", pollHandler.ToggleArchive)

		authorized.POST("/content/:kind/:id/ratings", engagementHandler.SubmitRating)
		authorized.DELETE("/ratings/:id", engagementHandler.DeleteRating)
		authorized.POST("/content/:kind/:id/comments", engagementHandler.AddComment)
		authorized.POST("/comments/:id/replies", engagementHandler.AddReply)
		authorized.PUT("/comments/:id", engagementHandler.EditComment)
		authorized.DELETE("/comments/:id", engagementHandler.DeleteComment)
	}

	// Moderation routes
	admin := r.Group("/admin")
	admin.Use(middleware.AdminRequired())
	{
		admin.GET("/pending", adminHandler.PendingQueue)
		admin.POST("/announcements/:id/verify", adminHandler.VerifyAnnouncement)
		admin.POST("/events/:id/verify", adminHandler.VerifyEvent)
		admin.POST("/announcements/:id/pin", adminHandler.TogglePinAnnouncement)
		admin.POST("/events/:id/pin", adminHandler.TogglePinEvent)
		admin.POST("/comments/:id/hide", adminHandler.HideComment)
	}

	return r
}
