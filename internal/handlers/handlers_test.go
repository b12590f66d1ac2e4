package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"osiedle/internal/db"
	"osiedle/internal/models"
	"osiedle/internal/router"
)

type app struct {
	db     *gorm.DB
	server *httptest.Server
}

func newApp(t *testing.T) *app {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.Migrate(gdb))

	engine := router.New(gdb, zap.NewNop())
	// Test-only login endpoint; session issuance is otherwise external.
	engine.POST("/test-login/:id", func(c *gin.Context) {
		session := sessions.Default(c)
		session.Set("user_id", c.Param("id"))
		require.NoError(t, session.Save())
		c.Status(http.StatusNoContent)
	})

	server := httptest.NewServer(engine)
	t.Cleanup(server.Close)
	return &app{db: gdb, server: server}
}

func (a *app) client(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func (a *app) login(t *testing.T, client *http.Client, userID uint) {
	t.Helper()
	resp, err := client.Post(fmt.Sprintf("%s/test-login/%d", a.server.URL, userID), "", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func (a *app) do(t *testing.T, client *http.Client, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, a.server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func (a *app) createUser(t *testing.T, username, role string) models.User {
	t.Helper()
	user := models.User{Username: username, Email: username + "@example.com", Role: role}
	require.NoError(t, a.db.Create(&user).Error)
	return user
}

func TestAnonymousSubmissionAwaitsVerification(t *testing.T) {
	a := newApp(t)
	client := a.client(t)

	resp, body := a.do(t, client, http.MethodPost, "/announcements", gin.H{
		"title":       "Room to rent",
		"place":       "Ursynow",
		"rooms":       1,
		"price":       1200.0,
		"description": "Small but cozy.",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Announcement is awaiting verification by the administrators.", body["message"])

	// The pending announcement stays out of the public listing.
	resp, body = a.do(t, client, http.MethodGet, "/announcements", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 0, body["total_count"])
}

func TestLoggedInSubmissionGoesLive(t *testing.T) {
	a := newApp(t)
	user := a.createUser(t, "alice", models.RoleUser)
	client := a.client(t)
	a.login(t, client, user.ID)

	resp, body := a.do(t, client, http.MethodPost, "/announcements", gin.H{
		"title":       "Flat with balcony",
		"place":       "Wola",
		"rooms":       3,
		"price":       3200.0,
		"description": "Third floor, elevator.",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Announcement has been added.", body["message"])

	resp, body = a.do(t, client, http.MethodGet, "/announcements", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, body["total_count"])
}

func TestWriteRoutesRequireSession(t *testing.T) {
	a := newApp(t)
	client := a.client(t)

	resp, _ := a.do(t, client, http.MethodPut, "/announcements/1", gin.H{"title": "x"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = a.do(t, client, http.MethodPost, "/content/announcement/1/ratings", gin.H{"score": 5})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdminGate(t *testing.T) {
	a := newApp(t)
	user := a.createUser(t, "alice", models.RoleUser)
	admin := a.createUser(t, "root", models.RoleAdmin)

	anon := a.client(t)
	resp, _ := a.do(t, anon, http.MethodGet, "/admin/pending", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	asUser := a.client(t)
	a.login(t, asUser, user.ID)
	resp, _ = a.do(t, asUser, http.MethodGet, "/admin/pending", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	asAdmin := a.client(t)
	a.login(t, asAdmin, admin.ID)
	resp, _ = a.do(t, asAdmin, http.MethodGet, "/admin/pending", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUnknownContentKindIs404(t *testing.T) {
	a := newApp(t)
	client := a.client(t)

	resp, _ := a.do(t, client, http.MethodGet, "/content/poll/1/ratings", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRatingSubmitThenUpdate(t *testing.T) {
	a := newApp(t)
	user := a.createUser(t, "alice", models.RoleUser)
	announcement := models.Announcement{
		Title: "Rated flat", Place: "Wola", Rooms: 2, Price: 2000,
		Description: "d", IsVerified: true,
	}
	require.NoError(t, a.db.Create(&announcement).Error)

	client := a.client(t)
	a.login(t, client, user.ID)
	path := fmt.Sprintf("/content/announcement/%d/ratings", announcement.ID)

	resp, body := a.do(t, client, http.MethodPost, path, gin.H{"score": 8})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Thank you for rating!", body["message"])

	resp, body = a.do(t, client, http.MethodPost, path, gin.H{"score": 6})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Your rating has been updated.", body["message"])

	resp, body = a.do(t, client, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 6, body["average"])
	assert.EqualValues(t, 1, body["count"])
	assert.EqualValues(t, 6, body["viewer_score"])
}

func TestCommentThreadOverHTTP(t *testing.T) {
	a := newApp(t)
	alice := a.createUser(t, "alice", models.RoleUser)
	bob := a.createUser(t, "bob", models.RoleUser)
	event := models.Event{
		Name: "Yard sale", Location: "Parking Lot", Description: "d", IsVerified: true,
	}
	require.NoError(t, a.db.Create(&event).Error)

	asAlice := a.client(t)
	a.login(t, asAlice, alice.ID)
	path := fmt.Sprintf("/content/event/%d/comments", event.ID)

	resp, body := a.do(t, asAlice, http.MethodPost, path, gin.H{"content": "What time does it start?"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	comment := body["comment"].(map[string]any)
	commentID := int(comment["id"].(float64))

	asBob := a.client(t)
	a.login(t, asBob, bob.ID)
	resp, body = a.do(t, asBob, http.MethodPost, fmt.Sprintf("/comments/%d/replies", commentID), gin.H{"content": "Nine sharp."})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	reply := body["comment"].(map[string]any)
	replyID := int(reply["id"].(float64))

	// One level deep only.
	resp, _ = a.do(t, asAlice, http.MethodPost, fmt.Sprintf("/comments/%d/replies", replyID), gin.H{"content": "deeper"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = a.do(t, asAlice, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	comments := body["comments"].([]any)
	require.Len(t, comments, 1)
	top := comments[0].(map[string]any)
	assert.Len(t, top["replies"].([]any), 1)
}

func TestGalleryPhotoPagination(t *testing.T) {
	a := newApp(t)
	user := a.createUser(t, "alice", models.RoleUser)
	gallery := models.Gallery{Title: "Picnic", Description: "d", Slug: "picnic", CreatorID: user.ID}
	require.NoError(t, a.db.Create(&gallery).Error)
	for i := 0; i < 9; i++ {
		require.NoError(t, a.db.Create(&models.Photo{
			GalleryID: gallery.ID,
			Title:     fmt.Sprintf("photo %d", i),
			Image:     fmt.Sprintf("p%d.jpg", i),
		}).Error)
	}

	client := a.client(t)
	resp, body := a.do(t, client, http.MethodGet, "/galleries/picnic?page=2", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 2, body["page"])
	assert.EqualValues(t, 3, body["total_pages"])
	assert.Len(t, body["photos"].([]any), 4)

	// Out of range clamps to the last page.
	resp, body = a.do(t, client, http.MethodGet, "/galleries/picnic?page=42", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 3, body["page"])
	assert.Len(t, body["photos"].([]any), 1)
}
