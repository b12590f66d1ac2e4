package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"osiedle/internal/models"
)

func TestResolveKnownKinds(t *testing.T) {
	gdb := newTestDB(t)
	resolver := NewResolver(gdb)
	user := createUser(t, gdb, "alice")

	a := createAnnouncement(t, gdb, &user.ID)
	e := createEvent(t, gdb, &user.ID)
	g := createGallery(t, gdb, user.ID)
	photo := models.Photo{GalleryID: g.ID, Title: "Grill", Image: "grill.jpg"}
	require.NoError(t, gdb.Create(&photo).Error)

	cases := []struct {
		kind models.Kind
		id   uint
	}{
		{models.KindAnnouncement, a.ID},
		{models.KindEvent, e.ID},
		{models.KindGallery, g.ID},
		{models.KindPhoto, photo.ID},
	}
	for _, tc := range cases {
		entity, err := resolver.Resolve(tc.kind, tc.id)
		require.NoError(t, err, "kind %s", tc.kind)
		assert.Equal(t, tc.kind, entity.ContentKind())
		assert.Equal(t, tc.id, entity.ContentID())
	}
}

func TestResolveUnknownKind(t *testing.T) {
	gdb := newTestDB(t)
	resolver := NewResolver(gdb)

	_, err := resolver.Resolve("poll", 1)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = resolver.Resolve("", 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveMissingRow(t *testing.T) {
	gdb := newTestDB(t)
	resolver := NewResolver(gdb)

	_, err := resolver.Resolve(models.KindAnnouncement, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolvePhotoCarriesGalleryOwnership(t *testing.T) {
	gdb := newTestDB(t)
	resolver := NewResolver(gdb)
	user := createUser(t, gdb, "alice")
	g := createGallery(t, gdb, user.ID)
	photo := models.Photo{GalleryID: g.ID, Title: "Grill", Image: "grill.jpg"}
	require.NoError(t, gdb.Create(&photo).Error)

	entity, err := resolver.Resolve(models.KindPhoto, photo.ID)
	require.NoError(t, err)
	owner := entity.OwnerID()
	require.NotNil(t, owner)
	assert.Equal(t, user.ID, *owner)
}

func TestDeleteSweepsAttachments(t *testing.T) {
	gdb := newTestDB(t)
	resolver := NewResolver(gdb)
	ledger := NewRatingLedger(gdb, testLogger())
	tree := NewCommentTree(gdb, testLogger())
	user := createUser(t, gdb, "alice")
	a := createAnnouncement(t, gdb, &user.ID)

	_, err := ledger.Submit(a, user.ID, 8)
	require.NoError(t, err)
	_, err = tree.Add(a, user.ID, "nice flat")
	require.NoError(t, err)

	require.NoError(t, resolver.Delete(a))

	var ratings, comments, rows int64
	gdb.Model(&models.Rating{}).Count(&ratings)
	gdb.Model(&models.Comment{}).Count(&comments)
	gdb.Model(&models.Announcement{}).Count(&rows)
	assert.Zero(t, ratings)
	assert.Zero(t, comments)
	assert.Zero(t, rows)
}

func TestDeleteGallerySweepsPhotosAndTheirAttachments(t *testing.T) {
	gdb := newTestDB(t)
	resolver := NewResolver(gdb)
	ledger := NewRatingLedger(gdb, testLogger())
	tree := NewCommentTree(gdb, testLogger())
	user := createUser(t, gdb, "alice")
	g := createGallery(t, gdb, user.ID)

	photo := models.Photo{GalleryID: g.ID, Title: "Grill", Image: "grill.jpg"}
	require.NoError(t, gdb.Create(&photo).Error)

	_, err := ledger.Submit(&photo, user.ID, 7)
	require.NoError(t, err)
	_, err = tree.Add(&photo, user.ID, "great shot")
	require.NoError(t, err)
	_, err = tree.Add(g, user.ID, "great album")
	require.NoError(t, err)

	require.NoError(t, resolver.Delete(g))

	var photos, ratings, comments int64
	gdb.Model(&models.Photo{}).Count(&photos)
	gdb.Model(&models.Rating{}).Count(&ratings)
	gdb.Model(&models.Comment{}).Count(&comments)
	assert.Zero(t, photos)
	assert.Zero(t, ratings)
	assert.Zero(t, comments)
}
