package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"osiedle/internal/models"
)

func TestAddValidatesContent(t *testing.T) {
	gdb := newTestDB(t)
	tree := NewCommentTree(gdb, testLogger())
	user := createUser(t, gdb, "alice")
	a := createAnnouncement(t, gdb, nil)

	_, err := tree.Add(a, user.ID, "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = tree.Add(a, user.ID, strings.Repeat("x", models.MaxCommentLength+1))
	assert.ErrorIs(t, err, ErrValidation)

	// Length is counted in runes, not bytes.
	_, err = tree.Add(a, user.ID, strings.Repeat("ż", models.MaxCommentLength))
	assert.NoError(t, err)
}

func TestReplyInheritsParentAnchor(t *testing.T) {
	gdb := newTestDB(t)
	tree := NewCommentTree(gdb, testLogger())
	alice := createUser(t, gdb, "alice")
	bob := createUser(t, gdb, "bob")
	a := createAnnouncement(t, gdb, nil)

	parent, err := tree.Add(a, alice.ID, "Is the flat still available?")
	require.NoError(t, err)

	reply, err := tree.Reply(parent.ID, bob.ID, "Yes, call me.")
	require.NoError(t, err)
	assert.Equal(t, parent.Kind, reply.Kind)
	assert.Equal(t, parent.EntityID, reply.EntityID)
	require.NotNil(t, reply.ParentID)
	assert.Equal(t, parent.ID, *reply.ParentID)
	assert.True(t, reply.IsReply())
}

func TestReplyToReplyIsRejected(t *testing.T) {
	gdb := newTestDB(t)
	tree := NewCommentTree(gdb, testLogger())
	user := createUser(t, gdb, "alice")
	a := createAnnouncement(t, gdb, nil)

	parent, err := tree.Add(a, user.ID, "top")
	require.NoError(t, err)
	reply, err := tree.Reply(parent.ID, user.ID, "first level")
	require.NoError(t, err)

	_, err = tree.Reply(reply.ID, user.ID, "second level")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestReplyToMissingParent(t *testing.T) {
	gdb := newTestDB(t)
	tree := NewCommentTree(gdb, testLogger())
	user := createUser(t, gdb, "alice")

	_, err := tree.Reply(9999, user.ID, "hello?")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEditOnlyByAuthor(t *testing.T) {
	gdb := newTestDB(t)
	tree := NewCommentTree(gdb, testLogger())
	alice := createUser(t, gdb, "alice")
	bob := createUser(t, gdb, "bob")
	a := createAnnouncement(t, gdb, nil)

	comment, err := tree.Add(a, alice.ID, "original")
	require.NoError(t, err)

	_, err = tree.Edit(comment.ID, bob.ID, "hijacked")
	assert.ErrorIs(t, err, ErrPermissionDenied)

	edited, err := tree.Edit(comment.ID, alice.ID, "corrected")
	require.NoError(t, err)
	assert.Equal(t, "corrected", edited.Content)
}

func TestDeactivateHidesFromListingKeepsReplies(t *testing.T) {
	gdb := newTestDB(t)
	tree := NewCommentTree(gdb, testLogger())
	alice := createUser(t, gdb, "alice")
	bob := createUser(t, gdb, "bob")
	a := createAnnouncement(t, gdb, nil)

	parent, err := tree.Add(a, alice.ID, "top")
	require.NoError(t, err)
	_, err = tree.Reply(parent.ID, bob.ID, "reply")
	require.NoError(t, err)

	require.NoError(t, tree.Deactivate(parent.ID, alice.ID, false))

	nodes, err := tree.ListTopLevel(a)
	require.NoError(t, err)
	assert.Empty(t, nodes)

	// The row survives and its replies stay addressable.
	replies, err := tree.Replies(parent.ID)
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Equal(t, "reply", replies[0].Content)

	count, err := tree.Count(a)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestDeactivatePermissions(t *testing.T) {
	gdb := newTestDB(t)
	tree := NewCommentTree(gdb, testLogger())
	alice := createUser(t, gdb, "alice")
	bob := createUser(t, gdb, "bob")
	a := createAnnouncement(t, gdb, nil)

	comment, err := tree.Add(a, alice.ID, "top")
	require.NoError(t, err)

	err = tree.Deactivate(comment.ID, bob.ID, false)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	// Admins moderate anyone's comment.
	assert.NoError(t, tree.Deactivate(comment.ID, bob.ID, true))
}

func TestDeleteRemovesRepliesToo(t *testing.T) {
	gdb := newTestDB(t)
	tree := NewCommentTree(gdb, testLogger())
	alice := createUser(t, gdb, "alice")
	bob := createUser(t, gdb, "bob")
	a := createAnnouncement(t, gdb, nil)

	parent, err := tree.Add(a, alice.ID, "top")
	require.NoError(t, err)
	_, err = tree.Reply(parent.ID, bob.ID, "reply one")
	require.NoError(t, err)
	_, err = tree.Reply(parent.ID, bob.ID, "reply two")
	require.NoError(t, err)

	require.NoError(t, tree.Delete(parent.ID, alice.ID, false))

	count, err := tree.Count(a)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestListTopLevelShapesTheTree(t *testing.T) {
	gdb := newTestDB(t)
	tree := NewCommentTree(gdb, testLogger())
	alice := createUser(t, gdb, "alice")
	bob := createUser(t, gdb, "bob")
	a := createAnnouncement(t, gdb, nil)

	first, err := tree.Add(a, alice.ID, "first")
	require.NoError(t, err)
	second, err := tree.Add(a, bob.ID, "second")
	require.NoError(t, err)

	r1, err := tree.Reply(first.ID, bob.ID, "reply one")
	require.NoError(t, err)
	r2, err := tree.Reply(first.ID, alice.ID, "reply two")
	require.NoError(t, err)

	// A hidden reply disappears from the node.
	require.NoError(t, tree.Deactivate(r2.ID, alice.ID, false))

	nodes, err := tree.ListTopLevel(a)
	require.NoError(t, err)
	require.Len(t, nodes, 2)

	// Replies stay in insertion order under their parent.
	var firstNode *Node
	for i := range nodes {
		if nodes[i].ID == first.ID {
			firstNode = &nodes[i]
		}
	}
	require.NotNil(t, firstNode)
	require.Len(t, firstNode.Replies, 1)
	assert.Equal(t, r1.ID, firstNode.Replies[0].ID)

	for i := range nodes {
		if nodes[i].ID == second.ID {
			assert.Empty(t, nodes[i].Replies)
		}
	}
}
