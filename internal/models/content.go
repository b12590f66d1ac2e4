package models

// Kind identifies which content type a rating or comment is attached to.
// The set is closed: anything outside these four constants is rejected by
// the resolver.
type Kind string

const (
	KindAnnouncement Kind = "announcement"
	KindEvent        Kind = "event"
	KindGallery      Kind = "gallery"
	KindPhoto        Kind = "photo"
)

func (k Kind) Valid() bool {
	switch k {
	case KindAnnouncement, KindEvent, KindGallery, KindPhoto:
		return true
	}
	return false
}

// Entity is anything ratings and comments can attach to.
type Entity interface {
	ContentKind() Kind
	ContentID() uint
	// OwnerID returns the creator, or nil for anonymous submissions.
	OwnerID() *uint
}

// Archivable unifies the two archival representations: announcements and
// polls store a nullable archive timestamp, events a plain boolean.
type Archivable interface {
	Archived() bool
	SetArchived(bool)
	OwnerID() *uint
}

// Verifiable is implemented by content that needs moderation before it
// shows up in public listings.
type Verifiable interface {
	Verified() bool
	SetVerified(bool)
}
