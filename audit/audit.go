package audit

import (
	"time"

	"github.com/signroom/signroom"
)

// Kind tags what happened in the signing room.
type Kind string

const (
	KindSigneeAdded    Kind = "signee-added"
	KindUserDeleted    Kind = "user-deleted"
	KindUserSwitched   Kind = "user-switched"
	KindFieldPlaced    Kind = "field-placed"
	KindDocumentSigned Kind = "document-signed"
)

// Record is one entry of the room's audit trail.
type Record struct {
	ID        int       `json:"id"`
	At        time.Time `json:"at"`
	Kind      Kind      `json:"kind"`
	UserID    int       `json:"userID"`
	UserEmail string    `json:"userEmail"`
	Detail    string    `json:"detail"`
}

// Index is the search side of the trail.
type Index interface {
	Index(Record) error
	Delete(id int) error
	Search(q string, limit, offset int) ([]int, error)
}

// NewRecord builds an unsaved record for a user action.
func NewRecord(kind Kind, user signroom.User, detail string) Record {
	return Record{
		At:        time.Now(),
		Kind:      kind,
		UserID:    user.ID,
		UserEmail: user.Email,
		Detail:    detail,
	}
}
