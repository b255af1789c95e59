package signroom

import (
	"encoding/json"
	"fmt"
)

// Role is the closed set of roles a participant can have in a signing room.
type Role int

const (
	RoleEditor Role = iota
	RoleSigner
)

func (r Role) String() string {
	switch r {
	case RoleEditor:
		return "Editor"
	case RoleSigner:
		return "Signer"
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	switch s {
	case "Editor":
		*r = RoleEditor
	case "Signer", "signee":
		// "signee" is the legacy role string for ad-hoc added signers.
		*r = RoleSigner
	default:
		return fmt.Errorf("unknown role %q", s)
	}
	return nil
}

type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Color *Color `json:"color,omitempty"`
	Role  Role   `json:"role"`
}

// IsEditor reports whether the user drives the editing UI. Everything the
// session state machine derives (toolbar visibility, ready-to-sign) hangs
// off this single predicate.
func (u User) IsEditor() bool {
	return u.Role == RoleEditor
}

type UserRepository interface {
	Get(int) (User, error)
	GetByEmail(string) (User, error)
	Upsert(*User) error
	Delete(int) error

	List() ([]User, error)
}

// DefaultUsers is the bootstrap roster: an editor arranging the fields and
// one signer, with the fixed ids every session starts from.
func DefaultUsers() []User {
	return []User{
		{ID: 1, Name: "Admin", Email: "admin@email.com", Role: RoleEditor},
		{ID: 2, Name: "Signer 1", Email: "signer1@email.com", Role: RoleSigner},
	}
}
