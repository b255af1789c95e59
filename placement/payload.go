package placement

import (
	"fmt"
	"strings"

	"github.com/signroom/signroom"
)

// Payload is the drag payload a field panel entry carries through a drag
// gesture: signee name, signee email, an instant id and the field type,
// joined with '%'. The embedded instant id is regenerated at drop time, so
// it only serves to keep the on-wire shape stable.
type Payload struct {
	Name      string
	Email     string
	InstantID string
	Type      signroom.AnnotationType
}

func ParsePayload(s string) (Payload, error) {
	parts := strings.Split(s, "%")
	if len(parts) != 4 {
		return Payload{}, fmt.Errorf("malformed drag payload: %q", s)
	}

	return Payload{
		Name:      parts[0],
		Email:     parts[1],
		InstantID: parts[2],
		Type:      signroom.AnnotationType(parts[3]),
	}, nil
}

func (p Payload) Encode() string {
	return strings.Join([]string{p.Name, p.Email, p.InstantID, string(p.Type)}, "%")
}
