package tracker

import (
	"sync"

	"github.com/signroom/signroom"
	"github.com/signroom/signroom/engine"
	"github.com/signroom/signroom/log"
)

// Kind classifies what a pressed field asks for: a stored signature or a
// stored initial. The classification travels with the press handling
// instead of living in shared mutable state, so rapid presses cannot race
// a read against a stale write.
type Kind string

const (
	KindSignature Kind = "signature"
	KindInitial   Kind = "initial"
)

// Tracker follows annotation lifecycle notifications from the engine and
// maintains the derived state custom rendering needs: the set of signature
// annotation ids belonging to the current user, the stored signature and
// initial galleries, and which digital-signature fields are already signed
// and must fall back to the engine's own rendering.
type Tracker struct {
	logger log.Logger

	mu           sync.Mutex
	currentEmail string
	mine         map[string]struct{}
	sigInfo      engine.SignaturesInfo

	signatures []engine.Annotation
	initials   []engine.Annotation

	unsubscribe []func()
}

func New(logger log.Logger) *Tracker {
	return &Tracker{
		logger: logger,
		mine:   make(map[string]struct{}),
	}
}

// Attach subscribes the tracker to the engine's lifecycle events. Detach
// undoes it.
func (t *Tracker) Attach(eng engine.Engine) {
	t.unsubscribe = append(t.unsubscribe,
		eng.Subscribe(engine.EventAnnotationsCreate, t.onCreate),
		eng.Subscribe(engine.EventAnnotationsDelete, t.onDelete),
		eng.Subscribe(engine.EventStoredSignatureCreate, t.onStoredCreate),
	)
}

func (t *Tracker) Detach() {
	for _, unsub := range t.unsubscribe {
		unsub()
	}
	t.unsubscribe = nil
}

// SetCurrentUser re-keys the "mine" tracking to a new user's email. The
// set is rebuilt lazily from subsequent create events; existing entries
// that no longer match are dropped here.
func (t *Tracker) SetCurrentUser(user signroom.User) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.currentEmail != user.Email {
		t.mine = make(map[string]struct{})
	}
	t.currentEmail = user.Email
}

// SetSignaturesInfo installs the document's digital signature status, as
// read after load or after a signing round-trip.
func (t *Tracker) SetSignaturesInfo(info engine.SignaturesInfo) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sigInfo = info
}

func (t *Tracker) onCreate(ev engine.Event) {
	ann := ev.Annotation
	if ann == nil || ann.CustomData == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.currentEmail != "" && ann.CustomData.SignerEmail == t.currentEmail {
		t.mine[ann.ID] = struct{}{}
	}
}

// onStoredCreate files a freshly stored signature into the gallery its own
// classification selects, so no press state has to be remembered.
func (t *Tracker) onStoredCreate(ev engine.Event) {
	if ev.Annotation == nil {
		return
	}
	t.Store(Classify(*ev.Annotation), *ev.Annotation)
}

func (t *Tracker) onDelete(ev engine.Event) {
	ann := ev.Annotation
	if ann == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.mine, ann.ID)
}

// MySignatureIDs returns the ids of the annotations owned by the current
// user, the set driving custom placeholder rendering.
func (t *Tracker) MySignatureIDs() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	ids := make([]string, 0, len(t.mine))
	for id := range t.mine {
		ids = append(ids, id)
	}
	return ids
}

// RenderDecision says how an annotation should be drawn.
type RenderDecision int

const (
	// RenderDefault leaves the annotation to the engine's own renderer.
	RenderDefault RenderDecision = iota
	// RenderPlaceholder draws the custom placeholder for the current
	// user's own field.
	RenderPlaceholder
)

// Decide returns the rendering decision for an annotation. Once the
// document is digitally signed, ds fields whose form field carries a
// signature are never special-cased again.
func (t *Tracker) Decide(ann engine.Annotation) RenderDecision {
	t.mu.Lock()
	defer t.mu.Unlock()

	if ann.CustomData != nil && ann.CustomData.Type == signroom.AnnotationDS &&
		t.sigInfo.Signed() && t.sigInfo.FieldSigned(ann.FormFieldName) {
		return RenderDefault
	}

	if _, ok := t.mine[ann.ID]; ok {
		return RenderPlaceholder
	}
	return RenderDefault
}

// Classify reads a pressed annotation into the gallery kind it should
// offer next.
func Classify(ann engine.Annotation) Kind {
	if ann.CustomData != nil && ann.CustomData.IsInitial {
		return KindInitial
	}
	return KindSignature
}

// Press handles an annotation press: it classifies the field and returns
// the classification together with the matching stored gallery.
func (t *Tracker) Press(ann engine.Annotation) (Kind, []engine.Annotation) {
	kind := Classify(ann)
	return kind, t.Gallery(kind)
}

// Store appends a freshly stored signature or initial to the gallery named
// by the press classification that triggered it.
func (t *Tracker) Store(kind Kind, ann engine.Annotation) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if kind == KindInitial {
		t.initials = append(t.initials, ann)
		return
	}
	t.signatures = append(t.signatures, ann)
}

// Gallery returns a copy of the stored gallery for kind.
func (t *Tracker) Gallery(kind Kind) []engine.Annotation {
	t.mu.Lock()
	defer t.mu.Unlock()

	src := t.signatures
	if kind == KindInitial {
		src = t.initials
	}

	out := make([]engine.Annotation, len(src))
	copy(out, src)
	return out
}
