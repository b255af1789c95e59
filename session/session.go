package session

import (
	"context"
	"sync"

	"github.com/signroom/signroom"
	"github.com/signroom/signroom/engine"
	"github.com/signroom/signroom/log"
)

// Session tracks who is driving the room and whose fields are being placed.
// Visibility of the editing UI and readiness to sign are not stored: both
// derive from the current user's role, so they can never disagree.
type Session struct {
	engine engine.Engine
	logger log.Logger

	mu             sync.Mutex
	currentUser    signroom.User
	currentSignee  signroom.User
	selectedSignee signroom.User
	loading        bool
	generation     uint64
}

// New starts a session driven by user. The initial signee is the first
// non-editor in the roster; when the roster only has editors the driving
// user doubles as signee, matching the bootstrap fallback of the original
// workflow.
func New(eng engine.Engine, logger log.Logger, user signroom.User, users []signroom.User) *Session {
	signee := user
	for _, u := range users {
		if !u.IsEditor() {
			signee = u
			break
		}
	}

	return &Session{
		engine:         eng,
		logger:         logger,
		currentUser:    user,
		currentSignee:  signee,
		selectedSignee: signee,
	}
}

func (s *Session) CurrentUser() signroom.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentUser
}

func (s *Session) CurrentSignee() signroom.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentSignee
}

func (s *Session) SelectedSignee() signroom.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedSignee
}

// IsVisible reports whether the editing sidebar and toolbar are shown.
func (s *Session) IsVisible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentUser.IsEditor()
}

// ReadyToSign reports whether the active user can sign, i.e. is not the
// editor. Always the negation of IsVisible.
func (s *Session) ReadyToSign() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.currentUser.IsEditor()
}

func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Session) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
}

func (s *Session) SetSelectedSignee(user signroom.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentSignee = user
	s.selectedSignee = user
}

// Retarget moves the active signee, e.g. after the previous one was
// deleted from the roster.
func (s *Session) Retarget(next signroom.User) {
	s.SetSelectedSignee(next)
}

// ChangeUser makes user the driving user, recomputes which signature form
// fields are writable for them (a field is editable only if it was created
// for the new user) and flips the view state to match the role. The scan is
// O(pages x annotations) and synchronous.
//
// Concurrent calls are sequenced with a generation counter: a recomputation
// that finishes after a newer ChangeUser started does not apply its result,
// so a stale switch can never overwrite a fresh one.
func (s *Session) ChangeUser(ctx context.Context, user signroom.User) error {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.currentUser = user
	s.mu.Unlock()

	mine := make(map[string]struct{})
	for i := 0; i < s.engine.PageCount(); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		annotations, err := s.engine.Annotations(i)
		if err != nil {
			return err
		}
		for _, ann := range annotations {
			if ann.CustomData != nil && ann.CustomData.SignerID == user.ID {
				mine[ann.ID] = struct{}{}
			}
		}
	}

	fields, err := s.engine.FormFields()
	if err != nil {
		return err
	}

	updated := make([]engine.FormField, len(fields))
	for i, field := range fields {
		_, isMine := mine[field.ID]
		field.ReadOnly = !isMine
		updated[i] = field
	}

	if s.stale(gen) {
		s.logger.Printf("dropping stale user switch for %s", user.Email)
		return nil
	}

	if err := s.engine.UpdateFormFields(updated); err != nil {
		return err
	}

	if s.stale(gen) {
		return nil
	}

	if user.IsEditor() {
		s.engine.SetViewState(engine.ViewState{
			ShowToolbar:     true,
			InteractionMode: engine.ModeFormCreator,
		})
	} else {
		s.engine.SetViewState(engine.ViewState{
			ShowToolbar:     false,
			InteractionMode: engine.ModePan,
		})
	}

	return nil
}

func (s *Session) stale(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gen != s.generation
}

// Snapshot is the session state as transports report it.
type Snapshot struct {
	CurrentUser    signroom.User `json:"currentUser"`
	CurrentSignee  signroom.User `json:"currentSignee"`
	SelectedSignee signroom.User `json:"selectedSignee"`
	IsVisible      bool          `json:"isVisible"`
	ReadyToSign    bool          `json:"readyToSign"`
	IsLoading      bool          `json:"isLoading"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		CurrentUser:    s.currentUser,
		CurrentSignee:  s.currentSignee,
		SelectedSignee: s.selectedSignee,
		IsVisible:      s.currentUser.IsEditor(),
		ReadyToSign:    !s.currentUser.IsEditor(),
		IsLoading:      s.loading,
	}
}
