package roster

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/signroom/signroom"
	"github.com/signroom/signroom/errors"
	"github.com/signroom/signroom/log"
)

// Service is the user registry of a signing room: the bootstrap roster plus
// the signees added along the way, each with a display color drawn from the
// shared palette.
type Service struct {
	repository signroom.UserRepository
	logger     log.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

func NewService(repo signroom.UserRepository, logger log.Logger) *Service {
	return &Service{
		repository: repo,
		logger:     logger,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Seed replaces the random source. Tests use it to make color assignment
// deterministic.
func (s *Service) Seed(seed int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rng = rand.New(rand.NewSource(seed))
}

// Bootstrap inserts the default users when the roster is empty.
func (s *Service) Bootstrap() error {
	users, err := s.repository.List()
	if err != nil {
		return err
	}
	if len(users) > 0 {
		return nil
	}

	for _, user := range signroom.DefaultUsers() {
		user := user
		if err := s.repository.Upsert(&user); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) Get(id int) (signroom.User, error) {
	user, err := s.repository.Get(id)
	if err != nil {
		return signroom.User{}, err
	}

	if user.ID == 0 {
		return signroom.User{}, errUserNotFound(id)
	}
	return user, nil
}

func (s *Service) List() ([]signroom.User, error) {
	return s.repository.List()
}

// AddSignee registers a signee under the id derived from its email. Adding
// the same email twice returns the existing user unchanged.
func (s *Service) AddSignee(name, email string) (signroom.User, error) {
	if name == "" || email == "" {
		return signroom.User{}, errors.New(
			"please enter both name and email",
			errors.BadRequest(),
		)
	}

	id := HashEmail(email)

	existing, err := s.repository.Get(id)
	if err != nil {
		return signroom.User{}, err
	}
	if existing.ID != 0 {
		return existing, nil
	}

	existing, err = s.repository.GetByEmail(email)
	if err != nil {
		return signroom.User{}, err
	}
	if existing.ID != 0 {
		return existing, nil
	}

	users, err := s.repository.List()
	if err != nil {
		return signroom.User{}, err
	}

	color := s.allocateColor(users)
	user := signroom.User{
		ID:    id,
		Name:  name,
		Email: email,
		Color: &color,
		Role:  signroom.RoleSigner,
	}

	if err := s.repository.Upsert(&user); err != nil {
		return signroom.User{}, err
	}

	return user, nil
}

// Delete removes a user. Deleting the last remaining signer is rejected so
// the room always has somebody left to sign. The returned user is the next
// signee in roster order, the one the caller should re-target when the
// deleted user was the active signee.
func (s *Service) Delete(id int) (signroom.User, error) {
	user, err := s.repository.Get(id)
	if err != nil {
		return signroom.User{}, err
	}
	if user.ID == 0 {
		return signroom.User{}, errUserNotFound(id)
	}

	users, err := s.repository.List()
	if err != nil {
		return signroom.User{}, err
	}

	if !user.IsEditor() {
		remaining := 0
		for _, u := range users {
			if u.ID != user.ID && !u.IsEditor() {
				remaining++
			}
		}
		if remaining == 0 {
			return signroom.User{}, errors.New(
				"cannot delete the last signer. At least one signer must remain",
				errors.BadRequest(),
			)
		}
	}

	if err := s.repository.Delete(user.ID); err != nil {
		return signroom.User{}, err
	}

	next, err := s.NextSignee(user.ID)
	if err != nil {
		return signroom.User{}, err
	}
	if next.ID == 0 {
		// Unreachable given the guard above.
		return signroom.User{}, errors.New("no signee left")
	}

	return next, nil
}

// NextSignee returns the first non-editor user in roster order, skipping
// excludeID. Zero-ID user when there is none.
func (s *Service) NextSignee(excludeID int) (signroom.User, error) {
	users, err := s.repository.List()
	if err != nil {
		return signroom.User{}, err
	}

	for _, u := range users {
		if u.ID != excludeID && !u.IsEditor() {
			return u, nil
		}
	}
	return signroom.User{}, nil
}

// allocateColor picks a palette color nobody uses; a full palette falls
// back to a uniform pick over all entries, duplicates allowed.
func (s *Service) allocateColor(users []signroom.User) signroom.Color {
	used := make(map[signroom.Color]struct{})
	for _, u := range users {
		if u.Color != nil {
			used[*u.Color] = struct{}{}
		}
	}

	available := make([]signroom.Color, 0, len(signroom.Palette))
	for _, c := range signroom.Palette {
		if _, ok := used[c]; !ok {
			available = append(available, c)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(available) == 0 {
		return signroom.Palette[s.rng.Intn(len(signroom.Palette))]
	}
	return available[s.rng.Intn(len(available))]
}

func errUserNotFound(id int) error {
	return errors.New(fmt.Sprintf("<User %d> not found", id), errors.NotFound())
}
