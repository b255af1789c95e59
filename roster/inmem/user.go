package inmem

import (
	"sync"

	"github.com/signroom/signroom"
)

// UserRepository keeps the roster in memory, in insertion order. Insertion
// order matters: the next-signee fallback picks the first remaining signer.
type UserRepository struct {
	mu    sync.Mutex
	users []signroom.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users: make([]signroom.User, 0),
	}
}

func (r *UserRepository) Get(id int) (signroom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.ID == id {
			return user, nil
		}
	}
	return signroom.User{}, nil
}

func (r *UserRepository) GetByEmail(email string) (signroom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return signroom.User{}, nil
}

func (r *UserRepository) List() ([]signroom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := make([]signroom.User, len(r.users))
	copy(users, r.users)
	return users, nil
}

func (r *UserRepository) Upsert(user *signroom.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, u := range r.users {
		if u.ID == user.ID {
			r.users[i] = *user
			return nil
		}
	}

	r.users = append(r.users, *user)
	return nil
}

func (r *UserRepository) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, user := range r.users {
		if user.ID == id {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return nil
		}
	}
	return nil
}
