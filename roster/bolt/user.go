package bolt

import (
	"encoding/binary"
	"encoding/json"

	"github.com/boltdb/bolt"

	"github.com/signroom/signroom"
)

var userBucket = []byte("users")

// UserRepository persists the roster in bolt. Users are keyed by an
// insertion sequence so iteration preserves roster order; lookups scan the
// bucket, which is fine for a roster of a handful of signees.
type UserRepository struct {
	Driver *Driver
}

func (r *UserRepository) Get(id int) (signroom.User, error) {
	var user signroom.User
	err := r.Driver.store.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(userBucket)

		c := bucket.Cursor()
		for k, data := c.First(); k != nil; k, data = c.Next() {
			var u signroom.User
			if err := json.Unmarshal(data, &u); err != nil {
				return err
			}
			if u.ID == id {
				user = u
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return signroom.User{}, err
	}

	return user, nil
}

func (r *UserRepository) GetByEmail(email string) (signroom.User, error) {
	var user signroom.User
	err := r.Driver.store.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(userBucket)

		c := bucket.Cursor()
		for k, data := c.First(); k != nil; k, data = c.Next() {
			var u signroom.User
			if err := json.Unmarshal(data, &u); err != nil {
				return err
			}
			if u.Email == email {
				user = u
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return signroom.User{}, err
	}

	return user, nil
}

func (r *UserRepository) List() ([]signroom.User, error) {
	users := make([]signroom.User, 0)

	err := r.Driver.store.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(userBucket)

		c := bucket.Cursor()
		for k, data := c.First(); k != nil; k, data = c.Next() {
			var user signroom.User
			if err := json.Unmarshal(data, &user); err != nil {
				return err
			}
			users = append(users, user)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return users, nil
}

func (r *UserRepository) Upsert(user *signroom.User) error {
	return r.Driver.store.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(userBucket)

		data, err := json.Marshal(user)
		if err != nil {
			return err
		}

		c := bucket.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var u signroom.User
			if err := json.Unmarshal(v, &u); err != nil {
				return err
			}
			if u.ID == user.ID {
				return bucket.Put(k, data)
			}
		}

		seq, err := bucket.NextSequence()
		if err != nil {
			return err
		}
		return bucket.Put(itob(seq), data)
	})
}

func (r *UserRepository) Delete(id int) error {
	return r.Driver.store.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(userBucket)

		c := bucket.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var u signroom.User
			if err := json.Unmarshal(v, &u); err != nil {
				return err
			}
			if u.ID == id {
				return bucket.Delete(k)
			}
		}
		return nil
	})
}

func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
