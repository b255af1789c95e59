package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signroom/signroom"
)

// TestUserRepository checks an implementation of signroom.UserRepository.
// Both the inmem and the bolt repositories run it.
func TestUserRepository(t *testing.T, repo signroom.UserRepository) {
	users := []*signroom.User{
		{
			ID:    1,
			Name:  "Admin",
			Email: "admin@email.com",
			Role:  signroom.RoleEditor,
		},
		{
			ID:    2,
			Name:  "Signer 1",
			Email: "signer1@email.com",
			Role:  signroom.RoleSigner,
		},
		{
			ID:    1042,
			Name:  "Bob",
			Email: "bob@x.com",
			Color: &signroom.Color{R: 162, G: 233, B: 132},
			Role:  signroom.RoleSigner,
		},
	}

	for _, user := range users {
		require.NoError(t, repo.Upsert(user), "inserting %s must not fail", user.Name)
	}

	for _, user := range users {
		retrieved, err := repo.Get(user.ID)
		require.NoError(t, err, "getting %s must not fail", user.Name)
		assert.Equal(t, *user, retrieved)
	}

	retrieved, err := repo.Get(9999)
	require.NoError(t, err, "getting an unknown id must not fail")
	assert.Equal(t, 0, retrieved.ID, "unknown id should come back as a zero user")

	retrieved, err = repo.GetByEmail("bob@x.com")
	require.NoError(t, err)
	assert.Equal(t, *users[2], retrieved)

	retrieved, err = repo.GetByEmail("nobody@x.com")
	require.NoError(t, err)
	assert.Equal(t, 0, retrieved.ID)

	list, err := repo.List()
	require.NoError(t, err, "listing must not fail")
	require.Len(t, list, len(users))
	for i, user := range users {
		assert.Equal(t, *user, list[i], "list should preserve insertion order")
	}

	// Upsert updates in place.
	users[2].Name = "Bobby"
	require.NoError(t, repo.Upsert(users[2]))
	retrieved, err = repo.Get(users[2].ID)
	require.NoError(t, err)
	assert.Equal(t, "Bobby", retrieved.Name)

	list, err = repo.List()
	require.NoError(t, err)
	assert.Len(t, list, len(users), "upsert should not duplicate")

	// Delete.
	require.NoError(t, repo.Delete(2))
	retrieved, err = repo.Get(2)
	require.NoError(t, err)
	assert.Equal(t, 0, retrieved.ID, "deleted user should be gone")

	require.NoError(t, repo.Delete(9999), "deleting an unknown id is a no-op")

	list, err = repo.List()
	require.NoError(t, err)
	assert.Len(t, list, len(users)-1)
}
