package audit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signroom/signroom"
	"github.com/signroom/signroom/log"
)

type fakeIndex struct {
	records map[int]Record
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{records: make(map[int]Record)}
}

func (i *fakeIndex) Index(r Record) error {
	i.records[r.ID] = r
	return nil
}

func (i *fakeIndex) Delete(id int) error {
	delete(i.records, id)
	return nil
}

func (i *fakeIndex) Search(q string, limit, offset int) ([]int, error) {
	q = strings.ToLower(q)
	ids := make([]int, 0, len(i.records))
	for id := 1; id < len(i.records)+1; id++ {
		r, ok := i.records[id]
		if !ok {
			continue
		}
		text := strings.ToLower(string(r.Kind) + " " + r.UserEmail + " " + r.Detail)
		if strings.Contains(text, q) {
			ids = append(ids, id)
		}
	}

	if offset >= len(ids) {
		return []int{}, nil
	}
	ids = ids[offset:]
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func TestService_Append(t *testing.T) {
	service := NewService(newFakeIndex(), log.New("test"))

	admin := signroom.User{ID: 1, Name: "Admin", Email: "admin@email.com", Role: signroom.RoleEditor}

	r1, err := service.Append(NewRecord(KindSigneeAdded, admin, "added Bob"))
	require.NoError(t, err)
	r2, err := service.Append(NewRecord(KindUserSwitched, admin, "now driving"))
	require.NoError(t, err)

	assert.Equal(t, 1, r1.ID)
	assert.Equal(t, 2, r2.ID)
	assert.False(t, r1.At.IsZero())

	got, err := service.Get(r1.ID)
	require.NoError(t, err)
	assert.Equal(t, r1, got)

	_, err = service.Get(42)
	assert.Error(t, err)
}

func TestService_Search(t *testing.T) {
	service := NewService(newFakeIndex(), log.New("test"))

	admin := signroom.User{ID: 1, Name: "Admin", Email: "admin@email.com", Role: signroom.RoleEditor}
	signer := signroom.User{ID: 2, Name: "Signer 1", Email: "signer1@email.com", Role: signroom.RoleSigner}

	for _, r := range []Record{
		NewRecord(KindSigneeAdded, admin, "added Bob"),
		NewRecord(KindFieldPlaced, signer, "signature on page 0"),
		NewRecord(KindDocumentSigned, signer, "signed document"),
	} {
		_, err := service.Append(r)
		require.NoError(t, err)
	}

	records, err := service.Search("signer1", 10, 0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, KindFieldPlaced, records[0].Kind)
	assert.Equal(t, KindDocumentSigned, records[1].Kind)

	// Empty query goes straight to the trail, newest first.
	records, err = service.Search("", 2, 0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 3, records[0].ID)
	assert.Equal(t, 2, records[1].ID)

	records, err = service.Search("", 10, 2)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 1, records[0].ID)
}
