package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signroom/signroom"
	"github.com/signroom/signroom/engine"
	"github.com/signroom/signroom/engine/inmem"
	"github.com/signroom/signroom/log"
)

var bob = signroom.User{ID: 1042, Name: "Bob", Email: "bob@x.com", Role: signroom.RoleSigner}

func place(t *testing.T, eng *inmem.Engine, email string, typ signroom.AnnotationType, isInitial bool) engine.Annotation {
	t.Helper()
	id := eng.GenerateInstantID()
	fieldName := id
	if typ == signroom.AnnotationDS {
		fieldName = "DigitalSignature"
	}
	ann, _, err := eng.CreateSignatureField(
		engine.Annotation{
			ID:            id,
			PageIndex:     0,
			FormFieldName: fieldName,
			CustomData: &engine.CustomData{
				SignerEmail: email,
				Type:        typ,
				IsInitial:   isInitial,
			},
		},
		engine.FormField{ID: id, Name: fieldName},
	)
	require.NoError(t, err)
	return ann
}

func TestTracker_MineSet(t *testing.T) {
	eng := inmem.New(1)
	tr := New(log.New("test"))
	tr.Attach(eng)
	defer tr.Detach()
	tr.SetCurrentUser(bob)

	mine := place(t, eng, bob.Email, signroom.AnnotationSignature, false)
	other := place(t, eng, "alice@x.com", signroom.AnnotationSignature, false)

	ids := tr.MySignatureIDs()
	assert.Contains(t, ids, mine.ID, "fields assigned to the current user are tracked")
	assert.NotContains(t, ids, other.ID, "other signees' fields are not")

	assert.Equal(t, RenderPlaceholder, tr.Decide(mine))
	assert.Equal(t, RenderDefault, tr.Decide(other))

	// Deleting reconciles the tracked set.
	require.NoError(t, eng.DeleteAnnotation(mine.ID))
	assert.Empty(t, tr.MySignatureIDs(), "deleted annotations stop being special-cased")
	assert.Equal(t, RenderDefault, tr.Decide(mine))
}

func TestTracker_UserSwitchResetsMine(t *testing.T) {
	eng := inmem.New(1)
	tr := New(log.New("test"))
	tr.Attach(eng)
	defer tr.Detach()
	tr.SetCurrentUser(bob)

	place(t, eng, bob.Email, signroom.AnnotationSignature, false)
	require.Len(t, tr.MySignatureIDs(), 1)

	tr.SetCurrentUser(signroom.User{ID: 2, Email: "signer1@email.com", Role: signroom.RoleSigner})
	assert.Empty(t, tr.MySignatureIDs(), "another user's set starts empty")
}

func TestTracker_SignedDSSuppressed(t *testing.T) {
	eng := inmem.New(1)
	tr := New(log.New("test"))
	tr.Attach(eng)
	defer tr.Detach()
	tr.SetCurrentUser(bob)

	ds := place(t, eng, bob.Email, signroom.AnnotationDS, false)
	require.Equal(t, RenderPlaceholder, tr.Decide(ds), "unsigned ds field renders as placeholder")

	tr.SetSignaturesInfo(engine.SignaturesInfo{
		Status:     "valid",
		Signatures: []engine.Signature{{SignatureFormFQN: "DigitalSignature"}},
	})
	assert.Equal(t, RenderDefault, tr.Decide(ds), "signed ds fields fall back to the engine renderer")

	// A ds field for a form that was not signed keeps the placeholder.
	other := place(t, eng, bob.Email, signroom.AnnotationSignature, false)
	assert.Equal(t, RenderPlaceholder, tr.Decide(other))
}

func TestTracker_PressAndGalleries(t *testing.T) {
	eng := inmem.New(1)
	tr := New(log.New("test"))
	tr.Attach(eng)
	defer tr.Detach()

	sig := place(t, eng, bob.Email, signroom.AnnotationSignature, false)
	ini := place(t, eng, bob.Email, signroom.AnnotationInitial, true)

	kind, gallery := tr.Press(sig)
	assert.Equal(t, KindSignature, kind)
	assert.Empty(t, gallery)

	kind, _ = tr.Press(ini)
	assert.Equal(t, KindInitial, kind)

	// Stored artifacts land in the gallery matching the press that
	// triggered them.
	tr.Store(KindSignature, engine.Annotation{ID: "stored-sig"})
	tr.Store(KindInitial, engine.Annotation{ID: "stored-ini"})
	tr.Store(KindInitial, engine.Annotation{ID: "stored-ini-2"})

	_, gallery = tr.Press(sig)
	require.Len(t, gallery, 1)
	assert.Equal(t, "stored-sig", gallery[0].ID)

	_, gallery = tr.Press(ini)
	require.Len(t, gallery, 2)
}

func TestTracker_StoredSignatureEvents(t *testing.T) {
	eng := inmem.New(1)
	tr := New(log.New("test"))
	tr.Attach(eng)
	defer tr.Detach()

	// Stored-signature events classify themselves, no press state needed.
	eng.StoreSignature(engine.Annotation{
		ID:         "event-sig",
		CustomData: &engine.CustomData{Type: signroom.AnnotationSignature},
	})
	eng.StoreSignature(engine.Annotation{
		ID:         "event-ini",
		CustomData: &engine.CustomData{Type: signroom.AnnotationInitial, IsInitial: true},
	})

	gallery := tr.Gallery(KindSignature)
	require.Len(t, gallery, 1)
	assert.Equal(t, "event-sig", gallery[0].ID)

	gallery = tr.Gallery(KindInitial)
	require.Len(t, gallery, 1)
	assert.Equal(t, "event-ini", gallery[0].ID)
}
