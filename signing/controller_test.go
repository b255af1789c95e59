package signing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signroom/signroom"
	"github.com/signroom/signroom/engine"
	"github.com/signroom/signroom/engine/inmem"
	"github.com/signroom/signroom/errors"
	"github.com/signroom/signroom/log"
	"github.com/signroom/signroom/session"
	"github.com/signroom/signroom/tracker"
)

var admin = signroom.User{ID: 1, Name: "Admin", Email: "admin@email.com", Role: signroom.RoleEditor}

type fakeSigner struct {
	signed []byte
	err    error

	gotPDF   []byte
	gotImage []byte
	loading  func() bool
	sawLoad  bool
}

func (f *fakeSigner) Sign(_ context.Context, pdf, image []byte) ([]byte, error) {
	f.gotPDF = pdf
	f.gotImage = image
	if f.loading != nil {
		f.sawLoad = f.loading()
	}
	return f.signed, f.err
}

func (f *fakeSigner) Certificates(context.Context) ([]string, error) {
	return []string{"Q0EtMQ=="}, nil
}

func newController(eng *inmem.Engine, signer Signer) (*Controller, *session.Session, *tracker.Tracker) {
	logger := log.New("test")
	sess := session.New(eng, logger, admin, []signroom.User{admin})
	tr := tracker.New(logger)
	tr.Attach(eng)
	return NewController(eng, signer, sess, tr, logger, []byte("logo-png")), sess, tr
}

func TestController_Apply(t *testing.T) {
	eng := inmem.New(1)
	eng.SetDocument([]byte("%PDF original"))
	eng.SetSignaturesInfo(engine.SignaturesInfo{
		Status:     "valid",
		Signatures: []engine.Signature{{SignatureFormFQN: "DigitalSignature"}},
	})

	signer := &fakeSigner{signed: []byte("%PDF signed")}
	c, sess, tr := newController(eng, signer)
	signer.loading = sess.Loading

	ref, err := c.Apply(context.Background())
	require.NoError(t, err, "signing must not fail")

	assert.Equal(t, "%PDF original", string(signer.gotPDF), "the exported document is sent to the signer")
	assert.Equal(t, "logo-png", string(signer.gotImage), "the stamp image rides along")
	assert.True(t, signer.sawLoad, "the loading flag is set while the request is in flight")
	assert.False(t, sess.Loading(), "the loading flag clears on success")

	data, err := ref.Bytes()
	require.NoError(t, err)
	assert.Equal(t, "%PDF signed", string(data))
	assert.Same(t, ref, c.Current())

	exported, err := eng.ExportPDF()
	require.NoError(t, err)
	assert.Equal(t, "%PDF signed", string(exported), "the signed artifact replaces the loaded document")

	// The tracker picked up the new signature status.
	ds := engine.Annotation{
		ID:            "ds-1",
		FormFieldName: "DigitalSignature",
		CustomData:    &engine.CustomData{Type: signroom.AnnotationDS, SignerEmail: admin.Email},
	}
	assert.Equal(t, tracker.RenderDefault, tr.Decide(ds), "signed ds fields are no longer special-cased")
}

func TestController_ApplySwapReleases(t *testing.T) {
	eng := inmem.New(1)
	signer := &fakeSigner{signed: []byte("%PDF signed 1")}
	c, _, _ := newController(eng, signer)

	first, err := c.Apply(context.Background())
	require.NoError(t, err)

	signer.signed = []byte("%PDF signed 2")
	second, err := c.Apply(context.Background())
	require.NoError(t, err)

	assert.True(t, first.Released(), "the superseded reference is released")
	_, err = first.Bytes()
	assert.Error(t, err, "a released reference has no bytes")

	assert.False(t, second.Released())
	c.Close()
	assert.True(t, second.Released(), "closing releases the active reference")
	assert.Nil(t, c.Current())
}

func TestController_ApplyFailure(t *testing.T) {
	eng := inmem.New(1)
	eng.SetDocument([]byte("%PDF original"))

	signer := &fakeSigner{err: errors.New("signer unavailable", errors.WithCode(502))}
	c, sess, _ := newController(eng, signer)

	_, err := c.Apply(context.Background())
	if assert.Error(t, err, "a failed signing round should propagate") {
		errors.AssertCode(t, err, 502)
	}

	assert.False(t, sess.Loading(), "the loading flag clears on failure too")
	assert.Nil(t, c.Current(), "no reference is created on failure")

	exported, err := eng.ExportPDF()
	require.NoError(t, err)
	assert.Equal(t, "%PDF original", string(exported), "the previous document stays loaded")
}

func TestDocumentRef_ReleaseIdempotent(t *testing.T) {
	ref := NewDocumentRef("doc.pdf", []byte("data"))
	assert.Equal(t, "doc.pdf", ref.Name())

	ref.Release()
	ref.Release()
	assert.True(t, ref.Released())
}
