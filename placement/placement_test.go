package placement

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signroom/signroom"
	"github.com/signroom/signroom/engine/inmem"
	"github.com/signroom/signroom/log"
)

var (
	admin = signroom.User{ID: 1, Name: "Admin", Email: "admin@email.com", Role: signroom.RoleEditor}
	bob   = signroom.User{
		ID: 1042, Name: "Bob", Email: "bob@x.com", Role: signroom.RoleSigner,
		Color: &signroom.Color{R: 162, G: 233, B: 132},
	}
)

func dropRequest(typ signroom.AnnotationType, x, y float64) DropRequest {
	return DropRequest{
		Payload: Payload{
			Name:      bob.Name,
			Email:     bob.Email,
			InstantID: "stale-id",
			Type:      typ,
		},
		ClientX:   x,
		ClientY:   y,
		PageIndex: 0,
		User:      admin,
		Signee:    bob,
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	p := Payload{Name: "Bob", Email: "bob@x.com", InstantID: "abc-123", Type: signroom.AnnotationSignature}

	parsed, err := ParsePayload(p.Encode())
	require.NoError(t, err)
	assert.Equal(t, p, parsed)

	_, err = ParsePayload("not-a-payload")
	assert.Error(t, err, "wrong number of parts should fail")
}

func TestDrop_SignatureGeometry(t *testing.T) {
	eng := inmem.New(1)
	o := NewOrchestrator(eng, log.New("test"))

	ann, err := o.Drop(context.Background(), dropRequest(signroom.AnnotationSignature, 300, 400))
	require.NoError(t, err, "dropping must not fail")

	assert.Equal(t, 120.0, ann.BoundingBox.Width)
	assert.Equal(t, 60.0, ann.BoundingBox.Height)
	assert.Equal(t, 240.0, ann.BoundingBox.Left, "centered on the drop point")
	assert.Equal(t, 370.0, ann.BoundingBox.Top)

	assert.NotEqual(t, "stale-id", ann.ID, "the drag-start id is regenerated at drop")

	constraints := eng.ResizeConstraints()
	assert.Equal(t, signroom.DefaultResizeConstraints(), constraints, "resize constraints are re-applied after creation")
}

func TestDrop_ClippedToPage(t *testing.T) {
	eng := inmem.New(1)
	o := NewOrchestrator(eng, log.New("test"))

	// Top-left corner: the rect is pushed back inside the page.
	ann, err := o.Drop(context.Background(), dropRequest(signroom.AnnotationSignature, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, 0.0, ann.BoundingBox.Left)
	assert.Equal(t, 0.0, ann.BoundingBox.Top)
	assert.Equal(t, 120.0, ann.BoundingBox.Width)
	assert.Equal(t, 60.0, ann.BoundingBox.Height)

	// Bottom-right corner.
	ann, err = o.Drop(context.Background(), dropRequest(signroom.AnnotationInitial, inmem.PageWidth, inmem.PageHeight))
	require.NoError(t, err)
	assert.Equal(t, inmem.PageWidth-70, ann.BoundingBox.Left)
	assert.Equal(t, inmem.PageHeight-40, ann.BoundingBox.Top)
}

func TestDrop_SizePolicy(t *testing.T) {
	eng := inmem.New(1)
	o := NewOrchestrator(eng, log.New("test"))

	tts := []struct {
		typ    signroom.AnnotationType
		width  float64
		height float64
	}{
		{signroom.AnnotationSignature, 120, 60},
		{signroom.AnnotationInitial, 70, 40},
		{signroom.AnnotationDS, 250, 100},
		{signroom.AnnotationName, 120, 40},
		{signroom.AnnotationDate, 120, 40},
	}

	for _, tt := range tts {
		ann, err := o.Drop(context.Background(), dropRequest(tt.typ, 306, 396))
		require.NoError(t, err, "%s should drop", tt.typ)
		assert.Equal(t, tt.width, ann.BoundingBox.Width, "%s width", tt.typ)
		assert.Equal(t, tt.height, ann.BoundingBox.Height, "%s height", tt.typ)
	}
}

func TestDrop_SignatureOwnership(t *testing.T) {
	eng := inmem.New(1)
	o := NewOrchestrator(eng, log.New("test"))

	ann, err := o.Drop(context.Background(), dropRequest(signroom.AnnotationSignature, 300, 400))
	require.NoError(t, err)

	require.NotNil(t, ann.CustomData)
	assert.Equal(t, bob.ID, ann.CustomData.SignerID, "signature fields belong to the signee")
	assert.Equal(t, bob.Email, ann.CustomData.SignerEmail)
	assert.Equal(t, bob.Color, ann.CustomData.SignerColor)
	assert.False(t, ann.CustomData.IsInitial)
	assert.Equal(t, ann.ID, ann.FormFieldName, "regular signature fields are named after the instant id")

	fields, err := eng.FormFields()
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.True(t, fields[0].ReadOnly, "field is read-only when the signee is not the driving user")
}

func TestDrop_DigitalSignatureOwnership(t *testing.T) {
	eng := inmem.New(1)
	o := NewOrchestrator(eng, log.New("test"))

	// The signee is Bob, the driving user is Admin: ds fields attach to the
	// driving user regardless.
	ann, err := o.Drop(context.Background(), dropRequest(signroom.AnnotationDS, 300, 400))
	require.NoError(t, err)

	require.NotNil(t, ann.CustomData)
	assert.Equal(t, admin.ID, ann.CustomData.SignerID, "ds owner is the driving user, not the signee")
	assert.Equal(t, DigitalSignatureFieldName, ann.FormFieldName)
	assert.Equal(t, &signroom.White, ann.CustomData.SignerColor, "ds color is forced white")

	fields, err := eng.FormFields()
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, DigitalSignatureFieldName, fields[0].Name)
}

func TestDrop_TextAnnotations(t *testing.T) {
	eng := inmem.New(1)
	o := NewOrchestrator(eng, log.New("test"))
	o.now = func() time.Time { return time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC) }

	name, err := o.Drop(context.Background(), dropRequest(signroom.AnnotationName, 300, 400))
	require.NoError(t, err)
	assert.Equal(t, "Bob", name.Text, "name fields are pre-filled with the signee's name")
	assert.Equal(t, bob.Color, name.BackgroundColor, "text fields carry the signee's color")
	assert.False(t, name.IsEditable)

	date, err := o.Drop(context.Background(), dropRequest(signroom.AnnotationDate, 300, 400))
	require.NoError(t, err)
	assert.Equal(t, "Mon Aug 31 2026", date.Text, "date fields are pre-filled with the current date")

	fields, err := eng.FormFields()
	require.NoError(t, err)
	assert.Len(t, fields, 0, "text annotations do not create form fields")
}

func TestDrop_BadPage(t *testing.T) {
	eng := inmem.New(1)
	o := NewOrchestrator(eng, log.New("test"))

	req := dropRequest(signroom.AnnotationSignature, 300, 400)
	req.PageIndex = 3
	_, err := o.Drop(context.Background(), req)
	assert.Error(t, err, "dropping on a page that does not exist should fail")
}
