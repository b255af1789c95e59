package placement

import (
	"context"
	"time"

	"github.com/signroom/signroom"
	"github.com/signroom/signroom/engine"
	"github.com/signroom/signroom/log"
)

// DigitalSignatureFieldName is the fixed form field name shared by every
// digital-signature widget, so the upstream signer can address the field.
const DigitalSignatureFieldName = "DigitalSignature"

// DropRequest is a drop gesture: the drag payload plus where it landed and
// who was driving when it did.
type DropRequest struct {
	Payload   Payload
	ClientX   float64
	ClientY   float64
	PageIndex int

	User   signroom.User
	Signee signroom.User
}

// Orchestrator turns drop gestures into creation requests against the
// engine, applying the per-type sizing policy and the ownership rules.
type Orchestrator struct {
	engine engine.Engine
	logger log.Logger

	now func() time.Time
}

func NewOrchestrator(eng engine.Engine, logger log.Logger) *Orchestrator {
	return &Orchestrator{
		engine: eng,
		logger: logger,
		now:    time.Now,
	}
}

// Drop places a field of the payload's type, centered on the drop point and
// clipped to the page. Signature kinds get a placeholder widget plus a
// signature form field; name and date get a pre-filled, non-editable text
// annotation in the signee's color. Engine rejections come back unwrapped,
// there is no retry.
func (o *Orchestrator) Drop(ctx context.Context, req DropRequest) (engine.Annotation, error) {
	if err := ctx.Err(); err != nil {
		return engine.Annotation{}, err
	}

	// The payload's instant id is stale by drop time, always mint a new
	// one.
	instantID := o.engine.GenerateInstantID()

	size := signroom.AnnotationSize(req.Payload.Type)
	rect := signroom.Rect{
		Left:   req.ClientX - size.Width/2,
		Top:    req.ClientY - size.Height/2,
		Width:  size.Width,
		Height: size.Height,
	}

	page, err := o.engine.PageRect(req.PageIndex)
	if err != nil {
		return engine.Annotation{}, err
	}
	rect = rect.Clip(page)

	var created engine.Annotation
	if req.Payload.Type.IsSignatureKind() {
		created, err = o.createSignatureField(req, instantID, rect)
	} else {
		created, err = o.createTextAnnotation(req, rect)
	}
	if err != nil {
		return engine.Annotation{}, err
	}

	// Re-applied after every creation so freshly placed fields pick up the
	// global bounds.
	o.engine.SetResizeConstraints(signroom.DefaultResizeConstraints())

	return created, nil
}

func (o *Orchestrator) createSignatureField(req DropRequest, instantID string, rect signroom.Rect) (engine.Annotation, error) {
	isDS := req.Payload.Type == signroom.AnnotationDS

	fieldName := instantID
	signerID := req.Signee.ID
	signerColor := req.Signee.Color
	if isDS {
		// Digital-signature fields belong to the driving user, not the
		// selected signee, and render colorless.
		fieldName = DigitalSignatureFieldName
		signerID = req.User.ID
		white := signroom.White
		signerColor = &white
	}

	transparent := signroom.Transparent
	widget := engine.Annotation{
		ID:            instantID,
		Name:          instantID,
		PageIndex:     req.PageIndex,
		BoundingBox:   rect,
		FormFieldName: fieldName,
		CustomData: &engine.CustomData{
			CreatedBy:   req.User.ID,
			SignerID:    signerID,
			SignerEmail: req.Payload.Email,
			Type:        req.Payload.Type,
			SignerColor: signerColor,
			IsInitial:   req.Payload.Type == signroom.AnnotationInitial,
		},
		BackgroundColor: &transparent,
	}

	field := engine.FormField{
		ID:            instantID,
		Name:          fieldName,
		ReadOnly:      req.Signee.ID != req.User.ID,
		AnnotationIDs: []string{widget.ID},
	}

	ann, _, err := o.engine.CreateSignatureField(widget, field)
	return ann, err
}

func (o *Orchestrator) createTextAnnotation(req DropRequest, rect signroom.Rect) (engine.Annotation, error) {
	value := req.Payload.Name
	if req.Payload.Type == signroom.AnnotationDate {
		value = o.now().Format("Mon Jan 02 2006")
	}

	text := engine.Annotation{
		Name:        req.Payload.Name,
		PageIndex:   req.PageIndex,
		BoundingBox: rect,
		Text:        value,
		CustomData: &engine.CustomData{
			SignerEmail: req.Payload.Email,
			Type:        req.Payload.Type,
			SignerColor: req.Signee.Color,
		},
		BackgroundColor: req.Signee.Color,
		IsEditable:      false,
	}

	return o.engine.CreateAnnotation(text)
}
