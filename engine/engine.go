package engine

import (
	"github.com/signroom/signroom"
)

// InteractionMode mirrors the viewer modes the session machine toggles
// between: form creation for the editor, pan/read for signers.
type InteractionMode string

const (
	ModeFormCreator InteractionMode = "FORM_CREATOR"
	ModePan         InteractionMode = "PAN"
)

type ViewState struct {
	ShowToolbar     bool            `json:"showToolbar"`
	InteractionMode InteractionMode `json:"interactionMode"`
}

// CustomData is the ownership metadata attached to every placed field.
type CustomData struct {
	CreatedBy   int                     `json:"createdBy"`
	SignerID    int                     `json:"signerID"`
	SignerEmail string                  `json:"signerEmail"`
	Type        signroom.AnnotationType `json:"type"`
	SignerColor *signroom.Color         `json:"signerColor,omitempty"`
	IsInitial   bool                    `json:"isInitial,omitempty"`
}

type Annotation struct {
	ID              string          `json:"id"`
	Name            string          `json:"name,omitempty"`
	PageIndex       int             `json:"pageIndex"`
	BoundingBox     signroom.Rect   `json:"boundingBox"`
	FormFieldName   string          `json:"formFieldName,omitempty"`
	Text            string          `json:"text,omitempty"`
	BackgroundColor *signroom.Color `json:"backgroundColor,omitempty"`
	IsEditable      bool            `json:"isEditable"`
	CustomData      *CustomData     `json:"customData,omitempty"`
}

type FormField struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	ReadOnly      bool     `json:"readOnly"`
	AnnotationIDs []string `json:"annotationIds"`
}

// SignaturesInfo is the digital-signature status attached to the loaded
// document. Status is empty until the document has been signed.
type SignaturesInfo struct {
	Status     string      `json:"status"`
	Signatures []Signature `json:"signatures"`
}

type Signature struct {
	SignatureFormFQN string `json:"signatureFormFQN"`
}

func (info SignaturesInfo) Signed() bool {
	return info.Status != ""
}

// FieldSigned reports whether the form field with the given fully qualified
// name has a signature applied.
func (info SignaturesInfo) FieldSigned(formFieldName string) bool {
	for _, sig := range info.Signatures {
		if sig.SignatureFormFQN == formFieldName {
			return true
		}
	}
	return false
}

type EventKind string

const (
	EventAnnotationsCreate      EventKind = "annotations.create"
	EventAnnotationsDelete      EventKind = "annotations.delete"
	EventAnnotationsPress       EventKind = "annotations.press"
	EventStoredSignatureCreate  EventKind = "storedSignatures.create"
	EventPageChange             EventKind = "viewState.currentPageIndex.change"
)

type Event struct {
	Kind       EventKind
	Annotation *Annotation
	PageIndex  int
}

// Engine is the capability surface of the external annotation engine: the
// operations the signing workflow needs, nothing more. The production
// implementation wraps the vendor viewer; engine/inmem backs tests and the
// demo server.
type Engine interface {
	CreateAnnotation(Annotation) (Annotation, error)
	CreateSignatureField(Annotation, FormField) (Annotation, FormField, error)
	DeleteAnnotation(id string) error
	UpdateFormFields([]FormField) error

	Annotations(pageIndex int) ([]Annotation, error)
	FormFields() ([]FormField, error)

	ExportPDF() ([]byte, error)
	// LoadDocument replaces the loaded document with the given bytes and
	// returns the new document's signature status.
	LoadDocument([]byte) (SignaturesInfo, error)
	SignaturesInfo() (SignaturesInfo, error)

	SetViewState(ViewState)
	ViewState() ViewState
	SetResizeConstraints(signroom.ResizeConstraints)

	PageCount() int
	PageRect(pageIndex int) (signroom.Rect, error)

	GenerateInstantID() string

	// Subscribe registers a handler for an event kind and returns the
	// function removing it.
	Subscribe(EventKind, func(Event)) func()
}
