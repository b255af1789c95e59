package inmem

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/signroom/signroom"
	"github.com/signroom/signroom/engine"
)

// Page dimensions used for every page of the fake document, in page units.
// US Letter, the same default the demo document uses.
const (
	PageWidth  = 612.0
	PageHeight = 792.0
)

// Engine is an in-memory engine.Engine. It backs the package tests and the
// demo server: annotations and form fields live in maps, instant ids are
// uuids, and event handlers are invoked synchronously from the mutating
// call.
type Engine struct {
	mu sync.Mutex

	pageCount   int
	document    []byte
	annotations map[string]engine.Annotation
	formFields  map[string]engine.FormField
	viewState   engine.ViewState
	constraints signroom.ResizeConstraints
	sigInfo     engine.SignaturesInfo

	nextSubID   int
	subscribers map[engine.EventKind]map[int]func(engine.Event)
}

func New(pageCount int) *Engine {
	return &Engine{
		pageCount:   pageCount,
		annotations: make(map[string]engine.Annotation),
		formFields:  make(map[string]engine.FormField),
		viewState:   engine.ViewState{ShowToolbar: true, InteractionMode: engine.ModeFormCreator},
		subscribers: make(map[engine.EventKind]map[int]func(engine.Event)),
	}
}

// SetDocument replaces the raw document bytes returned by ExportPDF.
func (e *Engine) SetDocument(data []byte) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.document = data
}

func (e *Engine) LoadDocument(data []byte) (engine.SignaturesInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.document = data
	return e.sigInfo, nil
}

func (e *Engine) CreateAnnotation(ann engine.Annotation) (engine.Annotation, error) {
	e.mu.Lock()
	if ann.ID == "" {
		ann.ID = uuid.NewString()
	}
	if ann.PageIndex < 0 || ann.PageIndex >= e.pageCount {
		e.mu.Unlock()
		return engine.Annotation{}, fmt.Errorf("page %d out of range", ann.PageIndex)
	}
	e.annotations[ann.ID] = ann
	e.mu.Unlock()

	e.fire(engine.Event{Kind: engine.EventAnnotationsCreate, Annotation: &ann})
	return ann, nil
}

func (e *Engine) CreateSignatureField(ann engine.Annotation, field engine.FormField) (engine.Annotation, engine.FormField, error) {
	e.mu.Lock()
	if ann.ID == "" {
		ann.ID = uuid.NewString()
	}
	if field.ID == "" {
		field.ID = ann.ID
	}
	if ann.PageIndex < 0 || ann.PageIndex >= e.pageCount {
		e.mu.Unlock()
		return engine.Annotation{}, engine.FormField{}, fmt.Errorf("page %d out of range", ann.PageIndex)
	}
	if len(field.AnnotationIDs) == 0 {
		field.AnnotationIDs = []string{ann.ID}
	}
	e.annotations[ann.ID] = ann
	e.formFields[field.ID] = field
	e.mu.Unlock()

	e.fire(engine.Event{Kind: engine.EventAnnotationsCreate, Annotation: &ann})
	return ann, field, nil
}

func (e *Engine) DeleteAnnotation(id string) error {
	e.mu.Lock()
	ann, ok := e.annotations[id]
	if !ok {
		e.mu.Unlock()
		return fmt.Errorf("no annotation %s", id)
	}
	delete(e.annotations, id)

	// Form fields that only pointed at this annotation go with it.
	for fieldID, field := range e.formFields {
		remaining := field.AnnotationIDs[:0]
		for _, annID := range field.AnnotationIDs {
			if annID != id {
				remaining = append(remaining, annID)
			}
		}
		if len(remaining) == 0 {
			delete(e.formFields, fieldID)
		} else {
			field.AnnotationIDs = remaining
			e.formFields[fieldID] = field
		}
	}
	e.mu.Unlock()

	e.fire(engine.Event{Kind: engine.EventAnnotationsDelete, Annotation: &ann})
	return nil
}

func (e *Engine) UpdateFormFields(fields []engine.FormField) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, field := range fields {
		if _, ok := e.formFields[field.ID]; !ok {
			return fmt.Errorf("no form field %s", field.ID)
		}
		e.formFields[field.ID] = field
	}
	return nil
}

func (e *Engine) Annotations(pageIndex int) ([]engine.Annotation, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if pageIndex < 0 || pageIndex >= e.pageCount {
		return nil, fmt.Errorf("page %d out of range", pageIndex)
	}

	var anns []engine.Annotation
	for _, ann := range e.annotations {
		if ann.PageIndex == pageIndex {
			anns = append(anns, ann)
		}
	}
	return anns, nil
}

func (e *Engine) FormFields() ([]engine.FormField, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	fields := make([]engine.FormField, 0, len(e.formFields))
	for _, field := range e.formFields {
		fields = append(fields, field)
	}
	return fields, nil
}

func (e *Engine) ExportPDF() ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.document == nil {
		return []byte("%PDF-1.7 signroom inmem document"), nil
	}
	data := make([]byte, len(e.document))
	copy(data, e.document)
	return data, nil
}

func (e *Engine) SignaturesInfo() (engine.SignaturesInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sigInfo, nil
}

// SetSignaturesInfo installs the signature status a freshly loaded signed
// document would carry.
func (e *Engine) SetSignaturesInfo(info engine.SignaturesInfo) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sigInfo = info
}

func (e *Engine) SetViewState(vs engine.ViewState) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.viewState = vs
}

func (e *Engine) ViewState() engine.ViewState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.viewState
}

func (e *Engine) SetResizeConstraints(c signroom.ResizeConstraints) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.constraints = c
}

// ResizeConstraints returns the last constraints applied.
func (e *Engine) ResizeConstraints() signroom.ResizeConstraints {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.constraints
}

func (e *Engine) PageCount() int {
	return e.pageCount
}

func (e *Engine) PageRect(pageIndex int) (signroom.Rect, error) {
	if pageIndex < 0 || pageIndex >= e.pageCount {
		return signroom.Rect{}, fmt.Errorf("page %d out of range", pageIndex)
	}
	return signroom.Rect{Left: 0, Top: 0, Width: PageWidth, Height: PageHeight}, nil
}

func (e *Engine) GenerateInstantID() string {
	return uuid.NewString()
}

func (e *Engine) Subscribe(kind engine.EventKind, f func(engine.Event)) func() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.subscribers[kind] == nil {
		e.subscribers[kind] = make(map[int]func(engine.Event))
	}
	id := e.nextSubID
	e.nextSubID++
	e.subscribers[kind][id] = f

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.subscribers[kind], id)
	}
}

// Press fires an annotation press event, the way a click in the viewer
// would.
func (e *Engine) Press(id string) error {
	e.mu.Lock()
	ann, ok := e.annotations[id]
	e.mu.Unlock()
	if !ok {
		return fmt.Errorf("no annotation %s", id)
	}

	e.fire(engine.Event{Kind: engine.EventAnnotationsPress, Annotation: &ann})
	return nil
}

// StoreSignature fires a stored-signature creation event.
func (e *Engine) StoreSignature(ann engine.Annotation) {
	e.fire(engine.Event{Kind: engine.EventStoredSignatureCreate, Annotation: &ann})
}

func (e *Engine) fire(ev engine.Event) {
	e.mu.Lock()
	handlers := make([]func(engine.Event), 0, len(e.subscribers[ev.Kind]))
	for _, f := range e.subscribers[ev.Kind] {
		handlers = append(handlers, f)
	}
	e.mu.Unlock()

	for _, f := range handlers {
		f(ev)
	}
}
