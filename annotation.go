package signroom

// AnnotationType tags the kind of field a signee drops on the document.
type AnnotationType string

const (
	AnnotationName      AnnotationType = "name"
	AnnotationSignature AnnotationType = "signature"
	AnnotationDate      AnnotationType = "date"
	AnnotationInitial   AnnotationType = "initial"
	AnnotationDS        AnnotationType = "ds"
)

// IsSignatureKind reports whether the type gets a widget + signature form
// field instead of a plain text annotation.
func (t AnnotationType) IsSignatureKind() bool {
	return t == AnnotationSignature || t == AnnotationInitial || t == AnnotationDS
}

type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// AnnotationSize is the fixed per-type sizing policy, in page units.
func AnnotationSize(t AnnotationType) Size {
	switch t {
	case AnnotationSignature:
		return Size{Width: 120, Height: 60}
	case AnnotationInitial:
		return Size{Width: 70, Height: 40}
	case AnnotationDS:
		return Size{Width: 250, Height: 100}
	}
	return Size{Width: 120, Height: 40}
}

// ResizeConstraints bound how far a placed field can be stretched.
type ResizeConstraints struct {
	MinWidth  float64 `json:"minWidth"`
	MinHeight float64 `json:"minHeight"`
	MaxWidth  float64 `json:"maxWidth"`
	MaxHeight float64 `json:"maxHeight"`
}

func DefaultResizeConstraints() ResizeConstraints {
	return ResizeConstraints{MinWidth: 70, MinHeight: 30, MaxWidth: 250, MaxHeight: 100}
}

type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Clip translates r so it fits inside page, shrinking it as a last resort
// when the page itself is smaller than the rect.
func (r Rect) Clip(page Rect) Rect {
	if r.Width > page.Width {
		r.Width = page.Width
	}
	if r.Height > page.Height {
		r.Height = page.Height
	}
	if r.Left < page.Left {
		r.Left = page.Left
	}
	if r.Top < page.Top {
		r.Top = page.Top
	}
	if r.Left+r.Width > page.Left+page.Width {
		r.Left = page.Left + page.Width - r.Width
	}
	if r.Top+r.Height > page.Top+page.Height {
		r.Top = page.Top + page.Height - r.Height
	}
	return r
}
