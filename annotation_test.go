package signroom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnnotationSize(t *testing.T) {
	tts := map[AnnotationType]Size{
		AnnotationSignature: {Width: 120, Height: 60},
		AnnotationInitial:   {Width: 70, Height: 40},
		AnnotationDS:        {Width: 250, Height: 100},
		AnnotationName:      {Width: 120, Height: 40},
		AnnotationDate:      {Width: 120, Height: 40},
	}

	for typ, expected := range tts {
		assert.Equal(t, expected, AnnotationSize(typ), string(typ))
	}
}

func TestAnnotationType_IsSignatureKind(t *testing.T) {
	assert.True(t, AnnotationSignature.IsSignatureKind())
	assert.True(t, AnnotationInitial.IsSignatureKind())
	assert.True(t, AnnotationDS.IsSignatureKind())
	assert.False(t, AnnotationName.IsSignatureKind())
	assert.False(t, AnnotationDate.IsSignatureKind())
}

func TestRect_Clip(t *testing.T) {
	page := Rect{Left: 0, Top: 0, Width: 612, Height: 792}

	tts := map[string]struct {
		in       Rect
		expected Rect
	}{
		"inside": {
			in:       Rect{Left: 100, Top: 100, Width: 120, Height: 60},
			expected: Rect{Left: 100, Top: 100, Width: 120, Height: 60},
		},
		"over the top left corner": {
			in:       Rect{Left: -60, Top: -30, Width: 120, Height: 60},
			expected: Rect{Left: 0, Top: 0, Width: 120, Height: 60},
		},
		"over the bottom right corner": {
			in:       Rect{Left: 580, Top: 780, Width: 120, Height: 60},
			expected: Rect{Left: 492, Top: 732, Width: 120, Height: 60},
		},
		"wider than the page": {
			in:       Rect{Left: 10, Top: 10, Width: 700, Height: 60},
			expected: Rect{Left: 0, Top: 10, Width: 612, Height: 60},
		},
	}

	for name, tt := range tts {
		assert.Equal(t, tt.expected, tt.in.Clip(page), name)
	}
}
