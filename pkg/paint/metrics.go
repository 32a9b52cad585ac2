package paint

import (
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// Metrics measures text in device pixels.
type Metrics interface {
	TextSize(s string) (w, h int)
}

// FaceMetrics measures text with a font face.
type FaceMetrics struct {
	face font.Face
}

// NewFaceMetrics returns metrics for face. A nil face uses the fixed 7x13
// bitmap face.
func NewFaceMetrics(face font.Face) FaceMetrics {
	if face == nil {
		face = basicfont.Face7x13
	}
	return FaceMetrics{face: face}
}

// DefaultMetrics returns metrics for the fixed 7x13 bitmap face.
func DefaultMetrics() FaceMetrics { return NewFaceMetrics(nil) }

// Face returns the measured face.
func (m FaceMetrics) Face() font.Face { return m.face }

// TextSize returns the advance width and line height of s. The empty string
// measures 0x0.
func (m FaceMetrics) TextSize(s string) (int, int) {
	if s == "" {
		return 0, 0
	}
	met := m.face.Metrics()
	return font.MeasureString(m.face, s).Ceil(), (met.Ascent + met.Descent).Ceil()
}

// RotatedBounds returns the size of the axis-aligned box enclosing a w x h
// rectangle rotated by degrees.
func RotatedBounds(w, h int, degrees float64) (int, int) {
	if degrees == 0 {
		return w, h
	}
	rad := degrees * math.Pi / 180
	c, s := math.Abs(math.Cos(rad)), math.Abs(math.Sin(rad))
	fw, fh := float64(w), float64(h)
	return int(math.Ceil(fw*c + fh*s - 1e-9)), int(math.Ceil(fw*s + fh*c - 1e-9))
}
