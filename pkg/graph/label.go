package graph

import "unicode/utf8"

const (
	fontCharWidth  = 0.55
	fontLineHeight = 1.2
)

// LabelSize estimates the rendered size of a single-line label.
func LabelSize(label string, fontSize float64) (w, h float64) {
	return float64(utf8.RuneCountInString(label)) * fontSize * fontCharWidth, fontSize * fontLineHeight
}

// Size returns the explicit node size, or the label size plus padding for
// each missing dimension.
func (n Node) Size(fontSize, padX, padY float64) (w, h float64) {
	lw, lh := LabelSize(n.DisplayLabel(), fontSize)
	w, h = n.Width, n.Height
	if w == 0 {
		w = lw + padX
	}
	if h == 0 {
		h = lh + padY
	}
	return w, h
}
