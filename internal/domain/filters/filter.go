package filters

import (
	"fmt"
	"strconv"
)

// Type is the closed set of filter variants.
type Type int

const (
	TypeNone Type = iota
	TypeDelogo
	TypeDrawbox
	TypeCut
	TypeReview
)

// Types lists every variant in display order.
var Types = []Type{TypeNone, TypeDelogo, TypeDrawbox, TypeCut, TypeReview}

func (t Type) String() string {
	switch t {
	case TypeNone:
		return "none"
	case TypeDelogo:
		return "delogo"
	case TypeDrawbox:
		return "drawbox"
	case TypeCut:
		return "cut"
	case TypeReview:
		return "review"
	}
	return "type(" + strconv.Itoa(int(t)) + ")"
}

// Rectangular reports whether the variant carries x, y, width and height.
func (t Type) Rectangular() bool {
	return t == TypeDelogo || t == TypeDrawbox
}

func (t Type) valid() bool {
	return t >= TypeNone && t <= TypeReview
}

// Rect is a box in frame pixel coordinates.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Filter is an immutable video-processing directive. The zero value is a NoOp.
// Filters are comparable: two filters are equal when type and geometry match.
type Filter struct {
	typ  Type
	rect Rect
}

func (f Filter) Type() Type { return f.typ }

// Rect returns the box of a rectangular filter; ok is false for other variants.
func (f Filter) Rect() (Rect, bool) {
	if !f.typ.Rectangular() {
		return Rect{}, false
	}
	return f.rect, true
}

// AffectsAudio is true for filters that change the audio stream (cuts).
func (f Filter) AffectsAudio() bool {
	return f.typ == TypeCut
}

// SaveString is the project-file form of the filter, without the start frame.
func (f Filter) SaveString() string {
	switch f.typ {
	case TypeDelogo, TypeDrawbox:
		return fmt.Sprintf("%s;%d;%d;%d;%d", f.typ, f.rect.X, f.rect.Y, f.rect.Width, f.rect.Height)
	case TypeNone, TypeCut, TypeReview:
		return f.typ.String() + ";"
	}
	return ""
}

// FFmpegString renders the filter-graph fragment for this filter. enable is the
// full `enable='...'` option. Variants without an inline video effect return "".
func (f Filter) FFmpegString(enable string, frameWidth, frameHeight int) string {
	switch f.typ {
	case TypeDelogo:
		r := clampInside(f.rect, frameWidth, frameHeight)
		return fmt.Sprintf("delogo=%s:x=%d:y=%d:w=%d:h=%d", enable, r.X, r.Y, r.Width, r.Height)
	case TypeDrawbox:
		return fmt.Sprintf("drawbox=%s:x=%d:y=%d:w=%d:h=%d:c=black:t=fill",
			enable, f.rect.X, f.rect.Y, f.rect.Width, f.rect.Height)
	case TypeNone, TypeCut, TypeReview:
		return ""
	}
	return ""
}

func (f Filter) String() string {
	if f.typ.Rectangular() {
		return fmt.Sprintf("%s x=%d y=%d w=%d h=%d", f.typ, f.rect.X, f.rect.Y, f.rect.Width, f.rect.Height)
	}
	return f.typ.String()
}

// clampInside keeps the box at least one pixel away from every frame edge;
// ffmpeg's delogo rejects boxes touching the border.
func clampInside(r Rect, frameWidth, frameHeight int) Rect {
	if r.X < 1 {
		r.X = 1
	}
	if r.Y < 1 {
		r.Y = 1
	}
	if r.X+r.Width >= frameWidth {
		r.Width = frameWidth - r.X - 1
	}
	if r.Y+r.Height >= frameHeight {
		r.Height = frameHeight - r.Y - 1
	}
	return r
}
