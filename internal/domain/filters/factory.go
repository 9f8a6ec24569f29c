package filters

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrUnknownFilter     = errors.New("unknown filter")
	ErrInvalidParameters = errors.New("invalid filter parameters")
)

// ParseType maps a serialized tag such as "delogo" to its Type.
func ParseType(tag string) (Type, error) {
	for _, t := range Types {
		if t.String() == tag {
			return t, nil
		}
	}
	return TypeNone, fmt.Errorf("%w: %q", ErrUnknownFilter, tag)
}

// Load parses the SaveString form "<type>;<params>".
func Load(serialized string) (Filter, error) {
	tag, params, _ := strings.Cut(serialized, ";")
	t, err := ParseType(tag)
	if err != nil {
		return Filter{}, err
	}

	if !t.Rectangular() {
		if params != "" {
			return Filter{}, fmt.Errorf("%w: %s takes no parameters, got %q", ErrInvalidParameters, t, params)
		}
		return Filter{typ: t}, nil
	}

	parts := strings.Split(params, ";")
	if len(parts) != 4 {
		return Filter{}, fmt.Errorf("%w: %s needs 4 parameters, got %q", ErrInvalidParameters, t, params)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Filter{}, fmt.Errorf("%w: %s parameter %d: %q is not an integer", ErrInvalidParameters, t, i+1, p)
		}
		v[i] = n
	}
	return NewRect(t, v[0], v[1], v[2], v[3])
}

// New builds a parameterless filter. Rectangular types need NewRect.
func New(t Type) (Filter, error) {
	if !t.valid() {
		return Filter{}, fmt.Errorf("%w: %s", ErrUnknownFilter, t)
	}
	if t.Rectangular() {
		return Filter{}, fmt.Errorf("%w: %s requires x, y, width and height", ErrInvalidParameters, t)
	}
	return Filter{typ: t}, nil
}

// NewRect builds a delogo or drawbox filter.
func NewRect(t Type, x, y, width, height int) (Filter, error) {
	if !t.valid() {
		return Filter{}, fmt.Errorf("%w: %s", ErrUnknownFilter, t)
	}
	if !t.Rectangular() {
		return Filter{}, fmt.Errorf("%w: %s takes no coordinates", ErrInvalidParameters, t)
	}
	return Filter{typ: t, rect: Rect{X: x, Y: y, Width: width, Height: height}}, nil
}

// Convert returns f as type t. Geometry survives a rectangular-to-rectangular
// conversion; a non-rectangular source becomes an empty box at the origin.
func Convert(f Filter, t Type) Filter {
	if t.Rectangular() && f.typ.Rectangular() {
		return Filter{typ: t, rect: f.rect}
	}
	return Filter{typ: t}
}
