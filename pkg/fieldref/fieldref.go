package fieldref

import (
	"strings"

	"github.com/SpineEventEngine/base-sub010/pkg/typeref"
)

const (
	separator = "."
	wildcard  = "*"
)

// FieldRef references a field, optionally qualified by a type reference
type FieldRef struct {
	value    string
	typeRef  typeref.TypeRef
	field    string
	segments int
}

// Parse parses a single field reference
func Parse(raw string) (FieldRef, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return FieldRef{}, &InvalidFieldRefError{Raw: raw, Reason: "must not be blank"}
	}
	if strings.HasPrefix(value, wildcard) {
		return FieldRef{}, &InvalidFieldRefError{Raw: raw, Reason: "references to types by a name suffix are not supported"}
	}
	if strings.Contains(value, wildcard) {
		return FieldRef{}, &InvalidFieldRefError{Raw: raw, Reason: "must not contain wildcards"}
	}

	segments := strings.Split(value, separator)
	for i, s := range segments {
		s = strings.TrimSpace(s)
		if s == "" {
			return FieldRef{}, &InvalidFieldRefError{Raw: raw, Reason: "segments must not be blank"}
		}
		segments[i] = s
	}

	last := len(segments) - 1
	ref := FieldRef{
		value:    strings.Join(segments, separator),
		typeRef:  typeref.Self(),
		field:    segments[last],
		segments: len(segments),
	}
	if last > 0 {
		t, err := typeref.Parse(strings.Join(segments[:last], separator))
		if err != nil {
			return FieldRef{}, &InvalidFieldRefError{Raw: raw, Reason: "bad type part", Err: err}
		}
		ref.typeRef = t
	}
	return ref, nil
}

// MustParse is like Parse but panics on error
func MustParse(raw string) FieldRef {
	ref, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return ref
}

// Value returns the normalized reference text
func (r FieldRef) Value() string {
	return r.value
}

// FieldName returns the referenced field name
func (r FieldRef) FieldName() string {
	return r.field
}

// TypeRef returns the type part, Self when the reference has no type part
func (r FieldRef) TypeRef() typeref.TypeRef {
	return r.typeRef
}

// HasType reports whether the reference is qualified by a type
func (r FieldRef) HasType() bool {
	return r.segments > 1
}

// IsInner reports whether the field belongs to the message declaring the reference
func (r FieldRef) IsInner() bool {
	return r.typeRef.Kind() == typeref.KindSelf
}

// IsContext reports whether the field belongs to the event context
func (r FieldRef) IsContext() bool {
	return r.typeRef.Kind() == typeref.KindEventContext
}

func (r FieldRef) String() string {
	return r.value
}
