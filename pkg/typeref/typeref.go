package typeref

import (
	"strings"

	"google.golang.org/protobuf/reflect/protoreflect"
)

// Kind identifies the variant of a TypeRef
type Kind int

const (
	KindSelf Kind = iota
	KindEventContext
	KindDirect
	KindInPackage
	KindAll
	KindComposite
)

func (k Kind) String() string {
	switch k {
	case KindSelf:
		return "self"
	case KindEventContext:
		return "event-context"
	case KindDirect:
		return "direct"
	case KindInPackage:
		return "in-package"
	case KindAll:
		return "all"
	case KindComposite:
		return "composite"
	default:
		return "unknown"
	}
}

const (
	// Wildcard is the reference to all message types
	Wildcard = "*"

	// ContextRef is the built-in reference to the event context
	ContextRef = "context"

	// EventContextName is the simple name of the message matched by ContextRef
	EventContextName = "EventContext"

	// Separator separates the elements of a composite reference
	Separator = ","

	packageWildcard = ".*"
)

// TypeRef is an immutable reference to one or more message types.
// The zero value is the Self reference.
type TypeRef struct {
	kind  Kind
	value string
	elems []TypeRef
}

// Self returns the reference to the message in which the reference occurs
func Self() TypeRef {
	return TypeRef{kind: KindSelf}
}

// EventContext returns the reference to the EventContext message
func EventContext() TypeRef {
	return TypeRef{kind: KindEventContext, value: ContextRef}
}

// All returns the reference matching every message type
func All() TypeRef {
	return TypeRef{kind: KindAll, value: Wildcard}
}

// Direct returns a reference to a message by its (possibly qualified) name
func Direct(name string) (TypeRef, error) {
	ref, ok := parseDirect(strings.TrimSpace(name))
	if !ok {
		return TypeRef{}, invalid(name, "not a type name")
	}
	return ref, nil
}

// InPackage returns a reference to all messages declared directly in the package
func InPackage(pkg string) (TypeRef, error) {
	ref, ok := parseInPackage(strings.TrimSpace(pkg) + packageWildcard)
	if !ok {
		return TypeRef{}, invalid(pkg, "not a package name")
	}
	return ref, nil
}

// NewComposite combines references into one that matches if any element matches.
// Duplicates are dropped keeping the first occurrence.
func NewComposite(refs ...TypeRef) (TypeRef, error) {
	elems := make([]TypeRef, 0, len(refs))
	seen := make(map[string]struct{}, len(refs))
	for _, ref := range refs {
		for _, e := range ref.Elements() {
			key := e.kind.String() + ":" + e.value
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			elems = append(elems, e)
		}
	}
	if len(elems) < 2 {
		return TypeRef{}, ErrCompositeTooSmall
	}

	values := make([]string, len(elems))
	for i, e := range elems {
		values[i] = e.Value()
	}
	return TypeRef{
		kind:  KindComposite,
		value: strings.Join(values, Separator),
		elems: elems,
	}, nil
}

// Kind returns the variant of the reference
func (r TypeRef) Kind() Kind {
	return r.kind
}

// Value returns the canonical text of the reference
func (r TypeRef) Value() string {
	if r.kind == KindInPackage {
		return r.value + packageWildcard
	}
	return r.value
}

// Package returns the package name of an in-package reference
func (r TypeRef) Package() string {
	if r.kind != KindInPackage {
		return ""
	}
	return r.value
}

// Elements returns the elements of a composite, or the reference itself otherwise
func (r TypeRef) Elements() []TypeRef {
	if r.kind != KindComposite {
		return []TypeRef{r}
	}
	elems := make([]TypeRef, len(r.elems))
	copy(elems, r.elems)
	return elems
}

// Equal reports whether both references have the same kind and value
func (r TypeRef) Equal(other TypeRef) bool {
	return r.kind == other.kind && r.Value() == other.Value()
}

func (r TypeRef) String() string {
	return r.Value()
}

// Matches reports whether the message is referenced. Self never matches
// because the origin of the reference is unknown; use MatchesFrom.
func (r TypeRef) Matches(msg protoreflect.MessageDescriptor) bool {
	return r.MatchesFrom(nil, msg)
}

// MatchesFrom reports whether msg is referenced by r declared in origin
func (r TypeRef) MatchesFrom(origin, msg protoreflect.MessageDescriptor) bool {
	if msg == nil {
		return false
	}

	switch r.kind {
	case KindSelf:
		return origin != nil && origin.FullName() == msg.FullName()
	case KindEventContext:
		return string(msg.Name()) == EventContextName
	case KindDirect:
		// TODO: enforce the package part once callers stop relying on simple-name matches.
		return strings.HasSuffix(r.value, string(msg.Name()))
	case KindInPackage:
		file := msg.ParentFile()
		return file != nil && string(file.Package()) == r.value
	case KindAll:
		return true
	case KindComposite:
		for _, e := range r.elems {
			if e.MatchesFrom(origin, msg) {
				return true
			}
		}
	}
	return false
}
