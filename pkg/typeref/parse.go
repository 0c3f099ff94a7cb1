package typeref

import (
	"fmt"
	"strings"
)

// parser returns a reference when it recognizes the value
type parser func(value string) (TypeRef, bool)

// chain is evaluated in order, the first recognizing parser wins
var chain = []parser{
	parseBuiltIn,
	parseInPackage,
	parseDirect,
}

// Parse parses a raw type reference
func Parse(raw string) (TypeRef, error) {
	value := strings.TrimSpace(raw)

	if strings.Contains(value, Separator) {
		return parseComposite(raw, value)
	}

	for _, p := range chain {
		if ref, ok := p(value); ok {
			return ref, nil
		}
	}

	switch {
	case strings.HasPrefix(value, Wildcard) && value != Wildcard:
		return TypeRef{}, invalid(raw, "suffix wildcards are not supported")
	case strings.Contains(value, Wildcard):
		return TypeRef{}, invalid(raw, "wildcard is allowed only after the package name")
	default:
		return TypeRef{}, invalid(raw, "")
	}
}

// MustParse is like Parse but panics on error. Intended for constants.
func MustParse(raw string) TypeRef {
	ref, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return ref
}

func parseBuiltIn(value string) (TypeRef, bool) {
	switch value {
	case "":
		return Self(), true
	case ContextRef:
		return EventContext(), true
	case Wildcard:
		return All(), true
	}
	return TypeRef{}, false
}

func parseInPackage(value string) (TypeRef, bool) {
	if !strings.HasSuffix(value, packageWildcard) || value == packageWildcard {
		return TypeRef{}, false
	}
	pkg := strings.TrimSuffix(value, packageWildcard)
	if !isQualifiedName(pkg) {
		return TypeRef{}, false
	}
	return TypeRef{kind: KindInPackage, value: pkg}, true
}

func parseDirect(value string) (TypeRef, bool) {
	if !isQualifiedName(value) {
		return TypeRef{}, false
	}
	return TypeRef{kind: KindDirect, value: value}, true
}

func parseComposite(raw, value string) (TypeRef, error) {
	parts := strings.Split(value, Separator)
	refs := make([]TypeRef, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return TypeRef{}, invalid(raw, "empty element in the list")
		}
		ref, err := Parse(part)
		if err != nil {
			return TypeRef{}, err
		}
		refs = append(refs, ref)
	}

	ref, err := NewComposite(refs...)
	if err != nil {
		return TypeRef{}, &InvalidReferenceError{
			Raw: raw,
			Err: fmt.Errorf("%w: %w", ErrInvalidReference, err),
		}
	}
	return ref, nil
}

// isQualifiedName checks for dot-separated non-empty segments without wildcards or spaces
func isQualifiedName(s string) bool {
	if s == "" || strings.ContainsAny(s, "* \t\n") {
		return false
	}
	for _, segment := range strings.Split(s, ".") {
		if segment == "" {
			return false
		}
	}
	return true
}
