package fieldref

import (
	"fmt"
	"strings"
	"unicode"

	lru "github.com/hashicorp/golang-lru/v2"
)

// AlternativeSeparator separates alternative references in a (by) option
const AlternativeSeparator = "|"

// ParseByOption parses the value of a (by) option into its alternatives.
// All whitespace is ignored.
func ParseByOption(raw string) ([]FieldRef, error) {
	value := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)
	if value == "" {
		return nil, &InvalidFieldRefError{Raw: raw, Reason: "must not be blank"}
	}

	parts := strings.Split(value, AlternativeSeparator)
	refs := make([]FieldRef, 0, len(parts))
	for _, part := range parts {
		ref, err := Parse(part)
		if err != nil {
			return nil, fmt.Errorf("(by) option %q: %w", raw, err)
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// Parser parses (by) options and remembers the results.
// Option values repeat across fields, so most lookups are cache hits.
type Parser struct {
	cache *lru.Cache[string, []FieldRef]
}

// NewParser creates a parser keeping up to size parsed values
func NewParser(size int) (*Parser, error) {
	cache, err := lru.New[string, []FieldRef](size)
	if err != nil {
		return nil, err
	}
	return &Parser{cache: cache}, nil
}

// ParseByOption is the caching counterpart of the package-level function
func (p *Parser) ParseByOption(raw string) ([]FieldRef, error) {
	if refs, ok := p.cache.Get(raw); ok {
		return copyRefs(refs), nil
	}
	refs, err := ParseByOption(raw)
	if err != nil {
		return nil, err
	}
	p.cache.Add(raw, refs)
	return copyRefs(refs), nil
}

// Len returns the number of cached values
func (p *Parser) Len() int {
	return p.cache.Len()
}

func copyRefs(refs []FieldRef) []FieldRef {
	out := make([]FieldRef, len(refs))
	copy(out, refs)
	return out
}
