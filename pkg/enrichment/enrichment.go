package enrichment

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/SpineEventEngine/base-sub010/pkg/descriptors"
	"github.com/SpineEventEngine/base-sub010/pkg/fieldref"
	"github.com/SpineEventEngine/base-sub010/pkg/observability"
	"github.com/SpineEventEngine/base-sub010/pkg/typeref"
)

const parseCacheSize = 1024

// Enrichment is a resolved enrichment message
type Enrichment struct {
	Message *descriptors.MessageType
	For     typeref.TypeRef
	Sources []*descriptors.MessageType
	Fields  []Field
}

// Field is a field of an enrichment with the source fields it is filled from
type Field struct {
	Desc protoreflect.FieldDescriptor
	// Refs is empty when the field has no (by) option
	Refs    []fieldref.FieldRef
	Sources []Source
}

// Source is a field of an enriched message, or of the event context
type Source struct {
	Message *descriptors.MessageType
	Field   protoreflect.FieldDescriptor
}

// Resolver resolves enrichments of a file set
type Resolver struct {
	parser *fieldref.Parser
	log    logrus.FieldLogger
}

// NewResolver creates a resolver. A nil parser gets a fresh cache.
func NewResolver(parser *fieldref.Parser, log logrus.FieldLogger) (*Resolver, error) {
	if parser == nil {
		p, err := fieldref.NewParser(parseCacheSize)
		if err != nil {
			return nil, err
		}
		parser = p
	}
	return &Resolver{parser: parser, log: observability.OrDiscard(log)}, nil
}

// Resolve is a shortcut for resolving with a new Resolver
func Resolve(set *descriptors.FileSet, parser *fieldref.Parser) ([]Enrichment, error) {
	r, err := NewResolver(parser, nil)
	if err != nil {
		return nil, err
	}
	return r.Resolve(set)
}

// Resolve finds every enrichment among the files to generate and checks its
// references. All broken references are reported together.
func (r *Resolver) Resolve(set *descriptors.FileSet) ([]Enrichment, error) {
	all := set.AllMessages()
	eventCtx := findContext(all)

	var result []Enrichment
	var errs []error
	for _, msg := range set.Messages() {
		raw, ok := msg.EnrichmentFor()
		if !ok || strings.TrimSpace(raw) == "" {
			continue
		}
		e, err := r.resolve(msg, raw, all, eventCtx)
		if err != nil {
			errs = append(errs, fmt.Errorf("enrichment %s: %w", msg.FullName(), err))
			continue
		}
		r.log.WithFields(logrus.Fields{
			"enrichment": msg.FullName(),
			"sources":    len(e.Sources),
		}).Debug("Resolved enrichment")
		result = append(result, e)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return result, nil
}

func (r *Resolver) resolve(msg *descriptors.MessageType, raw string, all []*descriptors.MessageType, eventCtx *descriptors.MessageType) (Enrichment, error) {
	target, err := typeref.Parse(raw)
	if err != nil {
		return Enrichment{}, err
	}

	e := Enrichment{Message: msg, For: target}
	for _, m := range all {
		if m != msg && target.MatchesFrom(msg.Desc, m.Desc) {
			e.Sources = append(e.Sources, m)
		}
	}
	if len(e.Sources) == 0 {
		return Enrichment{}, fmt.Errorf("%w: %q", ErrNoSources, raw)
	}

	var errs []error
	fields := msg.Fields()
	for i := 0; i < fields.Len(); i++ {
		f, err := r.resolveField(msg, fields.Get(i), e.Sources, eventCtx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		e.Fields = append(e.Fields, f)
	}
	if len(errs) > 0 {
		return Enrichment{}, errors.Join(errs...)
	}
	return e, nil
}

func (r *Resolver) resolveField(msg *descriptors.MessageType, fd protoreflect.FieldDescriptor, sources []*descriptors.MessageType, eventCtx *descriptors.MessageType) (Field, error) {
	f := Field{Desc: fd}

	by, ok := msg.By(fd)
	if !ok || strings.TrimSpace(by) == "" {
		f.Sources = lookup(sources, fd.Name())
		if len(f.Sources) == 0 {
			return Field{}, fmt.Errorf("field %s: %w: %s", fd.Name(), ErrUnknownField, fd.Name())
		}
		return f, nil
	}

	refs, err := r.parser.ParseByOption(by)
	if err != nil {
		return Field{}, fmt.Errorf("field %s: %w", fd.Name(), err)
	}
	f.Refs = refs

	for _, ref := range refs {
		found, err := resolveRef(msg, ref, sources, eventCtx)
		if err != nil {
			return Field{}, fmt.Errorf("field %s: %w", fd.Name(), err)
		}
		f.Sources = append(f.Sources, found...)
	}
	return f, nil
}

// resolveRef returns the fields a single alternative points to. Context
// references are only checked when the event context is known.
func resolveRef(msg *descriptors.MessageType, ref fieldref.FieldRef, sources []*descriptors.MessageType, eventCtx *descriptors.MessageType) ([]Source, error) {
	name := protoreflect.Name(ref.FieldName())

	if ref.IsContext() {
		if eventCtx == nil {
			return nil, nil
		}
		found := lookup([]*descriptors.MessageType{eventCtx}, name)
		if len(found) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrUnknownField, ref)
		}
		return found, nil
	}

	candidates := sources
	if ref.HasType() && !ref.IsInner() {
		candidates = nil
		for _, s := range sources {
			if ref.TypeRef().MatchesFrom(msg.Desc, s.Desc) {
				candidates = append(candidates, s)
			}
		}
		if len(candidates) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrUnknownType, ref)
		}
	}

	found := lookup(candidates, name)
	if len(found) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, ref)
	}
	return found, nil
}

func lookup(msgs []*descriptors.MessageType, name protoreflect.Name) []Source {
	var result []Source
	for _, m := range msgs {
		if fd := m.Fields().ByName(name); fd != nil {
			result = append(result, Source{Message: m, Field: fd})
		}
	}
	return result
}

func findContext(msgs []*descriptors.MessageType) *descriptors.MessageType {
	for _, m := range msgs {
		if m.Name() == typeref.EventContextName {
			return m
		}
	}
	return nil
}
