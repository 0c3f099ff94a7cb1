package codegen

import (
	"fmt"
	"strings"

	"github.com/SpineEventEngine/base-sub010/pkg/descriptors"
	"github.com/SpineEventEngine/base-sub010/pkg/javanames"
)

// GenericParam resolves a type argument of an interface for a message
type GenericParam interface {
	Resolve(msg *descriptors.MessageType) (string, error)
}

// Identity is the message's own class
type Identity struct{}

// Resolve returns the class name of the message relative to its top-level class
func (Identity) Resolve(msg *descriptors.MessageType) (string, error) {
	return javanames.SimpleName(msg.Desc), nil
}

func (Identity) String() string { return "identity" }

// FirstField is the Java type of the first declared field
type FirstField struct{}

// Resolve returns the type of the first field or ErrFirstGenericParam
func (FirstField) Resolve(msg *descriptors.MessageType) (string, error) {
	fields := msg.Fields()
	if fields.Len() == 0 {
		return "", fmt.Errorf("%w: %s declares no fields", ErrFirstGenericParam, msg.FullName())
	}
	return javanames.FieldType(fields.Get(0)), nil
}

func (FirstField) String() string { return "first_field" }

// Literal is a fixed type argument
type Literal string

// Resolve returns the literal
func (l Literal) Resolve(*descriptors.MessageType) (string, error) {
	return string(l), nil
}

// MessageInterface is an interface a message class implements
type MessageInterface struct {
	Name     string
	Generics []GenericParam
}

// Render returns the interface reference for msg, such as "io.spine.base.UuidValue<ProjectId>"
func (i MessageInterface) Render(msg *descriptors.MessageType) (string, error) {
	if len(i.Generics) == 0 {
		return i.Name, nil
	}
	args := make([]string, 0, len(i.Generics))
	for _, g := range i.Generics {
		arg, err := g.Resolve(msg)
		if err != nil {
			return "", err
		}
		args = append(args, arg)
	}
	return i.Name + "<" + strings.Join(args, ", ") + ">", nil
}
