package config

import (
	"errors"
	"fmt"

	"github.com/SpineEventEngine/base-sub010/pkg/codegen"
	"github.com/SpineEventEngine/base-sub010/pkg/selector"
)

type factorySection struct {
	name     string
	patterns []PatternFactory
	build    func(selector.MessageSelector, string, *codegen.FactoryRegistry) (*codegen.MemberTask, error)
}

func (c *Config) factorySections() []factorySection {
	return []factorySection{
		{"methods.patterns", c.Methods.Patterns, codegen.NewGenerateMethods},
		{"fields.patterns", c.Fields.Patterns, codegen.NewGenerateFields},
		{"nested_classes.patterns", c.NestedClasses.Patterns, codegen.NewGenerateNestedClasses},
	}
}

// Tasks builds the generation tasks in evaluation order: UUID interface,
// entity state interface, pattern interfaces, single-message interfaces,
// option-declared interfaces, then methods, fields and nested classes.
//
// Patterns go through a selector.Registry, so a pattern listed twice keeps
// its first position with the last configured name. All configuration
// errors are reported together.
func (c *Config) Tasks(factories *codegen.FactoryRegistry, opts *codegen.Options) (*codegen.Tasks, error) {
	if factories == nil {
		factories = codegen.DefaultFactories()
	}
	tasks := codegen.NewTasks(opts)
	var errs []error
	add := func(t codegen.Task, err error) {
		if err != nil {
			errs = append(errs, err)
			return
		}
		tasks.Add(t)
	}

	add(codegen.NewUuidInterface(c.Interfaces.UuidMessage))
	add(codegen.NewEntityStateInterface(c.Interfaces.EntityState))

	interfaces := selector.NewRegistry[string]()
	for i, p := range c.Interfaces.Patterns {
		pattern, err := p.Pattern.Selector()
		if err != nil {
			errs = append(errs, fmt.Errorf("interfaces.patterns[%d]: %w", i, err))
			continue
		}
		errs = appendErr(errs, interfaces.Put(pattern, p.Interface))
	}
	for _, e := range interfaces.Entries() {
		add(codegen.NewPatternInterface(e.Selector.(selector.FilePattern), e.Value))
	}

	messages := selector.NewRegistry[string]()
	for i, m := range c.Interfaces.Messages {
		if err := messages.Put(selector.TypeName(m.Type), m.Interface); err != nil {
			errs = append(errs, fmt.Errorf("interfaces.messages[%d]: %w", i, err))
		}
	}
	for _, e := range messages.Entries() {
		add(codegen.NewTypeInterface(e.Selector.Pattern().Value, e.Value))
	}

	if c.UserOptions {
		tasks.Add(codegen.NewUserInterfaces())
	}

	add(codegen.NewGenerateMethods(selector.UuidValue(), c.Methods.UuidMessage, factories))
	for _, section := range c.factorySections() {
		registry := selector.NewRegistry[string]()
		for i, p := range section.patterns {
			pattern, err := p.Pattern.Selector()
			if err != nil {
				errs = append(errs, fmt.Errorf("%s[%d]: %w", section.name, i, err))
				continue
			}
			errs = appendErr(errs, registry.Put(pattern, p.Factory))
		}
		for _, e := range registry.Entries() {
			add(section.build(e.Selector, e.Value, factories))
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return tasks, nil
}

func appendErr(errs []error, err error) []error {
	if err != nil {
		return append(errs, err)
	}
	return errs
}
