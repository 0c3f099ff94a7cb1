// Package selector provides predicates deciding which message types a code
// generation task applies to.
//
// # Selectors
//
// File patterns test the path of the file declaring a message:
//
//	selector.Suffix("events.proto")
//	selector.Prefix("acme/sales/")
//	selector.MustRegex(`.*/(commands|events)\.proto`)
//	selector.All()
//
// Message selectors test the shape or options of the message itself:
//
//	selector.UuidValue()     single string field named "uuid"
//	selector.EntityState()   (entity).kind is set
//	selector.TypeName("acme.sales.Project")
//	selector.InFiles("acme/sales/state.proto")
//
// # Identity
//
// Every selector has a Pattern: its kind plus its literal parameter. Two
// selectors with equal patterns are interchangeable, which is what Registry
// relies on to keep one entry per pattern.
package selector
