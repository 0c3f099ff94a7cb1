// Package enrichment resolves the references of enrichment messages.
//
// An enrichment is a message carrying the (enrichment_for) option: a type
// reference naming the messages it enriches. Each of its fields is filled
// from a field of those messages, named by the (by) option or, without the
// option, by the field's own name.
package enrichment
