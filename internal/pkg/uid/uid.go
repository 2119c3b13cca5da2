// Package uid provides small ID generation abstractions.
package uid

// NumberID generates int64 identifiers, typically for database primary keys.
type NumberID interface {
	Generate() int64
}

// StringID generates string identifiers, typically for correlation and
// message IDs.
type StringID interface {
	Generate() string
}
