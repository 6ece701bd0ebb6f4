package errors

import (
	// Go Internal Packages
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
)

// Kind classifies an error by where it came from and how the caller should
// surface it.
type Kind uint8

const (
	Other    Kind = iota // Unclassified error
	Invalid              // Bad user input, no network call was made
	Network              // Transport, DNS or timeout failure talking to the payment API
	Server               // Payment API answered with a non-2xx status
	Storage              // Local transaction store unavailable or write failed
	NotFound             // Item does not exist
	Internal             // Internal error or inconsistency
)

func (k Kind) String() string {
	switch k {
	case Invalid:
		return "validation_error"
	case Network:
		return "network_error"
	case Server:
		return "server_error"
	case Storage:
		return "storage_error"
	case NotFound:
		return "not_found"
	case Internal:
		return "internal_error"
	}
	return "unknown_error"
}

// Error is the error type used across the application.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	if e.Message == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Message, e.Err.Error())
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E builds an *Error of the given kind. err may be nil.
func E(kind Kind, msg string, err error) error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// KindOf returns the kind of the outermost *Error in the chain, or Other.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return Other
}

// Is reports whether err carries the given kind.
func Is(kind Kind, err error) bool {
	return err != nil && KindOf(err) == kind
}

// MessageOf returns the user facing message of err.
func MessageOf(err error) string {
	var e *Error
	if stderrors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// ValidationErrors collects per-field validation failures.
type ValidationErrors struct {
	fields map[string][]string
}

// ValidationErrs returns an empty ValidationErrors collector.
func ValidationErrs() *ValidationErrors {
	return &ValidationErrors{fields: map[string][]string{}}
}

// Add records a failure message for field.
func (v *ValidationErrors) Add(field, msg string) {
	v.fields[field] = append(v.fields[field], msg)
}

// Fields returns the failing field names in sorted order.
func (v *ValidationErrors) Fields() []string {
	names := make([]string, 0, len(v.fields))
	for name := range v.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Map returns a copy of the collected failures.
func (v *ValidationErrors) Map() map[string]string {
	out := make(map[string]string, len(v.fields))
	for name, msgs := range v.fields {
		out[name] = strings.Join(msgs, "; ")
	}
	return out
}

// Err returns nil when nothing was collected.
func (v *ValidationErrors) Err() error {
	if len(v.fields) == 0 {
		return nil
	}
	return v
}

func (v *ValidationErrors) Error() string {
	parts := make([]string, 0, len(v.fields))
	for _, name := range v.Fields() {
		parts = append(parts, fmt.Sprintf("%s: %s", name, strings.Join(v.fields[name], "; ")))
	}
	return strings.Join(parts, ", ")
}

// FieldErrors extracts the per-field map from an error chain, if any.
func FieldErrors(err error) map[string]string {
	var ve *ValidationErrors
	if stderrors.As(err, &ve) {
		return ve.Map()
	}
	return nil
}
