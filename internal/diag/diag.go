// Package diag accumulates reader errors and warnings.
//
// The public contract is two strings: every message is rendered with the
// "[USDC]" prefix in append order. Internally entries keep their kind so
// tests and callers that care can match on it instead of the message text.
package diag

import (
	"fmt"
	"strings"
)

// Tag prefixes every rendered diagnostic line.
const Tag = "[USDC]"

// Kind classifies a fatal error.
type Kind int

const (
	KindInternal Kind = iota
	KindTableBounds
	KindDuplicatePathIndex
	KindMissingFieldSet
	KindFieldTypeMismatch
	KindMissingTypeName
	KindMissingSpecifier
	KindInvalidSpecifier
	KindInvalidEnumToken
	KindOutOfRangeValue
	KindOversizedFieldSet
	KindDepthExceeded
	KindListOpMultiQualifier
	KindListOpUnsupported
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindInternal:
		return "InternalError"
	case KindTableBounds:
		return "TableBoundsError"
	case KindDuplicatePathIndex:
		return "DuplicatePathIndex"
	case KindMissingFieldSet:
		return "MissingFieldSet"
	case KindFieldTypeMismatch:
		return "FieldTypeMismatch"
	case KindMissingTypeName:
		return "MissingTypeName"
	case KindMissingSpecifier:
		return "MissingSpecifier"
	case KindInvalidSpecifier:
		return "InvalidSpecifier"
	case KindInvalidEnumToken:
		return "InvalidEnumToken"
	case KindOutOfRangeValue:
		return "OutOfRangeValue"
	case KindOversizedFieldSet:
		return "OversizedFieldSet"
	case KindDepthExceeded:
		return "DepthExceeded"
	case KindListOpMultiQualifier:
		return "ListOpMultiQualifier"
	case KindListOpUnsupported:
		return "ListOpUnsupported"
	case KindDecode:
		return "DecodeError"
	default:
		return "UnknownError"
	}
}

// Error is a fatal reader error with a kind and a message.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

// Errorf builds an *Error with a formatted message.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Sink collects errors and warnings in append order.
type Sink struct {
	errs       []Error
	warns      []string
	memoryUsed uint64
}

// PushError records a fatal error.
func (s *Sink) PushError(err error) {
	if err == nil {
		return
	}
	if de, ok := err.(*Error); ok {
		s.errs = append(s.errs, *de)
		return
	}
	s.errs = append(s.errs, Error{Kind: KindInternal, Msg: err.Error()})
}

// Warnf records a non-fatal warning.
func (s *Sink) Warnf(format string, args ...any) {
	s.warns = append(s.warns, fmt.Sprintf(format, args...))
}

// HasError reports whether any fatal error was recorded.
func (s *Sink) HasError() bool { return len(s.errs) > 0 }

// Errors exposes the structured entries.
func (s *Sink) Errors() []Error { return s.errs }

// HasErrorKind reports whether an error of kind was recorded.
func (s *Sink) HasErrorKind(kind Kind) bool {
	for _, e := range s.errs {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

// Error renders the accumulated error string, one tagged line per entry.
func (s *Sink) Error() string {
	if len(s.errs) == 0 {
		return ""
	}
	var b strings.Builder
	for _, e := range s.errs {
		fmt.Fprintf(&b, "%s %s: %s\n", Tag, e.Kind, e.Msg)
	}
	return b.String()
}

// Warning renders the accumulated warning string.
func (s *Sink) Warning() string {
	if len(s.warns) == 0 {
		return ""
	}
	var b strings.Builder
	for _, w := range s.warns {
		fmt.Fprintf(&b, "%s %s\n", Tag, w)
	}
	return b.String()
}

// AddMemory adds n bytes to the advisory memory counter.
func (s *Sink) AddMemory(n uint64) { s.memoryUsed += n }

// MemoryUsageMiB returns the advisory memory counter in MiB.
func (s *Sink) MemoryUsageMiB() uint64 { return s.memoryUsed / (1024 * 1024) }
