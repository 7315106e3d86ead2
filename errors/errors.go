package errors

import (
	"fmt"
	"strconv"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseValidate Phase = "validate" // boundary argument checks
	PhaseTokenize Phase = "tokenize" // lexical scanning
	PhaseExplain  Phase = "explain"  // rendering a tokenize error
	PhaseDiagnose Phase = "diagnose" // position resolution and pointers
	PhaseHandle   Phase = "handle"   // handle table operations
	PhaseABI      Phase = "abi"      // guest memory access
)

// Kind categorizes the error
type Kind string

const (
	KindNilPointer       Kind = "nil_pointer"
	KindInvalidUTF8      Kind = "invalid_utf8"
	KindInvalidOffset    Kind = "invalid_offset"
	KindInvalidHandle    Kind = "invalid_handle"
	KindOutOfBounds      Kind = "out_of_bounds"
	KindUnclosed         Kind = "unclosed"
	KindInvalidCharacter Kind = "invalid_character"
	KindInvalidPart      Kind = "invalid_part"
)

// NoOffset marks an unset Start or Pos.
const NoOffset = -1

// Error is the structured error type used throughout the module.
// Start and Pos are byte offsets into the text the error was produced
// against and are only meaningful relative to that exact text.
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	Start  int
	Pos    int
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	switch {
	case e.Start >= 0 && e.Pos >= 0:
		b.WriteString(" at ")
		b.WriteString(strconv.Itoa(e.Start))
		b.WriteString("..")
		b.WriteString(strconv.Itoa(e.Pos))
	case e.Start >= 0:
		b.WriteString(" at ")
		b.WriteString(strconv.Itoa(e.Start))
	case e.Pos >= 0:
		b.WriteString(" at ")
		b.WriteString(strconv.Itoa(e.Pos))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Lexical reports whether the error describes a fault in the scanned text.
func (e *Error) Lexical() bool {
	switch e.Kind {
	case KindUnclosed, KindInvalidCharacter, KindInvalidPart:
		return true
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
			Start: NoOffset,
			Pos:   NoOffset,
		},
	}
}

// Start sets the offset where the faulty construct begins
func (b *Builder) Start(offset int) *Builder {
	b.err.Start = offset
	return b
}

// Pos sets the offset of the fault itself
func (b *Builder) Pos(offset int) *Builder {
	b.err.Pos = offset
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// NilPointer creates an error for an absent required argument
func NilPointer(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNilPointer,
		Detail: what + " is nil",
		Start:  NoOffset,
		Pos:    NoOffset,
	}
}

// InvalidUTF8 creates an invalid UTF-8 error. Pos is the offset of the
// first byte that does not decode.
func InvalidUTF8(phase Phase, data []byte, pos int) *Error {
	preview := data
	if pos >= 0 && pos <= len(data) {
		preview = data[pos:]
	}
	if len(preview) > 8 {
		preview = preview[:8]
	}
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidUTF8,
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
		Start:  NoOffset,
		Pos:    pos,
	}
}

// InvalidOffset creates an error for an offset that does not address a
// character boundary of a text of the given length.
func InvalidOffset(phase Phase, offset, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidOffset,
		Detail: fmt.Sprintf("offset %d is not a character boundary (length %d)", offset, length),
		Value:  offset,
		Start:  NoOffset,
		Pos:    NoOffset,
	}
}

// InvalidRange creates an error for a span whose end precedes its start.
func InvalidRange(phase Phase, start, pos int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidOffset,
		Detail: fmt.Sprintf("range end %d precedes start %d", pos, start),
		Start:  NoOffset,
		Pos:    NoOffset,
	}
}

// InvalidHandle creates an error for a handle that is zero, destroyed, or
// of the wrong table.
func InvalidHandle(phase Phase, what string, handle uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidHandle,
		Detail: fmt.Sprintf("%s handle %#x is not live", what, handle),
		Value:  handle,
		Start:  NoOffset,
		Pos:    NoOffset,
	}
}

// OutOfBounds creates an out of bounds error for guest memory access
func OutOfBounds(phase Phase, ptr, length uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("range [%d, %d) outside memory", ptr, uint64(ptr)+uint64(length)),
		Value:  ptr,
		Start:  NoOffset,
		Pos:    NoOffset,
	}
}

// Unclosed creates a lexical error for a construct opened at start and
// never terminated.
func Unclosed(start int, what string) *Error {
	return &Error{
		Phase:  PhaseTokenize,
		Kind:   KindUnclosed,
		Detail: "unclosed " + what,
		Start:  start,
		Pos:    NoOffset,
	}
}

// InvalidCharacter creates a lexical error for a single unexpected character.
func InvalidCharacter(pos int, r rune) *Error {
	return &Error{
		Phase:  PhaseTokenize,
		Kind:   KindInvalidCharacter,
		Detail: fmt.Sprintf("unexpected character %q", r),
		Value:  r,
		Start:  NoOffset,
		Pos:    pos,
	}
}

// InvalidPart creates a lexical error for the span [start, pos).
func InvalidPart(start, pos int, what string) *Error {
	return &Error{
		Phase:  PhaseTokenize,
		Kind:   KindInvalidPart,
		Detail: "invalid " + what,
		Start:  start,
		Pos:    pos,
	}
}
