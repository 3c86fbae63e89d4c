package diag

import (
	"errors"
	"fmt"

	"incode/internal/source"
)

// Kind separates syntactic directive faults from structural region faults.
type Kind uint8

const (
	KindTool Kind = iota
	KindInvalidDirective
	KindInvalidRegion
)

func (k Kind) String() string {
	switch k {
	case KindInvalidDirective:
		return "invalid directive"
	case KindInvalidRegion:
		return "invalid region"
	default:
		return "tool error"
	}
}

var (
	// ErrInvalidDirective matches every *Error of KindInvalidDirective.
	ErrInvalidDirective = errors.New("invalid directive")
	// ErrInvalidRegion matches every *Error of KindInvalidRegion.
	ErrInvalidRegion = errors.New("invalid region")
)

// Error is a fatal extraction error. It is built once, at the point where
// the offending byte offset is known, and always carries a resolved position.
type Error struct {
	Code    Code
	Span    source.Span
	Pos     source.LineCol
	Message string
}

// NewError resolves span.Start against text and builds the error.
func NewError(code Code, text string, span source.Span, msg string) *Error {
	return &Error{
		Code:    code,
		Span:    span,
		Pos:     source.MustPosition(text, span.Start),
		Message: msg,
	}
}

// Errorf is NewError with a formatted message.
func Errorf(code Code, text string, span source.Span, format string, args ...any) *Error {
	return NewError(code, text, span, fmt.Sprintf(format, args...))
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%d:%d] %s", e.Pos.Line, e.Pos.Col, e.Message)
}

// Kind reports whether e is an invalid directive or an invalid region.
func (e *Error) Kind() Kind {
	return e.Code.Kind()
}

// Is makes errors.Is(err, ErrInvalidDirective) and errors.Is(err, ErrInvalidRegion) work.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrInvalidDirective:
		return e.Kind() == KindInvalidDirective
	case ErrInvalidRegion:
		return e.Kind() == KindInvalidRegion
	}
	return false
}

// Diagnostic converts the error into an error-severity diagnostic.
func (e *Error) Diagnostic() Diagnostic {
	return New(SevError, e.Code, e.Span, e.Message)
}

// FromError converts any error into a diagnostic. *Error values keep their
// code and span; anything else is reported under fallback at primary.
func FromError(err error, fallback Code, primary source.Span) Diagnostic {
	var extractErr *Error
	if errors.As(err, &extractErr) {
		d := extractErr.Diagnostic()
		d.Primary.File = primary.File
		return d
	}
	return New(SevError, fallback, primary, err.Error())
}
