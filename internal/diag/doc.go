// Package diag defines the error and diagnostic model shared by the directive
// parser, the region resolver and the command line tool.
//
// # Errors
//
// Extraction fails fast: the first fault aborts the traversal and surfaces as
// an *Error. Every *Error carries a numeric Code, the byte Span of the
// offending directive line and its resolved 1-based position, and renders as
//
//	[line:col] message
//
// Codes fall into two kinds. 1xxx codes are invalid directives (unknown name,
// missing or forbidden parentheses, malformed JSON, wrong argument shape).
// 2xxx codes are invalid regions (unclosed begin, an emit region containing
// directives, an emit never closed by end). Use errors.Is with
// ErrInvalidDirective and ErrInvalidRegion to classify them.
//
// # Diagnostics
//
// The command line tool processes many files and keeps going after a failure.
// It converts errors into Diagnostic records (FromError) and collects them in a
// Bag through a Reporter. Rendering lives in internal/diagfmt.
package diag
