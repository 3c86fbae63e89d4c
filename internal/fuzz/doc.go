// Package fuzztests houses Go fuzz harnesses for the directive pipeline
// (matcher -> parser -> scope resolver -> inject). They guard against
// panics and hangs on arbitrary input and check the structural invariants
// of every region list that resolves without error.
//
// The harnesses do not write files or run the CLI.
package fuzztests
