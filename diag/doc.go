// Package diag resolves byte offsets to human positions and renders
// diagnostics that point into source text.
//
// Offsets that do not address a character boundary of the text are a
// programming error here: Position and every Printer method panic with an
// *errors.Error of kind invalid_offset. Callers at a trust boundary wrap
// these calls in a recover barrier (see package bridge).
//
// A rendered diagnostic looks like:
//
//	error: unclosed string
//	 --> 1:5
//	  |
//	1 | a = "unterminated
//	  |     ^^^^^^^^^^^^^ opened here
package diag
