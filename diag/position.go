package diag

import (
	"strings"
	"unicode/utf8"

	"github.com/wippyai/toto/errors"
)

// Position maps a byte offset to a 1-based column and row. Columns count
// characters, not bytes. The offset may equal len(text).
//
// Position panics with an *errors.Error if offset is negative, beyond the
// end of text, or inside a multi-byte sequence.
func Position(text string, offset int) (col, row int) {
	mustBoundary(text, offset)

	prefix := text[:offset]
	row = strings.Count(prefix, "\n") + 1
	lineStart := strings.LastIndexByte(prefix, '\n') + 1
	col = utf8.RuneCountInString(prefix[lineStart:]) + 1
	return col, row
}

// Boundary reports whether offset addresses a character boundary of text.
func Boundary(text string, offset int) bool {
	if offset < 0 || offset > len(text) {
		return false
	}
	return offset == len(text) || utf8.RuneStart(text[offset])
}

func mustBoundary(text string, offset int) {
	if !Boundary(text, offset) {
		panic(errors.InvalidOffset(errors.PhaseDiagnose, offset, len(text)))
	}
}

// lineAt returns the bounds of the line containing offset, excluding the
// line break.
func lineAt(text string, offset int) (start, end int) {
	start = strings.LastIndexByte(text[:offset], '\n') + 1
	end = len(text)
	if i := strings.IndexByte(text[offset:], '\n'); i >= 0 {
		end = offset + i
	}
	if end > start && text[end-1] == '\r' {
		end--
	}
	return start, end
}
