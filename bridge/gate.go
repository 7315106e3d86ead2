package bridge

import (
	"unicode/utf8"
	"unsafe"

	"github.com/wippyai/toto"
)

// Borrow validates src and returns a string that aliases it without
// copying. A nil slice reports StatusNull and bytes that are not valid
// UTF-8 report StatusUTF8.
//
// The returned string is only valid while src stays alive and unmodified.
func Borrow(src []byte) (string, toto.Status) {
	if src == nil {
		return "", toto.StatusNull
	}
	if !utf8.Valid(src) {
		return "", toto.StatusUTF8
	}
	return unsafe.String(unsafe.SliceData(src), len(src)), toto.StatusOK
}
