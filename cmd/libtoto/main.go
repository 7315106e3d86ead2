// Command libtoto builds the bridge as a C shared library:
//
//	go build -buildmode=c-shared -o libtoto.so ./cmd/libtoto
//
// Source text is passed as NUL-terminated strings that must stay alive and
// unmodified while any tokenizer or token text derived from them is in
// use. Handles are opaque integers; zero is never issued.
package main

/*
#include <string.h>
#include "toto.h"
*/
import "C"

import (
	"unsafe"

	"github.com/wippyai/toto"
	"github.com/wippyai/toto/bridge"
)

var lib = bridge.NewWithDefaults()

func status(st toto.Status) C.int32_t {
	return C.int32_t(st)
}

// source borrows a C string without copying.
func source(s *C.char) []byte {
	if s == nil {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(s)), int(C.strlen(s)))
}

func cbool(b bool) C.int32_t {
	if b {
		return 1
	}
	return 0
}

//export toto_tokenizer_new
func toto_tokenizer_new(src *C.char, tokenizer *C.toto_tokenizer) C.int32_t {
	if tokenizer == nil {
		return status(toto.StatusNull)
	}
	h, st := lib.NewTokenizer(source(src))
	if st == toto.StatusOK {
		*tokenizer = C.toto_tokenizer(h)
	}
	return status(st)
}

//export toto_tokenizer_next
func toto_tokenizer_next(tokenizer C.toto_tokenizer, tokenType *C.int32_t, hasText *C.int32_t,
	text **C.char, length *C.size_t, start *C.size_t, hasError *C.int32_t, errOut *C.toto_error) C.int32_t {
	if tokenType == nil || hasText == nil || text == nil || length == nil ||
		start == nil || hasError == nil || errOut == nil {
		return status(toto.StatusNull)
	}

	step, st := lib.Next(bridge.TokenizerHandle(tokenizer))
	switch st {
	case toto.StatusOK:
		*tokenType = C.int32_t(step.Tag)
		*start = C.size_t(step.Start)
		*hasText = cbool(step.HasText)
		if step.HasText {
			*text = (*C.char)(unsafe.Pointer(unsafe.StringData(step.Text)))
			*length = C.size_t(step.Len())
		}
		*hasError = 0
	case toto.StatusError:
		*hasError = 1
		*errOut = C.toto_error(step.Error)
	}
	return status(st)
}

//export toto_tokenizer_destroy
func toto_tokenizer_destroy(tokenizer C.toto_tokenizer) C.int32_t {
	return status(lib.DestroyTokenizer(bridge.TokenizerHandle(tokenizer)))
}

//export toto_error_explain
func toto_error_explain(err C.toto_error, src *C.char) C.int32_t {
	return status(lib.Explain(bridge.ErrorHandle(err), source(src)))
}

//export toto_error_destroy
func toto_error_destroy(err C.toto_error) C.int32_t {
	return status(lib.DestroyError(bridge.ErrorHandle(err)))
}

//export toto_debug_get_position
func toto_debug_get_position(text *C.char, offset C.size_t, col *C.size_t, row *C.size_t) C.int32_t {
	if col == nil || row == nil {
		return status(toto.StatusNull)
	}
	c, r, st := lib.Position(source(text), int(offset))
	if st == toto.StatusOK {
		*col = C.size_t(c)
		*row = C.size_t(r)
	}
	return status(st)
}

//export toto_debug_show_unclosed
func toto_debug_show_unclosed(text *C.char, start C.size_t) C.int32_t {
	return status(lib.ShowUnclosed(source(text), int(start)))
}

//export toto_debug_show_invalid_character
func toto_debug_show_invalid_character(text *C.char, pos C.size_t) C.int32_t {
	return status(lib.ShowInvalidCharacter(source(text), int(pos)))
}

//export toto_debug_show_invalid_part
func toto_debug_show_invalid_part(text *C.char, start, pos C.size_t) C.int32_t {
	return status(lib.ShowInvalidPart(source(text), int(start), int(pos)))
}

func main() {}
