package main

/*
#include <stdlib.h>
#include "toto.h"
*/
import "C"

import "unsafe"

// The helpers below let Go code in this package drive the exported
// functions with C memory, as a C caller would.

// unwritten fills integer out slots so a call that writes nothing is
// visible. The text slot starts out nil.
const unwritten = 0x5a5a5a5a

// cSource is a NUL-terminated copy of a string in C memory.
type cSource struct {
	p *C.char
}

func newCSource(s string) cSource {
	return cSource{p: C.CString(s)}
}

func (s cSource) free() {
	if s.p != nil {
		C.free(unsafe.Pointer(s.p))
	}
}

func (s cSource) addr() uintptr {
	return uintptr(unsafe.Pointer(s.p))
}

// Out parameter positions of toto_tokenizer_next.
const (
	slotTag = iota
	slotHasText
	slotText
	slotLength
	slotStart
	slotHasError
	slotError
	noNilSlot = -1
)

type nextResult struct {
	Status   int32
	Tag      int32
	HasText  int32
	Text     uintptr
	Length   uint64
	Start    uint64
	HasError int32
	Error    uintptr
}

func callTokenizerNew(src cSource, nilOut bool) (uintptr, int32) {
	h := C.toto_tokenizer(unwritten)
	out := &h
	if nilOut {
		out = nil
	}
	st := toto_tokenizer_new(src.p, out)
	return uintptr(h), int32(st)
}

// callTokenizerNext passes nil for the out parameter at nilSlot.
func callTokenizerNext(h uintptr, nilSlot int) nextResult {
	var (
		tag      = C.int32_t(unwritten)
		hasText  = C.int32_t(unwritten)
		text     *C.char
		length   = C.size_t(unwritten)
		start    = C.size_t(unwritten)
		hasError = C.int32_t(unwritten)
		errOut   = C.toto_error(unwritten)
	)
	pTag, pHasText, pText, pLength := &tag, &hasText, &text, &length
	pStart, pHasError, pErr := &start, &hasError, &errOut
	switch nilSlot {
	case slotTag:
		pTag = nil
	case slotHasText:
		pHasText = nil
	case slotText:
		pText = nil
	case slotLength:
		pLength = nil
	case slotStart:
		pStart = nil
	case slotHasError:
		pHasError = nil
	case slotError:
		pErr = nil
	}

	st := toto_tokenizer_next(C.toto_tokenizer(h), pTag, pHasText, pText, pLength, pStart, pHasError, pErr)
	return nextResult{
		Status:   int32(st),
		Tag:      int32(tag),
		HasText:  int32(hasText),
		Text:     uintptr(unsafe.Pointer(text)),
		Length:   uint64(length),
		Start:    uint64(start),
		HasError: int32(hasError),
		Error:    uintptr(errOut),
	}
}

func callTokenizerDestroy(h uintptr) int32 {
	return int32(toto_tokenizer_destroy(C.toto_tokenizer(h)))
}

func callErrorExplain(e uintptr, src cSource) int32 {
	return int32(toto_error_explain(C.toto_error(e), src.p))
}

func callErrorDestroy(e uintptr) int32 {
	return int32(toto_error_destroy(C.toto_error(e)))
}

func callGetPosition(src cSource, offset int, nilOut bool) (col, row uint64, st int32) {
	c, r := C.size_t(unwritten), C.size_t(unwritten)
	pc, pr := &c, &r
	if nilOut {
		pc = nil
	}
	st = int32(toto_debug_get_position(src.p, C.size_t(offset), pc, pr))
	return uint64(c), uint64(r), st
}

func callShowUnclosed(src cSource, start int) int32 {
	return int32(toto_debug_show_unclosed(src.p, C.size_t(start)))
}

func callShowInvalidCharacter(src cSource, pos int) int32 {
	return int32(toto_debug_show_invalid_character(src.p, C.size_t(pos)))
}

func callShowInvalidPart(src cSource, start, pos int) int32 {
	return int32(toto_debug_show_invalid_part(src.p, C.size_t(start), C.size_t(pos)))
}
