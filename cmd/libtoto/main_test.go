//go:build cgo

package main

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/toto"
	"github.com/wippyai/toto/bridge"
)

// useBuffer points the exported functions at a bridge that renders plain
// text into the returned buffer.
func useBuffer(t *testing.T) *bytes.Buffer {
	t.Helper()
	var out bytes.Buffer
	r := lipgloss.NewRenderer(&out)
	r.SetColorProfile(termenv.Ascii)

	prev := lib
	lib = bridge.New(bridge.Options{Output: &out, Renderer: r})
	t.Cleanup(func() {
		lib.Close()
		lib = prev
	})
	return &out
}

func cText(t *testing.T, s string) cSource {
	t.Helper()
	src := newCSource(s)
	t.Cleanup(src.free)
	return src
}

func TestTokenizerNext(t *testing.T) {
	useBuffer(t)
	src := cText(t, "a = 1\n")

	h, st := callTokenizerNew(src, false)
	require.Equal(t, int32(toto.StatusOK), st)
	require.NotZero(t, h)

	want := []struct {
		tag   toto.Tag
		start uint64
		text  string
	}{
		{toto.TagKey, 0, "a"},
		{toto.TagWhitespace, 1, ""},
		{toto.TagEquals, 2, ""},
		{toto.TagWhitespace, 3, ""},
		{toto.TagInteger, 4, "1"},
		{toto.TagNewline, 5, ""},
	}
	for i, w := range want {
		got := callTokenizerNext(h, noNilSlot)
		require.Equal(t, int32(toto.StatusOK), got.Status, "token %d", i)
		assert.Equal(t, int32(w.tag), got.Tag, "token %d", i)
		assert.Equal(t, w.start, got.Start, "token %d", i)
		assert.Equal(t, int32(0), got.HasError, "token %d", i)

		if w.text == "" {
			assert.Equal(t, int32(0), got.HasText, "token %d", i)
			continue
		}
		require.Equal(t, int32(1), got.HasText, "token %d", i)
		assert.Equal(t, uint64(len(w.text)), got.Length, "token %d", i)
		// text is borrowed from the caller's buffer
		assert.Equal(t, uint64(got.Text-src.addr()), got.Start, "token %d", i)
	}

	for range 2 {
		got := callTokenizerNext(h, noNilSlot)
		assert.Equal(t, int32(toto.StatusFinished), got.Status)
		assert.Equal(t, int32(unwritten), got.Tag)
		assert.Equal(t, int32(unwritten), got.HasText)
		assert.Zero(t, got.Text)
		assert.Equal(t, uint64(unwritten), got.Start)
		assert.Equal(t, int32(unwritten), got.HasError)
	}

	assert.Equal(t, int32(toto.StatusOK), callTokenizerDestroy(h))
	assert.Equal(t, int32(toto.StatusNull), callTokenizerDestroy(h))
	assert.Equal(t, int32(toto.StatusNull), callTokenizerNext(h, noNilSlot).Status)
}

func TestTokenizerNext_Error(t *testing.T) {
	out := useBuffer(t)
	src := cText(t, `a = "unterminated`)

	h, st := callTokenizerNew(src, false)
	require.Equal(t, int32(toto.StatusOK), st)
	defer callTokenizerDestroy(h)

	for range 4 {
		require.Equal(t, int32(toto.StatusOK), callTokenizerNext(h, noNilSlot).Status)
	}

	got := callTokenizerNext(h, noNilSlot)
	require.Equal(t, int32(toto.StatusError), got.Status)
	assert.Equal(t, int32(1), got.HasError)
	require.NotZero(t, got.Error)
	assert.Equal(t, int32(unwritten), got.Tag)

	require.Equal(t, int32(toto.StatusOK), callErrorExplain(got.Error, src))
	first := out.String()
	assert.Contains(t, first, "error: unclosed string")
	assert.Contains(t, first, "opened here")

	out.Reset()
	require.Equal(t, int32(toto.StatusOK), callErrorExplain(got.Error, src))
	assert.Equal(t, first, out.String())

	assert.Equal(t, int32(toto.StatusOK), callErrorDestroy(got.Error))
	assert.Equal(t, int32(toto.StatusNull), callErrorDestroy(got.Error))
	assert.Equal(t, int32(toto.StatusNull), callErrorExplain(got.Error, src))

	assert.Equal(t, int32(toto.StatusFinished), callTokenizerNext(h, noNilSlot).Status)
}

func TestNilOutParameters(t *testing.T) {
	useBuffer(t)
	src := cText(t, "a = 1\n")

	_, st := callTokenizerNew(src, true)
	assert.Equal(t, int32(toto.StatusNull), st)

	h, st := callTokenizerNew(src, false)
	require.Equal(t, int32(toto.StatusOK), st)
	defer callTokenizerDestroy(h)

	for slot := slotTag; slot <= slotError; slot++ {
		assert.Equal(t, int32(toto.StatusNull), callTokenizerNext(h, slot).Status, "nil slot %d", slot)
	}

	// rejected calls do not advance the tokenizer
	got := callTokenizerNext(h, noNilSlot)
	require.Equal(t, int32(toto.StatusOK), got.Status)
	assert.Equal(t, int32(toto.TagKey), got.Tag)
	assert.Equal(t, uint64(0), got.Start)

	col, row, st := callGetPosition(src, 0, true)
	assert.Equal(t, int32(toto.StatusNull), st)
	assert.Equal(t, uint64(unwritten), col)
	assert.Equal(t, uint64(unwritten), row)
}

func TestNullSource(t *testing.T) {
	out := useBuffer(t)
	var null cSource

	h, st := callTokenizerNew(null, false)
	assert.Equal(t, int32(toto.StatusNull), st)
	assert.Equal(t, uintptr(unwritten), h)

	assert.Equal(t, int32(toto.StatusNull), callTokenizerDestroy(0))
	assert.Equal(t, int32(toto.StatusNull), callErrorDestroy(0))
	assert.Equal(t, int32(toto.StatusNull), callErrorExplain(0, null))

	_, _, st = callGetPosition(null, 0, false)
	assert.Equal(t, int32(toto.StatusNull), st)
	assert.Equal(t, int32(toto.StatusNull), callShowUnclosed(null, 0))
	assert.Equal(t, int32(toto.StatusNull), callShowInvalidCharacter(null, 0))
	assert.Equal(t, int32(toto.StatusNull), callShowInvalidPart(null, 0, 0))
	assert.Empty(t, out.String())
}

func TestInvalidUTF8(t *testing.T) {
	out := useBuffer(t)
	bad := cText(t, "a = \xff")

	_, st := callTokenizerNew(bad, false)
	assert.Equal(t, int32(toto.StatusUTF8), st)

	_, _, st = callGetPosition(bad, 0, false)
	assert.Equal(t, int32(toto.StatusUTF8), st)
	assert.Equal(t, int32(toto.StatusUTF8), callShowUnclosed(bad, 0))
	assert.Empty(t, out.String())
}

func TestGetPosition(t *testing.T) {
	useBuffer(t)
	text := "line1\nline2"
	src := cText(t, text)

	tests := []struct {
		offset int
		col    uint64
		row    uint64
		status toto.Status
	}{
		{0, 1, 1, toto.StatusOK},
		{6, 1, 2, toto.StatusOK},
		{len(text), 6, 2, toto.StatusOK},
		{len(text) + 1, unwritten, unwritten, toto.StatusInvalidOffset},
	}

	for _, tt := range tests {
		col, row, st := callGetPosition(src, tt.offset, false)
		assert.Equal(t, int32(tt.status), st, "offset %d", tt.offset)
		assert.Equal(t, tt.col, col, "offset %d", tt.offset)
		assert.Equal(t, tt.row, row, "offset %d", tt.offset)
	}
}

func TestShow(t *testing.T) {
	out := useBuffer(t)
	text := `a = "x`
	src := cText(t, text)

	require.Equal(t, int32(toto.StatusOK), callShowUnclosed(src, 4))
	assert.Contains(t, out.String(), "^^ opened here")

	out.Reset()
	require.Equal(t, int32(toto.StatusOK), callShowInvalidCharacter(src, 0))
	assert.Contains(t, out.String(), "invalid character 'a'")

	out.Reset()
	assert.Equal(t, int32(toto.StatusInvalidOffset), callShowInvalidCharacter(src, len(text)))
	assert.Equal(t, int32(toto.StatusInvalidOffset), callShowUnclosed(src, len(text)+1))
	assert.Equal(t, int32(toto.StatusInvalidOffset), callShowInvalidPart(src, 4, 2))
	assert.Empty(t, out.String())
}
