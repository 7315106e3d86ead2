package lexer

import (
	"io"
	"iter"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/wippyai/toto/errors"
)

var (
	decimalInt = `[+-]?(?:0|[1-9](?:_?[0-9])*)`
	digits     = `[0-9](?:_?[0-9])*`
	exponent   = `[eE][+-]?` + digits

	integerRe = regexp.MustCompile(`^(?:` + decimalInt +
		`|0x[0-9A-Fa-f](?:_?[0-9A-Fa-f])*|0o[0-7](?:_?[0-7])*|0b[01](?:_?[01])*)$`)
	floatRe = regexp.MustCompile(`^(?:` + decimalInt + `(?:\.` + digits + `(?:` + exponent + `)?|` + exponent +
		`)|[+-]?(?:inf|nan))$`)
	dateTimeRe = regexp.MustCompile(`^(?:\d{4}-\d{2}-\d{2}` +
		`(?:[Tt ]\d{2}:\d{2}:\d{2}(?:\.\d+)?(?:[Zz]|[+-]\d{2}:\d{2})?)?` +
		`|\d{2}:\d{2}:\d{2}(?:\.\d+)?)$`)
	localDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

type frame uint8

const (
	frameNone frame = iota
	frameArray
	frameInline
	frameHeader
	frameArrayHeader
)

// Tokens is a forward-only cursor over TOML-like text.
//
// The cursor tracks whether the next bare word is a key or a value and
// which brackets are open, which is enough to tell table headers from
// arrays. It does not validate document structure.
type Tokens struct {
	src   string
	stack []frame
	pos   int
	value bool
}

// New returns a cursor over src. The cursor keeps src and slices it for
// every token it returns.
func New(src string) *Tokens {
	return &Tokens{src: src}
}

// Offset returns the byte offset of the next token.
func (t *Tokens) Offset() int {
	return t.pos
}

// Next returns the next token. It returns io.EOF once the input is
// exhausted. Lexical faults are returned as *errors.Error; the cursor
// moves past the faulty region so scanning may continue.
func (t *Tokens) Next() (Token, error) {
	if t.pos >= len(t.src) {
		return Token{}, io.EOF
	}

	start := t.pos
	switch c := t.src[start]; c {
	case ' ', '\t':
		end := start + 1
		for end < len(t.src) && (t.src[end] == ' ' || t.src[end] == '\t') {
			end++
		}
		return t.emit(Whitespace, start, end), nil

	case '\n':
		t.newline()
		return t.emit(Newline, start, start+1), nil

	case '\r':
		if strings.HasPrefix(t.src[start:], "\r\n") {
			t.newline()
			return t.emit(Newline, start, start+2), nil
		}
		return t.invalidCharacter(start)

	case '#':
		end := start + 1
		for end < len(t.src) && t.src[end] != '\n' {
			end++
		}
		// leave the \r of a \r\n line break to the newline token
		if end < len(t.src) && end > start+1 && t.src[end-1] == '\r' {
			end--
		}
		return t.emit(Comment, start, end), nil

	case '=':
		t.value = true
		return t.emit(Equals, start, start+1), nil

	case ',':
		switch t.top() {
		case frameArray:
			t.value = true
		case frameInline:
			t.value = false
		default:
			return t.invalidCharacter(start)
		}
		return t.emit(Comma, start, start+1), nil

	case '.':
		if t.value {
			return t.invalidCharacter(start)
		}
		return t.emit(Dot, start, start+1), nil

	case '[':
		return t.openBracket(start)

	case ']':
		return t.closeBracket(start)

	case '{':
		if !t.value {
			return t.invalidCharacter(start)
		}
		t.stack = append(t.stack, frameInline)
		t.value = false
		return t.emit(CurlyOpen, start, start+1), nil

	case '}':
		if t.top() != frameInline {
			return t.invalidCharacter(start)
		}
		t.pop()
		t.value = false
		return t.emit(CurlyClose, start, start+1), nil

	case '"', '\'':
		return t.scanString(start, c)
	}

	if t.value {
		return t.scanValue(start)
	}
	return t.scanKey(start)
}

// All yields tokens until the input is exhausted. Lexical errors are
// yielded with a zero Token and scanning continues after them.
func (t *Tokens) All() iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		for {
			tok, err := t.Next()
			if err == io.EOF {
				return
			}
			if !yield(tok, err) {
				return
			}
		}
	}
}

// Tokenize scans src completely and stops at the first lexical error.
func Tokenize(src string) ([]Token, error) {
	var tokens []Token
	for tok, err := range New(src).All() {
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}

func (t *Tokens) emit(kind Kind, start, end int) Token {
	t.pos = end
	return Token{Kind: kind, Start: start, Text: t.src[start:end]}
}

func (t *Tokens) top() frame {
	if len(t.stack) == 0 {
		return frameNone
	}
	return t.stack[len(t.stack)-1]
}

func (t *Tokens) pop() {
	t.stack = t.stack[:len(t.stack)-1]
}

func (t *Tokens) newline() {
	// headers never span lines
	for f := t.top(); f == frameHeader || f == frameArrayHeader; f = t.top() {
		t.pop()
	}
	if len(t.stack) == 0 {
		t.value = false
	}
}

func (t *Tokens) openBracket(start int) (Token, error) {
	if t.value {
		t.stack = append(t.stack, frameArray)
		return t.emit(SingleBracketOpen, start, start+1), nil
	}
	if len(t.stack) != 0 {
		return t.invalidCharacter(start)
	}
	if strings.HasPrefix(t.src[start:], "[[") {
		t.stack = append(t.stack, frameArrayHeader)
		return t.emit(DoubleBracketOpen, start, start+2), nil
	}
	t.stack = append(t.stack, frameHeader)
	return t.emit(SingleBracketOpen, start, start+1), nil
}

func (t *Tokens) closeBracket(start int) (Token, error) {
	switch t.top() {
	case frameArray:
		t.pop()
		t.value = false
		return t.emit(SingleBracketClose, start, start+1), nil
	case frameHeader:
		t.pop()
		return t.emit(SingleBracketClose, start, start+1), nil
	case frameArrayHeader:
		if strings.HasPrefix(t.src[start:], "]]") {
			t.pop()
			return t.emit(DoubleBracketClose, start, start+2), nil
		}
	}
	return t.invalidCharacter(start)
}

func (t *Tokens) scanString(start int, quote byte) (Token, error) {
	literal := quote == '\''
	if strings.HasPrefix(t.src[start:], strings.Repeat(string(quote), 3)) {
		return t.scanMultiline(start, quote, literal)
	}

	i := start + 1
	for i < len(t.src) {
		c := t.src[i]
		if c == quote {
			return t.emitString(start, i+1, literal, false), nil
		}
		if c == '\n' {
			break
		}
		if c == '\\' && !literal && i+1 < len(t.src) && t.src[i+1] != '\n' {
			i += 2
			continue
		}
		i++
	}

	// resume at the line break so the caller still sees it
	t.pos = i
	if i < len(t.src) && i-1 > start && t.src[i-1] == '\r' {
		t.pos = i - 1
	}
	t.value = false
	return Token{}, errors.Unclosed(start, "string")
}

func (t *Tokens) scanMultiline(start int, quote byte, literal bool) (Token, error) {
	i := start + 3
	for i < len(t.src) {
		c := t.src[i]
		if c == '\\' && !literal {
			i += 2
			continue
		}
		if c == quote && i+3 <= len(t.src) && t.src[i+1] == quote && t.src[i+2] == quote {
			end := i + 3
			// up to two quotes next to the delimiter belong to the content
			for extra := 0; extra < 2 && end < len(t.src) && t.src[end] == quote; extra++ {
				end++
			}
			return t.emitString(start, end, literal, true), nil
		}
		i++
	}

	t.pos = len(t.src)
	t.value = false
	return Token{}, errors.Unclosed(start, "multiline string")
}

func (t *Tokens) emitString(start, end int, literal, multiline bool) Token {
	if !t.value && !multiline {
		return t.emit(Key, start, end)
	}
	t.value = false
	tok := t.emit(String, start, end)
	tok.Literal = literal
	tok.Multiline = multiline
	return tok
}

func (t *Tokens) scanKey(start int) (Token, error) {
	end := start
	for end < len(t.src) && isBareKey(t.src[end]) {
		end++
	}
	if end == start {
		return t.invalidCharacter(start)
	}
	return t.emit(Key, start, end), nil
}

func (t *Tokens) scanValue(start int) (Token, error) {
	end := t.word(start)
	if end == start {
		return t.invalidCharacter(start)
	}

	// 1979-05-27 07:32:00 uses a space between date and time
	if localDateRe.MatchString(t.src[start:end]) && end+3 < len(t.src) &&
		t.src[end] == ' ' && isDigit(t.src[end+1]) && isDigit(t.src[end+2]) && t.src[end+3] == ':' {
		end = t.word(end + 1)
	}

	text := t.src[start:end]
	t.value = false
	switch {
	case text == "true" || text == "false":
		tok := t.emit(Bool, start, end)
		tok.Value = text == "true"
		return tok, nil
	case integerRe.MatchString(text):
		return t.emit(Int, start, end), nil
	case floatRe.MatchString(text):
		return t.emit(Float, start, end), nil
	case dateTimeRe.MatchString(text):
		return t.emit(DateTime, start, end), nil
	}

	t.pos = end
	what := "value"
	if c := text[0]; isDigit(c) || c == '+' || c == '-' {
		what = "number"
	}
	return Token{}, errors.New(errors.PhaseTokenize, errors.KindInvalidPart).
		Start(start).
		Pos(end).
		Value(text).
		Detail("invalid %s", what).
		Build()
}

func (t *Tokens) word(i int) int {
	for i < len(t.src) && isValueChar(t.src[i]) {
		i++
	}
	return i
}

func (t *Tokens) invalidCharacter(pos int) (Token, error) {
	r, size := utf8.DecodeRuneInString(t.src[pos:])
	t.pos = pos + size
	return Token{}, errors.InvalidCharacter(pos, r)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isBareKey(c byte) bool {
	return isAlpha(c) || isDigit(c) || c == '_' || c == '-'
}

func isValueChar(c byte) bool {
	return isAlpha(c) || isDigit(c) || c == '_' || c == '+' || c == '-' || c == '.' || c == ':'
}
