package bridge

import (
	"strings"

	"github.com/wippyai/toto"
	"github.com/wippyai/toto/lexer"
)

// Step is the outcome of one pull on a tokenizer.
//
// With StatusOK the token fields are set. With StatusError only HasError
// and Error are set. With StatusFinished the step is zero.
type Step struct {
	// Text aliases the tokenizer's source buffer. It is empty unless
	// HasText is set.
	Text  string
	Start int
	Tag   toto.Tag
	Error ErrorHandle

	HasText  bool
	HasError bool
}

// Len returns the byte length of the token text.
func (s Step) Len() int {
	return len(s.Text)
}

// OwnedText returns a copy of Text that stays valid after the source
// buffer is released.
func (s Step) OwnedText() string {
	return strings.Clone(s.Text)
}

func tagOf(tok lexer.Token) toto.Tag {
	switch tok.Kind {
	case lexer.Whitespace:
		return toto.TagWhitespace
	case lexer.SingleBracketOpen:
		return toto.TagSingleBracketOpen
	case lexer.DoubleBracketOpen:
		return toto.TagDoubleBracketOpen
	case lexer.SingleBracketClose:
		return toto.TagSingleBracketClose
	case lexer.DoubleBracketClose:
		return toto.TagDoubleBracketClose
	case lexer.CurlyOpen:
		return toto.TagCurlyOpen
	case lexer.CurlyClose:
		return toto.TagCurlyClose
	case lexer.Comment:
		return toto.TagComment
	case lexer.Equals:
		return toto.TagEquals
	case lexer.Comma:
		return toto.TagComma
	case lexer.Dot:
		return toto.TagDot
	case lexer.Newline:
		return toto.TagNewline
	case lexer.Key:
		return toto.TagKey
	case lexer.String:
		switch {
		case tok.Literal && tok.Multiline:
			return toto.TagMultilineLiteralString
		case tok.Literal:
			return toto.TagLiteralString
		case tok.Multiline:
			return toto.TagMultilineString
		}
		return toto.TagString
	case lexer.DateTime:
		return toto.TagDateTime
	case lexer.Int:
		return toto.TagInteger
	case lexer.Float:
		return toto.TagFloat
	case lexer.Bool:
		if tok.Value {
			return toto.TagTrue
		}
		return toto.TagFalse
	}
	return 0
}
