package lexer

// Kind classifies a lexeme.
type Kind uint8

const (
	Whitespace Kind = iota + 1
	SingleBracketOpen
	DoubleBracketOpen
	SingleBracketClose
	DoubleBracketClose
	CurlyOpen
	CurlyClose
	Comment
	Equals
	Comma
	Dot
	Newline
	Key
	String
	DateTime
	Int
	Float
	Bool
)

func (k Kind) String() string {
	switch k {
	case Whitespace:
		return "whitespace"
	case SingleBracketOpen:
		return "'['"
	case DoubleBracketOpen:
		return "'[['"
	case SingleBracketClose:
		return "']'"
	case DoubleBracketClose:
		return "']]'"
	case CurlyOpen:
		return "'{'"
	case CurlyClose:
		return "'}'"
	case Comment:
		return "comment"
	case Equals:
		return "'='"
	case Comma:
		return "','"
	case Dot:
		return "'.'"
	case Newline:
		return "newline"
	case Key:
		return "key"
	case String:
		return "string"
	case DateTime:
		return "datetime"
	case Int:
		return "integer"
	case Float:
		return "float"
	case Bool:
		return "boolean"
	}
	return "unknown"
}

// Token is one lexeme. Text is the raw source slice, delimiters included,
// so Text == src[Start:End()].
type Token struct {
	Text      string
	Start     int
	Kind      Kind
	Literal   bool // String only: single-quoted
	Multiline bool // String only: triple-quoted
	Value     bool // Bool only
}

// End returns the offset one past the last byte of the token.
func (t Token) End() int {
	return t.Start + len(t.Text)
}
