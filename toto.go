package toto

// Status is the result code returned by every bridge entry point.
// The numeric values are part of the external contract.
type Status int32

const (
	StatusInvalidOffset Status = -3 // diagnostic fault barrier triggered
	StatusNull          Status = -2 // a required pointer argument was absent
	StatusUTF8          Status = -1 // input bytes are not valid UTF-8
	StatusOK            Status = 0
	StatusFinished      Status = 1 // token sequence exhausted
	StatusError         Status = 2 // lexical error object produced
)

func (s Status) String() string {
	switch s {
	case StatusInvalidOffset:
		return "invalid offset"
	case StatusNull:
		return "null pointer"
	case StatusUTF8:
		return "invalid utf-8"
	case StatusOK:
		return "ok"
	case StatusFinished:
		return "finished"
	case StatusError:
		return "tokenize error"
	}
	return "unknown status"
}

// Failed reports whether s is one of the negative failure codes.
func (s Status) Failed() bool {
	return s < 0
}

// Tag identifies a token variant across the boundary.
// Tags must not be renumbered without a compatibility break.
type Tag int32

const (
	TagWhitespace             Tag = 1
	TagSingleBracketOpen      Tag = 2
	TagDoubleBracketOpen      Tag = 3
	TagSingleBracketClose     Tag = 4
	TagDoubleBracketClose     Tag = 5
	TagCurlyOpen              Tag = 6
	TagCurlyClose             Tag = 7
	TagComment                Tag = 8
	TagEquals                 Tag = 9
	TagComma                  Tag = 10
	TagDot                    Tag = 11
	TagNewline                Tag = 12
	TagKey                    Tag = 13
	TagString                 Tag = 14
	TagMultilineString        Tag = 15
	TagLiteralString          Tag = 16
	TagMultilineLiteralString Tag = 17
	TagDateTime               Tag = 18
	TagInteger                Tag = 19
	TagFloat                  Tag = 20
	TagTrue                   Tag = 21
	TagFalse                  Tag = 22
)

var tagNames = [...]string{
	TagWhitespace:             "whitespace",
	TagSingleBracketOpen:      "single-bracket-open",
	TagDoubleBracketOpen:      "double-bracket-open",
	TagSingleBracketClose:     "single-bracket-close",
	TagDoubleBracketClose:     "double-bracket-close",
	TagCurlyOpen:              "curly-open",
	TagCurlyClose:             "curly-close",
	TagComment:                "comment",
	TagEquals:                 "equals",
	TagComma:                  "comma",
	TagDot:                    "dot",
	TagNewline:                "newline",
	TagKey:                    "key",
	TagString:                 "string",
	TagMultilineString:        "multiline-string",
	TagLiteralString:          "literal-string",
	TagMultilineLiteralString: "multiline-literal-string",
	TagDateTime:               "datetime",
	TagInteger:                "integer",
	TagFloat:                  "float",
	TagTrue:                   "boolean-true",
	TagFalse:                  "boolean-false",
}

func (t Tag) String() string {
	if t < TagWhitespace || t > TagFalse {
		return "unknown"
	}
	return tagNames[t]
}

// HasText reports whether tokens with this tag carry a text slice.
func (t Tag) HasText() bool {
	switch t {
	case TagWhitespace, TagComment, TagNewline, TagKey,
		TagString, TagMultilineString, TagLiteralString, TagMultilineLiteralString,
		TagDateTime, TagInteger, TagFloat:
		return true
	}
	return false
}
