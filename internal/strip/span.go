package strip

import "fmt"

// Kind classifies a span of source text.
type Kind int

const (
	Code Kind = iota
	StringLiteral
	CharLiteral
	LineComment
	BlockComment
)

func (k Kind) String() string {
	switch k {
	case Code:
		return "code"
	case StringLiteral:
		return "string"
	case CharLiteral:
		return "char"
	case LineComment:
		return "line-comment"
	case BlockComment:
		return "block-comment"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Span is a classified run of bytes, half-open: [Start, End).
type Span struct {
	Kind  Kind
	Start int
	End   int
}

func (s Span) Len() int {
	return s.End - s.Start
}

func (s Span) IsComment() bool {
	return s.Kind == LineComment || s.Kind == BlockComment
}

func (s Span) String() string {
	return fmt.Sprintf("%s[%d:%d]", s.Kind, s.Start, s.End)
}
