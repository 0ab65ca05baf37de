package strip

import (
	"strings"

	"decomment/internal/dialect"
)

type state int

const (
	stateCode state = iota
	stateString
	stateChar
	stateLineComment
	stateBlockComment
)

// scanner partitions src into spans in a single left-to-right pass.
//
// Code bytes accumulate from codeStart and are flushed only when a literal
// or comment span is confirmed, so a quote or comment opener whose extent
// cannot be determined simply stays part of the surrounding Code span.
// Where a literal ends is looked up in a table built once per quote byte,
// so an unclosed quote never causes the rest of the input to be rescanned.
type scanner struct {
	src     string
	dialect dialect.Dialect

	pos       int
	start     int
	codeStart int
	state     state

	// lastClose is the offset of the last "*/" in src, -1 if none.
	// A "/*" at p has a terminator iff lastClose >= p+2.
	lastClose int

	// closers[q][i] is the offset of the quote q that ends a literal whose
	// body starts at i, -1 if it is never closed. Built on first use.
	closers map[byte][]int

	spans []Span
}

// Scan returns the span partition of src for the given dialect. For
// dialect.None the whole input is a single Code span.
func Scan(d dialect.Dialect, src string) []Span {
	if len(src) == 0 {
		return nil
	}
	if d == dialect.None {
		return []Span{{Kind: Code, Start: 0, End: len(src)}}
	}

	s := &scanner{
		src:       src,
		dialect:   d,
		lastClose: -1,
	}
	if d == dialect.CFamily {
		s.lastClose = strings.LastIndex(src, "*/")
	}
	return s.run()
}

func (s *scanner) run() []Span {
	for s.pos < len(s.src) || s.state != stateCode {
		switch s.state {
		case stateCode:
			s.code()
		case stateString:
			s.literal('"', StringLiteral)
		case stateChar:
			s.literal('\'', CharLiteral)
		case stateLineComment:
			s.lineComment()
		case stateBlockComment:
			s.blockComment()
		}
	}
	if s.codeStart < len(s.src) {
		s.spans = append(s.spans, Span{Kind: Code, Start: s.codeStart, End: len(s.src)})
	}
	return s.spans
}

func (s *scanner) code() {
	c := s.src[s.pos]

	switch {
	case c == '"':
		s.open(stateString, 1)
	case c == '\'' && s.dialect == dialect.CFamily:
		s.open(stateChar, 1)
	case c == '#' && s.dialect == dialect.BuildScript:
		s.open(stateLineComment, 1)
	case c == '/' && s.dialect == dialect.CFamily && s.peek(1) == '*':
		if s.lastClose < s.pos+2 {
			// Unterminated block comment: its extent is unknown, keep it as code.
			s.pos++
			return
		}
		s.open(stateBlockComment, 2)
	case c == '/' && s.dialect == dialect.CFamily && s.peek(1) == '/':
		s.open(stateLineComment, 2)
	default:
		s.pos++
	}
}

func (s *scanner) literal(quote byte, kind Kind) {
	end := s.closer(quote)[s.pos]
	if end < 0 {
		// Unterminated literal: the opening quote is ordinary code.
		s.pos = s.start + 1
		s.state = stateCode
		return
	}
	s.pos = end + 1
	s.close(kind)
}

// closer returns the closing table for quote. A backslash escapes the byte
// after it, newlines included.
func (s *scanner) closer(quote byte) []int {
	if table, ok := s.closers[quote]; ok {
		return table
	}

	n := len(s.src)
	table := make([]int, n+2)
	table[n], table[n+1] = -1, -1
	for i := n - 1; i >= 0; i-- {
		switch s.src[i] {
		case '\\':
			table[i] = table[i+2]
		case quote:
			table[i] = i
		default:
			table[i] = table[i+1]
		}
	}

	if s.closers == nil {
		s.closers = make(map[byte][]int, 2)
	}
	s.closers[quote] = table
	return table
}

func (s *scanner) lineComment() {
	if idx := strings.IndexByte(s.src[s.pos:], '\n'); idx >= 0 {
		// The CR of a CRLF pair belongs to the line break, not the comment.
		if idx > 0 && s.src[s.pos+idx-1] == '\r' {
			idx--
		}
		s.pos += idx
	} else {
		s.pos = len(s.src)
	}
	s.close(LineComment)
}

func (s *scanner) blockComment() {
	// open only enters this state when a closer exists.
	idx := strings.Index(s.src[s.pos:], "*/")
	s.pos += idx + 2
	s.close(BlockComment)
}

func (s *scanner) open(next state, width int) {
	s.start = s.pos
	s.pos += width
	s.state = next
}

func (s *scanner) close(kind Kind) {
	if s.codeStart < s.start {
		s.spans = append(s.spans, Span{Kind: Code, Start: s.codeStart, End: s.start})
	}
	s.spans = append(s.spans, Span{Kind: kind, Start: s.start, End: s.pos})
	s.codeStart = s.pos
	s.state = stateCode
}

func (s *scanner) peek(offset int) byte {
	if i := s.pos + offset; i < len(s.src) {
		return s.src[i]
	}
	return 0
}
