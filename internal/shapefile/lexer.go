package shapefile

import (
	"fmt"
	"strconv"
	"strings"
)

// tokenKind discriminates lexer tokens.
type tokenKind int

const (
	tokEOF tokenKind = iota
	tokLBrace
	tokRBrace
	tokComma
	tokSemicolon
	tokEquals
	tokNumber
	tokString
	tokIdent
	tokComment
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokLBrace:
		return "'{'"
	case tokRBrace:
		return "'}'"
	case tokComma:
		return "','"
	case tokSemicolon:
		return "';'"
	case tokEquals:
		return "'='"
	case tokNumber:
		return "number"
	case tokString:
		return "string"
	case tokIdent:
		return "identifier"
	case tokComment:
		return "comment"
	default:
		return "invalid token"
	}
}

// token is one lexeme with its source position.
type token struct {
	kind tokenKind
	// text is the token's content: unquoted string body, identifier text,
	// trimmed comment text, or the raw numeric literal.
	text string
	// num is the parsed value for tokNumber.
	num float64
	pos Pos
	// endLine is the line the token ends on. Differs from pos.Line only for
	// multi-line strings, which the grammar forbids anyway; kept so comment
	// attachment always compares against where an entry visually ends.
	endLine int
}

// lexer produces tokens from shape-file text. Whitespace is insignificant;
// comments are emitted as tokens so the parser can attach them to entries.
type lexer struct {
	src  string
	off  int
	line int
	col  int
}

func newLexer(src string) *lexer {
	return &lexer{src: src, line: 1, col: 1}
}

func (l *lexer) pos() Pos {
	return Pos{Offset: l.off, Line: l.line, Column: l.col}
}

func (l *lexer) peekByte() (byte, bool) {
	if l.off >= len(l.src) {
		return 0, false
	}
	return l.src[l.off], true
}

func (l *lexer) advance() byte {
	c := l.src[l.off]
	l.off++
	if c == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return c
}

func (l *lexer) skipSpace() {
	for {
		c, ok := l.peekByte()
		if !ok {
			return
		}
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' {
			l.advance()
			continue
		}
		return
	}
}

// next returns the next token, including comment tokens.
func (l *lexer) next() (token, *ParseError) {
	l.skipSpace()
	start := l.pos()
	c, ok := l.peekByte()
	if !ok {
		return token{kind: tokEOF, pos: start, endLine: start.Line}, nil
	}

	switch {
	case c == '{':
		l.advance()
		return token{kind: tokLBrace, pos: start, endLine: start.Line}, nil
	case c == '}':
		l.advance()
		return token{kind: tokRBrace, pos: start, endLine: start.Line}, nil
	case c == ',':
		l.advance()
		return token{kind: tokComma, pos: start, endLine: start.Line}, nil
	case c == ';':
		l.advance()
		return token{kind: tokSemicolon, pos: start, endLine: start.Line}, nil
	case c == '=':
		l.advance()
		return token{kind: tokEquals, pos: start, endLine: start.Line}, nil
	case c == '\'' || c == '"':
		return l.scanString(start)
	case c == '-':
		if l.off+1 < len(l.src) && l.src[l.off+1] == '-' {
			return l.scanComment(start), nil
		}
		return l.scanNumber(start)
	case c >= '0' && c <= '9' || c == '.':
		return l.scanNumber(start)
	case isIdentStart(c):
		return l.scanIdent(start), nil
	default:
		return token{}, &ParseError{
			Err:    ErrUnexpectedToken,
			Pos:    start,
			Detail: fmt.Sprintf("character %q", c),
		}
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func (l *lexer) scanIdent(start Pos) token {
	begin := l.off
	for {
		c, ok := l.peekByte()
		if !ok || !isIdentPart(c) {
			break
		}
		l.advance()
	}
	return token{kind: tokIdent, text: l.src[begin:l.off], pos: start, endLine: start.Line}
}

// scanComment consumes "--" through end of line and returns the trimmed text.
func (l *lexer) scanComment(start Pos) token {
	l.advance() // -
	l.advance() // -
	begin := l.off
	for {
		c, ok := l.peekByte()
		if !ok || c == '\n' {
			break
		}
		l.advance()
	}
	text := strings.TrimSpace(l.src[begin:l.off])
	return token{kind: tokComment, text: text, pos: start, endLine: start.Line}
}

func (l *lexer) scanNumber(start Pos) (token, *ParseError) {
	begin := l.off
	if c, ok := l.peekByte(); ok && c == '-' {
		l.advance()
	}
	digits := false
	for {
		c, ok := l.peekByte()
		if !ok {
			break
		}
		if c >= '0' && c <= '9' {
			digits = true
			l.advance()
			continue
		}
		if c == '.' {
			l.advance()
			continue
		}
		break
	}
	// Optional exponent; the serializer's shortest-round-trip formatting can
	// legitimately produce one.
	if c, ok := l.peekByte(); ok && digits && (c == 'e' || c == 'E') {
		l.advance()
		if c, ok := l.peekByte(); ok && (c == '+' || c == '-') {
			l.advance()
		}
		expDigits := false
		for {
			c, ok := l.peekByte()
			if !ok || c < '0' || c > '9' {
				break
			}
			expDigits = true
			l.advance()
		}
		if !expDigits {
			return token{}, &ParseError{Err: ErrInvalidNumber, Pos: start, Detail: l.src[begin:l.off]}
		}
	}
	text := l.src[begin:l.off]
	if !digits {
		return token{}, &ParseError{Err: ErrInvalidNumber, Pos: start, Detail: text}
	}
	num, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return token{}, &ParseError{Err: ErrInvalidNumber, Pos: start, Detail: text}
	}
	return token{kind: tokNumber, text: text, num: num, pos: start, endLine: start.Line}, nil
}

func (l *lexer) scanString(start Pos) (token, *ParseError) {
	quote := l.advance()
	var sb strings.Builder
	for {
		c, ok := l.peekByte()
		if !ok || c == '\n' {
			return token{}, &ParseError{Err: ErrUnterminatedString, Pos: start}
		}
		l.advance()
		if c == quote {
			return token{kind: tokString, text: sb.String(), pos: start, endLine: l.line}, nil
		}
		if c == '\\' {
			e, ok := l.peekByte()
			if !ok {
				return token{}, &ParseError{Err: ErrUnterminatedString, Pos: start}
			}
			l.advance()
			switch e {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			default:
				// \\, \', \" and anything else pass through literally.
				sb.WriteByte(e)
			}
			continue
		}
		sb.WriteByte(c)
	}
}
