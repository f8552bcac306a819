package shapefile

import "fmt"

// MaxDepth is the maximum table nesting the parser accepts. Deeper input is
// rejected with ErrTooDeep instead of risking stack exhaustion on corrupted
// or adversarial files.
const MaxDepth = 128

// Parse turns shape-file text into an untyped value tree. The document must
// be a single table literal; line comments are captured and attached to the
// nearest entry so the builder can recover shape names from them.
//
// Postcondition: returns a table-kinded *Value, or an error that is always a
// *ParseError carrying the failure position.
func Parse(text string) (*Value, error) {
	p := &parser{lex: newLexer(text)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.tok.kind != tokLBrace {
		// Leading comments before the document table are ignored.
		for p.tok.kind == tokComment {
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	if p.tok.kind != tokLBrace {
		return nil, &ParseError{
			Err:    ErrUnexpectedToken,
			Pos:    p.tok.pos,
			Detail: fmt.Sprintf("document must start with '{', found %s", p.tok.kind),
		}
	}
	doc, _, err := p.parseTable(1)
	if err != nil {
		return nil, err
	}
	// Trailing comments after the document table are ignored.
	for p.tok.kind == tokComment {
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if p.tok.kind != tokEOF {
		kind := ErrUnexpectedToken
		if p.tok.kind == tokRBrace {
			kind = ErrUnbalancedBrace
		}
		return nil, &ParseError{
			Err:    kind,
			Pos:    p.tok.pos,
			Detail: fmt.Sprintf("trailing %s after document table", p.tok.kind),
		}
	}
	return doc, nil
}

type parser struct {
	lex *lexer
	tok token
	// stash holds one pushed-back token for the ident/key lookahead.
	stash    *token
	hasStash bool
}

func (p *parser) advance() *ParseError {
	if p.hasStash {
		p.tok = *p.stash
		p.hasStash = false
		return nil
	}
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) pushBack(tok token) {
	stashed := p.tok
	p.stash = &stashed
	p.hasStash = true
	p.tok = tok
}

// parseTable parses a table whose opening brace is the current token. It
// returns the table value and the line its closing brace sits on.
//
// Separators between entries are optional: hand-edited files routinely drop
// commas between adjacent tables, and accepting them loses nothing.
func (p *parser) parseTable(depth int) (*Value, int, *ParseError) {
	if depth > MaxDepth {
		return nil, 0, &ParseError{
			Err:    ErrTooDeep,
			Pos:    p.tok.pos,
			Detail: fmt.Sprintf("more than %d levels", MaxDepth),
		}
	}
	table := &Value{Kind: KindTable, Pos: p.tok.pos}
	if err := p.advance(); err != nil { // consume '{'
		return nil, 0, err
	}

	lastIdx := -1
	lastEndLine := 0
	pending := ""

	for {
		switch p.tok.kind {
		case tokRBrace:
			endLine := p.tok.pos.Line
			if err := p.advance(); err != nil {
				return nil, 0, err
			}
			return table, endLine, nil

		case tokEOF:
			return nil, 0, &ParseError{
				Err:    ErrUnbalancedBrace,
				Pos:    p.tok.pos,
				Detail: "table opened here was never closed",
			}

		case tokComma, tokSemicolon:
			if err := p.advance(); err != nil {
				return nil, 0, err
			}

		case tokComment:
			// A comment on the same line as the previous entry names that
			// entry; otherwise it is held for the next one.
			if lastIdx >= 0 && p.tok.pos.Line == lastEndLine && table.Entries[lastIdx].Comment == "" {
				table.Entries[lastIdx].Comment = p.tok.text
			} else {
				pending = p.tok.text
			}
			if err := p.advance(); err != nil {
				return nil, 0, err
			}

		default:
			entry, endLine, err := p.parseEntry(depth)
			if err != nil {
				return nil, 0, err
			}
			if pending != "" {
				entry.Comment = pending
				pending = ""
			}
			table.Entries = append(table.Entries, entry)
			lastIdx = len(table.Entries) - 1
			lastEndLine = endLine
		}
	}
}

// parseEntry parses "[key =] value" with the current token at its start.
func (p *parser) parseEntry(depth int) (Entry, int, *ParseError) {
	var entry Entry
	if p.tok.kind == tokIdent {
		ident := p.tok
		if err := p.advance(); err != nil {
			return Entry{}, 0, err
		}
		if p.tok.kind == tokEquals {
			entry.Key = ident.text
			if err := p.advance(); err != nil {
				return Entry{}, 0, err
			}
		} else {
			// A bare identifier is a value, not a key.
			p.pushBack(ident)
		}
	}
	val, endLine, err := p.parseValue(depth)
	if err != nil {
		return Entry{}, 0, err
	}
	entry.Value = val
	return entry, endLine, nil
}

// parseValue parses a single value with the current token at its start and
// returns it together with the line it ends on.
func (p *parser) parseValue(depth int) (Value, int, *ParseError) {
	switch p.tok.kind {
	case tokNumber:
		v := Value{Kind: KindNumber, Num: p.tok.num, Str: p.tok.text, Pos: p.tok.pos}
		endLine := p.tok.endLine
		if err := p.advance(); err != nil {
			return Value{}, 0, err
		}
		return v, endLine, nil

	case tokString:
		v := Value{Kind: KindString, Str: p.tok.text, Pos: p.tok.pos}
		endLine := p.tok.endLine
		if err := p.advance(); err != nil {
			return Value{}, 0, err
		}
		return v, endLine, nil

	case tokIdent:
		v := Value{Kind: KindIdent, Str: p.tok.text, Pos: p.tok.pos}
		endLine := p.tok.endLine
		if err := p.advance(); err != nil {
			return Value{}, 0, err
		}
		return v, endLine, nil

	case tokLBrace:
		table, endLine, err := p.parseTable(depth + 1)
		if err != nil {
			return Value{}, 0, err
		}
		return *table, endLine, nil

	case tokRBrace:
		return Value{}, 0, &ParseError{
			Err:    ErrUnbalancedBrace,
			Pos:    p.tok.pos,
			Detail: "'}' where a value was expected",
		}

	default:
		return Value{}, 0, &ParseError{
			Err:    ErrUnexpectedToken,
			Pos:    p.tok.pos,
			Detail: fmt.Sprintf("%s where a value was expected", p.tok.kind),
		}
	}
}
