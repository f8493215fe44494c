// Package parser implements the JYAML parser: a two-token-lookahead
// recursive-descent parser over the token.Token stream that builds a
// value.Value tree, filters comments out of the main grammar, and
// enforces the depth guard and duplicate-key policy (spec.md §4.2).
package parser

import (
	"strconv"
	"strings"

	"github.com/masinc/jyaml/lexer"
	"github.com/masinc/jyaml/options"
	"github.com/masinc/jyaml/perrors"
	"github.com/masinc/jyaml/token"
	"github.com/masinc/jyaml/value"
)

// Comment is a single out-of-band comment, positioned when
// ParseOptions.IncludeCommentPositions is set.
type Comment struct {
	Text   string
	Line   int
	Column int

	// BlankLinesBefore counts blank source lines immediately preceding the
	// comment; Inline reports whether a grammar token already appeared
	// earlier on the comment's source line (a trailing "value  # comment"
	// rather than a standalone comment line).
	BlankLinesBefore int
	Inline           bool
}

// ParsedDocument is the parser's output: the value tree plus the
// comments collected alongside it (spec.md §3 "ParsedDocument").
type ParsedDocument struct {
	Root             value.Value
	Comments         []string
	CommentPositions []Comment
}

// Parser consumes an eagerly-tokenized stream (the teacher's
// pkg/parser.Parser shape: current/peek over a pre-filled token slice)
// and recognizes the JYAML grammar.
type Parser struct {
	tokens  []token.Token
	pos     int
	opts    options.ParseOptions
	depth   int
	builder value.Builder

	comments         []string
	commentPositions []Comment
}

// New tokenizes text in full, separating comments from the grammar
// stream, and returns a Parser ready for Parse().
func New(text string, opts options.ParseOptions) (*Parser, error) {
	lx, err := lexer.New(text, opts)
	if err != nil {
		return nil, perrors.WrapLexical(err.(*perrors.LexicalError))
	}

	p := &Parser{opts: opts, builder: value.DefaultBuilder{}}

	for {
		t, err := lx.Next()
		if err != nil {
			if le, ok := err.(*perrors.LexicalError); ok {
				return nil, perrors.WrapLexical(le)
			}
			return nil, err
		}

		if t.Kind == token.COMMENT {
			if opts.PreserveComments {
				p.comments = append(p.comments, t.Lexeme)
				if opts.IncludeCommentPositions {
					p.commentPositions = append(p.commentPositions, Comment{
						Text:             t.Lexeme,
						Line:             t.Position.Line,
						Column:           t.Position.Column,
						BlankLinesBefore: t.BlankLinesBefore,
						Inline:           t.Inline,
					})
				}
			}
			continue
		}

		p.tokens = append(p.tokens, t)
		if t.Kind == token.EOF {
			break
		}
	}

	return p, nil
}

// Parse is the parser's single entry point (spec.md §4.2).
func (p *Parser) Parse() (*ParsedDocument, error) {
	p.skipNewlines()

	cur, ok := p.current()
	if !ok || cur.Kind == token.EOF {
		return &ParsedDocument{
			Root:             &value.Null{},
			Comments:         p.comments,
			CommentPositions: p.commentPositions,
		}, nil
	}

	root, err := p.parseValue()
	if err != nil {
		return nil, err
	}

	p.skipNewlines()

	if cur, ok := p.current(); ok && cur.Kind != token.EOF {
		return nil, perrors.NewParse(perrors.TrailingContent,
			"unexpected token after document: "+tokenText(cur), toPos(cur.Position))
	}

	return &ParsedDocument{
		Root:             root,
		Comments:         p.comments,
		CommentPositions: p.commentPositions,
	}, nil
}

func toPos(tp token.Position) perrors.Position {
	return perrors.Position{Line: tp.Line, Column: tp.Column}
}

func tokenText(t token.Token) string {
	if t.Lexeme != "" {
		return t.Lexeme
	}
	return t.Kind.String()
}

func (p *Parser) current() (token.Token, bool) {
	if p.pos >= len(p.tokens) {
		return token.Token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *Parser) peekAt(offset int) (token.Token, bool) {
	i := p.pos + offset
	if i >= len(p.tokens) {
		return token.Token{}, false
	}
	return p.tokens[i], true
}

func (p *Parser) advance() (token.Token, bool) {
	t, ok := p.current()
	if ok {
		p.pos++
	}
	return t, ok
}

func (p *Parser) expect(kind token.Kind) (token.Token, error) {
	t, ok := p.current()
	if !ok {
		return token.Token{}, perrors.NewParseNoPos(perrors.UnexpectedEOF, "expected "+kind.String()+", got EOF")
	}
	if t.Kind != kind {
		return token.Token{}, perrors.NewParse(perrors.UnexpectedToken,
			"expected "+kind.String()+", got "+tokenText(t), toPos(t.Position))
	}
	p.pos++
	return t, nil
}

// expectColon is expect(token.COLON) with its own ParseKind: a missing ':'
// between a block/flow-object key and its value is common enough, and named
// specifically enough in spec.md's ParseKind enum, to warrant distinguishing
// it from the generic UnexpectedToken case.
func (p *Parser) expectColon() (token.Token, error) {
	t, ok := p.current()
	if !ok {
		return token.Token{}, perrors.NewParseNoPos(perrors.UnexpectedEOF, "expected ':', got EOF")
	}
	if t.Kind != token.COLON {
		return token.Token{}, perrors.NewParse(perrors.ExpectedColon,
			"expected ':', got "+tokenText(t), toPos(t.Position))
	}
	p.pos++
	return t, nil
}

func (p *Parser) skipNewlines() {
	for {
		t, ok := p.current()
		if !ok || (t.Kind != token.NEWLINE && t.Kind != token.INDENT) {
			return
		}
		p.pos++
	}
}

func (p *Parser) enterScope(openPos perrors.Position) error {
	p.depth++
	if p.opts.MaxDepth != 0 && p.depth > p.opts.MaxDepth {
		return perrors.NewParse(perrors.DepthExceeded,
			"maximum nesting depth exceeded: "+strconv.Itoa(p.opts.MaxDepth), openPos)
	}
	return nil
}

func (p *Parser) exitScope() { p.depth-- }

// parseValue implements the value := ... alternation of spec.md §4.2's
// grammar, including the STRING-then-COLON block-object dispatch.
func (p *Parser) parseValue() (value.Value, error) {
	p.skipNewlines()

	t, ok := p.current()
	if !ok {
		return nil, perrors.NewParseNoPos(perrors.UnexpectedEOF, "unexpected end of input")
	}

	switch t.Kind {
	case token.NULL:
		p.advance()
		return p.builder.BuildNull(), nil

	case token.TRUE:
		p.advance()
		return p.builder.BuildBool(true), nil

	case token.FALSE:
		p.advance()
		return p.builder.BuildBool(false), nil

	case token.NUMBER:
		p.advance()
		return p.decodeNumber(t)

	case token.STRING:
		if nxt, ok := p.peekAt(1); ok && nxt.Kind == token.COLON {
			return p.parseBlockObject()
		}
		p.advance()
		return p.builder.BuildString(t.Lexeme), nil

	case token.LBRACK:
		return p.parseFlowArray()

	case token.LBRACE:
		return p.parseFlowObject()

	case token.DASH:
		return p.parseBlockArray()

	case token.EOF:
		return nil, perrors.NewParse(perrors.UnexpectedEOF, "unexpected end of input", toPos(t.Position))

	default:
		return nil, perrors.NewParse(perrors.UnexpectedToken, "unexpected token: "+tokenText(t), toPos(t.Position))
	}
}

// decodeNumber implements spec.md §4.2 "Numeric decoding": a lexeme with
// no '.' and no exponent character decodes as an integer, otherwise as a
// finite float.
func (p *Parser) decodeNumber(t token.Token) (value.Value, error) {
	isFloat := strings.ContainsAny(t.Lexeme, ".eE")
	if !isFloat {
		i, err := strconv.ParseInt(t.Lexeme, 10, 64)
		if err != nil {
			return nil, perrors.NewParse(perrors.Overflow, "integer overflow: "+t.Lexeme, toPos(t.Position))
		}
		return p.builder.BuildInt(i), nil
	}
	f, err := strconv.ParseFloat(t.Lexeme, 64)
	if err != nil {
		return nil, perrors.NewParse(perrors.Overflow, "invalid or out-of-range float: "+t.Lexeme, toPos(t.Position))
	}
	return p.builder.BuildFloat(f), nil
}

// parseFlowArray implements flow_array := '[' NEWLINE* (value (','
// NEWLINE* value)* ','? NEWLINE*)? ']'.
func (p *Parser) parseFlowArray() (value.Value, error) {
	open, _ := p.current()
	if err := p.enterScope(toPos(open.Position)); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBRACK); err != nil {
		return nil, err
	}
	p.skipNewlines()

	var items []value.Value

	if t, ok := p.current(); ok && t.Kind == token.RBRACK {
		p.advance()
		p.exitScope()
		return p.builder.BuildArray(items), nil
	}

	for {
		item, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		p.skipNewlines()

		t, ok := p.current()
		if !ok {
			return nil, perrors.NewParseNoPos(perrors.UnexpectedEOF, "unexpected end of input in array")
		}
		switch t.Kind {
		case token.RBRACK:
			p.advance()
			p.exitScope()
			return p.builder.BuildArray(items), nil
		case token.COMMA:
			p.advance()
			p.skipNewlines()
			if t2, ok := p.current(); ok && t2.Kind == token.RBRACK {
				p.advance()
				p.exitScope()
				return p.builder.BuildArray(items), nil
			}
		case token.EOF:
			return nil, perrors.NewParse(perrors.UnexpectedEOF, "unexpected end of input in array", toPos(t.Position))
		default:
			return nil, perrors.NewParse(perrors.ExpectedCommaOrClose,
				"expected ',' or ']' in array, got "+tokenText(t), toPos(t.Position))
		}
	}
}

// parseFlowObject implements flow_object := '{' NEWLINE* (pair (','
// NEWLINE* pair)* | pair (NEWLINE+ pair)*) ','? NEWLINE* '}'.
func (p *Parser) parseFlowObject() (value.Value, error) {
	open, _ := p.current()
	if err := p.enterScope(toPos(open.Position)); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	p.skipNewlines()

	obj := value.NewObject()
	seen := map[string]bool{}

	if t, ok := p.current(); ok && t.Kind == token.RBRACE {
		p.advance()
		p.exitScope()
		return obj, nil
	}

	for {
		keyTok, err := p.expect(token.STRING)
		if err != nil {
			return nil, err
		}
		p.skipNewlines()
		if _, err := p.expectColon(); err != nil {
			return nil, err
		}
		p.skipNewlines()

		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}

		if seen[keyTok.Lexeme] && !p.opts.AllowDuplicateKeys {
			return nil, perrors.NewParse(perrors.DuplicateKey,
				"duplicate key: "+keyTok.Lexeme, toPos(keyTok.Position))
		}
		seen[keyTok.Lexeme] = true
		obj.Set(keyTok.Lexeme, val)

		p.skipNewlines()

		t, ok := p.current()
		if !ok {
			return nil, perrors.NewParseNoPos(perrors.UnexpectedEOF, "unexpected end of input in object")
		}
		switch {
		case t.Kind == token.RBRACE:
			p.advance()
			p.exitScope()
			return obj, nil
		case t.Kind == token.COMMA:
			p.advance()
			p.skipNewlines()
			if t2, ok := p.current(); ok && t2.Kind == token.RBRACE {
				p.advance()
				p.exitScope()
				return obj, nil
			}
		case t.Kind == token.EOF:
			return nil, perrors.NewParse(perrors.UnexpectedEOF, "unexpected end of input in object", toPos(t.Position))
		case t.Kind == token.STRING:
			prev := p.tokens[p.pos-1]
			onNewLine := prev.Kind == token.NEWLINE || prev.Kind == token.INDENT || prev.Position.Line < t.Position.Line
			if nxt, ok := p.peekAt(1); ok && nxt.Kind == token.COLON && onNewLine {
				// Another pair without a comma, tolerated per spec.md
				// §4.2: "the ',' is optional between pairs separated by
				// NEWLINE."
				continue
			}
			return nil, perrors.NewParse(perrors.ExpectedCommaOrClose,
				"expected ',' or '}' in object, got "+tokenText(t), toPos(t.Position))
		default:
			return nil, perrors.NewParse(perrors.ExpectedCommaOrClose,
				"expected ',' or '}' in object, got "+tokenText(t), toPos(t.Position))
		}
	}
}

// parseBlockArray implements block_array := (DASH NEWLINE* value
// NEWLINE*)+. When ParseOptions.StrictBlockIndent is set, successive DASH
// markers must share the same column (spec.md §9 open question, resolved
// both ways — see DESIGN.md).
func (p *Parser) parseBlockArray() (value.Value, error) {
	open, _ := p.current()
	if err := p.enterScope(toPos(open.Position)); err != nil {
		return nil, err
	}

	var items []value.Value
	baseCol := -1

	for {
		t, ok := p.current()
		if !ok || t.Kind != token.DASH {
			break
		}
		if baseCol == -1 {
			baseCol = t.Position.Column
		} else if p.opts.StrictBlockIndent && t.Position.Column != baseCol {
			break
		}

		p.advance() // consume DASH
		p.skipNewlines()

		item, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		p.skipNewlines()
	}

	p.exitScope()
	return p.builder.BuildArray(items), nil
}

// parseBlockObject implements block_object := (STRING ':' value
// NEWLINE*)+, terminating when the next key's indentation no longer
// matches the object's own (spec.md §4.2 "Keys within one block object
// must share indentation").
func (p *Parser) parseBlockObject() (value.Value, error) {
	open, _ := p.current()
	if err := p.enterScope(toPos(open.Position)); err != nil {
		return nil, err
	}

	obj := value.NewObject()
	seen := map[string]bool{}
	baseCol := -1

	for {
		keyTok, ok := p.current()
		if !ok || keyTok.Kind != token.STRING {
			break
		}
		if baseCol == -1 {
			baseCol = keyTok.Position.Column
		} else if keyTok.Position.Column != baseCol {
			break
		}

		p.advance() // consume STRING key
		if _, err := p.expectColon(); err != nil {
			return nil, err
		}

		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}

		if seen[keyTok.Lexeme] && !p.opts.AllowDuplicateKeys {
			return nil, perrors.NewParse(perrors.DuplicateKey,
				"duplicate key: "+keyTok.Lexeme, toPos(keyTok.Position))
		}
		seen[keyTok.Lexeme] = true
		obj.Set(keyTok.Lexeme, val)

		p.skipNewlines()
	}

	p.exitScope()
	return obj, nil
}
