// Package lexer implements the JYAML lexer: a deterministic transducer
// from UTF-8 text into the token.Token stream consumed by the parser
// (spec.md §4.1). It decodes every string-valued token (quoted strings,
// multiline scalars) into its final host-string value; the parser never
// sees raw escape sequences.
package lexer

import (
	"strings"
	"unicode"

	"github.com/masinc/jyaml/options"
	"github.com/masinc/jyaml/perrors"
	"github.com/masinc/jyaml/token"
)

// chomp identifies the trailing-newline policy of a multiline scalar.
type chomp int

const (
	chompClip chomp = iota
	chompStrip
	chompKeep
)

// Lexer tokenizes JYAML input one token at a time.
type Lexer struct {
	runes []rune
	pos   int
	line  int
	col   int

	atLineStart bool
	opts        options.ParseOptions

	// sawTokenOnLine and blankLines track the two comment-only fields of
	// token.Token: whether a non-comment token already appeared on the
	// current source line (Inline), and how many fully blank lines
	// immediately preceded it (BlankLinesBefore) — grounded on the
	// teacher's v1/pkg/lexer.Token, which carries the same pair.
	sawTokenOnLine bool
	blankLines     int
}

// New builds a Lexer over text, applying opts' line-ending normalization
// up front. It returns an error immediately if text begins with a BOM
// (spec.md §4.1: "A leading U+FEFF fails immediately at (1,1)").
func New(text string, opts options.ParseOptions) (*Lexer, error) {
	if strings.HasPrefix(text, string(rune(0xFEFF))) {
		return nil, &perrors.LexicalError{
			Kind:     perrors.BOMForbidden,
			Message:  "byte order mark is not allowed",
			Position: perrors.Position{Line: 1, Column: 1},
		}
	}

	text = normalizeLineEndings(text, opts.NormalizeLineEndings)

	return &Lexer{
		runes:       []rune(text),
		pos:         0,
		line:        1,
		col:         1,
		atLineStart: true,
		opts:        opts,
	}, nil
}

func normalizeLineEndings(text string, mode options.LineEndingMode) string {
	switch mode {
	case options.LineEndingLF:
		text = strings.ReplaceAll(text, "\r\n", "\n")
		text = strings.ReplaceAll(text, "\r", "\n")
		return text
	case options.LineEndingCRLF:
		text = strings.ReplaceAll(text, "\r\n", "\n")
		text = strings.ReplaceAll(text, "\r", "\n")
		return strings.ReplaceAll(text, "\n", "\r\n")
	default:
		return text
	}
}

func (l *Lexer) current() rune {
	if l.pos >= len(l.runes) {
		return 0
	}
	return l.runes[l.pos]
}

func (l *Lexer) peek() rune {
	if l.pos+1 >= len(l.runes) {
		return 0
	}
	return l.runes[l.pos+1]
}

func (l *Lexer) eof() bool {
	return l.pos >= len(l.runes)
}

// advance consumes and returns the current rune, updating line/column and,
// for CRLF-normalized input, treating "\r\n" as a single newline step.
func (l *Lexer) advance() rune {
	r := l.current()
	if r == 0 {
		return 0
	}
	l.pos++
	if r == '\r' && l.current() == '\n' {
		// Part of a normalized CRLF pair: consume the \n too and advance
		// the line counter only once.
		l.pos++
		l.line++
		l.col = 1
		l.atLineStart = true
		return '\n'
	}
	if r == '\n' {
		l.line++
		l.col = 1
		l.atLineStart = true
		return r
	}
	l.col++
	return r
}

func (l *Lexer) pos2() token.Position {
	return token.Position{Line: l.line, Column: l.col}
}

func (l *Lexer) errf(kind perrors.LexicalKind, msg string) error {
	p := l.pos2()
	return &perrors.LexicalError{Kind: kind, Message: msg, Position: perrors.Position{Line: p.Line, Column: p.Column}}
}

func (l *Lexer) errAt(kind perrors.LexicalKind, msg string, pos token.Position) error {
	return &perrors.LexicalError{Kind: kind, Message: msg, Position: perrors.Position{Line: pos.Line, Column: pos.Column}}
}

// errMultiline reports a malformed multiline-scalar indicator (chomping
// marker or missing newline). It's a lexical failure by origin, but
// spec.md's ParseError taxonomy names it specifically, so it rewraps as
// perrors.MultilineIndicatorMisuse rather than the generic default.
func (l *Lexer) errMultiline(msg string) error {
	p := l.pos2()
	return perrors.NewLexicalRewrap(perrors.UnexpectedChar, msg,
		perrors.Position{Line: p.Line, Column: p.Column}, perrors.MultilineIndicatorMisuse)
}

// isLineBreak reports whether r is the (already-normalized) newline
// character for this lexer.
func isLineBreak(r rune) bool { return r == '\n' }

// Next returns the next token, eventually yielding an EOF token forever
// after. It is the lexer's sole public entry point (spec.md §4.1:
// "tokenize(text, options) → iterator<Token>").
func (l *Lexer) Next() (token.Token, error) {
	tok, err := l.next()
	if err != nil {
		return tok, err
	}

	switch tok.Kind {
	case token.NEWLINE:
		if !l.sawTokenOnLine {
			l.blankLines++
		}
		l.sawTokenOnLine = false
	case token.INDENT:
		// Indentation alone doesn't count as content for blank-line
		// purposes.
	case token.COMMENT:
		l.sawTokenOnLine = true
	case token.EOF:
		// No content to attribute; leave counters as-is.
	default:
		l.sawTokenOnLine = true
		l.blankLines = 0
	}

	return tok, nil
}

func (l *Lexer) next() (token.Token, error) {
	if l.atLineStart {
		l.atLineStart = false
		indentPos := l.pos2()
		n, err := l.countIndent()
		if err != nil {
			return token.Token{}, err
		}
		if n > 0 {
			return token.Token{Kind: token.INDENT, Lexeme: itoa(n), Position: indentPos}, nil
		}
	}

	if err := l.skipInterTokenWhitespace(); err != nil {
		return token.Token{}, err
	}

	if l.eof() {
		return token.Token{Kind: token.EOF, Position: l.pos2()}, nil
	}

	pos := l.pos2()
	c := l.current()

	switch {
	case isLineBreak(c):
		l.advance()
		return token.Token{Kind: token.NEWLINE, Lexeme: "\n", Position: pos}, nil

	case c == '#':
		return l.scanComment(pos)

	case c == '"' || c == '\'':
		s, err := l.scanQuotedString(c)
		if err != nil {
			return token.Token{}, err
		}
		return token.Token{Kind: token.STRING, Lexeme: s, Position: pos}, nil

	case c == '|' || c == '>':
		s, err := l.scanMultiline(c)
		if err != nil {
			return token.Token{}, err
		}
		return token.Token{Kind: token.STRING, Lexeme: s, Position: pos}, nil

	case unicode.IsDigit(c) || (c == '-' && unicode.IsDigit(l.peek())):
		s, err := l.scanNumber()
		if err != nil {
			return token.Token{}, err
		}
		return token.Token{Kind: token.NUMBER, Lexeme: s, Position: pos}, nil

	case unicode.IsLetter(c):
		s := l.scanIdentifier()
		switch s {
		case "true":
			return token.Token{Kind: token.TRUE, Lexeme: s, Position: pos}, nil
		case "false":
			return token.Token{Kind: token.FALSE, Lexeme: s, Position: pos}, nil
		case "null":
			return token.Token{Kind: token.NULL, Lexeme: s, Position: pos}, nil
		default:
			return token.Token{}, l.errAt(perrors.UnknownIdentifier, "unknown identifier: "+s, pos)
		}

	default:
		if kind, ok := singleCharTokens[c]; ok {
			l.advance()
			return token.Token{Kind: kind, Lexeme: string(c), Position: pos}, nil
		}
		return token.Token{}, l.errAt(perrors.UnexpectedChar, "unexpected character: "+string(c), pos)
	}
}

var singleCharTokens = map[rune]token.Kind{
	':': token.COLON,
	',': token.COMMA,
	'[': token.LBRACK,
	']': token.RBRACK,
	'{': token.LBRACE,
	'}': token.RBRACE,
	'-': token.DASH,
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// countIndent consumes leading spaces at a line start and returns their
// count. A tab anywhere in the run is always a lexical error, regardless
// of the tab extension (spec.md §4.1: "tabs in indentation remain
// forbidden").
func (l *Lexer) countIndent() (int, error) {
	n := 0
	for l.current() == ' ' {
		l.advance()
		n++
	}
	if l.current() == '\t' {
		return 0, l.errAt(perrors.TabForbidden, "tab character in indentation", l.pos2())
	}
	return n, nil
}

// skipInterTokenWhitespace consumes spaces (and, with the tab extension
// enabled, tabs) between tokens on the same line. It never consumes a
// newline.
func (l *Lexer) skipInterTokenWhitespace() error {
	for {
		c := l.current()
		if c == ' ' {
			l.advance()
			continue
		}
		if c == '\t' {
			if !l.opts.AllowTabExtension || l.opts.StrictMode {
				return l.errf(perrors.TabForbidden, "tab character in indentation")
			}
			l.advance()
			continue
		}
		break
	}
	return nil
}

func (l *Lexer) scanComment(pos token.Position) (token.Token, error) {
	inline := l.sawTokenOnLine
	blanksBefore := l.blankLines
	l.blankLines = 0

	l.advance() // skip '#'
	var sb strings.Builder
	for !l.eof() && !isLineBreak(l.current()) {
		sb.WriteRune(l.advance())
	}
	return token.Token{
		Kind:             token.COMMENT,
		Lexeme:           strings.TrimSpace(sb.String()),
		Position:         pos,
		BlankLinesBefore: blanksBefore,
		Inline:           inline,
	}, nil
}

func (l *Lexer) scanIdentifier() string {
	var sb strings.Builder
	for unicode.IsLetter(l.current()) || unicode.IsDigit(l.current()) || l.current() == '_' {
		sb.WriteRune(l.advance())
	}
	return sb.String()
}

// scanNumber reads a JSON-grammar number lexeme verbatim; decoding into
// int64/float64 happens in the parser (spec.md §4.2).
func (l *Lexer) scanNumber() (string, error) {
	var sb strings.Builder

	if l.current() == '-' {
		sb.WriteRune(l.advance())
	}

	switch {
	case l.current() == '0':
		sb.WriteRune(l.advance())
		if unicode.IsDigit(l.current()) {
			return "", l.errf(perrors.InvalidNumber, "invalid number literal: leading zeros are not allowed")
		}
	case unicode.IsDigit(l.current()):
		for unicode.IsDigit(l.current()) {
			sb.WriteRune(l.advance())
		}
	default:
		return "", l.errf(perrors.InvalidNumber, "invalid number literal")
	}

	if l.current() == '.' {
		sb.WriteRune(l.advance())
		if !unicode.IsDigit(l.current()) {
			return "", l.errf(perrors.InvalidNumber, "invalid number literal: expected digit after '.'")
		}
		for unicode.IsDigit(l.current()) {
			sb.WriteRune(l.advance())
		}
	}

	if l.current() == 'e' || l.current() == 'E' {
		sb.WriteRune(l.advance())
		if l.current() == '+' || l.current() == '-' {
			sb.WriteRune(l.advance())
		}
		if !unicode.IsDigit(l.current()) {
			return "", l.errf(perrors.InvalidNumber, "invalid number literal: expected digit in exponent")
		}
		for unicode.IsDigit(l.current()) {
			sb.WriteRune(l.advance())
		}
	}

	return sb.String(), nil
}

var escapeMap = map[rune]rune{
	'"':  '"',
	'\'': '\'',
	'\\': '\\',
	'/':  '/',
	'b':  '\b',
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
}

func (l *Lexer) scanQuotedString(quote rune) (string, error) {
	l.advance() // skip opening quote
	var sb strings.Builder

	for {
		if l.eof() {
			return "", l.errf(perrors.UnterminatedString, "unterminated string")
		}
		c := l.current()
		if c == quote {
			l.advance()
			return sb.String(), nil
		}
		if c == '\\' {
			l.advance()
			if l.eof() {
				return "", l.errf(perrors.UnterminatedString, "unterminated string")
			}
			esc := l.current()
			if repl, ok := escapeMap[esc]; ok {
				sb.WriteRune(repl)
				l.advance()
				continue
			}
			if esc == 'u' {
				l.advance()
				cp, err := l.readHex4()
				if err != nil {
					return "", err
				}
				if cp >= 0xD800 && cp <= 0xDBFF {
					low, err := l.readLowSurrogate()
					if err != nil {
						return "", err
					}
					combined := 0x10000 + ((cp - 0xD800) << 10) + (low - 0xDC00)
					sb.WriteRune(rune(combined))
					continue
				}
				if cp >= 0xDC00 && cp <= 0xDFFF {
					return "", l.errf(perrors.UnpairedSurrogate, "unpaired low surrogate")
				}
				sb.WriteRune(rune(cp))
				continue
			}
			return "", l.errf(perrors.InvalidEscape, "invalid escape sequence: \\"+string(esc))
		}
		sb.WriteRune(c)
		l.advance()
	}
}

func (l *Lexer) readHex4() (int32, error) {
	var v int32
	for i := 0; i < 4; i++ {
		c := l.current()
		d, ok := hexDigit(c)
		if !ok {
			return 0, l.errf(perrors.InvalidUnicodeEscape, "invalid unicode escape")
		}
		v = v*16 + d
		l.advance()
	}
	return v, nil
}

func (l *Lexer) readLowSurrogate() (int32, error) {
	if l.current() != '\\' {
		return 0, l.errf(perrors.UnpairedSurrogate, "high surrogate not followed by a low surrogate escape")
	}
	l.advance()
	if l.current() != 'u' {
		return 0, l.errf(perrors.UnpairedSurrogate, "high surrogate not followed by a \\u escape")
	}
	l.advance()
	v, err := l.readHex4()
	if err != nil {
		return 0, err
	}
	if v < 0xDC00 || v > 0xDFFF {
		return 0, l.errf(perrors.UnpairedSurrogate, "expected low surrogate (DC00-DFFF)")
	}
	return v, nil
}

func hexDigit(c rune) (int32, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}

// scanMultiline reads a | or > block scalar: optional chomping indicator,
// required newline, then indentation-scoped continuation lines (spec.md
// §4.1 step 1-6).
func (l *Lexer) scanMultiline(indicator rune) (string, error) {
	l.advance() // skip '|' or '>'

	chompMode := chompClip
	switch l.current() {
	case '-':
		chompMode = chompStrip
		l.advance()
	case '+':
		if !l.opts.AllowKeepChomping {
			return "", l.errMultiline("'+' keep-chomping requires the keep-chomping extension")
		}
		chompMode = chompKeep
		l.advance()
	}

	for l.current() == ' ' {
		l.advance()
	}
	if !isLineBreak(l.current()) {
		return "", l.errMultiline("multiline scalar indicator must be followed by a newline")
	}
	l.advance() // consume the newline

	var lines []string
	baseIndent := -1

	for !l.eof() {
		lineStart := l.pos
		lineStartLC := token.Position{Line: l.line, Column: l.col}

		indent := 0
		for l.current() == ' ' {
			l.advance()
			indent++
		}

		if l.eof() {
			// Trailing whitespace-only partial line with no newline: not
			// part of the scalar.
			l.rewindTo(lineStart, lineStartLC)
			break
		}

		if isLineBreak(l.current()) {
			lines = append(lines, "")
			l.advance()
			continue
		}

		// An unindented, non-blank line ends the scalar immediately —
		// even as the very first continuation line, before base_indent is
		// ever established — matching the reference lexer's
		// "indent == 0" short-circuit.
		if indent == 0 {
			l.rewindTo(lineStart, lineStartLC)
			break
		}

		if baseIndent == -1 {
			baseIndent = indent
		} else if indent < baseIndent {
			l.rewindTo(lineStart, lineStartLC)
			break
		}

		// Un-consume indentation beyond baseIndent so it stays part of
		// the line's content.
		extra := indent - baseIndent
		var sb strings.Builder
		for i := 0; i < extra; i++ {
			sb.WriteByte(' ')
		}
		for !l.eof() && !isLineBreak(l.current()) {
			sb.WriteRune(l.advance())
		}
		lines = append(lines, sb.String())
		if isLineBreak(l.current()) {
			l.advance()
		}
	}

	var body string
	if indicator == '|' {
		body = strings.Join(lines, "\n")
	} else {
		body = foldLines(lines)
	}

	switch chompMode {
	case chompStrip:
		return strings.TrimRight(body, "\n"), nil
	case chompKeep:
		return body, nil
	default:
		trimmed := strings.TrimRight(body, "\n")
		if trimmed == "" {
			return "", nil
		}
		return trimmed + "\n", nil
	}
}

// rewindTo resets the cursor to a previously recorded position, used when
// a multiline scalar's scan overshoots into the following line.
func (l *Lexer) rewindTo(pos int, lc token.Position) {
	l.pos = pos
	l.line = lc.Line
	l.col = lc.Column
	l.atLineStart = true
}

// foldLines implements the folded-scalar join: consecutive non-empty
// lines are joined with a single space; any run of one or more empty
// lines collapses to a single "\n" separator (spec.md §4.1 step 5).
func foldLines(lines []string) string {
	var sb strings.Builder
	i, n := 0, len(lines)
	for i < n {
		if lines[i] == "" {
			for i < n && lines[i] == "" {
				i++
			}
			sb.WriteByte('\n')
			continue
		}
		start := i
		for i < n && lines[i] != "" {
			i++
		}
		sb.WriteString(strings.Join(lines[start:i], " "))
	}
	return sb.String()
}
