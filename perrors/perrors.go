// Package perrors defines the two disjoint error categories JYAML parsing
// can raise: LexicalError (from the lexer) and ParseError (from the
// parser). Both carry a position when one is available, and both render
// to the single-line form "<message> at line L, column C".
package perrors

import "fmt"

// Position is a 1-based source location.
type Position struct {
	Line   int
	Column int
}

// LexicalKind enumerates the lexer's closed set of failure modes.
type LexicalKind int

const (
	BOMForbidden LexicalKind = iota
	TabForbidden
	UnterminatedString
	InvalidEscape
	InvalidUnicodeEscape
	UnpairedSurrogate
	InvalidNumber
	UnknownIdentifier
	UnexpectedChar
)

func (k LexicalKind) String() string {
	switch k {
	case BOMForbidden:
		return "BOMForbidden"
	case TabForbidden:
		return "TabForbidden"
	case UnterminatedString:
		return "UnterminatedString"
	case InvalidEscape:
		return "InvalidEscape"
	case InvalidUnicodeEscape:
		return "InvalidUnicodeEscape"
	case UnpairedSurrogate:
		return "UnpairedSurrogate"
	case InvalidNumber:
		return "InvalidNumber"
	case UnknownIdentifier:
		return "UnknownIdentifier"
	case UnexpectedChar:
		return "UnexpectedChar"
	default:
		return "Unknown"
	}
}

// LexicalError is raised by the lexer. Position is always set for a
// LexicalError: the lexer reports every failure at its cursor or at the
// start of the offending token (a leading BOM at line 1, column 1).
type LexicalError struct {
	Kind     LexicalKind
	Message  string
	Position Position

	// RewrapAs, when set, is the ParseKind WrapLexical assigns when this
	// LexicalError surfaces during the parser's pre-tokenization pass,
	// instead of the generic UnexpectedToken default. Used for lexical
	// failures spec.md's ParseError taxonomy names specifically — e.g. a
	// malformed multiline chomping indicator is detected by the lexer but
	// reported under ParseKind.MultilineIndicatorMisuse.
	RewrapAs *ParseKind
}

func (e *LexicalError) Error() string {
	return fmt.Sprintf("%s at line %d, column %d", e.Message, e.Position.Line, e.Position.Column)
}

// NewLexical builds a LexicalError at the given position.
func NewLexical(kind LexicalKind, message string, pos Position) *LexicalError {
	return &LexicalError{Kind: kind, Message: message, Position: pos}
}

// NewLexicalRewrap builds a LexicalError that rewraps as the given ParseKind
// when WrapLexical later converts it to a *ParseError.
func NewLexicalRewrap(kind LexicalKind, message string, pos Position, rewrapAs ParseKind) *LexicalError {
	return &LexicalError{Kind: kind, Message: message, Position: pos, RewrapAs: &rewrapAs}
}

// ParseKind enumerates the parser's closed set of failure modes.
type ParseKind int

const (
	UnexpectedToken ParseKind = iota
	UnexpectedEOF
	ExpectedColon
	ExpectedCommaOrClose
	MultilineIndicatorMisuse
	DepthExceeded
	DuplicateKey
	TrailingContent
	Overflow
)

func (k ParseKind) String() string {
	switch k {
	case UnexpectedToken:
		return "UnexpectedToken"
	case UnexpectedEOF:
		return "UnexpectedEOF"
	case ExpectedColon:
		return "ExpectedColon"
	case ExpectedCommaOrClose:
		return "ExpectedCommaOrClose"
	case MultilineIndicatorMisuse:
		return "MultilineIndicatorMisuse"
	case DepthExceeded:
		return "DepthExceeded"
	case DuplicateKey:
		return "DuplicateKey"
	case TrailingContent:
		return "TrailingContent"
	case Overflow:
		return "Overflow"
	default:
		return "Unknown"
	}
}

// ParseError is raised by the parser. HasPosition is false only when a
// failure occurs with no current token at all (e.g. an empty token
// stream), per spec.md §7: "when no token is available the position is
// omitted but the category is preserved."
type ParseError struct {
	Kind        ParseKind
	Message     string
	Position    Position
	HasPosition bool

	// Lexical holds the original *LexicalError when this ParseError
	// rewraps a lexer failure that occurred during pre-tokenization (see
	// WrapLexical). Nil otherwise.
	Lexical *LexicalError
}

func (e *ParseError) Error() string {
	if !e.HasPosition {
		return e.Message
	}
	return fmt.Sprintf("%s at line %d, column %d", e.Message, e.Position.Line, e.Position.Column)
}

// Unwrap lets errors.As reach the wrapped *LexicalError, if any.
func (e *ParseError) Unwrap() error {
	if e.Lexical == nil {
		return nil
	}
	return e.Lexical
}

// NewParse builds a ParseError at the given position.
func NewParse(kind ParseKind, message string, pos Position) *ParseError {
	return &ParseError{Kind: kind, Message: message, Position: pos, HasPosition: true}
}

// NewParseNoPos builds a ParseError with no known position.
func NewParseNoPos(kind ParseKind, message string) *ParseError {
	return &ParseError{Kind: kind, Message: message}
}

// WrapLexical rewraps a *LexicalError raised during pre-tokenization as a
// *ParseError, so callers can type-switch on *ParseError uniformly (spec.md
// §7 propagation policy) while still being able to recover the original
// LexicalError via Unwrap/errors.As.
func WrapLexical(e *LexicalError) *ParseError {
	if e == nil {
		return nil
	}
	kind := UnexpectedToken
	if e.RewrapAs != nil {
		kind = *e.RewrapAs
	}
	return &ParseError{
		Kind:        kind,
		Message:     e.Message,
		Position:    e.Position,
		HasPosition: true,
		Lexical:     e,
	}
}
