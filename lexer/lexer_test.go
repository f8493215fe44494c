package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masinc/jyaml/options"
	"github.com/masinc/jyaml/perrors"
	"github.com/masinc/jyaml/token"
)

func tokenize(t *testing.T, input string, opts options.ParseOptions) []token.Token {
	t.Helper()
	lx, err := New(input, opts)
	require.NoError(t, err)

	var toks []token.Token
	for {
		tok, err := lx.Next()
		require.NoError(t, err)
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestFlowObjectTokens(t *testing.T) {
	toks := tokenize(t, `{"key": "value"}`, options.NewParseOptions())
	assert.Equal(t, []token.Kind{
		token.LBRACE, token.STRING, token.COLON, token.STRING, token.RBRACE, token.EOF,
	}, kinds(toks))
	assert.Equal(t, "key", toks[1].Lexeme)
	assert.Equal(t, "value", toks[3].Lexeme)
}

func TestFlowArrayWithTrailingComma(t *testing.T) {
	toks := tokenize(t, `[1, 2, ]`, options.NewParseOptions())
	assert.Equal(t, []token.Kind{
		token.LBRACK, token.NUMBER, token.COMMA, token.NUMBER, token.COMMA, token.RBRACK, token.EOF,
	}, kinds(toks))
}

func TestNumberLexemes(t *testing.T) {
	for _, lit := range []string{"0", "-5", "3.14", "1e10", "-2.5E-3", "100"} {
		toks := tokenize(t, lit, options.NewParseOptions())
		require.Len(t, toks, 2)
		assert.Equal(t, token.NUMBER, toks[0].Kind)
		assert.Equal(t, lit, toks[0].Lexeme)
	}
}

func TestInvalidNumberLeadingZero(t *testing.T) {
	lx, err := New("01", options.NewParseOptions())
	require.NoError(t, err)
	_, err = lx.Next()
	require.Error(t, err)
	var lexErr *perrors.LexicalError
	require.ErrorAs(t, err, &lexErr)
	assert.Equal(t, perrors.InvalidNumber, lexErr.Kind)
}

func TestStringEscapes(t *testing.T) {
	toks := tokenize(t, `"a\nb\tc\"d"`, options.NewParseOptions())
	require.Equal(t, token.STRING, toks[0].Kind)
	assert.Equal(t, "a\nb\tc\"d", toks[0].Lexeme)
}

func TestSurrogatePairDecoding(t *testing.T) {
	toks := tokenize(t, `"\`+`uD83D\`+`uDE00"`, options.NewParseOptions())
	require.Equal(t, token.STRING, toks[0].Kind)
	assert.Equal(t, "😀", toks[0].Lexeme)
}

func TestUnpairedHighSurrogate(t *testing.T) {
	lx, err := New(`"\uD800x"`, options.NewParseOptions())
	require.NoError(t, err)
	_, err = lx.Next()
	require.Error(t, err)
	var lexErr *perrors.LexicalError
	require.ErrorAs(t, err, &lexErr)
	assert.Equal(t, perrors.UnpairedSurrogate, lexErr.Kind)
}

func TestBOMRejected(t *testing.T) {
	_, err := New(string(rune(0xFEFF))+"{}", options.NewParseOptions())
	require.Error(t, err)
	var lexErr *perrors.LexicalError
	require.ErrorAs(t, err, &lexErr)
	assert.Equal(t, perrors.BOMForbidden, lexErr.Kind)
	assert.Equal(t, 1, lexErr.Position.Line)
	assert.Equal(t, 1, lexErr.Position.Column)
}

func TestTabInIndentationForbidden(t *testing.T) {
	lx, err := New("\t\"x\": 1", options.NewParseOptions())
	require.NoError(t, err)
	_, err = lx.Next()
	require.Error(t, err)
	var lexErr *perrors.LexicalError
	require.ErrorAs(t, err, &lexErr)
	assert.Equal(t, perrors.TabForbidden, lexErr.Kind)
}

func TestTabExtensionAllowsInterTokenTabs(t *testing.T) {
	opts := options.PermissivePreset()
	opts.AllowTabExtension = true
	toks := tokenize(t, "\"a\":\t1", opts)
	assert.Equal(t, []token.Kind{token.STRING, token.COLON, token.NUMBER, token.EOF}, kinds(toks))
}

func TestCommentTrimmed(t *testing.T) {
	toks := tokenize(t, "# a comment \n1", options.NewParseOptions())
	require.Equal(t, token.COMMENT, toks[0].Kind)
	assert.Equal(t, "a comment", toks[0].Lexeme)
}

func TestLiteralMultilineClip(t *testing.T) {
	toks := tokenize(t, "|\n  a\n  b\n}", options.NewParseOptions())
	require.Equal(t, token.STRING, toks[0].Kind)
	assert.Equal(t, "a\nb\n", toks[0].Lexeme)
	assert.Equal(t, token.RBRACE, toks[1].Kind)
}

func TestMultilineTerminatesImmediatelyOnUnindentedFirstLine(t *testing.T) {
	// The first continuation line carries no indentation at all, so the
	// scalar has no content and ends right there — the lexer must not
	// swallow "1" into the scalar body or run on to EOF.
	toks := tokenize(t, "|\n1", options.NewParseOptions())
	assert.Equal(t, []token.Kind{token.STRING, token.NUMBER, token.EOF}, kinds(toks))
	assert.Equal(t, "", toks[0].Lexeme)
	assert.Equal(t, "1", toks[1].Lexeme)
}

func TestFoldedMultilineStrip(t *testing.T) {
	toks := tokenize(t, ">-\n  a\n  b\n}", options.NewParseOptions())
	require.Equal(t, token.STRING, toks[0].Kind)
	assert.Equal(t, "a b", toks[0].Lexeme)
}

func TestFoldedBlankLineCollapse(t *testing.T) {
	toks := tokenize(t, ">\n  a\n\n  b\n", options.NewParseOptions())
	require.Equal(t, token.STRING, toks[0].Kind)
	assert.Equal(t, "a\nb\n", toks[0].Lexeme)
}

func TestKeepChompingRequiresExtension(t *testing.T) {
	lx, err := New("|+\n  a\n", options.NewParseOptions())
	require.NoError(t, err)
	_, err = lx.Next()
	require.Error(t, err)
}

func TestKeepChompingPreservesTrailingNewlines(t *testing.T) {
	opts := options.NewParseOptions()
	opts.AllowKeepChomping = true
	toks := tokenize(t, "|+\n  a\n\n\n", opts)
	require.Equal(t, token.STRING, toks[0].Kind)
	assert.Equal(t, "a\n\n", toks[0].Lexeme)
}

func TestIndentTokenEmittedOnlyWhenNonZero(t *testing.T) {
	toks := tokenize(t, "\"a\": 1\n  \"b\": 2", options.NewParseOptions())
	// line 2 is indented by two spaces, so an INDENT token precedes its key.
	var sawIndent bool
	for _, tok := range toks {
		if tok.Kind == token.INDENT {
			sawIndent = true
			assert.Equal(t, "2", tok.Lexeme)
		}
	}
	assert.True(t, sawIndent)
}
