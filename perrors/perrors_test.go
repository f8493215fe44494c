package perrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexicalErrorMessage(t *testing.T) {
	e := NewLexical(TabForbidden, "tab character in indentation", Position{Line: 2, Column: 1})
	assert.Equal(t, "tab character in indentation at line 2, column 1", e.Error())
	assert.Equal(t, "TabForbidden", e.Kind.String())
}

func TestParseErrorNoPosition(t *testing.T) {
	e := NewParseNoPos(UnexpectedEOF, "unexpected end of input")
	assert.Equal(t, "unexpected end of input", e.Error())
	assert.False(t, e.HasPosition)
}

func TestParseErrorWithPosition(t *testing.T) {
	e := NewParse(DuplicateKey, "duplicate key: x", Position{Line: 5, Column: 3})
	assert.Equal(t, "duplicate key: x at line 5, column 3", e.Error())
}

func TestWrapLexicalUnwrapsViaErrorsAs(t *testing.T) {
	lex := NewLexical(UnterminatedString, "unterminated string", Position{Line: 1, Column: 4})
	wrapped := WrapLexical(lex)

	require.NotNil(t, wrapped)
	assert.Equal(t, lex.Position, wrapped.Position)

	var got *LexicalError
	require.True(t, errors.As(error(wrapped), &got))
	assert.Same(t, lex, got)
}

func TestWrapLexicalNil(t *testing.T) {
	assert.Nil(t, WrapLexical(nil))
}
