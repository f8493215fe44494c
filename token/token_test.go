package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{NULL, "null"},
		{COLON, ":"},
		{LBRACE, "{"},
		{RBRACK, "]"},
		{DASH, "-"},
		{NEWLINE, "newline"},
		{EOF, "eof"},
		{Kind(999), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kind.String())
	}
}

func TestTokenLineColumn(t *testing.T) {
	tok := Token{Kind: STRING, Lexeme: "hi", Position: Position{Line: 3, Column: 7}}
	assert.Equal(t, 3, tok.Line())
	assert.Equal(t, 7, tok.Column())
}
