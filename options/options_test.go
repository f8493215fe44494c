package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    ParseOptions
		wantErr bool
	}{
		{"defaults ok", NewParseOptions(), false},
		{"strict and duplicate keys incompatible", ParseOptions{StrictMode: true, AllowDuplicateKeys: true}, true},
		{"comment positions require preserve comments", ParseOptions{IncludeCommentPositions: true}, true},
		{"max depth too large", ParseOptions{MaxDepth: 200_000}, true},
		{"max depth zero means unlimited", ParseOptions{MaxDepth: 0}, false},
		{"max depth negative invalid", ParseOptions{MaxDepth: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParsePresetsAreValid(t *testing.T) {
	for _, preset := range []ParseOptions{StrictPreset(), PermissivePreset(), FastPreset(), DebugPreset()} {
		assert.NoError(t, preset.Validate())
	}
}

func TestFromPreset(t *testing.T) {
	got, err := FromPreset("strict")
	require.NoError(t, err)
	assert.Equal(t, StrictPreset(), got)

	_, err = FromPreset("nonexistent")
	assert.Error(t, err)
}

func TestLoadOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    LoadOptions
		wantErr bool
	}{
		{"defaults ok", NewLoadOptions(), false},
		{"ordered map requires native types", LoadOptions{UseOrderedMap: true}, true},
		{"decimal requires native types", LoadOptions{UseDecimal: true}, true},
		{"decimal requires parse numbers", LoadOptions{AsNativeTypes: true, UseDecimal: true, ParseNumbers: false}, true},
		{"decimal with parse numbers ok", LoadOptions{AsNativeTypes: true, UseDecimal: true, ParseNumbers: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFromLoadPreset(t *testing.T) {
	got, err := FromLoadPreset("high_precision")
	require.NoError(t, err)
	assert.True(t, got.UseDecimal)
	assert.True(t, got.UseOrderedMap)

	_, err = FromLoadPreset("nonexistent")
	assert.Error(t, err)
}
