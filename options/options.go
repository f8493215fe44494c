// Package options implements JYAML's validated configuration: ParseOptions
// (lexical tolerances and structural limits) and LoadOptions (value
// conversion choices), together with their presets. Validate checks their
// field combinations; the constructors do not call it, and jyaml.Parse and
// jyaml.Load call it before parsing.
package options

import "fmt"

// LineEndingMode controls the parser's line-ending normalization pass.
type LineEndingMode int

const (
	LineEndingNone LineEndingMode = iota
	LineEndingLF
	LineEndingCRLF
)

// DefaultMaxDepth is the default nesting limit (spec.md §4.2).
const DefaultMaxDepth = 1000

// ParseOptions governs lexical tolerances, structural limits, and
// preprocessing for a single parse call.
type ParseOptions struct {
	StrictMode              bool
	PreserveComments        bool
	AllowDuplicateKeys      bool
	MaxDepth                int // 0 means unlimited
	IncludeCommentPositions bool
	NormalizeLineEndings    LineEndingMode

	// AllowTabExtension permits tabs in inter-token whitespace (never in
	// indentation) when StrictMode is false — spec.md §4.1 "Tabs."
	AllowTabExtension bool
	// AllowKeepChomping enables the |+ and >+ chomping indicators —
	// spec.md §6 "optionally as an extension."
	AllowKeepChomping bool
	// StrictBlockIndent enforces that successive '-' markers in a block
	// sequence share a column — the "SHOULD enforce" branch of the
	// block-array-indentation open question in spec.md §9.
	StrictBlockIndent bool
}

// NewParseOptions returns the strict-mode defaults (spec.md §4.4).
func NewParseOptions() ParseOptions {
	return ParseOptions{
		StrictMode:           true,
		PreserveComments:     true,
		MaxDepth:             DefaultMaxDepth,
		NormalizeLineEndings: LineEndingLF,
	}
}

// Validate checks the option-consistency rules of spec.md §4.4:
//
//	strict_mode is incompatible with allow_duplicate_keys
//	include_comment_positions requires preserve_comments
//	max_depth must be in [1, 100_000] or 0 (unlimited)
func (o ParseOptions) Validate() error {
	if o.StrictMode && o.AllowDuplicateKeys {
		return fmt.Errorf("options: strict_mode and allow_duplicate_keys are incompatible")
	}
	if o.IncludeCommentPositions && !o.PreserveComments {
		return fmt.Errorf("options: include_comment_positions requires preserve_comments=true")
	}
	if o.MaxDepth < 0 || o.MaxDepth > 100_000 {
		return fmt.Errorf("options: max_depth must be in [1, 100000] or 0 for unlimited")
	}
	return nil
}

// StrictPreset is strict JYAML spec compliance (the default).
func StrictPreset() ParseOptions {
	o := NewParseOptions()
	o.StrictMode = true
	o.PreserveComments = true
	o.MaxDepth = 1000
	return o
}

// PermissivePreset relaxes duplicate-key detection and raises the depth
// limit.
func PermissivePreset() ParseOptions {
	return ParseOptions{
		StrictMode:           false,
		PreserveComments:     true,
		AllowDuplicateKeys:   true,
		MaxDepth:             10_000,
		NormalizeLineEndings: LineEndingLF,
	}
}

// FastPreset disables comment collection and caps depth tightly.
func FastPreset() ParseOptions {
	return ParseOptions{
		StrictMode:           true,
		PreserveComments:     false,
		MaxDepth:             100,
		NormalizeLineEndings: LineEndingLF,
	}
}

// DebugPreset is permissive plus comment position tracking.
func DebugPreset() ParseOptions {
	return ParseOptions{
		StrictMode:              false,
		PreserveComments:        true,
		AllowDuplicateKeys:      true,
		IncludeCommentPositions: true,
		MaxDepth:                10_000,
		NormalizeLineEndings:    LineEndingLF,
	}
}

// FromPreset looks up a ParseOptions preset by name: "strict", "permissive",
// "fast", or "debug".
func FromPreset(name string) (ParseOptions, error) {
	switch name {
	case "strict":
		return StrictPreset(), nil
	case "permissive":
		return PermissivePreset(), nil
	case "fast":
		return FastPreset(), nil
	case "debug":
		return DebugPreset(), nil
	default:
		return ParseOptions{}, fmt.Errorf("options: unknown parse preset %q", name)
	}
}

// Pair mirrors value.Pair without importing the value package, so hooks
// can be declared here without a dependency cycle. convert.ToNative
// converts between the two.
type Pair struct {
	Key   string
	Value any
}

// LoadOptions governs how a parsed Value tree is projected into
// host-native Go data.
type LoadOptions struct {
	AsNativeTypes bool
	ParseNumbers  bool
	ParseBooleans bool
	ParseNull     bool

	UseDecimal    bool
	UseOrderedMap bool

	ObjectHook func([]Pair) (any, error)
	NumberHook func(any) (any, error)

	// ParseOptions overrides the default ParseOptions used to parse the
	// text before conversion. Nil means use NewParseOptions().
	ParseOptions *ParseOptions
}

// NewLoadOptions returns the permissive "convert everything" defaults.
func NewLoadOptions() LoadOptions {
	return LoadOptions{
		AsNativeTypes: true,
		ParseNumbers:  true,
		ParseBooleans: true,
		ParseNull:     true,
	}
}

// Validate checks spec.md §4.3's consistency rules:
//
//	use_decimal requires parse_numbers
//	any non-string option requires as_native_types
//	object_hook and number_hook must be callable (guaranteed by Go's type
//	system — nil is the only invalid case, and nil means "no hook")
func (o LoadOptions) Validate() error {
	if !o.AsNativeTypes && (o.UseDecimal || o.UseOrderedMap) {
		return fmt.Errorf("options: use_decimal and use_ordered_map require as_native_types=true")
	}
	if o.UseDecimal && !o.ParseNumbers {
		return fmt.Errorf("options: use_decimal requires parse_numbers=true")
	}
	return nil
}

// DefaultLoadPreset converts everything to native types.
func DefaultLoadPreset() LoadOptions {
	return NewLoadOptions()
}

// StrictTypesPreset is equivalent to DefaultLoadPreset but states its
// intent explicitly (matches the Python reference's "strict_types" preset,
// which sets fields the defaults already set).
func StrictTypesPreset() LoadOptions {
	return LoadOptions{
		AsNativeTypes: true,
		ParseNumbers:  true,
		ParseBooleans: true,
		ParseNull:     true,
	}
}

// PreserveOrderPreset returns objects as an ordered map instead of a plain
// map.
func PreserveOrderPreset() LoadOptions {
	o := NewLoadOptions()
	o.UseOrderedMap = true
	return o
}

// HighPrecisionPreset routes floats through an arbitrary-precision decimal
// type and preserves object key order.
func HighPrecisionPreset() LoadOptions {
	o := NewLoadOptions()
	o.UseDecimal = true
	o.UseOrderedMap = true
	return o
}

// StringsOnlyPreset disables all native-type conversion; every scalar
// stays a string.
func StringsOnlyPreset() LoadOptions {
	return LoadOptions{
		AsNativeTypes: false,
		ParseNumbers:  false,
		ParseBooleans: false,
		ParseNull:     false,
	}
}

// FromLoadPreset looks up a LoadOptions preset by name: "default",
// "strict_types", "preserve_order", "high_precision", or "strings_only".
func FromLoadPreset(name string) (LoadOptions, error) {
	switch name {
	case "default":
		return DefaultLoadPreset(), nil
	case "strict_types":
		return StrictTypesPreset(), nil
	case "preserve_order":
		return PreserveOrderPreset(), nil
	case "high_precision":
		return HighPrecisionPreset(), nil
	case "strings_only":
		return StringsOnlyPreset(), nil
	default:
		return LoadOptions{}, fmt.Errorf("options: unknown load preset %q", name)
	}
}
