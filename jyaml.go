// Package jyaml is the package-root convenience API over parser and
// convert: Parse for the raw value tree, Load (and its preset-named
// siblings) for host-native data (spec.md §6 "External interfaces").
package jyaml

import (
	"github.com/masinc/jyaml/convert"
	"github.com/masinc/jyaml/options"
	"github.com/masinc/jyaml/parser"
	"github.com/masinc/jyaml/value"
)

// ParsedDocument re-exports parser.ParsedDocument so callers never need to
// import the parser package directly.
type ParsedDocument = parser.ParsedDocument

// Comment re-exports parser.Comment.
type Comment = parser.Comment

// Parse parses text into a ParsedDocument using opts, or
// options.NewParseOptions() defaults if opts is nil.
func Parse(text string, opts *options.ParseOptions) (*ParsedDocument, error) {
	po := options.NewParseOptions()
	if opts != nil {
		po = *opts
	}
	if err := po.Validate(); err != nil {
		return nil, err
	}

	p, err := parser.New(text, po)
	if err != nil {
		return nil, err
	}
	return p.Parse()
}

// Load parses text and projects the result into host-native data under
// opts (options.NewLoadOptions() defaults if opts is nil) — the "load"
// (alias "loads") entry point of spec.md §6.
func Load(text string, opts *options.LoadOptions) (any, error) {
	lo := options.NewLoadOptions()
	if opts != nil {
		lo = *opts
	}
	if err := lo.Validate(); err != nil {
		return nil, err
	}

	po := options.NewParseOptions()
	if lo.ParseOptions != nil {
		po = *lo.ParseOptions
	}

	doc, err := Parse(text, &po)
	if err != nil {
		return nil, err
	}
	return convert.ToNative(doc.Root, lo)
}

// LoadStrict applies options.StrictTypesPreset().
func LoadStrict(text string) (any, error) {
	lo := options.StrictTypesPreset()
	return Load(text, &lo)
}

// LoadPermissive parses with options.PermissivePreset() and loads with
// defaults.
func LoadPermissive(text string) (any, error) {
	po := options.PermissivePreset()
	lo := options.NewLoadOptions()
	lo.ParseOptions = &po
	return Load(text, &lo)
}

// LoadFast parses with options.FastPreset() (no comment collection) and
// loads with defaults.
func LoadFast(text string) (any, error) {
	po := options.FastPreset()
	lo := options.NewLoadOptions()
	lo.ParseOptions = &po
	return Load(text, &lo)
}

// LoadOrdered applies options.PreserveOrderPreset(), returning
// *convert.OrderedMap for every object in the tree.
func LoadOrdered(text string) (any, error) {
	lo := options.PreserveOrderPreset()
	return Load(text, &lo)
}

// Equal reports whether two Values are structurally equivalent (spec.md
// §8 "Round-trip and equivalence").
func Equal(a, b value.Value) bool { return value.Equal(a, b) }
