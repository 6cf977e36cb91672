package license

import "slices"

// Alias maps a canonical license name to the raw strings considered
// equivalent to it. The canonical name should appear among its own variants
// so that normalizing an already-canonical name is stable.
type Alias struct {
	Canonical string   `toml:"canonical" json:"canonical"`
	Variants  []string `toml:"variants" json:"variants"`
}

// AliasTable is an ordered list of aliases. When variant lists overlap the
// first matching entry wins; a well-formed table has no overlaps.
type AliasTable []Alias

// DefaultAliases is the built-in alias table.
var DefaultAliases = AliasTable{
	{Canonical: "MIT License", Variants: []string{"MIT", "MIT License"}},
	{Canonical: "BSD License", Variants: []string{"BSD", "BSD License"}},
}

// Merge returns a new table with extra appended after t. Entries of t take
// precedence on overlapping variants.
func (t AliasTable) Merge(extra AliasTable) AliasTable {
	out := make(AliasTable, 0, len(t)+len(extra))
	out = append(out, t...)
	return append(out, extra...)
}

// Canonical returns the canonical form of name, or name itself when no entry
// lists it as a variant.
func (t AliasTable) Canonical(name string) string {
	for _, a := range t {
		if slices.Contains(a.Variants, name) {
			return a.Canonical
		}
	}
	return name
}

// Normalize maps every license in s onto its canonical alias. It never
// modifies s, never grows the set (aliases can only merge members), and is
// idempotent for tables whose canonical names are listed among their own
// variants.
func Normalize(s Set, table AliasTable) Set {
	out := make(Set, len(s))
	for name := range s {
		out.Add(table.Canonical(name))
	}
	return out
}
