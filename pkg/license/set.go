package license

import (
	"encoding/json"
	"maps"
	"slices"
)

// Unknown is attached to packages for which no license could be determined,
// whether the registry lookup failed or returned no license data.
const Unknown = "UNKNOWN"

// Set is a set of license names. The zero value (nil) is an empty set that
// can be read but not written; use [NewSet] to create a writable one.
type Set map[string]struct{}

// NewSet returns a set holding the given names. Empty names are ignored.
func NewSet(names ...string) Set {
	s := make(Set, len(names))
	for _, n := range names {
		s.Add(n)
	}
	return s
}

// Add inserts name into the set. Empty names are ignored.
func (s Set) Add(name string) {
	if name != "" {
		s[name] = struct{}{}
	}
}

// Has reports whether name is in the set.
func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Len returns the number of licenses in the set.
func (s Set) Len() int { return len(s) }

// Sorted returns the members in ascending order.
func (s Set) Sorted() []string {
	return slices.Sorted(maps.Keys(s))
}

// Intersects reports whether s and other share at least one member.
func (s Set) Intersects(other Set) bool {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	for name := range small {
		if large.Has(name) {
			return true
		}
	}
	return false
}

// Equal reports whether both sets hold the same members.
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for name := range s {
		if !other.Has(name) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the set as a sorted JSON array.
func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON decodes a JSON array of names.
func (s *Set) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	*s = NewSet(names...)
	return nil
}
