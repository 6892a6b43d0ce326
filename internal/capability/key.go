package capability

import (
	"sort"
	"strings"
)

// Key is a (capability, level) pair such as houseCleaning/basic-2.
type Key struct {
	Capability string `json:"capability"`
	Level      string `json:"level"`
}

// K is shorthand for building a Key.
func K(capability, level string) Key {
	return Key{Capability: capability, Level: level}
}

// String renders the key as "capability/level".
func (k Key) String() string {
	return k.Capability + "/" + k.Level
}

// Less orders keys by capability name, then by level.
func (k Key) Less(other Key) bool {
	if k.Capability != other.Capability {
		return k.Capability < other.Capability
	}
	return k.Level < other.Level
}

// Product returns every combination of the given capabilities and levels.
func Product(capabilities []string, levels []string) []Key {
	keys := make([]Key, 0, len(capabilities)*len(levels))
	for _, c := range capabilities {
		for _, l := range levels {
			keys = append(keys, K(c, l))
		}
	}
	return keys
}

// sortKeys sorts keys in place using Key.Less.
func sortKeys(keys []Key) {
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].Less(keys[j])
	})
}

// formatKeys joins keys for error messages.
func formatKeys(keys []Key) string {
	if len(keys) == 0 {
		return "none"
	}
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k.String()
	}
	return strings.Join(parts, ", ")
}

// Declaration maps a capability name to the single level a robot supports.
// It is set when the robot is constructed and treated as read-only.
type Declaration map[string]string

// Keys returns the declared pairs sorted by capability name.
func (d Declaration) Keys() []Key {
	keys := make([]Key, 0, len(d))
	for c, l := range d {
		keys = append(keys, K(c, l))
	}
	sortKeys(keys)
	return keys
}

// Has reports whether the declaration contains exactly this pair.
func (d Declaration) Has(k Key) bool {
	level, ok := d[k.Capability]
	return ok && level == k.Level
}

// Clone returns a copy of the declaration. A nil declaration stays nil.
func (d Declaration) Clone() Declaration {
	if d == nil {
		return nil
	}
	out := make(Declaration, len(d))
	for c, l := range d {
		out[c] = l
	}
	return out
}

// String renders the declaration with keys sorted, for logs and errors.
func (d Declaration) String() string {
	return "{" + formatKeys(d.Keys()) + "}"
}
