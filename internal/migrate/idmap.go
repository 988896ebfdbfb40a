package migrate

import "sort"

// IDMapping is an immutable lookup from source ids to target ids. Every stage
// returns a fresh mapping; none is modified after construction, so mappings can be
// shared and composed freely.
type IDMapping struct {
	entries map[string]string
}

// NewIDMapping copies pairs into a mapping.
func NewIDMapping(pairs map[string]string) IDMapping {
	entries := make(map[string]string, len(pairs))
	for from, to := range pairs {
		entries[from] = to
	}
	return IDMapping{entries: entries}
}

// IdentityMapping maps each id to itself.
func IdentityMapping(ids []string) IDMapping {
	entries := make(map[string]string, len(ids))
	for _, id := range ids {
		entries[id] = id
	}
	return IDMapping{entries: entries}
}

// Lookup returns the target for id.
func (m IDMapping) Lookup(id string) (string, bool) {
	to, ok := m.entries[id]
	return to, ok
}

// Len returns the number of source ids.
func (m IDMapping) Len() int { return len(m.entries) }

// Sources returns the source ids in sorted order.
func (m IDMapping) Sources() []string {
	out := make([]string, 0, len(m.entries))
	for from := range m.entries {
		out = append(out, from)
	}
	sort.Strings(out)
	return out
}

// Pairs returns a copy of the underlying table.
func (m IDMapping) Pairs() map[string]string {
	out := make(map[string]string, len(m.entries))
	for from, to := range m.entries {
		out[from] = to
	}
	return out
}

// Then composes m with next: an id is looked up in m first and the result looked
// up in next. Ids unknown to m are looked up in next directly, so the composed
// domain is the union of both.
func (m IDMapping) Then(next IDMapping) IDMapping {
	entries := make(map[string]string, len(m.entries)+len(next.entries))
	for from, to := range next.entries {
		entries[from] = to
	}
	for from, mid := range m.entries {
		if to, ok := next.entries[mid]; ok {
			entries[from] = to
			continue
		}
		entries[from] = mid
	}
	return IDMapping{entries: entries}
}

// Union returns a mapping holding both tables; entries in m win on conflict.
func (m IDMapping) Union(other IDMapping) IDMapping {
	entries := make(map[string]string, len(m.entries)+len(other.entries))
	for from, to := range other.entries {
		entries[from] = to
	}
	for from, to := range m.entries {
		entries[from] = to
	}
	return IDMapping{entries: entries}
}

// idMappingBuilder accumulates pairs for a single stage before freezing them.
type idMappingBuilder struct {
	entries map[string]string
}

func newIDMappingBuilder() *idMappingBuilder {
	return &idMappingBuilder{entries: map[string]string{}}
}

func (b *idMappingBuilder) set(from string, to string) {
	b.entries[from] = to
}

func (b *idMappingBuilder) build() IDMapping {
	out := IDMapping{entries: b.entries}
	b.entries = nil
	return out
}
