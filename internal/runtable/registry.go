package runtable

// Entry is one sortable column as offered by the registry
type Entry struct {
	Key     SortKey
	Label   string
	Compare Compare
}

// Registry is the ordered set of sortable columns for a given active key
type Registry struct {
	entries []Entry
}

// NewRegistry builds the columns in declared order. The comparator of the
// active key is the reversed one, so applying it toggles the direction.
// Elevation is left out entirely when showElevation is false.
func NewRegistry(active SortKey, showElevation bool) Registry {
	entries := make([]Entry, 0, len(allKeys))
	for _, k := range allKeys {
		if k == SortElevation && !showElevation {
			continue
		}
		entries = append(entries, Entry{
			Key:     k,
			Label:   k.Label(),
			Compare: k.Comparator(k == active),
		})
	}
	return Registry{entries: entries}
}

// Entries returns the columns in display order
func (r Registry) Entries() []Entry {
	return r.entries
}

// Lookup finds the column with the given header label
func (r Registry) Lookup(label string) (Entry, bool) {
	for _, e := range r.entries {
		if e.Label == label {
			return e, true
		}
	}
	return Entry{}, false
}

// Labels returns the header labels in display order
func (r Registry) Labels() []string {
	labels := make([]string, len(r.entries))
	for i, e := range r.entries {
		labels[i] = e.Label
	}
	return labels
}
