package store

// UnknownStoreName is displayed for jobs whose store cannot be resolved.
const UnknownStoreName = "Unknown Store"

// Store is a physical shop location.
type Store struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// NameIndex resolves store ids to display names.
type NameIndex map[int64]string

// NewNameIndex builds an index from a store list.
func NewNameIndex(stores []*Store) NameIndex {
	idx := make(NameIndex, len(stores))
	for _, s := range stores {
		if s == nil {
			continue
		}
		idx[s.ID] = s.Name
	}
	return idx
}

// Name returns the store name, or UnknownStoreName when id is not indexed.
func (idx NameIndex) Name(id int64) string {
	if name, ok := idx[id]; ok && name != "" {
		return name
	}
	return UnknownStoreName
}
