package registry

// Collision kinds recorded during hierarchy construction.
const (
	CollisionDocument = "document"
	CollisionFile     = "file"
)

// Collision records a last-wins overwrite during hierarchy construction:
// either two document-level TOC entries sharing a number, or two files
// normalizing to the same document number.
type Collision struct {
	Kind           string `json:"kind"`
	DocumentNumber string `json:"document_number"`
	Replaced       string `json:"replaced"`
	Kept           string `json:"kept"`
}

// hierarchyMap is an insertion-order-preserving map from document number to
// hierarchy. Overwrite policy is last-wins: a duplicate key replaces the
// value in place and keeps the original insertion position.
type hierarchyMap struct {
	order   []string
	entries map[string]*DocumentHierarchy
}

func newHierarchyMap() *hierarchyMap {
	return &hierarchyMap{entries: make(map[string]*DocumentHierarchy)}
}

// set stores a hierarchy under its document number. When the key already
// exists, the previous value is returned with collided true.
func (hierarchies *hierarchyMap) set(documentNumber string, hierarchy *DocumentHierarchy) (replaced *DocumentHierarchy, collided bool) {
	previous, exists := hierarchies.entries[documentNumber]
	if !exists {
		hierarchies.order = append(hierarchies.order, documentNumber)
	}
	hierarchies.entries[documentNumber] = hierarchy
	return previous, exists
}

func (hierarchies *hierarchyMap) get(documentNumber string) (*DocumentHierarchy, bool) {
	hierarchy, ok := hierarchies.entries[documentNumber]
	return hierarchy, ok
}

func (hierarchies *hierarchyMap) len() int {
	return len(hierarchies.entries)
}

// values returns the hierarchies in insertion order.
func (hierarchies *hierarchyMap) values() []*DocumentHierarchy {
	ordered := make([]*DocumentHierarchy, 0, len(hierarchies.order))
	for _, documentNumber := range hierarchies.order {
		ordered = append(ordered, hierarchies.entries[documentNumber])
	}
	return ordered
}
