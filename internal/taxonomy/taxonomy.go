// Package taxonomy is the static category tree with HSN lookup.
package taxonomy

import (
	"sort"
	"strings"

	"vyaparsetu-service/internal/domain"
)

// Store is an immutable, read-only view of the category tree. It is safe for
// concurrent use.
type Store struct {
	nodes  []domain.TaxonomyNode
	byCode map[string]int
	byPath map[string]int // keyed by lower-cased path string
	hsn    map[string]struct{}
}

// New builds a Store from nodes. Nodes are ordered by path so iteration is deterministic.
func New(nodes []domain.TaxonomyNode) *Store {
	sorted := make([]domain.TaxonomyNode, len(nodes))
	copy(sorted, nodes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PathString() < sorted[j].PathString()
	})

	s := &Store{
		nodes:  sorted,
		byCode: make(map[string]int, len(sorted)),
		byPath: make(map[string]int, len(sorted)),
		hsn:    make(map[string]struct{}, len(sorted)),
	}
	for i, n := range sorted {
		s.byCode[strings.ToUpper(n.Code)] = i
		s.byPath[strings.ToLower(n.PathString())] = i
		if n.HSNCode != "" {
			s.hsn[n.HSNCode] = struct{}{}
		}
	}
	return s
}

// Default returns the built-in taxonomy.
func Default() *Store {
	return New(defaultNodes)
}

// Nodes returns the leaves ordered by path.
func (s *Store) Nodes() []domain.TaxonomyNode {
	return s.nodes
}

// Len is the number of leaves.
func (s *Store) Len() int {
	return len(s.nodes)
}

// ByCode finds a leaf by its code, case-insensitively.
func (s *Store) ByCode(code string) (domain.TaxonomyNode, bool) {
	i, ok := s.byCode[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return domain.TaxonomyNode{}, false
	}
	return s.nodes[i], true
}

// ByPath finds a leaf by its full path string, case-insensitively and
// tolerant of spacing around separators.
func (s *Store) ByPath(path string) (domain.TaxonomyNode, bool) {
	key := strings.ToLower(strings.Join(domain.SplitPath(path), domain.PathSeparator))
	i, ok := s.byPath[key]
	if !ok {
		return domain.TaxonomyNode{}, false
	}
	return s.nodes[i], true
}

// Lookup resolves a category given as a full path or a code.
func (s *Store) Lookup(category string) (domain.TaxonomyNode, bool) {
	if n, ok := s.ByPath(category); ok {
		return n, true
	}
	return s.ByCode(category)
}

// Resolve maps a category reference onto taxonomy labels. The reference may be a
// leaf code, a full path or a path prefix at any level ("Home & Decor",
// "Home & Decor > Metalware"). The returned labels use the taxonomy's spelling.
func (s *Store) Resolve(category string) ([]string, bool) {
	if n, ok := s.Lookup(category); ok {
		return append([]string(nil), n.Path...), true
	}
	want := domain.SplitPath(category)
	if len(want) == 0 {
		return nil, false
	}
	for _, n := range s.nodes {
		if len(want) > len(n.Path) {
			continue
		}
		match := true
		for i := range want {
			if !strings.EqualFold(want[i], n.Path[i]) {
				match = false
				break
			}
		}
		if match {
			return append([]string(nil), n.Path[:len(want)]...), true
		}
	}
	return nil, false
}

// HSN returns the HSN code of the leaf with the given code, or the fallback
// code when the leaf is unknown or its HSN is not registered.
func (s *Store) HSN(code string) string {
	n, ok := s.ByCode(code)
	if !ok || !s.ValidHSN(n.HSNCode) {
		return domain.FallbackHSNCode
	}
	return n.HSNCode
}

// ValidHSN reports whether hsn belongs to some leaf.
func (s *Store) ValidHSN(hsn string) bool {
	_, ok := s.hsn[hsn]
	return ok
}
