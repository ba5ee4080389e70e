package domain

import "strings"

// PathSeparator joins the labels of a taxonomy path.
const PathSeparator = " > "

// TaxonomyNode is an immutable leaf of the category tree.
type TaxonomyNode struct {
	Path      []string // ordered labels, root first
	Code      string   // short mnemonic, e.g. HD-MW-BD
	HSNCode   string
	CraftType string
	Keywords  []string // leaf-level match terms (English, Hindi and Romanised Hindi)
}

// PathString renders the path as "A > B > C".
func (n TaxonomyNode) PathString() string {
	return strings.Join(n.Path, PathSeparator)
}

// Leaf returns the last label of the path.
func (n TaxonomyNode) Leaf() string {
	if len(n.Path) == 0 {
		return ""
	}
	return n.Path[len(n.Path)-1]
}

// Ancestor returns the path string truncated to depth levels.
func (n TaxonomyNode) Ancestor(depth int) string {
	if depth >= len(n.Path) {
		return n.PathString()
	}
	if depth <= 0 {
		return ""
	}
	return strings.Join(n.Path[:depth], PathSeparator)
}

// SplitPath splits a "A > B > C" string into trimmed labels, dropping empties.
func SplitPath(path string) []string {
	parts := strings.Split(path, ">")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Unclassified placeholder values used when no category can be assigned.
const (
	UnclassifiedPath = "General > Uncategorized > Uncategorized"
	UnclassifiedCode = "GN-UC-UC"
	FallbackHSNCode  = "9999"
)
