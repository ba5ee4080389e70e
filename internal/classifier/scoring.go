package classifier

import (
	"math"
	"sort"

	"vyaparsetu-service/internal/domain"
	"vyaparsetu-service/internal/taxonomy"
	"vyaparsetu-service/internal/textutil"
)

// Term weights by where the term comes from.
const (
	weightKeyword = 1.0
	weightLeaf    = 1.0
	weightLevel2  = 0.5
	weightLevel1  = 0.25

	// strengthHalf is the relevance at which the top candidate reaches 2/3 strength.
	strengthHalf = 0.5
)

var stopWords = map[string]bool{"and": true, "of": true, "the": true, "for": true}

type weightedTerm struct {
	term   string
	weight float64
}

type scoredNode struct {
	node      domain.TaxonomyNode
	relevance float64
}

// scorer ranks taxonomy leaves by weighted keyword relevance.
type scorer struct {
	nodes []domain.TaxonomyNode
	terms [][]weightedTerm
}

func newScorer(tax *taxonomy.Store) *scorer {
	s := &scorer{nodes: tax.Nodes()}
	s.terms = make([][]weightedTerm, len(s.nodes))
	for i, n := range s.nodes {
		s.terms[i] = nodeTerms(n)
	}
	return s
}

// nodeTerms lists the distinct match terms of n with the highest weight each.
func nodeTerms(n domain.TaxonomyNode) []weightedTerm {
	best := map[string]float64{}
	add := func(term string, w float64) {
		key := string(textutil.NewPhrase(term))
		if key == "  " || stopWords[textutil.Canonicalize(term)] {
			return
		}
		if w > best[key] {
			best[key] = w
		}
	}
	for _, k := range n.Keywords {
		add(k, weightKeyword)
	}
	if len(n.Path) > 0 {
		add(n.Leaf(), weightLeaf)
	}
	if len(n.Path) > 1 {
		add(n.Path[1], weightLevel2)
	}
	if len(n.Path) > 0 {
		for _, w := range textutil.Words(n.Path[0]) {
			add(w, weightLevel1)
		}
	}
	out := make([]weightedTerm, 0, len(best))
	for k, w := range best {
		out = append(out, weightedTerm{term: k, weight: w})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].term < out[j].term })
	return out
}

// score returns the top n candidates for text, ranked by confidence then path.
// It returns nil when no term of any leaf occurs in text.
func (s *scorer) score(text textutil.Phrase, n int, thresholds domain.BandThresholds) []domain.CategoryScore {
	scored := make([]scoredNode, len(s.nodes))
	var total, top float64
	for i, node := range s.nodes {
		var r float64
		for _, t := range s.terms[i] {
			if text.Contains(t.term) {
				r += t.weight
			}
		}
		scored[i] = scoredNode{node: node, relevance: r}
		total += r
		top = math.Max(top, r)
	}
	if total == 0 {
		return nil
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].relevance != scored[j].relevance {
			return scored[i].relevance > scored[j].relevance
		}
		return scored[i].node.PathString() < scored[j].node.PathString()
	})
	if len(scored) > n {
		scored = scored[:n]
	}

	// Confidence is the candidate's share of total relevance scaled by how strong
	// the best match is, so a lone weak hit stays out of the GREEN band.
	strength := top / (top + strengthHalf)
	out := make([]domain.CategoryScore, len(scored))
	for i, c := range scored {
		conf := round3(c.relevance / total * strength)
		out[i] = domain.CategoryScore{
			Category:   c.node.PathString(),
			Code:       c.node.Code,
			Confidence: conf,
			Band:       thresholds.BandFor(conf),
		}
	}
	return out
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
