package taxonomy

import (
	"maps"
	"slices"
)

// PredecessorSets maps each rank to the set of ranks that directly precede
// it somewhere below root. The root's own rank is the seed and never appears
// as a key or a member, even where it recurs below the root: in
// clade > order > clade > family, order and family end up unconstrained.
func PredecessorSets(root *Node) map[string]map[string]struct{} {
	preds := make(map[string]map[string]struct{})
	collectPredecessors(root, root.Rank, preds)

	delete(preds, root.Rank)
	for _, set := range preds {
		delete(set, root.Rank)
	}
	return preds
}

// collectPredecessors threads parentRank, the last distinct real rank on the
// path from the root. NoRank nodes and repeats of parentRank leave it alone.
func collectPredecessors(n *Node, parentRank string, preds map[string]map[string]struct{}) {
	if n.Rank != NoRank && n.Rank != parentRank {
		set, ok := preds[n.Rank]
		if !ok {
			set = make(map[string]struct{})
			preds[n.Rank] = set
		}
		set[parentRank] = struct{}{}
		parentRank = n.Rank
	}
	for _, c := range n.Children {
		collectPredecessors(c, parentRank, preds)
	}
}

// inferRankOrder linearizes the ranks under root. A root with a real rank
// comes first; after that the unplaced rank with the fewest unplaced
// predecessors is taken next, ties going to the lexically smallest name.
func inferRankOrder(root *Node) []string {
	preds := PredecessorSets(root)

	order := make([]string, 0, len(preds)+1)
	if root.Rank != NoRank {
		order = append(order, root.Rank)
	}

	for len(preds) > 0 {
		next := nextRank(preds)
		order = append(order, next)
		delete(preds, next)
		for _, set := range preds {
			delete(set, next)
		}
	}
	return order
}

func nextRank(preds map[string]map[string]struct{}) string {
	var best string
	bestSize := -1
	for _, rank := range slices.Sorted(maps.Keys(preds)) {
		if size := len(preds[rank]); bestSize < 0 || size < bestSize {
			best, bestSize = rank, size
		}
	}
	return best
}
