// Package taxonomy provides the in-memory taxonomy tree and its algorithms.
//
// A [Tree] is assembled from an unordered stream of (tax_id, parent_id, rank)
// records, optionally followed by a stream of (tax_id, name) records. The
// record whose id equals its own parent id is the root.
//
// # Rank Order
//
// Ranks are never listed in the input. [Build] discovers a root-to-leaf order
// of all distinct ranks from how they nest in the data: for every rank it
// records the set of ranks that immediately precede it somewhere in the tree,
// then repeatedly emits the rank with the fewest unplaced predecessors (ties
// broken by rank name). The result is a linearization consistent with the
// observed parent/child rank pairs when such a linearization exists. When the
// data is contradictory (rank A above B in one lineage and below it in
// another) the order is still total and deterministic, but some observed
// pairs will be inverted.
//
// # Traversals
//
// All traversals are recursive and operate on a [Node] and its descendants:
//
//   - [Node.CollectRanks]: set of ranks present in a subtree
//   - [Node.Prune]: keep only branches leading to a set of ids
//   - [Node.ExpandNoRank]: synthesize ranks for "no rank" nodes
//   - [Node.WriteLineage]: flatten lineages into rows
//   - [Node.WriteTree]: indented text output
//
// Accumulators are allocated per top-level call; nothing is shared between
// calls.
//
// # Concurrency
//
// A Tree is not safe for concurrent mutation. Readers may share a fully
// built tree; use [Node.Clone] before pruning or expanding a shared subtree.
package taxonomy
