package taxonomy

import (
	"bufio"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
)

// IDSet is a set of tax ids.
type IDSet map[string]struct{}

// NewIDSet returns a set holding ids.
func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is in the set. A nil set holds nothing.
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the ids in lexical order.
func (s IDSet) Sorted() []string {
	return slices.Sorted(maps.Keys(s))
}

// ParseIDs splits a comma separated list. Empty items are dropped.
func ParseIDs(list string) IDSet {
	s := make(IDSet)
	for _, id := range strings.Split(list, ",") {
		if id = strings.TrimSpace(id); id != "" {
			s[id] = struct{}{}
		}
	}
	return s
}

// ReadIDs reads one id per line, skipping blank lines.
func ReadIDs(r io.Reader) (IDSet, error) {
	s := make(IDSet)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if id := strings.TrimSpace(sc.Text()); id != "" {
			s[id] = struct{}{}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read ids: %w", err)
	}
	return s, nil
}

// Select re-roots the tree at rootID and, when keep is non-empty, prunes
// that subtree to the branches leading to keep. Every id in keep must exist
// in the tree. The pruning is applied to the tree's own nodes.
func (t *Tree) Select(rootID string, keep IDSet) (*Node, error) {
	root, err := t.Lookup(rootID)
	if err != nil {
		return nil, err
	}
	if len(keep) == 0 {
		return root, nil
	}
	if err := t.checkIDs(keep); err != nil {
		return nil, err
	}
	root.Prune(keep)
	return root, nil
}

func (t *Tree) checkIDs(ids IDSet) error {
	var missing []string
	for id := range ids {
		if _, ok := t.nodes[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	slices.Sort(missing)
	return fmt.Errorf("%w: %s", ErrUnknownTaxon, strings.Join(missing, ", "))
}

// Subtree is Select without side effects: the result is a copy of only the
// kept branches and the tree is left untouched, so concurrent readers may
// call it. Like Select, the root is returned even when no branch under it
// is kept.
func (t *Tree) Subtree(rootID string, keep IDSet) (*Node, error) {
	root, err := t.Lookup(rootID)
	if err != nil {
		return nil, err
	}
	if len(keep) == 0 {
		return root, nil
	}
	if err := t.checkIDs(keep); err != nil {
		return nil, err
	}
	if cp := root.PrunedCopy(keep); cp != nil {
		return cp, nil
	}
	return &Node{ID: root.ID, Rank: root.Rank, Name: root.Name}, nil
}
