// Package core implements the ingestion engine shared by the numbers
// server: the dedup index, the record framer, the periodic reporter and
// the coordination gate that keeps them consistent under concurrent use.
package core

import (
	"sync"

	"github.com/google/btree"
)

// indexDegree is the B-tree branching factor. Small because keys are
// machine words and comparisons are cheap; this only affects node size.
const indexDegree = 32

// numberItem is a btree.Item keyed by the 9-digit integer value of a
// record. duplicated tracks whether that value has been seen more than once.
type numberItem struct {
	key        int64
	duplicated bool
}

func (n *numberItem) Less(than btree.Item) bool {
	return n.key < than.(*numberItem).key
}

// Index is the Dedup Index: an ordered associative container mapping the
// integer value of a record to a "duplicated" flag. It owns its own lock
// so it can be queried independently of the counters it is usually
// updated alongside (see Engine.Apply).
type Index struct {
	mu   sync.Mutex
	tree *btree.BTree
}

// NewIndex returns an empty Dedup Index.
func NewIndex() *Index {
	return &Index{tree: btree.New(indexDegree)}
}

// Transition describes how a single Apply call changed the index.
type Transition int

const (
	// TransitionNewUnique: the key was absent and is now present with
	// duplicated=false.
	TransitionNewUnique Transition = iota
	// TransitionFirstDuplicate: the key was present with duplicated=false
	// and is now duplicated=true.
	TransitionFirstDuplicate
	// TransitionRepeatDuplicate: the key was already duplicated=true.
	TransitionRepeatDuplicate
)

// Apply inserts or updates key and returns which transition occurred.
// Callers are expected to hold whatever external
// mutex guards the counters they update alongside this call (see
// Engine.Apply); Index itself only protects the tree.
func (ix *Index) Apply(key int64) Transition {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	existing := ix.tree.Get(&numberItem{key: key})
	if existing == nil {
		ix.tree.ReplaceOrInsert(&numberItem{key: key, duplicated: false})
		return TransitionNewUnique
	}

	item := existing.(*numberItem)
	if !item.duplicated {
		item.duplicated = true
		return TransitionFirstDuplicate
	}
	return TransitionRepeatDuplicate
}

// Len reports the number of distinct keys ever ingested.
func (ix *Index) Len() int {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.tree.Len()
}

// CountUnique reports the number of keys whose flag is still false, i.e.
// records seen exactly once. Used by tests to verify this count agrees
// with the cumulative-unique counter the Engine maintains independently.
func (ix *Index) CountUnique() int {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	n := 0
	ix.tree.Ascend(func(it btree.Item) bool {
		if !it.(*numberItem).duplicated {
			n++
		}
		return true
	})
	return n
}
