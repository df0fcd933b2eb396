package crdtmap

import (
	"github.com/nimbusdb/crdt/pkg/causal"

	iradix "github.com/hashicorp/go-immutable-radix"
)

// newIndex returns an empty field index.
func newIndex() *iradix.Tree {
	return iradix.New()
}

// fieldKey encodes a Field into the lexicographic byte key the
// immutable radix index is keyed by: the field name followed by a
// NUL separator and the type tag byte, so two fields with the same
// name but different tags (spec.md §3: "Two entries may share a
// field but never a dot" implies distinct (name, tag) pairs are
// distinct fields) never collide.
func fieldKey(f Field) []byte {
	key := make([]byte, 0, len(f.Name)+2)
	key = append(key, f.Name...)
	key = append(key, 0)
	key = append(key, byte(f.Type))
	return key
}

// indexInsert returns a new index with dot recorded against field,
// using copy-on-write semantics (spec.md §5: "an implementation may
// use persistent data structures or copy-on-write") — any other
// holder of the old tree snapshot keeps seeing the old association.
func indexInsert(tree *iradix.Tree, f Field, d causal.Dot) *iradix.Tree {
	key := fieldKey(f)
	txn := tree.Txn()
	existing, _ := txn.Get(key)
	dots, _ := existing.([]causal.Dot)
	dots = append(append([]causal.Dot(nil), dots...), d)
	txn.Insert(key, dots)
	return txn.Commit()
}

// indexRemoveDot drops dot from field's dot list, deleting the key
// entirely once the list is empty.
func indexRemoveDot(tree *iradix.Tree, f Field, d causal.Dot) *iradix.Tree {
	key := fieldKey(f)
	txn := tree.Txn()
	existing, ok := txn.Get(key)
	if !ok {
		return txn.Commit()
	}
	dots, _ := existing.([]causal.Dot)
	out := make([]causal.Dot, 0, len(dots))
	for _, dd := range dots {
		if dd != d {
			out = append(out, dd)
		}
	}
	if len(out) == 0 {
		txn.Delete(key)
	} else {
		txn.Insert(key, out)
	}
	return txn.Commit()
}

// indexDots returns the dots currently recorded for field.
func indexDots(tree *iradix.Tree, f Field) []causal.Dot {
	v, ok := tree.Get(fieldKey(f))
	if !ok {
		return nil
	}
	dots, _ := v.([]causal.Dot)
	return dots
}

