// Package frontier keeps lattice nodes ordered by a mutable score. Nodes
// sharing a score live in one bucket, buckets are ordered by score.
package frontier

import (
	"fmt"
	"strings"
)

import (
	"github.com/tidwall/btree"
	"github.com/timtadh/data-structures/set"
	"github.com/timtadh/data-structures/types"
)

type bucket struct {
	score float64
	ids   *set.SortedSet
}

type Frontier struct {
	tree   *btree.BTreeG[*bucket]
	scores map[int]float64
}

func New() *Frontier {
	return &Frontier{
		tree: btree.NewBTreeG[*bucket](func(a, b *bucket) bool {
			return a.score < b.score
		}),
		scores: make(map[int]float64),
	}
}

// Add inserts id with score. An id already present is moved to its new
// score.
func (f *Frontier) Add(id int, score float64) {
	if old, has := f.scores[id]; has {
		if old == score {
			return
		}
		f.Remove(id)
	}
	b, has := f.tree.Get(&bucket{score: score})
	if !has {
		b = &bucket{score: score, ids: set.NewSortedSet(4)}
		f.tree.Set(b)
	}
	b.ids.Add(types.Int(id))
	f.scores[id] = score
}

// Remove takes id out of its bucket and drops the bucket once it is
// empty.
func (f *Frontier) Remove(id int) bool {
	score, has := f.scores[id]
	if !has {
		return false
	}
	delete(f.scores, id)
	b, has := f.tree.Get(&bucket{score: score})
	if !has {
		panic(fmt.Errorf("frontier lost the bucket for score %v", score))
	}
	b.ids.Delete(types.Int(id))
	if b.ids.Size() == 0 {
		f.tree.Delete(b)
	}
	return true
}

func (f *Frontier) Has(id int) bool {
	_, has := f.scores[id]
	return has
}

func (f *Frontier) Score(id int) (float64, bool) {
	score, has := f.scores[id]
	return score, has
}

// Last returns the lowest id in the bucket with the highest score.
func (f *Frontier) Last() (int, bool) {
	b, has := f.tree.Max()
	if !has {
		return -1, false
	}
	x, err := b.ids.Get(0)
	if err != nil {
		panic(err)
	}
	return int(x.(types.Int)), true
}

// Bucket lists, in ascending order, every id tied with id's score.
func (f *Frontier) Bucket(id int) []int {
	score, has := f.scores[id]
	if !has {
		return nil
	}
	b, _ := f.tree.Get(&bucket{score: score})
	ids := make([]int, 0, b.ids.Size())
	for x, next := b.ids.Items()(); next != nil; x, next = next() {
		ids = append(ids, int(x.(types.Int)))
	}
	return ids
}

func (f *Frontier) Len() int {
	return len(f.scores)
}

func (f *Frontier) Empty() bool {
	return len(f.scores) == 0
}

func (f *Frontier) String() string {
	buckets := make([]string, 0, f.tree.Len())
	f.tree.Reverse(func(b *bucket) bool {
		buckets = append(buckets, fmt.Sprintf("%v:%v", b.score, b.ids.Size()))
		return true
	})
	return fmt.Sprintf("<Frontier %v>", strings.Join(buckets, " "))
}
