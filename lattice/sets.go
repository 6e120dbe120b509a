package lattice

import (
	"github.com/timtadh/data-structures/set"
	"github.com/timtadh/data-structures/types"
)

func intSet(items ...int) *set.SortedSet {
	s := set.NewSortedSet(len(items) + 4)
	for _, item := range items {
		s.Add(types.Int(item))
	}
	return s
}

func copySet(s *set.SortedSet) *set.SortedSet {
	c := set.NewSortedSet(s.Size() + 1)
	for x, next := s.Items()(); next != nil; x, next = next() {
		c.Add(x)
	}
	return c
}

// Ints lists the members of a set of types.Int in ascending order.
func Ints(s *set.SortedSet) []int {
	items := make([]int, 0, s.Size())
	for x, next := s.Items()(); next != nil; x, next = next() {
		items = append(items, int(x.(types.Int)))
	}
	return items
}

// IntersectSize counts the common members of two sets of types.Int.
func IntersectSize(a, b *set.SortedSet) int {
	if a.Size() > b.Size() {
		a, b = b, a
	}
	count := 0
	for x, next := a.Items()(); next != nil; x, next = next() {
		if b.Has(x) {
			count++
		}
	}
	return count
}
