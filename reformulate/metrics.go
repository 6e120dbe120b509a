package reformulate

import (
	"github.com/timtadh/data-structures/set"
)

import (
	"github.com/timtadh/gref/lattice"
)

// Union is the set of database graphs matched by any node of s.
func Union(s []*lattice.Node) *set.SortedSet {
	union := set.NewSortedSet(10)
	for _, n := range s {
		for x, next := n.Results.Items()(); next != nil; x, next = next() {
			union.Add(x)
		}
	}
	return union
}

// Coverage is the number of database graphs matched by s.
func Coverage(s []*lattice.Node) int {
	return Union(s).Size()
}

// CoverageDiff counts the results of q not yet matched by s.
func CoverageDiff(s []*lattice.Node, q *lattice.Node) int {
	covered := 0
	union := Union(s)
	for x, next := q.Results.Items()(); next != nil; x, next = next() {
		if union.Has(x) {
			covered++
		}
	}
	return q.ResultsNumber() - covered
}

// Diversity is the size of the symmetric difference of the results of a
// and b.
func Diversity(a, b *lattice.Node) int {
	return a.ResultsNumber() + b.ResultsNumber() - 2*lattice.IntersectSize(a.Results, b.Results)
}

func DiversityDiff(s []*lattice.Node, q *lattice.Node) int {
	div := 0
	for _, n := range s {
		div += Diversity(n, q)
	}
	return div
}

// DiversitySum sums Diversity over the ordered pairs of distinct members
// of s, so every pair counts twice.
func DiversitySum(s []*lattice.Node) int {
	div := 0
	for i := range s {
		for j := range s {
			if i != j {
				div += Diversity(s[i], s[j])
			}
		}
	}
	return div
}

// Overlap counts, in selection order, the results each node shares with
// the nodes selected before it.
func Overlap(s []*lattice.Node) int {
	overlap := 0
	union := set.NewSortedSet(10)
	for _, n := range s {
		for x, next := n.Results.Items()(); next != nil; x, next = next() {
			if union.Has(x) {
				overlap++
			} else {
				union.Add(x)
			}
		}
	}
	return overlap
}

// Gain is the marginal objective of adding q to s.
func Gain(s []*lattice.Node, q *lattice.Node, lambda float64) float64 {
	return float64(CoverageDiff(s, q))/2 + lambda*float64(DiversityDiff(s, q))
}

// Objective scores s as a whole. It equals the sum of the gains of its
// members taken in any order.
func Objective(s []*lattice.Node, lambda float64) float64 {
	return float64(Coverage(s))/2 + lambda*float64(DiversitySum(s))/2
}

// coveredOf is the fraction of root's results matched by s.
func coveredOf(root *lattice.Node, s []*lattice.Node) float64 {
	if root.ResultsNumber() == 0 {
		return 0
	}
	union := Union(s)
	covered := 0
	for x, next := root.Results.Items()(); next != nil; x, next = next() {
		if union.Has(x) {
			covered++
		}
	}
	return float64(covered) / float64(root.ResultsNumber())
}
