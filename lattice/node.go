package lattice

import (
	"fmt"
)

import (
	"github.com/timtadh/data-structures/set"
	"github.com/timtadh/data-structures/types"
)

import (
	"github.com/timtadh/gref/pattern"
)

// Occurrence is the expansion state of one embedding of a node into one
// database graph.
type Occurrence struct {
	Candidates *set.SortedSet // database vertices that may still grow
	Mapped     *set.SortedSet // database edges covered by the embedding
	NodeMap    map[int]int    // database vertex -> pattern vertex
}

// NewOccurrence starts an embedding whose mapped vertices are all
// candidates.
func NewOccurrence(nodeMap map[int]int, edges ...int) *Occurrence {
	occ := &Occurrence{
		Candidates: intSet(),
		Mapped:     intSet(edges...),
		NodeMap:    nodeMap,
	}
	for gidx := range nodeMap {
		occ.Candidates.Add(types.Int(gidx))
	}
	return occ
}

func (o *Occurrence) copy() *Occurrence {
	nodeMap := make(map[int]int, len(o.NodeMap)+1)
	for k, v := range o.NodeMap {
		nodeMap[k] = v
	}
	return &Occurrence{
		Candidates: copySet(o.Candidates),
		Mapped:     copySet(o.Mapped),
		NodeMap:    nodeMap,
	}
}

// Node is a query or reformulated query in the lattice arena. Nodes refer
// to their father and reformulations by id.
type Node struct {
	Id        int
	Pattern   *pattern.Pattern
	Results   *set.SortedSet // database graph ids
	Father    int
	LastAdded int
	kids      []int
	hasKid    map[int]bool
	occs      map[int][]*Occurrence
	cleared   bool
}

func newNode(id int, p *pattern.Pattern) *Node {
	return &Node{
		Id:        id,
		Pattern:   p,
		Results:   set.NewSortedSet(10),
		Father:    -1,
		LastAdded: -1,
		hasKid:    make(map[int]bool),
		occs:      make(map[int][]*Occurrence),
	}
}

// AddResult records one more embedding of n into graph gid. A nil occ
// records the result alone.
func (n *Node) AddResult(gid int, occ *Occurrence) {
	n.Results.Add(types.Int(gid))
	if occ != nil && !n.cleared {
		n.occs[gid] = append(n.occs[gid], occ)
	}
}

func (n *Node) HasResult(gid int) bool {
	return n.Results.Has(types.Int(gid))
}

func (n *Node) ResultsNumber() int {
	return n.Results.Size()
}

// Occurrences returns the duplicate embeddings of n into graph gid.
func (n *Node) Occurrences(gid int) []*Occurrence {
	return n.occs[gid]
}

func (n *Node) Duplicates(gid int) int {
	return len(n.occs[gid])
}

func (n *Node) Reformulations() []int {
	return n.kids
}

func (n *Node) HasReformulation(id int) bool {
	return n.hasKid[id]
}

func (n *Node) IsLeaf() bool {
	return len(n.kids) == 0
}

// Clear drops the per embedding state. The pattern, results and
// reformulations survive.
func (n *Node) Clear() {
	n.occs = nil
	n.cleared = true
}

func (n *Node) Cleared() bool {
	return n.cleared
}

func (n *Node) String() string {
	return fmt.Sprintf("<Node %d %v results: %d>", n.Id, n.Pattern, n.ResultsNumber())
}
