package lattice

import (
	"github.com/emirpasic/gods/queues/linkedlistqueue"
)

import (
	"github.com/timtadh/gref/pattern"
)

// Lattice is the arena of reformulation nodes. The root is the original
// query and is never entered into the index; every other node is indexed
// by its canonical code exactly once.
type Lattice struct {
	nodes []*Node
	index map[string]int
}

func New(root *pattern.Pattern) *Lattice {
	l := &Lattice{
		nodes: make([]*Node, 0, 100),
		index: make(map[string]int, 100),
	}
	l.nodes = append(l.nodes, newNode(0, root))
	return l
}

func (l *Lattice) Root() *Node {
	return l.nodes[0]
}

func (l *Lattice) Node(id int) *Node {
	return l.nodes[id]
}

// Find looks a pattern up by its canonical code.
func (l *Lattice) Find(p *pattern.Pattern) (*Node, bool) {
	if id, has := l.index[p.Key()]; has {
		return l.nodes[id], true
	}
	return nil, false
}

// Add registers p as a new reformulation of father. It panics if p is
// already indexed.
func (l *Lattice) Add(father *Node, p *pattern.Pattern) *Node {
	if _, has := l.index[p.Key()]; has {
		panic("pattern is already in the lattice")
	}
	n := newNode(len(l.nodes), p)
	l.nodes = append(l.nodes, n)
	l.index[p.Key()] = n.Id
	l.Attach(father, n)
	return n
}

// Attach records child as a reformulation of father. The first father a
// node is attached to stays its father.
func (l *Lattice) Attach(father, child *Node) {
	if !father.hasKid[child.Id] {
		father.hasKid[child.Id] = true
		father.kids = append(father.kids, child.Id)
	}
	if child.Father < 0 && child != l.Root() {
		child.Father = father.Id
	}
}

// Size is the number of indexed reformulations. The root is not counted.
func (l *Lattice) Size() int {
	return len(l.index)
}

// Reformulations lists the indexed nodes in id order.
func (l *Lattice) Reformulations() []*Node {
	nodes := make([]*Node, 0, len(l.index))
	return append(nodes, l.nodes[1:]...)
}

// Heritage lists the ancestors of n from its father up to, but not
// including, the root.
func (l *Lattice) Heritage(n *Node) []*Node {
	ancestors := make([]*Node, 0, 4)
	for f := n.Father; f > 0; f = l.nodes[f].Father {
		ancestors = append(ancestors, l.nodes[f])
	}
	return ancestors
}

// Expander attaches the reformulations of a node. The engine behind it may
// compute them from a database or read them from an index.
type Expander interface {
	Expand(l *Lattice, n *Node) error
	Expansions() int
}

type NodeIterator func() (*Node, NodeIterator)

// Iterate walks the nodes reachable from the root through
// reformulations breadth first. Each node is visited once.
func (l *Lattice) Iterate() (it NodeIterator) {
	queue := linkedlistqueue.New()
	queue.Enqueue(l.Root())
	seen := map[int]bool{0: true}
	it = func() (*Node, NodeIterator) {
		item, ok := queue.Dequeue()
		if !ok {
			return nil, nil
		}
		n := item.(*Node)
		for _, kid := range n.kids {
			if !seen[kid] {
				seen[kid] = true
				queue.Enqueue(l.nodes[kid])
			}
		}
		return n, it
	}
	return it
}
