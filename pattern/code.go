package pattern

import (
	"encoding/binary"
	"fmt"
	"strings"
)

import (
	"github.com/timtadh/data-structures/errors"
)

import (
	"github.com/timtadh/gref/graph"
)

// Tuple is one edge of a DFS code, <I J LI LE LJ>. I and J are DFS
// discovery positions, LI and LJ their vertex colors and LE the edge
// color. A forward edge has I < J.
type Tuple struct {
	I, J, LI, LE, LJ int
}

// Code is a DFS code. The minimum code of a pattern under the DFS
// lexicographic order is its canonical identity.
type Code []Tuple

func (t Tuple) Forward() bool {
	return t.I < t.J
}

// Less is the DFS lexicographic order on tuples.
func (a Tuple) Less(b Tuple) bool {
	if a.I == b.I && a.J == b.J {
		if a.LI != b.LI {
			return a.LI < b.LI
		}
		if a.LE != b.LE {
			return a.LE < b.LE
		}
		return a.LJ < b.LJ
	}
	af, bf := a.Forward(), b.Forward()
	switch {
	case !af && !bf:
		return a.I < b.I || (a.I == b.I && a.J < b.J)
	case af && bf:
		return a.J < b.J || (a.J == b.J && a.I > b.I)
	case !af && bf:
		return a.I < b.J
	default:
		return a.J <= b.I
	}
}

func (t Tuple) String() string {
	return fmt.Sprintf("<%d %d %d %d %d>", t.I, t.J, t.LI, t.LE, t.LJ)
}

func (c Code) Less(o Code) bool {
	for i := 0; i < len(c) && i < len(o); i++ {
		if c[i] != o[i] {
			return c[i].Less(o[i])
		}
	}
	return len(c) < len(o)
}

func (c Code) Equals(o Code) bool {
	if len(c) != len(o) {
		return false
	}
	for i := range c {
		if c[i] != o[i] {
			return false
		}
	}
	return true
}

// Label is the big-endian encoding of the code. Two codes are equal iff
// their labels are.
func (c Code) Label() []byte {
	label := make([]byte, 4+len(c)*20)
	binary.BigEndian.PutUint32(label[0:4], uint32(len(c)))
	off := 4
	for _, t := range c {
		for _, x := range [5]int{t.I, t.J, t.LI, t.LE, t.LJ} {
			binary.BigEndian.PutUint32(label[off:off+4], uint32(int32(x)))
			off += 4
		}
	}
	return label
}

func LoadCode(label []byte) (Code, error) {
	if len(label) < 4 {
		return nil, errors.Errorf("code label was too small %v < 4", len(label))
	}
	n := int(binary.BigEndian.Uint32(label[0:4]))
	if len(label) != 4+n*20 {
		return nil, errors.Errorf("code label has the wrong size %v != %v", len(label), 4+n*20)
	}
	c := make(Code, n)
	off := 4
	for i := range c {
		var x [5]int
		for j := range x {
			x[j] = int(int32(binary.BigEndian.Uint32(label[off : off+4])))
			off += 4
		}
		c[i] = Tuple{I: x[0], J: x[1], LI: x[2], LE: x[3], LJ: x[4]}
	}
	return c, nil
}

func (c Code) String() string {
	tuples := make([]string, 0, len(c))
	for _, t := range c {
		tuples = append(tuples, t.String())
	}
	return strings.Join(tuples, "")
}

// projection is one partial DFS traversal of a pattern that spells the
// code built so far.
type projection struct {
	vmap   []int  // dfs position -> vertex idx
	rev    []int  // vertex idx -> dfs position or -1
	used   []bool // edge idx -> consumed
	rmpath []int  // positions on the rightmost path, root first
}

type extension struct {
	tuple  Tuple
	edge   int
	vertex int // newly discovered vertex or -1
	depth  int // index into rmpath the edge grows from
}

func (p *projection) copy() *projection {
	n := &projection{
		vmap:   make([]int, len(p.vmap), len(p.vmap)+1),
		rev:    make([]int, len(p.rev)),
		used:   make([]bool, len(p.used)),
		rmpath: make([]int, len(p.rmpath), len(p.rmpath)+1),
	}
	copy(n.vmap, p.vmap)
	copy(n.rev, p.rev)
	copy(n.used, p.used)
	copy(n.rmpath, p.rmpath)
	return n
}

func (p *projection) extensions(V graph.Vertices, E graph.Edges, Adj [][]int, do func(extension)) {
	k := len(p.vmap)
	r := p.rmpath[len(p.rmpath)-1]
	u := p.vmap[r]
	for _, e := range Adj[u] {
		if p.used[e] {
			continue
		}
		w := other(E, e, u)
		if j := p.rev[w]; j >= 0 {
			do(extension{
				tuple:  Tuple{I: r, J: j, LI: V[u].Color, LE: E[e].Color, LJ: V[w].Color},
				edge:   e,
				vertex: -1,
				depth:  len(p.rmpath) - 1,
			})
		}
	}
	for d := len(p.rmpath) - 1; d >= 0; d-- {
		i := p.rmpath[d]
		x := p.vmap[i]
		for _, e := range Adj[x] {
			if p.used[e] {
				continue
			}
			w := other(E, e, x)
			if p.rev[w] < 0 {
				do(extension{
					tuple:  Tuple{I: i, J: k, LI: V[x].Color, LE: E[e].Color, LJ: V[w].Color},
					edge:   e,
					vertex: w,
					depth:  d,
				})
			}
		}
	}
}

func (p *projection) apply(ext extension) *projection {
	n := p.copy()
	n.used[ext.edge] = true
	if ext.vertex >= 0 {
		n.rev[ext.vertex] = len(n.vmap)
		n.vmap = append(n.vmap, ext.vertex)
		n.rmpath = append(n.rmpath[:ext.depth+1], ext.tuple.J)
	}
	return n
}

func other(E graph.Edges, e, u int) int {
	if E[e].Src == u {
		return E[e].Targ
	}
	return E[e].Src
}

// Canonicalize computes the minimum DFS code of a connected pattern with
// the mapping from code positions to vertex idxs and its inverse. isTree
// reports whether the pattern has no cycle (no backward edge in the
// code). An empty pattern has an empty code, a single vertex has the code
// <0 0 l -1 -1>.
func Canonicalize(V graph.Vertices, E graph.Edges, Adj [][]int) (code Code, mapping, inverse []int, isTree bool, err error) {
	switch {
	case len(V) == 0:
		return Code{}, []int{}, []int{}, true, nil
	case len(E) == 0 && len(V) == 1:
		return Code{{I: 0, J: 0, LI: V[0].Color, LE: -1, LJ: -1}}, []int{0}, []int{0}, true, nil
	case len(E) == 0:
		return nil, nil, nil, false, errors.Errorf("pattern is not connected: %v vertices and no edges", len(V))
	}
	var projs []*projection
	var first Tuple
	for e := range E {
		if E[e].Src == E[e].Targ {
			return nil, nil, nil, false, errors.Errorf("pattern has a self loop on vertex %v", E[e].Src)
		}
		for _, ends := range [2][2]int{{E[e].Src, E[e].Targ}, {E[e].Targ, E[e].Src}} {
			u, v := ends[0], ends[1]
			t := Tuple{I: 0, J: 1, LI: V[u].Color, LE: E[e].Color, LJ: V[v].Color}
			if len(projs) > 0 && first.Less(t) {
				continue
			}
			if len(projs) == 0 || t.Less(first) {
				first = t
				projs = projs[:0]
			}
			p := &projection{
				vmap:   []int{u, v},
				rev:    make([]int, len(V)),
				used:   make([]bool, len(E)),
				rmpath: []int{0, 1},
			}
			for i := range p.rev {
				p.rev[i] = -1
			}
			p.rev[u] = 0
			p.rev[v] = 1
			p.used[e] = true
			projs = append(projs, p)
		}
	}
	code = make(Code, 0, len(E))
	code = append(code, first)
	isTree = true
	for len(code) < len(E) {
		var best Tuple
		found := false
		for _, p := range projs {
			p.extensions(V, E, Adj, func(ext extension) {
				if !found || ext.tuple.Less(best) {
					best = ext.tuple
					found = true
				}
			})
		}
		if !found {
			return nil, nil, nil, false, errors.Errorf("pattern is not connected: only reached %v of %v edges", len(code), len(E))
		}
		next := make([]*projection, 0, len(projs))
		for _, p := range projs {
			p.extensions(V, E, Adj, func(ext extension) {
				if ext.tuple == best {
					next = append(next, p.apply(ext))
				}
			})
		}
		projs = next
		code = append(code, best)
		if !best.Forward() {
			isTree = false
		}
	}
	p := projs[0]
	if len(p.vmap) != len(V) {
		return nil, nil, nil, false, errors.Errorf("pattern is not connected: only reached %v of %v vertices", len(p.vmap), len(V))
	}
	mapping = make([]int, len(V))
	inverse = make([]int, len(V))
	copy(mapping, p.vmap)
	copy(inverse, p.rev)
	return code, mapping, inverse, isTree, nil
}
