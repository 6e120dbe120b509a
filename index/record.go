package index

import (
	"encoding/binary"
	"fmt"
)

import (
	"github.com/pkg/errors"
)

import (
	"github.com/timtadh/gref/pattern"
)

// Record is one stored lattice node. Results are database graph ids and
// Children are the ids of its stored reformulations.
type Record struct {
	Id       int
	Pattern  *pattern.Pattern
	Father   int
	Results  []int
	Children []int
}

func (r *Record) String() string {
	return fmt.Sprintf("<Record %d %v father: %d results: %d children: %d>",
		r.Id, r.Pattern, r.Father, len(r.Results), len(r.Children))
}

// encode lays out father, the results and the children as 32 bit big
// endian integers, each list preceded by its length, followed by the
// serialized pattern.
func (r *Record) encode() []byte {
	p := r.Pattern.Serialize()
	buf := make([]byte, 4*(3+len(r.Results)+len(r.Children))+len(p))
	off := 0
	put := func(x int) {
		binary.BigEndian.PutUint32(buf[off:off+4], uint32(int32(x)))
		off += 4
	}
	put(r.Father)
	put(len(r.Results))
	for _, gid := range r.Results {
		put(gid)
	}
	put(len(r.Children))
	for _, kid := range r.Children {
		put(kid)
	}
	copy(buf[off:], p)
	return buf
}

func decodeRecord(id int, data []byte) (*Record, error) {
	off := 0
	get := func() (int, error) {
		if off+4 > len(data) {
			return 0, errors.Wrapf(ErrInvalidIndex, "node %d is truncated", id)
		}
		x := int(int32(binary.BigEndian.Uint32(data[off : off+4])))
		off += 4
		return x, nil
	}
	list := func() ([]int, error) {
		n, err := get()
		if err != nil {
			return nil, err
		}
		if n < 0 || off+4*n > len(data) {
			return nil, errors.Wrapf(ErrInvalidIndex, "node %d has a bad list length %d", id, n)
		}
		items := make([]int, n)
		for i := range items {
			items[i], _ = get()
		}
		return items, nil
	}
	r := &Record{Id: id}
	var err error
	if r.Father, err = get(); err != nil {
		return nil, err
	}
	if r.Results, err = list(); err != nil {
		return nil, err
	}
	if r.Children, err = list(); err != nil {
		return nil, err
	}
	if r.Pattern, err = pattern.Load(data[off:]); err != nil {
		return nil, errors.Wrapf(ErrInvalidIndex, "node %d: %v", id, err)
	}
	return r, nil
}
