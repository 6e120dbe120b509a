package frontier

import "testing"
import "github.com/stretchr/testify/assert"

import (
	"math/rand"
)

import (
	"github.com/timtadh/data-structures/test"
)

func TestLastAndBucket(t *testing.T) {
	x := assert.New(t)
	f := New()
	_, has := f.Last()
	x.False(has)
	f.Add(5, 1.5)
	f.Add(3, 2.5)
	f.Add(9, 2.5)
	f.Add(1, 0.5)
	last, has := f.Last()
	x.True(has)
	x.Equal(3, last)
	x.Equal([]int{3, 9}, f.Bucket(9))
	x.Equal([]int{5}, f.Bucket(5))
	x.Nil(f.Bucket(42))
	x.Equal(4, f.Len())
}

func TestRemoveDropsEmptyBuckets(t *testing.T) {
	x := assert.New(t)
	f := New()
	f.Add(1, 3)
	f.Add(2, 3)
	f.Add(3, 1)
	x.True(f.Remove(1))
	last, _ := f.Last()
	x.Equal(2, last)
	x.True(f.Remove(2))
	last, _ = f.Last()
	x.Equal(3, last)
	x.False(f.Remove(2))
	x.True(f.Remove(3))
	x.True(f.Empty())
	x.Equal(0, f.tree.Len())
}

func TestAddMoves(t *testing.T) {
	x := assert.New(t)
	f := New()
	f.Add(1, 1)
	f.Add(2, 2)
	f.Add(1, 3)
	last, _ := f.Last()
	x.Equal(1, last)
	x.Equal(2, f.Len())
	score, has := f.Score(1)
	x.True(has)
	x.Equal(3.0, score)
	x.Equal([]int{1}, f.Bucket(1))
	x.Equal(2, f.tree.Len())
}

func TestRandom(x *testing.T) {
	t := (*test.T)(x)
	r := rand.New(rand.NewSource(3))
	f := New()
	scores := make(map[int]float64)
	for i := 0; i < 2000; i++ {
		id := r.Intn(100)
		if r.Intn(3) == 0 {
			f.Remove(id)
			delete(scores, id)
		} else {
			s := float64(r.Intn(10))
			f.Add(id, s)
			scores[id] = s
		}
		t.Assert(f.Len() == len(scores), "len %v != %v", f.Len(), len(scores))
		if len(scores) == 0 {
			continue
		}
		best := -1
		for id, s := range scores {
			if best == -1 || s > scores[best] || (s == scores[best] && id < best) {
				best = id
			}
		}
		last, _ := f.Last()
		t.Assert(last == best, "last %v expected %v", last, best)
	}
}
