// Package index persists a frequent-pattern lattice in badger and serves
// it back lazily to the reformulation search.
package index

import (
	"encoding/binary"
	"encoding/json"
	"time"
)

import (
	"github.com/dgraph-io/badger/v3"
	"github.com/pkg/errors"
)

import (
	"github.com/timtadh/gref/graph"
	"github.com/timtadh/gref/pattern"
)

var (
	ErrNotFound     = errors.New("not found in the index")
	ErrInvalidIndex = errors.New("not a valid index")
)

var (
	metaKey    = []byte("meta")
	codePrefix = []byte("code/")
	nodePrefix = []byte("node/")
)

// Meta describes how an index was built.
type Meta struct {
	MinSupport int       `json:"min_support"`
	Graphs     int       `json:"graphs"`
	Nodes      int       `json:"nodes"`
	MaxEdges   int       `json:"max_edges"`
	Labels     []string  `json:"labels"`
	BuiltAt    time.Time `json:"built_at"`
}

// LabelTable interns the labels in the order the index was built with so
// that queries get the colors the stored patterns use.
func (m *Meta) LabelTable() *graph.Labels {
	labels := graph.NewLabels()
	for _, label := range m.Labels {
		labels.Color(label)
	}
	return labels
}

type Store struct {
	db   *badger.DB
	meta *Meta
}

// Open opens the index in dir, creating it if needed. An empty dir keeps
// the index in memory.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	opts.DetectConflicts = false
	if dir == "" {
		opts.InMemory = true
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "opening index %q", dir)
	}
	s := &Store{db: db}
	s.meta, err = s.loadMeta()
	if err != nil && errors.Cause(err) != ErrNotFound {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Load opens an index that must already have been built.
func Load(dir string) (*Store, error) {
	s, err := Open(dir)
	if err != nil {
		return nil, err
	}
	if s.meta == nil {
		s.Close()
		return nil, errors.Wrapf(ErrInvalidIndex, "%q has no metadata", dir)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Meta is nil until the index has been written.
func (s *Store) Meta() *Meta {
	return s.meta
}

// MinSupport is the support the index was built with, or -1.
func (s *Store) MinSupport() int {
	if s.meta == nil {
		return -1
	}
	return s.meta.MinSupport
}

func (s *Store) loadMeta() (*Meta, error) {
	var meta *Meta
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(metaKey)
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		} else if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			meta = new(Meta)
			return json.Unmarshal(val, meta)
		})
	})
	if err == ErrNotFound {
		return nil, errors.WithStack(ErrNotFound)
	} else if err != nil {
		return nil, errors.Wrap(ErrInvalidIndex, err.Error())
	}
	return meta, nil
}

func nodeKey(id int) []byte {
	key := make([]byte, len(nodePrefix)+4)
	copy(key, nodePrefix)
	binary.BigEndian.PutUint32(key[len(nodePrefix):], uint32(id))
	return key
}

func codeKey(p *pattern.Pattern) []byte {
	label := p.Label()
	key := make([]byte, len(codePrefix)+len(label))
	copy(key, codePrefix)
	copy(key[len(codePrefix):], label)
	return key
}

// Get reads the record of a stored node.
func (s *Store) Get(id int) (*Record, error) {
	var rec *Record
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(nodeKey(id))
		if err == badger.ErrKeyNotFound {
			return errors.Wrapf(ErrNotFound, "node %d", id)
		} else if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			rec, err = decodeRecord(id, val)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Scan hands every stored node to do in id order. The first error do
// returns ends the scan.
func (s *Store) Scan(do func(*Record) error) error {
	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = nodePrefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := item.Key()
			if len(key) != len(nodePrefix)+4 {
				return errors.Wrapf(ErrInvalidIndex, "node key %q", key)
			}
			id := int(binary.BigEndian.Uint32(key[len(nodePrefix):]))
			var rec *Record
			err := item.Value(func(val []byte) error {
				var err error
				rec, err = decodeRecord(id, val)
				return err
			})
			if err != nil {
				return err
			}
			if err := do(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// Find looks a pattern up by its canonical code.
func (s *Store) Find(p *pattern.Pattern) (int, bool, error) {
	id := -1
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(codeKey(p))
		if err == badger.ErrKeyNotFound {
			return nil
		} else if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			if len(val) != 4 {
				return errors.Wrapf(ErrInvalidIndex, "code entry of %v", p)
			}
			id = int(binary.BigEndian.Uint32(val))
			return nil
		})
	})
	if err != nil {
		return -1, false, errors.Wrap(err, "looking up a pattern")
	}
	return id, id >= 0, nil
}

// Write stores recs and the metadata. Records of an earlier build are
// left in place, so write a fresh directory.
func (s *Store) Write(recs []*Record, meta *Meta) error {
	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for _, rec := range recs {
		if err := wb.Set(nodeKey(rec.Id), rec.encode()); err != nil {
			return errors.Wrapf(err, "writing node %d", rec.Id)
		}
		id := make([]byte, 4)
		binary.BigEndian.PutUint32(id, uint32(rec.Id))
		if err := wb.Set(codeKey(rec.Pattern), id); err != nil {
			return errors.Wrapf(err, "writing the code of node %d", rec.Id)
		}
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	if err := wb.Set(metaKey, data); err != nil {
		return errors.Wrap(err, "writing index metadata")
	}
	if err := wb.Flush(); err != nil {
		return errors.Wrap(err, "flushing the index")
	}
	s.meta = meta
	return nil
}
