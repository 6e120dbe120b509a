package reformulate

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

import (
	"github.com/google/uuid"
	"github.com/timtadh/data-structures/errors"
)

import (
	"github.com/timtadh/gref/lattice"
)

// Result summarizes one strategy run. S is in selection order and Gains
// holds the marginal gain of each member when it was selected.
type Result struct {
	RunId      uuid.UUID
	Algorithm  string
	K          int
	Lambda     float64
	Root       *lattice.Node
	S          []*lattice.Node
	Gains      []float64
	Coverage   float64
	Diversity  int
	Overlap    int
	Objective  float64
	Expansions int
	Size       int
	QueryTime  time.Duration
	Time       time.Duration
}

// search is the state every strategy shares: the lattice it owns and the
// accepted set.
type search struct {
	name    string
	opts    *Options
	lattice *lattice.Lattice
	s       []*lattice.Node
	gains   []float64
	inS     map[int]bool
}

func newSearch(name string, l *lattice.Lattice, opts *Options) search {
	return search{
		name:    name,
		opts:    opts,
		lattice: l,
		s:       make([]*lattice.Node, 0, opts.K),
		gains:   make([]float64, 0, opts.K),
		inS:     make(map[int]bool),
	}
}

func (s *search) accept(n *lattice.Node, gain float64) {
	s.s = append(s.s, n)
	s.gains = append(s.gains, gain)
	s.inS[n.Id] = true
	errors.Logf("INFO", "Reformulated query %v obj marginal gain: %v, size: %d", n, gain, n.ResultsNumber())
}

// fallback selects the root when the search found no reformulation.
func (s *search) fallback() {
	if len(s.s) == 0 && s.lattice.Size() == 0 {
		root := s.lattice.Root()
		s.accept(root, Gain(nil, root, s.opts.Lambda))
	}
}

// smallest returns the node with the smallest canonical key among ids.
// Node ids follow discovery order, which differs between strategies, so
// ties between equal gains are settled on the pattern instead.
func (s *search) smallest(ids []int) int {
	best := -1
	key := ""
	for _, id := range ids {
		k := s.lattice.Node(id).Pattern.Key()
		if best < 0 || k < key {
			best, key = id, k
		}
	}
	return best
}

func (s *search) result(expansions int, elapsed time.Duration) *Result {
	r := &Result{
		RunId:      uuid.New(),
		Algorithm:  s.name,
		K:          s.opts.K,
		Lambda:     s.opts.Lambda,
		Root:       s.lattice.Root(),
		S:          s.s,
		Gains:      s.gains,
		Coverage:   coveredOf(s.lattice.Root(), s.s),
		Diversity:  DiversitySum(s.s),
		Overlap:    Overlap(s.s),
		Objective:  Objective(s.s, s.opts.Lambda),
		Expansions: expansions,
		Size:       s.lattice.Size(),
		Time:       elapsed,
	}
	errors.Logf("INFO", "Total number of reformulations generated: %d", r.Size)
	errors.Logf("INFO", "Coverage of the result set: %.2f%%", r.Coverage*100)
	errors.Logf("INFO", "Diversity of the result set: %d", r.Diversity)
	errors.Logf("INFO", "Number of call to extend: %d", r.Expansions)
	errors.Logf("INFO", "Time to compute the reformulations using %v: %v", s.name, r.Time)
	errors.Logf("INFO", "Size of the final result set: %d", len(r.S))
	return r
}

func (r *Result) String() string {
	return fmt.Sprintf("<Result %v %v k: %d lambda: %v |S|: %d coverage: %.3f diversity: %d objective: %.3f>",
		r.RunId, r.Algorithm, r.K, r.Lambda, len(r.S), r.Coverage, r.Diversity, r.Objective)
}

var CSVHeader = []string{
	"run", "algorithm", "db_size", "matched", "query_vertices", "query_edges",
	"query_ms", "k", "lambda", "algorithm_ms", "overlap", "coverage",
	"diversity", "expansions", "lattice_size", "objective", "result_counts",
}

// Row renders r as one line of the statistics file.
func (r *Result) Row(dbSize int) []string {
	counts := make([]string, 0, len(r.S))
	for _, n := range r.S {
		counts = append(counts, strconv.Itoa(n.ResultsNumber()))
	}
	return []string{
		r.RunId.String(),
		r.Algorithm,
		strconv.Itoa(dbSize),
		strconv.Itoa(r.Root.ResultsNumber()),
		strconv.Itoa(len(r.Root.Pattern.V)),
		strconv.Itoa(len(r.Root.Pattern.E)),
		strconv.FormatInt(r.QueryTime.Milliseconds(), 10),
		strconv.Itoa(r.K),
		strconv.FormatFloat(r.Lambda, 'g', -1, 64),
		strconv.FormatInt(r.Time.Milliseconds(), 10),
		strconv.Itoa(r.Overlap),
		strconv.FormatFloat(r.Coverage, 'f', 4, 64),
		strconv.Itoa(r.Diversity),
		strconv.Itoa(r.Expansions),
		strconv.Itoa(r.Size),
		strconv.FormatFloat(r.Objective, 'f', 4, 64),
		strings.Join(counts, "|"),
	}
}

// WriteCSV appends r to w, preceded by the header when header is set.
func (r *Result) WriteCSV(w io.Writer, dbSize int, header bool) error {
	out := csv.NewWriter(w)
	if header {
		if err := out.Write(CSVHeader); err != nil {
			return err
		}
	}
	if err := out.Write(r.Row(dbSize)); err != nil {
		return err
	}
	out.Flush()
	return out.Error()
}
