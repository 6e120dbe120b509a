// Package stats summarizes a graph database.
package stats

import (
	"fmt"
	"sort"
	"strings"
)

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

import (
	"github.com/timtadh/gref/graph"
)

type Summary struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

type Stats struct {
	Graphs   int            `json:"graphs"`
	Labels   int            `json:"labels"`
	Vertices Summary        `json:"vertices"`
	Edges    Summary        `json:"edges"`
	Density  Summary        `json:"density"`
	Colors   map[string]int `json:"vertex_labels"`
}

func summarize(xs []float64) Summary {
	if len(xs) == 0 {
		return Summary{}
	}
	mean, std := stat.MeanStdDev(xs, nil)
	if len(xs) == 1 {
		std = 0
	}
	return Summary{
		Min:  floats.Min(xs),
		Max:  floats.Max(xs),
		Mean: mean,
		Std:  std,
	}
}

// Compute collects the size and label statistics of db.
func Compute(db *graph.Database) *Stats {
	V := make([]float64, 0, db.Len())
	E := make([]float64, 0, db.Len())
	D := make([]float64, 0, db.Len())
	colors := make(map[string]int)
	for _, g := range db.Graphs {
		V = append(V, float64(len(g.V)))
		E = append(E, float64(len(g.E)))
		D = append(D, g.Density())
		for color, vids := range g.ColorIndex {
			colors[db.Labels.Label(color)] += len(vids)
		}
	}
	return &Stats{
		Graphs:   db.Len(),
		Labels:   db.Labels.Len(),
		Vertices: summarize(V),
		Edges:    summarize(E),
		Density:  summarize(D),
		Colors:   colors,
	}
}

func (s *Stats) String() string {
	labels := make([]string, 0, len(s.Colors))
	for label := range s.Colors {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	counts := make([]string, 0, len(labels))
	for _, label := range labels {
		counts = append(counts, fmt.Sprintf("%q: %d", label, s.Colors[label]))
	}
	return fmt.Sprintf(`graphs:   %d
labels:   %d
vertices: min %v max %v mean %.2f std %.2f
edges:    min %v max %v mean %.2f std %.2f
density:  min %.3f max %.3f mean %.3f std %.3f
vertex labels: {%v}`,
		s.Graphs, s.Labels,
		s.Vertices.Min, s.Vertices.Max, s.Vertices.Mean, s.Vertices.Std,
		s.Edges.Min, s.Edges.Max, s.Edges.Mean, s.Edges.Std,
		s.Density.Min, s.Density.Max, s.Density.Mean, s.Density.Std,
		strings.Join(counts, ", "))
}
