package graph

import (
	"bufio"
	"fmt"
	"io"
)

// WriteLines writes g in the line format using labels to name colors.
// Empty labels are omitted.
func WriteLines(w io.Writer, labels *Labels, g *Graph) error {
	out := bufio.NewWriter(w)
	fmt.Fprintf(out, "t # %d\n", g.Id)
	for _, v := range g.V {
		if l := labels.Label(v.Color); l != "" {
			fmt.Fprintf(out, "v %d %v\n", v.Idx, l)
		} else {
			fmt.Fprintf(out, "v %d\n", v.Idx)
		}
	}
	for _, e := range g.E {
		if l := labels.Label(e.Color); l != "" {
			fmt.Fprintf(out, "e %d %d %v\n", e.Src, e.Targ, l)
		} else {
			fmt.Fprintf(out, "e %d %d\n", e.Src, e.Targ)
		}
	}
	return out.Flush()
}
