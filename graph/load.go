package graph

import (
	"io"
	"path/filepath"
	"strings"
)

import (
	"github.com/timtadh/data-structures/errors"
)

type Loader func(labels *Labels, input io.Reader) (*Database, error)

var Formats = map[string]Loader{
	"lines": LoadLines,
	"dot":   LoadDot,
}

// FormatOf guesses the input format from a path's extension. Anything
// that is not DOT is read as the line format.
func FormatOf(path string) string {
	ext := filepath.Ext(strings.TrimSuffix(path, ".gz"))
	switch ext {
	case ".dot", ".gv":
		return "dot"
	default:
		return "lines"
	}
}

func Load(format string, labels *Labels, input io.Reader) (*Database, error) {
	load, has := Formats[format]
	if !has {
		return nil, errors.Errorf("unknown graph format `%v`", format)
	}
	return load(labels, input)
}

// loop reports, with a warning, a self loop that a loader drops.
// Reformulations are simple graphs.
func loop(u, v int, where string) bool {
	if u != v {
		return false
	}
	errors.Logf("WARN", "dropping the self loop on vertex %d %v", u, where)
	return true
}
