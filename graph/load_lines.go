package graph

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

import (
	"github.com/timtadh/data-structures/errors"
)

// LineLoader reads the line format:
//
//	t # <id>
//	v <id> <label>
//	e <src> <targ> <label>
//
// Each `t` line starts a new graph.
type LineLoader struct {
	Labels  *Labels
	db      *Database
	builder *Builder
	vidxs   map[int]int
	line    int
}

func LoadLines(labels *Labels, input io.Reader) (*Database, error) {
	l := &LineLoader{
		Labels: labels,
		db:     NewDatabase(labels),
	}
	return l.load(input)
}

func (l *LineLoader) load(input io.Reader) (*Database, error) {
	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		l.line++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		kind, rest := fields[0], fields[1:]
		var err error
		switch kind {
		case "t":
			l.startGraph()
		case "v":
			err = l.vertex(rest)
		case "e":
			err = l.edge(rest)
		default:
			err = errors.Errorf("unexpected kind `%v` for line `%v`", kind, line)
		}
		if err != nil {
			return nil, errors.Errorf("line %d: %v", l.line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	l.endGraph()
	return l.db, nil
}

func (l *LineLoader) startGraph() {
	l.endGraph()
	l.builder = Build(10, 10)
	l.vidxs = make(map[int]int)
}

func (l *LineLoader) endGraph() {
	if l.builder != nil {
		l.db.Add(l.builder.Build())
	}
	l.builder = nil
}

func (l *LineLoader) vertex(rest []string) error {
	if l.builder == nil {
		l.startGraph()
	}
	if len(rest) < 1 || len(rest) > 2 {
		return errors.Errorf("vertex in unexpected format (expected `v <id> <label>`): `%v`", rest)
	}
	id, err := strconv.Atoi(rest[0])
	if err != nil {
		return err
	}
	if _, has := l.vidxs[id]; has {
		return errors.Errorf("duplicate vertex id %v", id)
	}
	label := ""
	if len(rest) == 2 {
		label = rest[1]
	}
	v := l.builder.AddVertex(l.Labels.Color(label))
	l.vidxs[id] = v.Idx
	return nil
}

func (l *LineLoader) edge(rest []string) error {
	if l.builder == nil {
		return errors.Errorf("edge before any vertex")
	}
	if len(rest) < 2 || len(rest) > 3 {
		return errors.Errorf("edge in unexpected format (expected `e <src> <targ> <label>`): `%v`", rest)
	}
	src, err := strconv.Atoi(rest[0])
	if err != nil {
		return err
	}
	targ, err := strconv.Atoi(rest[1])
	if err != nil {
		return err
	}
	label := ""
	if len(rest) == 3 {
		label = rest[2]
	}
	if sidx, has := l.vidxs[src]; !has {
		return errors.Errorf("unknown src id %v", src)
	} else if tidx, has := l.vidxs[targ]; !has {
		return errors.Errorf("unknown targ id %v", targ)
	} else if !loop(sidx, tidx, "at line "+strconv.Itoa(l.line)) {
		l.builder.AddEdge(&l.builder.V[sidx], &l.builder.V[tidx], l.Labels.Color(label))
	}
	return nil
}
