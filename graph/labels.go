package graph

import (
	"fmt"
	"sync"
)

// Labels interns vertex and edge labels as integer colors. A single
// Labels is shared by a database and every query run against it so that
// colors compare across graphs.
type Labels struct {
	lock   sync.Mutex
	colors map[string]int
	labels []string
}

func NewLabels() *Labels {
	return &Labels{
		colors: make(map[string]int, 1000),
		labels: make([]string, 0, 1000),
	}
}

func (c *Labels) Color(label string) int {
	c.lock.Lock()
	defer c.lock.Unlock()
	if color, has := c.colors[label]; has {
		return color
	} else {
		color = len(c.labels)
		c.colors[label] = color
		c.labels = append(c.labels, label)
		return color
	}
}

// Lookup returns the color of a label without interning it.
func (c *Labels) Lookup(label string) (int, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()
	color, has := c.colors[label]
	return color, has
}

func (c *Labels) Label(color int) string {
	c.lock.Lock()
	defer c.lock.Unlock()
	if color < 0 || color >= len(c.labels) {
		return fmt.Sprintf("color-[%d]", color)
	}
	return c.labels[color]
}

func (c *Labels) Len() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return len(c.labels)
}

func (c *Labels) Labels() []string {
	c.lock.Lock()
	defer c.lock.Unlock()
	labels := make([]string, len(c.labels))
	copy(labels, c.labels)
	return labels
}
