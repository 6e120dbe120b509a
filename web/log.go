package web

import (
	"net/http"
	"strconv"
	"time"
)

import (
	"github.com/timtadh/data-structures/errors"
)

import (
	"github.com/timtadh/gref/metrics"
)

type loggingRW struct {
	rw     http.ResponseWriter
	total  int
	status int
}

func (l *loggingRW) Header() http.Header {
	return l.rw.Header()
}

func (l *loggingRW) Write(bytes []byte) (int, error) {
	if l.status == 0 {
		l.status = http.StatusOK
	}
	c, err := l.rw.Write(bytes)
	l.total += c
	return c, err
}

func (l *loggingRW) WriteHeader(code int) {
	if l.status == 0 {
		l.status = code
	}
	l.rw.WriteHeader(code)
}

func (v *Views) Log(route string, f View) View {
	return func(c *Context) {
		lrw := &loggingRW{rw: c.rw}
		c.rw = lrw
		s := time.Now()
		f(c)
		d := time.Since(s)
		if lrw.status == 0 {
			lrw.status = http.StatusOK
		}
		errors.Logf("INFO", "%v %-4v %v (%v) %d (%d) %v",
			c.r.RemoteAddr, c.r.Method, c.r.URL, c.r.ContentLength, lrw.status, lrw.total, d)
		metrics.HttpRequestDuration.WithLabelValues(c.r.Method, route).Observe(d.Seconds())
		metrics.HttpRequestsTotal.WithLabelValues(c.r.Method, route, strconv.Itoa(lrw.status)).Inc()
	}
}
