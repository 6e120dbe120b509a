package web

import (
	"encoding/json"
	"net/http"
	"runtime/debug"
)

import (
	"github.com/julienschmidt/httprouter"
	"github.com/timtadh/data-structures/errors"
)

type View func(*Context)

type Context struct {
	views *Views
	rw    http.ResponseWriter
	r     *http.Request
	p     httprouter.Params
}

// Context adapts a view to the router. route names the view in the
// request metrics.
func (v *Views) Context(route string, f View) httprouter.Handle {
	return func(rw http.ResponseWriter, r *http.Request, p httprouter.Params) {
		c := &Context{
			views: v,
			rw:    rw,
			r:     r,
			p:     p,
		}
		v.Log(route, v.Recover(f))(c)
	}
}

func (v *Views) Recover(f View) View {
	return func(c *Context) {
		defer func() {
			if e := recover(); e != nil {
				errors.Logf("ERROR", "panic serving %v %v: %v\n%v", c.r.Method, c.r.URL, e, string(debug.Stack()))
				c.Error(http.StatusInternalServerError, "Internal Error")
			}
		}()
		f(c)
	}
}

func (c *Context) JSON(status int, obj interface{}) {
	c.rw.Header().Set("Content-Type", "application/json")
	c.rw.WriteHeader(status)
	if err := json.NewEncoder(c.rw).Encode(obj); err != nil {
		errors.Logf("WARN", "could not write the response to %v: %v", c.r.URL, err)
	}
}

func (c *Context) Error(status int, msg string) {
	c.JSON(status, map[string]string{"error": msg})
}
