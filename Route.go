package rline

import (
	"io"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/rohanthewiz/rline/consts"
)

// RouteOptions configures a Route.
type RouteOptions struct {
	// Logger receives dispatch diagnostics. Defaults to a discarding logger.
	Logger *log.Logger
}

// Route is an ordered, append-only stack of layers bound to one path.
// Register handlers during setup, then dispatch requests against it.
// Registering while requests are being dispatched is not supported.
type Route struct {
	path   string
	stack  []*Layer
	logger *log.Logger
}

// NewRoute creates an empty route for the given path.
func NewRoute(path string, opts ...RouteOptions) *Route {
	r := &Route{path: path}
	if len(opts) > 0 {
		r.logger = opts[0].Logger
	}
	if r.logger == nil {
		r.logger = log.New(io.Discard)
	}
	return r
}

// Path returns the path the route was declared for.
func (r *Route) Path() string {
	return r.path
}

// Len returns the number of layers on the stack.
func (r *Route) Len() int {
	return len(r.stack)
}

// Layers returns a copy of the stack in execution order.
func (r *Route) Layers() []*Layer {
	out := make([]*Layer, len(r.stack))
	copy(out, r.stack)
	return out
}

// Methods returns the distinct verb labels used on this route, in registration order.
func (r *Route) Methods() (methods []string) {
	seen := make(map[string]bool, 2)
	for _, layer := range r.stack {
		if !seen[layer.method] {
			seen[layer.method] = true
			methods = append(methods, layer.method)
		}
	}
	return
}

// All appends handlers to the route.
// handlers may be Handler or ErrorHandler values, or slices of them, nested arbitrarily.
// If any value is not a handler, nothing is appended and a *HandlerTypeError is returned.
func (r *Route) All(handlers ...any) error {
	return r.register(consts.MethodAll, handlers)
}

// Get is the same as All, with the layers labelled GET.
// The label is for diagnostics only; dispatch does not filter on it.
func (r *Route) Get(handlers ...any) error {
	return r.register(consts.MethodGet, handlers)
}

func (r *Route) register(method string, handlers []any) error {
	layers, err := newLayers(method, handlers)
	if err != nil {
		return err
	}

	r.stack = append(r.stack, layers...)
	return nil
}

// newLayers wraps every handler, failing on the first value that is not one.
func newLayers(method string, handlers []any) ([]*Layer, error) {
	flat := flatten(handlers, nil)
	layers := make([]*Layer, 0, len(flat))

	for _, fn := range flat {
		layer, err := NewLayer(consts.RootPath, LayerOptions{End: true, Method: method}, fn)
		if err != nil {
			return nil, err
		}
		layers = append(layers, layer)
	}
	return layers, nil
}

func flatten(in []any, out []any) []any {
	for _, v := range in {
		switch vv := v.(type) {
		case []any:
			out = flatten(vv, out)
		case []Handler:
			for _, h := range vv {
				out = append(out, h)
			}
		case []ErrorHandler:
			for _, h := range vv {
				out = append(out, h)
			}
		default:
			out = append(out, v)
		}
	}
	return out
}

// Dispatch runs the request through the stack in registration order.
//
// done is called once with the final outcome: Continue() when the route was handled,
// Fail(err) when an error was left unhandled, or SkipRouter.
// If a handler never calls its continuation, done is never called.
// An empty route calls done(Continue()) right away.
func (r *Route) Dispatch(req *Request, res *Response, done Done) {
	r.dispatch(req, res, Continue(), done)
}

// dispatch starts the stack with an initial outcome, which lets a
// router feed a pending error into a route made of error handlers.
func (r *Route) dispatch(req *Request, res *Response, initial Outcome, done Done) {
	if done == nil {
		done = func(Outcome) {}
	}

	if len(r.stack) == 0 {
		done(initial)
		return
	}

	req.route = r

	c := &cursor{
		route: r,
		stack: r.stack,
		req:   req,
		res:   res,
		done:  done,
	}
	c.resume(initial)
}

// cursor is the per-dispatch state.
// Exactly one goroutine drives it at a time; a continuation that arrives while
// the driver is still inside a handler is queued and picked up when the handler returns.
type cursor struct {
	route *Route
	stack []*Layer
	req   *Request
	res   *Response
	done  Done

	index int // next unvisited layer, owned by the driver

	mu     sync.Mutex
	active bool
	queued *Outcome
}

func (c *cursor) resume(o Outcome) {
	c.mu.Lock()
	if c.active {
		c.queued = &o
		c.mu.Unlock()
		return
	}
	c.active = true
	c.mu.Unlock()

	for {
		layer, err := c.step(o)
		if layer != nil {
			next := c.continuation(c.index - 1)
			if err != nil {
				layer.HandleError(err, c.req, c.res, next)
			} else {
				layer.HandleRequest(c.req, c.res, next)
			}
		}

		c.mu.Lock()
		if c.queued == nil {
			c.active = false
			c.mu.Unlock()
			return
		}
		o = *c.queued
		c.queued = nil
		c.mu.Unlock()
	}
}

// step applies o and returns the next layer to invoke with its pending error.
// A nil layer means dispatch has finished and done was called.
func (c *cursor) step(o Outcome) (*Layer, error) {
	switch {
	case o.IsSkipRoute():
		c.finish(Continue())
		return nil, nil
	case o.IsSkipRouter():
		c.finish(SkipRouter)
		return nil, nil
	}

	if c.index >= len(c.stack) {
		c.finish(o)
		return nil, nil
	}

	layer := c.stack[c.index]
	c.index++
	return layer, o.err
}

func (c *cursor) finish(o Outcome) {
	c.route.logger.Debug("route done", "path", c.route.path, "outcome", o)
	c.done(o)
}

// continuation returns a one-shot Next for the layer at position.
func (c *cursor) continuation(position int) Next {
	var called atomic.Bool

	return func(o Outcome) {
		if !called.CompareAndSwap(false, true) {
			c.route.logger.Warn("continuation called more than once",
				"path", c.route.path, "layer", position, "handler", c.stack[position].name)
			return
		}
		c.resume(o)
	}
}
