package rline

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/rohanthewiz/rline/consts"
	"github.com/rohanthewiz/rline/core/rtr"
)

// RouterOptions configures a Router.
type RouterOptions struct {
	Logger *log.Logger
}

// Router composes routes. Every request runs through the middleware route,
// then the route declared for its exact selector, then, if an error is still
// pending, the catch route.
type Router struct {
	middleware *Route
	catch      *Route
	routes     *rtr.HashRouter[*Route]
	logger     *log.Logger
}

// NewRouter creates an empty router.
func NewRouter(opts ...RouterOptions) *Router {
	rt := &Router{routes: rtr.NewHashRouter[*Route]()}
	if len(opts) > 0 {
		rt.logger = opts[0].Logger
	}
	if rt.logger == nil {
		rt.logger = log.New(io.Discard)
	}

	rt.middleware = NewRoute(consts.RootPath, RouteOptions{Logger: rt.logger})
	rt.catch = NewRoute(consts.RootPath, RouteOptions{Logger: rt.logger})
	return rt
}

// Route returns the route for path, creating it on first use.
func (rt *Router) Route(path string) *Route {
	path = cleanPath(path)

	if route, ok := rt.routes.Lookup(path); ok {
		return route
	}

	route := NewRoute(path, RouteOptions{Logger: rt.logger})
	rt.routes.Add(path, route)
	return route
}

// Get registers handlers on the route for path.
func (rt *Router) Get(path string, handlers ...any) error {
	return rt.Route(path).Get(handlers...)
}

// Use adds handlers that run for every request before its route.
func (rt *Router) Use(handlers ...any) error {
	return rt.middleware.All(handlers...)
}

// Catch adds handlers that run after the route when an error is still pending.
// The catch route starts in error mode: normal handlers are skipped until an
// error handler clears the error with next(Continue()), after which they run.
func (rt *Router) Catch(handlers ...any) error {
	return rt.catch.All(handlers...)
}

// Handle routes the request and calls done with the final outcome.
// SkipRouter from any route is reported to done as Continue(): the
// request was not handled here and the caller may try elsewhere.
func (rt *Router) Handle(req *Request, res *Response, done Done) {
	if done == nil {
		done = func(Outcome) {}
	}

	rt.middleware.Dispatch(req, res, func(o Outcome) {
		if o.IsSkipRouter() {
			done(Continue())
			return
		}
		if o.Err() != nil {
			rt.recover(req, res, o, done)
			return
		}
		if res.Ended() {
			done(Continue())
			return
		}

		route, ok := rt.routes.Lookup(req.Path())
		if !ok {
			done(Continue())
			return
		}

		route.Dispatch(req, res, func(o Outcome) {
			switch {
			case o.IsSkipRouter():
				done(Continue())
			case o.Err() != nil:
				rt.recover(req, res, o, done)
			default:
				done(o)
			}
		})
	})
}

func (rt *Router) recover(req *Request, res *Response, o Outcome, done Done) {
	rt.logger.Debug("routing error", "path", req.Path(), "id", req.ID(), "err", o.Err())

	rt.catch.dispatch(req, res, o, func(o Outcome) {
		if o.IsSkipRouter() {
			done(Continue())
			return
		}
		done(o)
	})
}

// ListRoutes lists every registered handler, middleware first.
func (rt *Router) ListRoutes() (routes []rtr.RouteList) {
	add := func(path string, route *Route) {
		for _, layer := range route.stack {
			routes = append(routes, rtr.RouteList{
				Method:       layer.method,
				Path:         path,
				HandlerRef:   layer.name,
				ErrorHandler: layer.IsErrorHandler(),
			})
		}
	}

	add("*", rt.middleware)
	rt.routes.Each(add)
	add("*", rt.catch)
	return
}
