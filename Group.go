package rline

import (
	"path"

	"github.com/rohanthewiz/rline/consts"
)

// Group declares routes under a common selector prefix.
// Handlers added with Use run before the handlers of every route the group
// declares afterwards; they are not applied to routes declared earlier.
// They are added once per path, when the group first declares it.
type Group struct {
	prefix   string
	router   *Router
	handlers []any
	declared map[string]bool
}

// Group creates a group for routes starting with prefix.
func (rt *Router) Group(prefix string, handlers ...any) *Group {
	return &Group{
		prefix:   cleanPath(prefix),
		router:   rt,
		handlers: handlers,
		declared: make(map[string]bool),
	}
}

// Group creates a nested group. It starts with a copy of the parent's handlers.
func (g *Group) Group(prefix string, handlers ...any) *Group {
	inherited := make([]any, 0, len(g.handlers)+len(handlers))
	inherited = append(inherited, g.handlers...)

	return &Group{
		prefix:   path.Join(g.prefix, prefix),
		router:   g.router,
		handlers: append(inherited, handlers...),
		declared: make(map[string]bool),
	}
}

// Prefix returns the group's selector prefix.
func (g *Group) Prefix() string {
	return g.prefix
}

// Use adds handlers for routes declared on the group from now on.
func (g *Group) Use(handlers ...any) {
	g.handlers = append(g.handlers, handlers...)
}

// Route returns the route for the prefixed path, creating it on first use.
func (g *Group) Route(routePath string) *Route {
	return g.router.Route(g.fullPath(routePath))
}

// Get registers handlers on the prefixed path, preceded by the group handlers
// the first time the group declares that path.
// If any value is not a handler, nothing is appended and no route is created.
func (g *Group) Get(routePath string, handlers ...any) error {
	return g.add(consts.MethodGet, routePath, handlers)
}

// All is Get with the ALL label.
func (g *Group) All(routePath string, handlers ...any) error {
	return g.add(consts.MethodAll, routePath, handlers)
}

func (g *Group) add(method string, routePath string, handlers []any) error {
	full := g.fullPath(routePath)

	all := []any{handlers}
	if !g.declared[full] {
		all = []any{g.handlers, handlers}
	}

	layers, err := newLayers(method, all)
	if err != nil {
		return err
	}

	route := g.router.Route(full)
	route.stack = append(route.stack, layers...)
	g.declared[full] = true
	return nil
}

func (g *Group) fullPath(routePath string) string {
	return cleanPath(path.Join(consts.RootPath, g.prefix, routePath))
}

// StaticFiles serves files under targetDir for selectors starting with the prefixed reqDir.
// Group handlers do not run for static files.
func (g *Group) StaticFiles(reqDir string, targetDir string, nbrOfTokensToStrip int) error {
	return g.router.Use(StaticFiles(path.Join(g.prefix, reqDir), targetDir, nbrOfTokensToStrip))
}
