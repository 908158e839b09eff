package rline_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/rohanthewiz/assert"
	"github.com/rohanthewiz/rline"
)

func TestGroupPrefix(t *testing.T) {
	s := newTestServer()
	api := s.Group("/api")

	assert.Nil(t, api.Get("/users", func(req *rline.Request, res *rline.Response, next rline.Next) {
		_ = res.Send("users")
	}))

	res := s.Request("/api/users\r\n")
	assert.Equal(t, string(res.Body()), "users")

	res = s.Request("/users\r\n")
	assert.Equal(t, string(res.Body()), "ERR not found\r\n")
}

func TestGroupMiddleware(t *testing.T) {
	s := newTestServer()
	var executionOrder []string

	api := s.Group("/api", func(req *rline.Request, res *rline.Response, next rline.Next) {
		executionOrder = append(executionOrder, "api")
		next(rline.Continue())
	})
	v1 := api.Group("/v1", func(req *rline.Request, res *rline.Response, next rline.Next) {
		executionOrder = append(executionOrder, "v1")
		next(rline.Continue())
	})

	assert.Nil(t, v1.Get("/ping", func(req *rline.Request, res *rline.Response, next rline.Next) {
		executionOrder = append(executionOrder, "handler")
		_ = res.Send("pong")
	}))
	assert.Equal(t, v1.Prefix(), "/api/v1")

	res := s.Request("/api/v1/ping\r\n")
	assert.Equal(t, string(res.Body()), "pong")
	assert.Equal(t, strings.Join(executionOrder, ","), "api,v1,handler")
	assert.Equal(t, s.Route("/api/v1/ping").Len(), 3)
}

func TestGroupUseAppliesToLaterRoutes(t *testing.T) {
	s := newTestServer()
	g := s.Group("/g")

	assert.Nil(t, g.Get("/before", namedHandler))
	g.Use(namedHandler)
	assert.Nil(t, g.Get("/after", namedHandler))

	assert.Equal(t, s.Route("/g/before").Len(), 1)
	assert.Equal(t, s.Route("/g/after").Len(), 2)
}

func TestGroupNestedDoesNotShareHandlers(t *testing.T) {
	s := newTestServer()
	parent := s.Group("/p")
	child := parent.Group("/c")
	parent.Use(namedHandler)

	assert.Nil(t, child.Get("/x", namedHandler))
	assert.Equal(t, s.Route("/p/c/x").Len(), 1)
}

func TestGroupErrorHandler(t *testing.T) {
	s := newTestServer()

	admin := s.Group("/admin", func(req *rline.Request, res *rline.Response, next rline.Next) {
		next(rline.Fail(errors.New("forbidden")))
	})

	assert.Nil(t, admin.All("/panel",
		func(req *rline.Request, res *rline.Response, next rline.Next) {
			_ = res.Send("panel")
		},
		func(err error, req *rline.Request, res *rline.Response, next rline.Next) {
			_ = res.Send("denied: " + err.Error())
		},
	))

	res := s.Request("/admin/panel\r\n")
	assert.Equal(t, string(res.Body()), "denied: forbidden")
}

func TestGroupRejectsNonHandler(t *testing.T) {
	s := newTestServer()
	g := s.Group("/g", "not a handler")

	err := g.Get("/x", namedHandler)
	var typeErr *rline.HandlerTypeError
	assert.True(t, errors.As(err, &typeErr))

	// no empty route is left behind
	for _, route := range s.ListRoutes() {
		assert.NotEqual(t, route.Path, "/g/x")
	}
	res := s.Request("/g/x\r\n")
	assert.Equal(t, string(res.Body()), "ERR not found\r\n")
}

func TestGroupSamePathTwice(t *testing.T) {
	s := newTestServer()
	var trace []string

	g := s.Group("/g", func(req *rline.Request, res *rline.Response, next rline.Next) {
		trace = append(trace, "auth")
		next(rline.Continue())
	})

	assert.Nil(t, g.Get("/x", func(req *rline.Request, res *rline.Response, next rline.Next) {
		trace = append(trace, "h1")
		next(rline.Continue())
	}))
	assert.Nil(t, g.Get("/x", func(req *rline.Request, res *rline.Response, next rline.Next) {
		trace = append(trace, "h2")
		_ = res.Send("done")
	}))

	res := s.Request("/g/x\r\n")
	assert.Equal(t, string(res.Body()), "done")
	assert.Equal(t, strings.Join(trace, ","), "auth,h1,h2")
	assert.Equal(t, s.Route("/g/x").Len(), 3)
}

func TestGroupStaticFiles(t *testing.T) {
	s := newTestServer()
	assert.Nil(t, s.Group("/assets").StaticFiles("/v1", staticDir(t), 0))

	res := s.Request("/assets/v1/hello.txt\r\n")
	assert.Equal(t, string(res.Body()), "hello file")
}
