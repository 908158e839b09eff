package rline

import (
	"fmt"

	"github.com/rohanthewiz/element"
	"github.com/rohanthewiz/rline/core/rtr"
)

// routeIndex renders the route table as an HTML page.
type routeIndex struct {
	Title  string
	Routes []rtr.RouteList
}

func (ri routeIndex) Render(b *element.Builder) any {
	b.Html().R(
		b.Head().R(
			b.Title().T(ri.Title),
		),
		b.Body().R(
			b.DivClass("title").T(ri.Title),
			func() any {
				for _, route := range ri.Routes {
					kind := "handler"
					if route.ErrorHandler {
						kind = "error-handler"
					}
					b.DivClass("route").T(fmt.Sprintf("%s %s %s (%s)",
						route.Method, route.Path, route.HandlerRef, kind))
				}
				return nil
			}(),
		),
	)
	return nil
}

// RouteIndex is a handler answering with the server's route table as HTML.
func (s *Server) RouteIndex(req *Request, res *Response, next Next) {
	b := element.NewBuilder()
	element.RenderComponents(b, routeIndex{Title: "Routes", Routes: s.ListRoutes()})

	if err := res.Send(b.String()); err != nil {
		next(Fail(err))
	}
}
