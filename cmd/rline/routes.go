package main

import (
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rohanthewiz/element"
	"github.com/rohanthewiz/rline"
	"github.com/rohanthewiz/rline/send"
)

var errNeedName = errors.New("a name is required")

type greeting struct {
	Name string
}

func (g greeting) Render(b *element.Builder) any {
	b.Html().R(
		b.Body().R(
			b.H1().T("Hello " + g.Name),
		),
	)
	return nil
}

// registerRoutes declares the demo routes.
func registerRoutes(s *rline.Server) error {
	var hits atomic.Int64

	if s.Options().Verbose {
		if err := s.Use(rline.RequestInfo(s.Logger())); err != nil {
			return err
		}
	}

	err := s.Use(func(req *rline.Request, res *rline.Response, next rline.Next) {
		hits.Add(1)
		next(rline.Continue())
	})
	if err != nil {
		return err
	}

	err = s.Get("/", func(req *rline.Request, res *rline.Response, next rline.Next) {
		send.Error(next, send.Lines(res,
			"Welcome home",
			"Try /hello, /hello/html, /time, /stats or /slow",
		))
	})
	if err != nil {
		return err
	}

	requireName := func(req *rline.Request, res *rline.Response, next rline.Next) {
		name := strings.TrimSpace(req.Query())
		if name == "" {
			next(rline.Fail(errNeedName))
			return
		}
		req.Set("name", name)
		next(rline.Continue())
	}

	// A missing name is answered here rather than by the server's error line.
	nameHelp := func(err error, req *rline.Request, res *rline.Response, next rline.Next) {
		if !errors.Is(err, errNeedName) {
			next(rline.Fail(err))
			return
		}
		send.Error(next, send.Text(res, "usage: "+req.Path()+"<TAB>your name\r\n"))
	}

	err = s.Get("/hello", requireName, func(req *rline.Request, res *rline.Response, next rline.Next) {
		send.Error(next, send.Lines(res, "Hello "+req.Get("name").(string)))
	}, nameHelp)
	if err != nil {
		return err
	}

	err = s.Get("/hello/html", requireName, func(req *rline.Request, res *rline.Response, next rline.Next) {
		send.Error(next, send.HTML(res, greeting{Name: req.Get("name").(string)}))
	}, nameHelp)
	if err != nil {
		return err
	}

	err = s.Get("/time", func(req *rline.Request, res *rline.Response, next rline.Next) {
		send.Error(next, send.Lines(res, time.Now().UTC().Format(time.RFC3339)))
	})
	if err != nil {
		return err
	}

	err = s.Get("/stats", func(req *rline.Request, res *rline.Response, next rline.Next) {
		send.Error(next, send.JSON(res, map[string]any{
			"requests": hits.Load(),
			"routes":   len(s.ListRoutes()),
		}))
	})
	if err != nil {
		return err
	}

	// Answered from another goroutine.
	return s.Get("/slow", func(req *rline.Request, res *rline.Response, next rline.Next) {
		go func() {
			select {
			case <-time.After(500 * time.Millisecond):
				send.Error(next, send.Lines(res, "finally"))
			case <-req.Context().Done():
			}
		}()
	})
}
