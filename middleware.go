package rline

import (
	"time"

	"github.com/charmbracelet/log"
)

// RequestInfo returns a middleware logging each request once its response ends.
func RequestInfo(logger *log.Logger) Handler {
	return func(req *Request, res *Response, next Next) {
		start := time.Now()

		res.OnEnd(func() {
			logger.Info("request",
				"path", req.Path(),
				"query", req.Query(),
				"remote", req.RemoteAddr(),
				"id", req.ID(),
				"bytes", res.Written(),
				"elapsed", time.Since(start))
		})

		next(Continue())
	}
}
