package rline

import (
	"reflect"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/rohanthewiz/rline/consts"
)

// Handler handles a request and hands control back through next.
type Handler func(req *Request, res *Response, next Next)

// ErrorHandler handles a pending error and hands control back through next.
// Calling next(Continue()) clears the error.
type ErrorHandler func(err error, req *Request, res *Response, next Next)

// LayerOptions configures a Layer.
type LayerOptions struct {
	// End requires the request path to equal the layer path.
	// Otherwise the layer path only has to be a segment prefix.
	End bool

	// Method is the verb label, for diagnostics only.
	Method string
}

// Layer wraps exactly one handler.
// It is classified as normal or error-capable when created and never changes afterwards.
type Layer struct {
	path        string
	end         bool
	method      string
	name        string
	handle      Handler
	handleError ErrorHandler
}

// NewLayer wraps fn, which must be a Handler or an ErrorHandler
// (or a func literal with one of those signatures).
func NewLayer(path string, opts LayerOptions, fn any) (*Layer, error) {
	layer := &Layer{
		path:   cleanPath(path),
		end:    opts.End,
		method: opts.Method,
	}

	switch h := fn.(type) {
	case Handler:
		layer.handle = h
	case func(*Request, *Response, Next):
		layer.handle = h
	case ErrorHandler:
		layer.handleError = h
	case func(error, *Request, *Response, Next):
		layer.handleError = h
	}

	if layer.handle == nil && layer.handleError == nil {
		return nil, &HandlerTypeError{Method: opts.Method, Value: fn}
	}

	layer.name = funcName(fn)
	return layer, nil
}

// Path returns the path the layer is bound to.
func (l *Layer) Path() string {
	return l.path
}

// Method returns the verb label the layer was registered with.
func (l *Layer) Method() string {
	return l.method
}

// Name returns the short name of the wrapped function.
func (l *Layer) Name() string {
	return l.name
}

// IsErrorHandler reports whether the layer handles errors.
func (l *Layer) IsErrorHandler() bool {
	return l.handleError != nil
}

// Match reports whether the layer applies to the given request path.
func (l *Layer) Match(path string) bool {
	path = cleanPath(path)

	if l.end {
		return path == l.path
	}
	return hasPathPrefix(path, l.path)
}

// HandleRequest runs a normal handler. Error handlers pass straight through.
func (l *Layer) HandleRequest(req *Request, res *Response, next Next) {
	if l.handle == nil {
		next(Continue())
		return
	}

	defer recoverInto(next)
	l.handle(req, res, next)
}

// HandleError runs an error handler. Normal handlers pass the error on unchanged.
func (l *Layer) HandleError(err error, req *Request, res *Response, next Next) {
	if l.handleError == nil {
		next(Fail(err))
		return
	}

	defer recoverInto(next)
	l.handleError(err, req, res, next)
}

// recoverInto turns a handler panic into a pending error.
func recoverInto(next Next) {
	if r := recover(); r != nil {
		next(Fail(&PanicError{Value: r, Stack: debug.Stack()}))
	}
}

func funcName(fn any) string {
	f := runtime.FuncForPC(reflect.ValueOf(fn).Pointer())
	if f == nil {
		return "anonymous"
	}

	name := f.Name()
	if i := strings.LastIndexByte(name, consts.RuneFwdSlash); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// hasPathPrefix reports whether prefix matches path on segment boundaries.
// Both must be clean.
func hasPathPrefix(path string, prefix string) bool {
	if prefix == consts.RootPath {
		return true
	}
	return path == prefix || strings.HasPrefix(path, prefix+consts.RootPath)
}

// cleanPath gives a leading slash and drops a trailing one, except for the root.
func cleanPath(path string) string {
	if path == "" {
		return consts.RootPath
	}
	if path[0] != consts.RuneFwdSlash {
		path = consts.RootPath + path
	}
	if ln := len(path); ln > 1 && path[ln-1] == consts.RuneFwdSlash {
		path = path[:ln-1]
	}
	return path
}
