package rline

import (
	"context"
	"strings"

	"github.com/bassosimone/runtimex"
	"github.com/google/uuid"
	"github.com/rohanthewiz/rline/consts"
)

// Request is one request line received from a client.
type Request struct {
	ctx        context.Context
	id         string
	line       string
	path       string
	query      string
	remoteAddr string

	route *Route
	data  map[string]any
}

// NewRequest parses a request line.
// The line is a selector, optionally followed by a TAB and a query.
func NewRequest(ctx context.Context, line string) *Request {
	if ctx == nil {
		ctx = context.Background()
	}

	line = strings.TrimRight(line, consts.CRLF)
	req := &Request{
		ctx:  ctx,
		id:   newRequestID(),
		line: line,
	}

	path := line
	if tab := strings.IndexByte(line, consts.RuneTab); tab >= 0 {
		path = line[:tab]
		req.query = line[tab+1:]
	}

	req.path = cleanPath(strings.TrimSpace(path))
	return req
}

// newRequestID returns a time-ordered UUIDv7 string.
// It panics only if the system random number generator fails.
func newRequestID() string {
	return runtimex.PanicOnError1(uuid.NewV7()).String()
}

// Context returns the request context. It is cancelled when the
// connection is finished or the handler timeout expires.
func (req *Request) Context() context.Context {
	return req.ctx
}

// ID returns the unique request id.
func (req *Request) ID() string {
	return req.id
}

// Line returns the raw request line without its terminator.
func (req *Request) Line() string {
	return req.line
}

// Path returns the selector.
func (req *Request) Path() string {
	return req.path
}

// Query returns the text after the first TAB, if any.
func (req *Request) Query() string {
	return req.query
}

// Method always returns GET. The protocol has no verbs.
func (req *Request) Method() string {
	return consts.MethodGet
}

// RemoteAddr returns the client address.
func (req *Request) RemoteAddr() string {
	return req.remoteAddr
}

// Route returns the route currently dispatching this request, or nil.
func (req *Request) Route() *Route {
	return req.route
}

// Set stores a value for later handlers in the same request.
func (req *Request) Set(key string, value any) {
	if req.data == nil {
		req.data = make(map[string]any, 4)
	}
	req.data[key] = value
}

// Get returns a stored value, or nil.
func (req *Request) Get(key string) any {
	return req.data[key]
}

// Has reports whether a value is stored under key.
func (req *Request) Has(key string) bool {
	_, ok := req.data[key]
	return ok
}

// Delete removes a stored value.
func (req *Request) Delete(key string) {
	delete(req.data, key)
}
