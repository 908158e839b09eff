package rline

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"os"
	"sync"

	"github.com/rohanthewiz/serr"
)

// Response is the body written back to the client.
// The protocol has no status line or headers: whatever is written is the response.
// It is safe to write from a goroutine other than the one that received the request.
type Response struct {
	mu      sync.Mutex
	w       io.Writer
	bw      *bufio.Writer // set when writing to a connection
	buf     *bytes.Buffer // set for in-memory responses
	written int64
	ended   bool
	done    chan struct{}
	onEnd   []func()
}

// NewResponse creates a response writing to w.
// A nil w gives an in-memory response whose Body can be inspected.
func NewResponse(w io.Writer) *Response {
	res := &Response{done: make(chan struct{})}

	if w == nil {
		res.buf = &bytes.Buffer{}
		res.w = res.buf
		return res
	}

	res.bw = bufio.NewWriter(w)
	res.w = res.bw
	return res
}

// Write implements io.Writer.
func (res *Response) Write(body []byte) (int, error) {
	res.mu.Lock()
	defer res.mu.Unlock()

	if res.ended {
		return 0, ErrResponseEnded
	}

	n, err := res.w.Write(body)
	res.written += int64(n)
	return n, err
}

// WriteString implements io.StringWriter.
func (res *Response) WriteString(body string) (int, error) {
	return res.Write([]byte(body))
}

// Send writes body and ends the response.
func (res *Response) Send(body string) error {
	return res.SendBytes([]byte(body))
}

// SendBytes writes body and ends the response.
func (res *Response) SendBytes(body []byte) error {
	if _, err := res.Write(body); err != nil {
		return err
	}
	res.End()
	return nil
}

// SendFile streams the file at path and ends the response.
// Nothing is written if the file cannot be opened.
func (res *Response) SendFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return serr.Wrap(err, "unable to open file", "path", path)
	}
	defer f.Close()

	if _, err = io.Copy(res, f); err != nil {
		return serr.Wrap(err, "unable to send file", "path", path)
	}

	res.End()
	return nil
}

// JSON encodes v as one line of JSON and ends the response.
func (res *Response) JSON(v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return serr.Wrap(err, "unable to encode json")
	}
	return res.SendBytes(append(body, '\n'))
}

// OnEnd registers fn to run when the response ends.
// If the response has already ended, fn runs immediately.
func (res *Response) OnEnd(fn func()) {
	res.mu.Lock()
	if !res.ended {
		res.onEnd = append(res.onEnd, fn)
		res.mu.Unlock()
		return
	}
	res.mu.Unlock()
	fn()
}

// End marks the response as complete. Further writes fail.
// Calling End more than once is harmless.
func (res *Response) End() {
	res.mu.Lock()
	if res.ended {
		res.mu.Unlock()
		return
	}
	res.ended = true
	hooks := res.onEnd
	res.onEnd = nil
	close(res.done)
	res.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
}

// Ended reports whether End has been called.
func (res *Response) Ended() bool {
	res.mu.Lock()
	defer res.mu.Unlock()
	return res.ended
}

// Done is closed when the response ends.
func (res *Response) Done() <-chan struct{} {
	return res.done
}

// Written returns the number of body bytes written so far.
func (res *Response) Written() int64 {
	res.mu.Lock()
	defer res.mu.Unlock()
	return res.written
}

// Body returns the body of an in-memory response, nil otherwise.
func (res *Response) Body() []byte {
	res.mu.Lock()
	defer res.mu.Unlock()

	if res.buf == nil {
		return nil
	}
	return res.buf.Bytes()
}

// flush pushes buffered bytes to the connection.
func (res *Response) flush() error {
	res.mu.Lock()
	defer res.mu.Unlock()

	if res.bw == nil {
		return nil
	}
	return res.bw.Flush()
}

// writeFinal writes a closing line on behalf of the server, even after End.
func (res *Response) writeFinal(line string) {
	res.mu.Lock()
	defer res.mu.Unlock()

	n, _ := io.WriteString(res.w, line)
	res.written += int64(n)
}
