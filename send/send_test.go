package send_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rohanthewiz/assert"
	"github.com/rohanthewiz/element"
	"github.com/rohanthewiz/rline"
	"github.com/rohanthewiz/rline/send"
)

type greeting struct {
	Name string
}

func (g greeting) Render(b *element.Builder) any {
	b.DivClass("greeting").T("Hello " + g.Name)
	return nil
}

func newServer() *rline.Server {
	return rline.NewServer(rline.ServerOptions{Logger: rline.NewLogger(&strings.Builder{}, "error")})
}

func TestSenders(t *testing.T) {
	s := newServer()

	dir := t.TempDir()
	filePath := filepath.Join(dir, "about.txt")
	assert.Nil(t, os.WriteFile(filePath, []byte("about us"), 0o644))

	assert.Nil(t, s.Get("/text", func(req *rline.Request, res *rline.Response, next rline.Next) {
		send.Error(next, send.Text(res, "Hello"))
	}))
	assert.Nil(t, s.Get("/lines", func(req *rline.Request, res *rline.Response, next rline.Next) {
		send.Error(next, send.Lines(res, "one", "two"))
	}))
	assert.Nil(t, s.Get("/json", func(req *rline.Request, res *rline.Response, next rline.Next) {
		send.Error(next, send.JSON(res, struct{ Name string }{Name: "User 1"}))
	}))
	assert.Nil(t, s.Get("/file", func(req *rline.Request, res *rline.Response, next rline.Next) {
		send.Error(next, send.File(res, filePath))
	}))
	assert.Nil(t, s.Get("/html", func(req *rline.Request, res *rline.Response, next rline.Next) {
		send.Error(next, send.HTML(res, greeting{Name: "Ada"}))
	}))

	tests := []struct {
		line string
		want string
	}{
		{"/text\r\n", "Hello"},
		{"/lines\r\n", "one\r\ntwo\r\n"},
		{"/json\r\n", "{\"Name\":\"User 1\"}\n"},
		{"/file\r\n", "about us"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			res := s.Request(tt.line)
			assert.Equal(t, string(res.Body()), tt.want)
		})
	}

	res := s.Request("/html\r\n")
	assert.Contains(t, string(res.Body()), "Hello Ada")
	assert.Contains(t, string(res.Body()), "greeting")
}

func TestFileMissing(t *testing.T) {
	s := newServer()

	assert.Nil(t, s.Get("/missing", func(req *rline.Request, res *rline.Response, next rline.Next) {
		send.Error(next, send.File(res, filepath.Join(t.TempDir(), "nope.txt")))
	}))

	res := s.Request("/missing\r\n")
	assert.True(t, strings.HasPrefix(string(res.Body()), "ERR "))
}

func TestErrorNil(t *testing.T) {
	called := false
	send.Error(func(rline.Outcome) { called = true }, nil)
	assert.False(t, called)

	var got rline.Outcome
	boom := errors.New("boom")
	send.Error(func(o rline.Outcome) { got = o }, boom)
	assert.True(t, got.Err() == boom)
}
