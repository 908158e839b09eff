package rline_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rohanthewiz/assert"
	"github.com/rohanthewiz/rline"
)

func TestResponseWriteAndEnd(t *testing.T) {
	res := rline.NewResponse(nil)

	_, err := res.WriteString("Hello ")
	assert.Nil(t, err)
	assert.False(t, res.Ended())

	ended := 0
	res.OnEnd(func() { ended++ })

	assert.Nil(t, res.Send("World"))
	assert.True(t, res.Ended())
	assert.Equal(t, ended, 1)
	assert.Equal(t, string(res.Body()), "Hello World")
	assert.Equal(t, res.Written(), int64(11))

	_, err = res.Write([]byte("more"))
	assert.True(t, errors.Is(err, rline.ErrResponseEnded))

	res.End()
	assert.Equal(t, ended, 1)

	// a hook registered after the end runs right away
	res.OnEnd(func() { ended++ })
	assert.Equal(t, ended, 2)

	select {
	case <-res.Done():
	default:
		t.Fatal("done channel should be closed")
	}
}

func TestResponseJSON(t *testing.T) {
	res := rline.NewResponse(nil)
	assert.Nil(t, res.JSON(map[string]int{"answer": 42}))
	assert.Equal(t, string(res.Body()), "{\"answer\":42}\n")
	assert.True(t, res.Ended())

	res = rline.NewResponse(nil)
	assert.NotEqual(t, res.JSON(make(chan int)), nil)
	assert.False(t, res.Ended())
}

func TestResponseSendFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hello.txt")
	assert.Nil(t, os.WriteFile(path, []byte("file body"), 0o644))

	res := rline.NewResponse(nil)
	assert.Nil(t, res.SendFile(path))
	assert.Equal(t, string(res.Body()), "file body")
	assert.True(t, res.Ended())

	res = rline.NewResponse(nil)
	assert.NotEqual(t, res.SendFile(filepath.Join(dir, "missing.txt")), nil)
	assert.False(t, res.Ended())
	assert.Equal(t, res.Written(), int64(0))
}

func TestResponseToWriter(t *testing.T) {
	var out bytes.Buffer
	res := rline.NewResponse(&out)

	assert.Nil(t, res.Send("buffered"))
	assert.Nil(t, res.Body())
}
