package rtr_test

import (
	"testing"

	"github.com/rohanthewiz/assert"
	"github.com/rohanthewiz/rline/core/rtr"
)

func TestHashRouterLookup(t *testing.T) {
	r := rtr.NewHashRouter[string]()
	r.Add("/blog", "Blog")
	r.Add("/blog/post", "Blog post")

	data, ok := r.Lookup("/blog")
	assert.True(t, ok)
	assert.Equal(t, data, "Blog")

	data, ok = r.Lookup("/blog/post")
	assert.True(t, ok)
	assert.Equal(t, data, "Blog post")

	notFound := []string{
		"",
		"/",
		"/404",
		"/blo",
		"/blog/",
	}

	for _, path := range notFound {
		data, ok = r.Lookup(path)
		assert.False(t, ok)
		assert.Equal(t, data, "")
	}
}

func TestHashRouterOrder(t *testing.T) {
	r := rtr.NewHashRouter[int]()
	r.Add("/c", 1)
	r.Add("/a", 2)
	r.Add("/b", 3)
	r.Add("/a", 4) // replace keeps the original position

	var paths []string
	var values []int
	r.Each(func(path string, value int) {
		paths = append(paths, path)
		values = append(values, value)
	})

	assert.Equal(t, r.Len(), 3)
	assert.Equal(t, len(paths), 3)
	assert.Equal(t, paths[0], "/c")
	assert.Equal(t, paths[1], "/a")
	assert.Equal(t, paths[2], "/b")
	assert.Equal(t, values[1], 4)
}
