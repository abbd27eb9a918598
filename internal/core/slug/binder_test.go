package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBinder_KeyUpOverwritesTarget(t *testing.T) {
	title := NewTextField("")
	target := NewTextField("stale-value")
	b := Bind(title, target, nil)

	title.SetValue("Hello")
	assert.Equal(t, "hello", b.KeyUp())
	assert.Equal(t, "hello", target.Value())

	title.SetValue("Hello World")
	b.KeyUp()
	assert.Equal(t, "hello-world", target.Value())

	title.SetValue("")
	b.KeyUp()
	assert.Equal(t, "", target.Value())
}

func TestBinder_UsesGivenDeriver(t *testing.T) {
	title := NewTextField("a - b -- c")
	target := NewTextField("")

	Bind(title, target, DeriveCollapsed).KeyUp()
	assert.Equal(t, "a-b-c", target.Value())
}

func TestBinder_PairsAreIndependent(t *testing.T) {
	t1, s1 := NewTextField("First Post"), NewTextField("")
	t2, s2 := NewTextField("Second Post"), NewTextField("")
	b1 := Bind(t1, s1, nil)
	Bind(t2, s2, nil)

	b1.KeyUp()
	assert.Equal(t, "first-post", s1.Value())
	assert.Equal(t, "", s2.Value())
}
