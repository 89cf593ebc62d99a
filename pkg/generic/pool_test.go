package generic

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolResetsOnPut(t *testing.T) {
	p := NewPool(func() *bytes.Buffer { return new(bytes.Buffer) }, func(b *bytes.Buffer) { b.Reset() })

	buf := p.Get()
	require.NotNil(t, buf)
	buf.WriteString("frame")
	p.Put(buf)

	// Whatever comes back, pooled or fresh, is empty.
	assert.Zero(t, p.Get().Len())
}

func TestHotPool(t *testing.T) {
	created := 0
	p := NewHotPool(func() int { created++; return created }, nil, 3)
	assert.Equal(t, 3, created)
	assert.Positive(t, p.Get())
}
