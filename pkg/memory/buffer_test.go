package memory

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuffer(t *testing.T) {
	t.Run("drops oldest when full", func(t *testing.T) {
		b := NewBuffer[int](3)
		for i := 1; i <= 5; i++ {
			b.Store(i)
		}
		assert.Equal(t, []int{3, 4, 5}, b.All())
		assert.Equal(t, 3, b.Len())
		assert.Equal(t, 3, b.Capacity())
	})

	t.Run("last", func(t *testing.T) {
		b := NewBuffer[string](10)
		b.Store("a")
		b.Store("b")
		b.Store("c")
		assert.Equal(t, []string{"b", "c"}, b.Last(2))
		assert.Equal(t, []string{"a", "b", "c"}, b.Last(10))
		assert.Empty(t, b.Last(0))
	})

	t.Run("all returns a copy", func(t *testing.T) {
		b := NewBuffer[int](2)
		b.Store(1)
		items := b.All()
		items[0] = 42
		assert.Equal(t, []int{1}, b.All())
	})

	t.Run("sample", func(t *testing.T) {
		b := NewBuffer[int](4)
		assert.Nil(t, b.Sample(rand.New(rand.NewSource(1)), 2))

		b.Store(7)
		b.Store(8)
		batch := b.Sample(rand.New(rand.NewSource(1)), 5)
		require.Len(t, batch, 5)
		for _, v := range batch {
			assert.Contains(t, []int{7, 8}, v)
		}
	})

	t.Run("reset", func(t *testing.T) {
		b := NewBuffer[int](0)
		b.Store(1)
		b.Store(2)
		assert.Equal(t, []int{2}, b.All())
		b.Reset()
		assert.Zero(t, b.Len())
	})
}
