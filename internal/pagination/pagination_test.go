package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	cases := []struct {
		name     string
		raw      string
		total    int64
		number   int
		numPages int
	}{
		{"default", "", 25, 1, 3},
		{"explicit", "2", 25, 2, 3},
		{"last", "3", 25, 3, 3},
		{"past end", "9", 25, 3, 3},
		{"zero", "0", 25, 3, 3},
		{"negative", "-4", 25, 3, 3},
		{"garbage", "abc", 25, 1, 3},
		{"empty listing", "", 0, 1, 1},
		{"empty listing past end", "5", 0, 1, 1},
		{"exact multiple", "2", 20, 2, 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := New(tc.raw, tc.total, PageSize)
			assert.Equal(t, tc.number, p.Number)
			assert.Equal(t, tc.numPages, p.NumPages)
			assert.Equal(t, (tc.number-1)*PageSize, p.Offset())
			assert.Equal(t, tc.number < tc.numPages, p.HasNext)
			assert.Equal(t, tc.number > 1, p.HasPrev)
		})
	}
}

func TestNewFallsBackToDefaultSize(t *testing.T) {
	p := New("", 11, 0)
	assert.Equal(t, PageSize, p.Size)
	assert.Equal(t, 2, p.NumPages)
}
