package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		current    int
		totalPages int
		want       []int
	}{
		{name: "first page", current: 1, totalPages: 12, want: []int{1, 2, 3, 4, 5}},
		{name: "last page", current: 12, totalPages: 12, want: []int{8, 9, 10, 11, 12}},
		{name: "middle page", current: 6, totalPages: 12, want: []int{4, 5, 6, 7, 8}},
		{name: "near start", current: 2, totalPages: 12, want: []int{1, 2, 3, 4, 5}},
		{name: "near end", current: 11, totalPages: 12, want: []int{8, 9, 10, 11, 12}},
		{name: "fewer pages than window", current: 2, totalPages: 3, want: []int{1, 2, 3}},
		{name: "single page", current: 1, totalPages: 1, want: []int{1}},
		{name: "current out of range high", current: 99, totalPages: 12, want: []int{8, 9, 10, 11, 12}},
		{name: "current out of range low", current: 0, totalPages: 12, want: []int{1, 2, 3, 4, 5}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Window(tt.current, tt.totalPages, WindowSize))
		})
	}
}

func TestWindowDegenerate(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Window(1, 0, WindowSize))
	assert.Nil(t, Window(1, 10, 0))
}
