package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		page     int
		perPage  int
		expected Page
	}{
		{
			name:    "одна неполная страница",
			total:   3,
			page:    0,
			perPage: 5,
			expected: Page{
				Index: 0, TotalPages: 1, Start: 0, End: 3,
				HasPrev: false, HasNext: false,
			},
		},
		{
			name:    "ровно одна полная страница",
			total:   5,
			page:    0,
			perPage: 5,
			expected: Page{
				Index: 0, TotalPages: 1, Start: 0, End: 5,
				HasPrev: false, HasNext: false,
			},
		},
		{
			name:    "первая из нескольких",
			total:   12,
			page:    0,
			perPage: 5,
			expected: Page{
				Index: 0, TotalPages: 3, Start: 0, End: 5,
				HasPrev: false, HasNext: true,
			},
		},
		{
			name:    "средняя страница",
			total:   12,
			page:    1,
			perPage: 5,
			expected: Page{
				Index: 1, TotalPages: 3, Start: 5, End: 10,
				HasPrev: true, HasNext: true,
			},
		},
		{
			name:    "последняя неполная страница",
			total:   12,
			page:    2,
			perPage: 5,
			expected: Page{
				Index: 2, TotalPages: 3, Start: 10, End: 12,
				HasPrev: true, HasNext: false,
			},
		},
		{
			name:    "номер за пределами приводится к последней",
			total:   12,
			page:    99,
			perPage: 5,
			expected: Page{
				Index: 2, TotalPages: 3, Start: 10, End: 12,
				HasPrev: true, HasNext: false,
			},
		},
		{
			name:    "отрицательный номер приводится к первой",
			total:   12,
			page:    -1,
			perPage: 5,
			expected: Page{
				Index: 0, TotalPages: 3, Start: 0, End: 5,
				HasPrev: false, HasNext: true,
			},
		},
		{
			name:    "по одному элементу на страницу",
			total:   4,
			page:    2,
			perPage: 1,
			expected: Page{
				Index: 2, TotalPages: 4, Start: 2, End: 3,
				HasPrev: true, HasNext: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Paginate(tt.total, tt.page, tt.perPage))
		})
	}
}

func TestPaginateEmpty(t *testing.T) {
	page := Paginate(0, 0, 5)

	assert.True(t, page.IsEmpty())
	assert.False(t, page.HasPrev)
	assert.False(t, page.HasNext)
}

func TestPaginateSlicesCoverCollection(t *testing.T) {
	// Страницы покрывают коллекцию целиком и не пересекаются
	const total, perPage = 17, 5

	covered := 0
	for i := 0; ; i++ {
		page := Paginate(total, i, perPage)
		assert.Equal(t, covered, page.Start)
		covered = page.End
		if !page.HasNext {
			break
		}
	}

	assert.Equal(t, total, covered)
}
