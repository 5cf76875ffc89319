package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCursorNavigation(t *testing.T) {
	const total = 3
	cursor := OpenCursor(42)

	assert.Equal(t, int64(42), cursor.CourseID)
	assert.Equal(t, 0, cursor.Index)
	assert.False(t, cursor.HasPrev())
	assert.True(t, cursor.HasNext(total))

	// Назад с первого видео никуда не ведет
	cursor.Prev()
	assert.Equal(t, 0, cursor.Index)

	cursor.Next(total)
	assert.Equal(t, 1, cursor.Index)
	assert.True(t, cursor.HasPrev())
	assert.True(t, cursor.HasNext(total))

	cursor.Next(total)
	assert.Equal(t, 2, cursor.Index)
	assert.False(t, cursor.HasNext(total))

	// Вперед с последнего видео никуда не ведет
	cursor.Next(total)
	assert.Equal(t, 2, cursor.Index)

	cursor.Prev()
	assert.Equal(t, 1, cursor.Index)
}

func TestCursorClamp(t *testing.T) {
	tests := []struct {
		name     string
		index    int
		total    int
		expected int
	}{
		{name: "в границах", index: 2, total: 5, expected: 2},
		{name: "курс сократился", index: 4, total: 2, expected: 1},
		{name: "курс опустел", index: 3, total: 0, expected: 0},
		{name: "отрицательная позиция", index: -1, total: 5, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cursor := &VideoCursor{CourseID: 1, Index: tt.index}
			cursor.Clamp(tt.total)
			assert.Equal(t, tt.expected, cursor.Index)
		})
	}
}

func TestCursorSingleVideo(t *testing.T) {
	cursor := OpenCursor(1)

	assert.False(t, cursor.HasPrev())
	assert.False(t, cursor.HasNext(1))
}
