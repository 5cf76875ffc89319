package bot

import (
	"fmt"
	"testing"

	"courses-bot/internal/content"
	"courses-bot/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNavigationRow(t *testing.T) {
	tests := []struct {
		name     string
		page     content.Page
		expected []string
	}{
		{
			name:     "единственная страница без переходов",
			page:     content.Paginate(3, 0, 5),
			expected: nil,
		},
		{
			name:     "первая страница только вперед",
			page:     content.Paginate(12, 0, 5),
			expected: []string{"page_1"},
		},
		{
			name:     "средняя страница в обе стороны",
			page:     content.Paginate(12, 1, 5),
			expected: []string{"page_0", "page_2"},
		},
		{
			name:     "последняя страница только назад",
			page:     content.Paginate(12, 2, 5),
			expected: []string{"page_1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := navigationRow(tt.page, "page_")

			var data []string
			for _, button := range row {
				require.NotNil(t, button.CallbackData)
				data = append(data, *button.CallbackData)
			}

			assert.Equal(t, tt.expected, data)
		})
	}
}

func TestCoursesKeyboardShowsOnlyCurrentPage(t *testing.T) {
	var courses []*models.Course
	for i := 1; i <= 12; i++ {
		courses = append(courses, &models.Course{ID: int64(i), Name: fmt.Sprintf("Курс %d", i)})
	}

	page := content.Paginate(len(courses), 2, content.CoursesPerPage)
	markup := coursesKeyboard(courses, page)

	// Последняя страница: 2 курса, ряд навигации и главное меню
	require.Len(t, markup.InlineKeyboard, 4)
	assert.Equal(t, "course_11", *markup.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "course_12", *markup.InlineKeyboard[1][0].CallbackData)
	assert.Equal(t, "page_1", *markup.InlineKeyboard[2][0].CallbackData)
	assert.Equal(t, "back_to_main", *markup.InlineKeyboard[3][0].CallbackData)
}

func TestVideoKeyboard(t *testing.T) {
	const total = 3

	// Первое видео: только вперед
	cursor := content.OpenCursor(1)
	markup := videoKeyboard(cursor, total)
	require.Len(t, markup.InlineKeyboard, 2)
	assert.Equal(t, "next_video", *markup.InlineKeyboard[0][0].CallbackData)

	// Среднее видео: в обе стороны
	cursor.Next(total)
	markup = videoKeyboard(cursor, total)
	require.Len(t, markup.InlineKeyboard, 2)
	assert.Equal(t, "prev_video", *markup.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "next_video", *markup.InlineKeyboard[0][1].CallbackData)

	// Последнее видео: только назад
	cursor.Next(total)
	markup = videoKeyboard(cursor, total)
	require.Len(t, markup.InlineKeyboard, 2)
	assert.Equal(t, "prev_video", *markup.InlineKeyboard[0][0].CallbackData)
	assert.Len(t, markup.InlineKeyboard[0], 1)

	// Курс из одного видео: только главное меню
	single := content.OpenCursor(1)
	markup = videoKeyboard(single, 1)
	require.Len(t, markup.InlineKeyboard, 1)
	assert.Equal(t, "back_to_main", *markup.InlineKeyboard[0][0].CallbackData)
}

func TestPagedKeyboard(t *testing.T) {
	// Одна статья на страницу, вторая из трех
	page := content.Paginate(3, 1, content.ArticlesPerPage)
	markup := pagedKeyboard(page, "articles_page_")

	require.Len(t, markup.InlineKeyboard, 2)
	assert.Equal(t, "articles_page_0", *markup.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "articles_page_2", *markup.InlineKeyboard[0][1].CallbackData)
	assert.Equal(t, "back_to_main", *markup.InlineKeyboard[1][0].CallbackData)
}
