package content

// VideoCursor хранит позицию просмотра внутри курса. Живет только в памяти
// диалога и не сохраняется в базе.
type VideoCursor struct {
	CourseID int64
	Index    int
}

// OpenCursor открывает курс с первого видео
func OpenCursor(courseID int64) *VideoCursor {
	return &VideoCursor{CourseID: courseID}
}

// Next переходит к следующему видео, не выходя за последнее
func (c *VideoCursor) Next(total int) {
	if c.Index < total-1 {
		c.Index++
	}
}

// Prev переходит к предыдущему видео, не выходя за первое
func (c *VideoCursor) Prev() {
	if c.Index > 0 {
		c.Index--
	}
}

// Clamp возвращает позицию в допустимые границы. Нужен, когда курс изменился
// между нажатиями кнопок.
func (c *VideoCursor) Clamp(total int) {
	if total <= 0 {
		c.Index = 0
		return
	}
	if c.Index < 0 {
		c.Index = 0
	}
	if c.Index > total-1 {
		c.Index = total - 1
	}
}

// HasPrev сообщает, есть ли видео до текущего
func (c *VideoCursor) HasPrev() bool {
	return c.Index > 0
}

// HasNext сообщает, есть ли видео после текущего
func (c *VideoCursor) HasNext(total int) bool {
	return c.Index < total-1
}
