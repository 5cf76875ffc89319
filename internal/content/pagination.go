package content

// Размер страницы для каждого типа коллекции
const (
	CoursesPerPage      = 5
	AchievementsPerPage = 3
	ArticlesPerPage     = 1
)

// Page описывает одну страницу коллекции и доступные переходы
type Page struct {
	Index      int  // номер страницы, с 0
	TotalPages int  // всего страниц, 0 для пустой коллекции
	Start      int  // индекс первого элемента страницы
	End        int  // индекс за последним элементом страницы
	HasPrev    bool // есть ли предыдущая страница
	HasNext    bool // есть ли следующая страница
}

// IsEmpty сообщает, что коллекция пуста и показывать нечего
func (p Page) IsEmpty() bool {
	return p.TotalPages == 0
}

// Paginate вычисляет границы страницы для коллекции из total элементов.
// Номер страницы за пределами коллекции приводится к ближайшей допустимой
// странице, сами переходы наружу никогда не генерируются.
func Paginate(total, page, perPage int) Page {
	if total <= 0 || perPage <= 0 {
		return Page{}
	}

	totalPages := (total + perPage - 1) / perPage

	if page < 0 {
		page = 0
	}
	if page > totalPages-1 {
		page = totalPages - 1
	}

	start := page * perPage
	end := start + perPage
	if end > total {
		end = total
	}

	return Page{
		Index:      page,
		TotalPages: totalPages,
		Start:      start,
		End:        end,
		HasPrev:    page > 0,
		HasNext:    page < totalPages-1,
	}
}
