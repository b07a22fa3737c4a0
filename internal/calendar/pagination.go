package calendar

const (
	defaultPageSize = 20
	maxPageSize     = 200
)

// PageRequest — параметры постраничной выдачи. Нулевое значение означает "всё сразу".
type PageRequest struct {
	Page     int
	PageSize int
}

func (p PageRequest) IsZero() bool { return p.Page == 0 && p.PageSize == 0 }

// Normalize заменяет некорректные значения дефолтами.
func (p PageRequest) Normalize() (page, size int) {
	page, size = p.Page, p.PageSize
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	if page <= 0 {
		page = 1
	}
	return page, size
}

// Offset — смещение первой записи страницы.
func (p PageRequest) Offset() int {
	page, size := p.Normalize()
	return (page - 1) * size
}

// Page описывает одну страницу элементов.
type Page[T any] struct {
	Items    []T
	Page     int // с 1
	PageSize int
	HasNext  bool
	HasPrev  bool
	Total    int
}

// Paginate режет items по запросу. Некорректные значения заменяются дефолтами,
// нулевой запрос отдаёт все элементы одной страницей.
func Paginate[T any](items []T, req PageRequest) Page[T] {
	total := len(items)
	if req.IsZero() {
		return Page[T]{Items: items, Page: 1, PageSize: total, Total: total}
	}

	page, size := req.Normalize()
	start := min((page-1)*size, total)
	end := min(start+size, total)

	return Page[T]{
		Items:    items[start:end],
		Page:     page,
		PageSize: size,
		HasNext:  end < total,
		HasPrev:  page > 1,
		Total:    total,
	}
}
