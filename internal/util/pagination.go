package util

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

func Calculate(page, size int) (from, limit int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > maxPageSize {
		size = defaultPageSize
	}
	from = (page - 1) * size
	return from, size
}
