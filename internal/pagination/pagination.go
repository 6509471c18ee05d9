// Package pagination resolves a requested page number against a result size.
package pagination

import "strconv"

// PageSize is the number of items on every listing page.
const PageSize = 10

// Page describes one slice of a listing.
type Page struct {
	Number   int   `json:"number"`
	Size     int   `json:"size"`
	NumPages int   `json:"num_pages"`
	Total    int64 `json:"total"`
	HasNext  bool  `json:"has_next"`
	HasPrev  bool  `json:"has_previous"`
}

// New resolves raw (the ?page= value) for a listing of total items. A
// missing or non-numeric value yields the first page; any number outside
// [1, NumPages] yields the last page. An empty listing still has one page.
func New(raw string, total int64, size int) Page {
	if size <= 0 {
		size = PageSize
	}

	numPages := 1
	if total > 0 {
		numPages = int((total + int64(size) - 1) / int64(size))
	}

	number := 1
	if raw != "" {
		n, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			number = 1
		case n < 1 || n > numPages:
			number = numPages
		default:
			number = n
		}
	}

	return Page{
		Number:   number,
		Size:     size,
		NumPages: numPages,
		Total:    total,
		HasNext:  number < numPages,
		HasPrev:  number > 1,
	}
}

// Offset is the number of rows to skip before this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}
