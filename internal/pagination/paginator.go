package pagination

import (
	"strconv"
	"strings"

	"blog/internal/entity"
)

// InvalidPage is what ParsePageNumber returns for input that names no page.
// Paginating with it yields an empty, still valid, page.
const InvalidPage = 0

// Page is one slice of a feed.
type Page struct {
	Posts    []entity.Post
	Number   int
	NumPages int
	Total    int64
	PerPage  int
}

// Window describes which rows to fetch for a requested page.
type Window struct {
	Offset int
	Limit  int
	Empty  bool // no rows should be fetched at all
}

// ParsePageNumber reads the "page" query value. An absent value is page 1.
func ParsePageNumber(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return InvalidPage
	}
	return n
}

// NumPages never returns less than 1: an empty feed still has an (empty) first page.
func NumPages(total int64, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 1
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}

// Locate computes the row window for page number among total rows.
// Out of range numbers produce an empty window rather than an error.
func Locate(total int64, number, perPage int) Window {
	if number < 1 || perPage <= 0 || number > NumPages(total, perPage) {
		return Window{Empty: true}
	}
	return Window{Offset: (number - 1) * perPage, Limit: perPage}
}

func NewPage(posts []entity.Post, total int64, number, perPage int) Page {
	if posts == nil {
		posts = []entity.Post{}
	}
	return Page{
		Posts:    posts,
		Number:   number,
		NumPages: NumPages(total, perPage),
		Total:    total,
		PerPage:  perPage,
	}
}

func (p Page) IsEmpty() bool {
	return len(p.Posts) == 0
}

func (p Page) InRange() bool {
	return p.Number >= 1 && p.Number <= p.NumPages
}

func (p Page) HasPrevious() bool {
	return p.InRange() && p.Number > 1
}

func (p Page) HasNext() bool {
	return p.InRange() && p.Number < p.NumPages
}

func (p Page) HasOtherPages() bool {
	return p.HasPrevious() || p.HasNext()
}

func (p Page) PreviousNumber() int {
	return p.Number - 1
}

func (p Page) NextNumber() int {
	return p.Number + 1
}

// Range lists every page number, for rendering the page links.
func (p Page) Range() []int {
	pages := make([]int, p.NumPages)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}
