package store

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
	MaxPageNumber    = 100_000
)

type Page struct {
	Number int
	Limit  int
}

// NewPage clamps the limit to [1, MaxPageLimit] and the page number to
// [1, MaxPageNumber], so the offset always fits.
func NewPage(number, limit int) Page {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	if number < 1 {
		number = 1
	}
	if number > MaxPageNumber {
		number = MaxPageNumber
	}
	return Page{Number: number, Limit: limit}
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

func (p Page) TotalPages(total int) int {
	if p.Limit <= 0 {
		return 0
	}
	return (total + p.Limit - 1) / p.Limit
}
